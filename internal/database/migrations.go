package database

import (
	"sort"

	gormigrate "github.com/go-gormigrate/gormigrate/v2"
	"github.com/homebudget/budget-backend/internal/models"
	"gorm.io/gorm"
)

// Migrate applies every pending schema migration in ID order.
func Migrate(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrations()).Migrate()
}

func migrations() []*gormigrate.Migration {
	list := []*gormigrate.Migration{
		createUsers(),
		createTokenBlocklist(),
		createBudgetsAndExpenses(),
		createPasswordResets(),
		createSystemLogs(),
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list
}

func createUsers() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "20250210090000_create_users",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.User{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&models.User{})
		},
	}
}

func createTokenBlocklist() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "20250210090500_create_token_blocklist",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.RevokedToken{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&models.RevokedToken{})
		},
	}
}

func createBudgetsAndExpenses() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "20250211143000_create_budgets_and_expenses",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Budget{}, &models.Expense{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&models.Expense{}, &models.Budget{})
		},
	}
}

func createPasswordResets() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "20250302101500_create_password_resets",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.PasswordReset{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&models.PasswordReset{})
		},
	}
}

func createSystemLogs() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "20250318170000_create_system_logs",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.SystemLog{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&models.SystemLog{})
		},
	}
}
