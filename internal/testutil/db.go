// Package testutil holds helpers shared by package tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/homebudget/budget-backend/internal/config"
	"github.com/homebudget/budget-backend/internal/database"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: "file:" + name + "?mode=memory&cache=shared",
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// TestConfig returns a configuration suitable for handler and service tests.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                 "test",
		CORSOrigin:          "http://localhost:5173",
		DBDriver:            config.DriverSQLite,
		JWTSecret:           "test-secret-do-not-use-in-production",
		JWTAccessExpiry:     time.Hour,
		FrontendURL:         "http://localhost:5173",
		PasswordResetExpiry: 30 * time.Minute,
		MaxUploadBytes:      1 << 20,
		UploadDir:           t.TempDir(),
		MailUseTLS:          true,
		MailPort:            587,
		LogRetentionDays:    30,
	}
}
