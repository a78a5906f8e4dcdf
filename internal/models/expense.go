package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Expense struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"budget_id"`
	Description string         `gorm:"size:255;not null" json:"description"`
	Category    string         `gorm:"size:60" json:"category"`
	Amount      float64        `gorm:"type:decimal(12,2);not null" json:"amount"`
	SpentAt     time.Time      `gorm:"not null;index" json:"spent_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
