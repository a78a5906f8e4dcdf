package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateBudgetRequest struct {
	Name        string     `json:"name" validate:"required,max=120"`
	Category    string     `json:"category" validate:"max=60"`
	Description string     `json:"description" validate:"max=2000"`
	Amount      float64    `json:"amount" validate:"gte=0"`
	ImageURL    string     `json:"image_url" validate:"omitempty,max=2048"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type UpdateBudgetRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=120"`
	Category    *string    `json:"category" validate:"omitempty,max=60"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Amount      *float64   `json:"amount" validate:"omitempty,gte=0"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,max=2048"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type BudgetSummary struct {
	BudgetID     uuid.UUID `json:"budget_id"`
	Amount       float64   `json:"amount"`
	Spent        float64   `json:"spent"`
	Remaining    float64   `json:"remaining"`
	ExpenseCount int64     `json:"expense_count"`
}

type UploadResponse struct {
	ImageURL string `json:"image_url"`
}

type CreateExpenseRequest struct {
	BudgetID    uuid.UUID  `json:"budget_id" validate:"required"`
	Description string     `json:"description" validate:"required,max=255"`
	Category    string     `json:"category" validate:"max=60"`
	Amount      float64    `json:"amount" validate:"gt=0"`
	SpentAt     *time.Time `json:"spent_at"`
}

type UpdateExpenseRequest struct {
	BudgetID    *uuid.UUID `json:"budget_id"`
	Description *string    `json:"description" validate:"omitempty,min=1,max=255"`
	Category    *string    `json:"category" validate:"omitempty,max=60"`
	Amount      *float64   `json:"amount" validate:"omitempty,gt=0"`
	SpentAt     *time.Time `json:"spent_at"`
}
