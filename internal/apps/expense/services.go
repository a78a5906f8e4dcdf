package expense

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homebudget/budget-backend/internal/dto"
	"github.com/homebudget/budget-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrNotOwner        = errors.New("you do not own this resource")
)

type ExpenseService struct {
	db *gorm.DB
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

func (s *ExpenseService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateExpenseRequest) (*models.Expense, error) {
	if err := s.checkBudget(ctx, userID, req.BudgetID); err != nil {
		return nil, err
	}

	spentAt := time.Now().UTC()
	if req.SpentAt != nil {
		spentAt = req.SpentAt.UTC()
	}

	expense := models.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		BudgetID:    req.BudgetID,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Amount:      req.Amount,
		SpentAt:     spentAt,
	}

	if err := s.db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}

	return &expense, nil
}

// List returns the user's expenses, newest first. A non-nil budgetID narrows
// the result to that budget, which must belong to the user.
func (s *ExpenseService) List(ctx context.Context, userID uuid.UUID, budgetID *uuid.UUID) ([]models.Expense, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if budgetID != nil {
		if err := s.checkBudget(ctx, userID, *budgetID); err != nil {
			return nil, err
		}
		query = query.Where("budget_id = ?", *budgetID)
	}

	expenses := make([]models.Expense, 0)
	err := query.Order("spent_at DESC").Find(&expenses).Error
	return expenses, err
}

func (s *ExpenseService) Get(ctx context.Context, userID, expenseID uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).First(&expense, "id = ?", expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	if expense.UserID != userID {
		return nil, ErrNotOwner
	}

	return &expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, userID, expenseID uuid.UUID, req dto.UpdateExpenseRequest) (*models.Expense, error) {
	expense, err := s.Get(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	if req.BudgetID != nil && *req.BudgetID != expense.BudgetID {
		if err := s.checkBudget(ctx, userID, *req.BudgetID); err != nil {
			return nil, err
		}
		expense.BudgetID = *req.BudgetID
	}
	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		expense.Category = strings.TrimSpace(*req.Category)
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.SpentAt != nil {
		expense.SpentAt = req.SpentAt.UTC()
	}

	if err := s.db.WithContext(ctx).Save(expense).Error; err != nil {
		return nil, err
	}

	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	expense, err := s.Get(ctx, userID, expenseID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(expense).Error
}

func (s *ExpenseService) checkBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	if budgetID == uuid.Nil {
		return ErrBudgetNotFound
	}

	var budget models.Budget
	if err := s.db.WithContext(ctx).Select("id", "user_id").First(&budget, "id = ?", budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBudgetNotFound
		}
		return err
	}

	if budget.UserID != userID {
		return ErrNotOwner
	}
	return nil
}
