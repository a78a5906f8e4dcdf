package budget

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/homebudget/budget-backend/internal/dto"
	"github.com/homebudget/budget-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrBudgetNotFound   = errors.New("budget not found")
	ErrNotOwner         = errors.New("you do not own this budget")
	ErrInvalidDateRange = errors.New("end_date must not be before start_date")
)

type BudgetService struct {
	db *gorm.DB
}

func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{db: db}
}

func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateBudgetRequest) (*models.Budget, error) {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	budget := models.Budget{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Amount:      req.Amount,
		ImageURL:    req.ImageURL,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	if err := s.db.WithContext(ctx).Create(&budget).Error; err != nil {
		return nil, err
	}

	return &budget, nil
}

func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	budgets := make([]models.Budget, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&budgets).Error
	return budgets, err
}

func (s *BudgetService) Get(ctx context.Context, userID, budgetID uuid.UUID) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).First(&budget, "id = ?", budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	if budget.UserID != userID {
		return nil, ErrNotOwner
	}

	return &budget, nil
}

func (s *BudgetService) Update(ctx context.Context, userID, budgetID uuid.UUID, req dto.UpdateBudgetRequest) (*models.Budget, error) {
	budget, err := s.Get(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		budget.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		budget.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		budget.Description = *req.Description
	}
	if req.Amount != nil {
		budget.Amount = *req.Amount
	}
	if req.ImageURL != nil {
		budget.ImageURL = *req.ImageURL
	}
	if req.StartDate != nil {
		budget.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		budget.EndDate = req.EndDate
	}

	if budget.StartDate != nil && budget.EndDate != nil && budget.EndDate.Before(*budget.StartDate) {
		return nil, ErrInvalidDateRange
	}

	if err := s.db.WithContext(ctx).Save(budget).Error; err != nil {
		return nil, err
	}

	return budget, nil
}

// Delete removes the budget and every expense booked against it.
func (s *BudgetService) Delete(ctx context.Context, userID, budgetID uuid.UUID) error {
	budget, err := s.Get(ctx, userID, budgetID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		return tx.Delete(budget).Error
	})
}

func (s *BudgetService) Summary(ctx context.Context, userID, budgetID uuid.UUID) (*dto.BudgetSummary, error) {
	budget, err := s.Get(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	var totals struct {
		Spent float64
		Count int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS spent, COUNT(*) AS count").
		Where("budget_id = ?", budget.ID).
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	return &dto.BudgetSummary{
		BudgetID:     budget.ID,
		Amount:       budget.Amount,
		Spent:        totals.Spent,
		Remaining:    budget.Amount - totals.Spent,
		ExpenseCount: totals.Count,
	}, nil
}
