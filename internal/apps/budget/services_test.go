package budget

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homebudget/budget-backend/internal/dto"
	"github.com/homebudget/budget-backend/internal/models"
	"github.com/homebudget/budget-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetCRUD(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewBudgetService(db)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, dto.CreateBudgetRequest{Name: " Groceries ", Category: "Food", Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", created.Name)

	_, err = svc.Create(ctx, owner, dto.CreateBudgetRequest{Name: "Travel", Amount: 1000})
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), dto.CreateBudgetRequest{Name: "Not mine", Amount: 5})
	require.NoError(t, err)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	amount := 450.0
	name := "Food"
	updated, err := svc.Update(ctx, owner, created.ID, dto.UpdateBudgetRequest{Amount: &amount, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 450.0, updated.Amount)
	assert.Equal(t, "Food", updated.Name)

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 450.0, got.Amount)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))
	_, err = svc.Get(ctx, owner, created.ID)
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestBudgetOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewBudgetService(db)
	ctx := context.Background()

	budget, err := svc.Create(ctx, uuid.New(), dto.CreateBudgetRequest{Name: "Private", Amount: 10})
	require.NoError(t, err)

	intruder := uuid.New()
	_, err = svc.Get(ctx, intruder, budget.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, svc.Delete(ctx, intruder, budget.ID), ErrNotOwner)

	_, err = svc.Get(ctx, intruder, uuid.New())
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestBudgetRejectsInvertedDates(t *testing.T) {
	svc := NewBudgetService(testutil.NewDB(t))
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateBudgetRequest{
		Name: "Backwards", StartDate: &start, EndDate: &end,
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestBudgetSummaryAndCascade(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewBudgetService(db)
	ctx := context.Background()
	owner := uuid.New()

	budget, err := svc.Create(ctx, owner, dto.CreateBudgetRequest{Name: "Household", Amount: 200})
	require.NoError(t, err)

	empty, err := svc.Summary(ctx, owner, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.Spent)
	assert.Equal(t, 200.0, empty.Remaining)

	for _, amount := range []float64{12.5, 37.5} {
		require.NoError(t, db.Create(&models.Expense{
			ID: uuid.New(), UserID: owner, BudgetID: budget.ID,
			Description: "item", Amount: amount, SpentAt: time.Now(),
		}).Error)
	}

	summary, err := svc.Summary(ctx, owner, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, summary.Spent)
	assert.Equal(t, 150.0, summary.Remaining)
	assert.Equal(t, int64(2), summary.ExpenseCount)

	require.NoError(t, svc.Delete(ctx, owner, budget.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.Expense{}).Where("budget_id = ?", budget.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
