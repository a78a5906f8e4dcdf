package expense

import (
	"github.com/gofiber/fiber/v2"
	"github.com/homebudget/budget-backend/internal/config"
	"gorm.io/gorm"
)

type ExpensePlugin struct{}

func New() *ExpensePlugin {
	return &ExpensePlugin{}
}

func (p *ExpensePlugin) ID() string { return "expenses" }

func (p *ExpensePlugin) RegisterRoutes(router fiber.Router, auth fiber.Handler, db *gorm.DB, cfg *config.Config) {
	svc := NewExpenseService(db)
	handler := NewExpenseHandler(svc)

	router.Get("/expenses", auth, handler.List)
	router.Post("/expenses", auth, handler.Create)
	router.Get("/expenses/:id", auth, handler.Get)
	router.Put("/expenses/:id", auth, handler.Update)
	router.Delete("/expenses/:id", auth, handler.Delete)
	router.Get("/budgets/:id/expenses", auth, handler.ListForBudget)
}
