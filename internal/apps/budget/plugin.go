package budget

import (
	"github.com/gofiber/fiber/v2"
	"github.com/homebudget/budget-backend/internal/config"
	"gorm.io/gorm"
)

type BudgetPlugin struct{}

func New() *BudgetPlugin {
	return &BudgetPlugin{}
}

func (p *BudgetPlugin) ID() string { return "budgets" }

func (p *BudgetPlugin) RegisterRoutes(router fiber.Router, auth fiber.Handler, db *gorm.DB, cfg *config.Config) {
	svc := NewBudgetService(db)
	handler := NewBudgetHandler(svc, cfg)

	router.Get("/budgets", auth, handler.List)
	router.Post("/budgets", auth, handler.Create)
	router.Post("/budgets/upload", auth, handler.Upload)
	router.Get("/budgets/:id", auth, handler.Get)
	router.Put("/budgets/:id", auth, handler.Update)
	router.Delete("/budgets/:id", auth, handler.Delete)
	router.Get("/budgets/:id/summary", auth, handler.Summary)

	// The web client fetches a single budget from /budget/:id.
	router.Get("/budget/:id", auth, handler.Get)
}
