package apps

import (
	"github.com/gofiber/fiber/v2"
	"github.com/homebudget/budget-backend/internal/config"
	"gorm.io/gorm"
)

// Plugin is a feature module mounted on the authenticated API.
type Plugin interface {
	// ID names the module in logs.
	ID() string

	// RegisterRoutes mounts the module's routes on router. auth runs the JWT
	// and revocation checks and must lead every route's handler chain.
	RegisterRoutes(router fiber.Router, auth fiber.Handler, db *gorm.DB, cfg *config.Config)
}
