package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/homebudget/budget-backend/internal/apps"
	"github.com/homebudget/budget-backend/internal/config"
	"github.com/homebudget/budget-backend/internal/handlers"
	"github.com/homebudget/budget-backend/internal/middleware"
	"github.com/homebudget/budget-backend/internal/token"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	tokens *token.Manager,
	validator *middleware.TokenValidator,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	jwt := middleware.JWTProtected(tokens, validator)

	// General rate limiter: 120 req/min per IP
	app.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	app.Get("/health", healthHandler.Check)

	// Uploaded budget images are public so <img> tags can load them.
	app.Static("/uploads", cfg.UploadDir, fiber.Static{
		MaxAge: 86400,
	})

	// Auth: stricter limit, 10 req/min per IP
	auth := app.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/logout", jwt, authHandler.Logout)

	users := app.Group("/users", jwt)
	users.Get("/me", userHandler.Me)
	users.Put("/me", userHandler.UpdateMe)
	users.Put("/me/password", userHandler.ChangePassword)
	users.Delete("/me", userHandler.DeleteMe)

	// Plugins attach jwt per route so unmatched paths still fall through to 404.
	for _, p := range plugins {
		p.RegisterRoutes(app, jwt, db, cfg)
	}
}
