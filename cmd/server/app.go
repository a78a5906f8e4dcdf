package main

import (
	"errors"
	"log/slog"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/homebudget/budget-backend/internal/apps"
	"github.com/homebudget/budget-backend/internal/apps/budget"
	"github.com/homebudget/budget-backend/internal/apps/expense"
	"github.com/homebudget/budget-backend/internal/config"
	"github.com/homebudget/budget-backend/internal/dto"
	"github.com/homebudget/budget-backend/internal/handlers"
	"github.com/homebudget/budget-backend/internal/mail"
	"github.com/homebudget/budget-backend/internal/middleware"
	"github.com/homebudget/budget-backend/internal/revocation"
	"github.com/homebudget/budget-backend/internal/routes"
	"github.com/homebudget/budget-backend/internal/services"
	"github.com/homebudget/budget-backend/internal/token"
	"gorm.io/gorm"
)

// newApp assembles the HTTP application from already-opened dependencies.
func newApp(cfg *config.Config, db *gorm.DB, registry revocation.Registry, mailer mail.Mailer, withSentry bool) *fiber.App {
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTAccessExpiry)
	validator := middleware.NewTokenValidator(registry)

	// Services
	authService := services.NewAuthService(db, cfg, tokens, registry, mailer)
	userService := services.NewUserService(db, registry)

	plugins := []apps.Plugin{
		budget.New(),
		expense.New(),
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(db)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.MaxUploadBytes + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	if withSentry {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, db, tokens, validator, authHandler, userHandler, healthHandler, plugins)
	for _, p := range plugins {
		slog.Debug("module mounted", "module", p.ID())
	}

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
