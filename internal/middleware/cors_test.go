package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/homebudget/budget-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSAllowsOnlyConfiguredOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigin: "http://localhost:5173"}))
	app.Use(SecurityHeaders())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	cases := map[string]string{
		"http://localhost:5173": "http://localhost:5173",
		"https://evil.example":  "",
	}
	for origin, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.Header.Get("Access-Control-Allow-Origin"), origin)
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	}
}
