package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/homebudget/budget-backend/internal/database"
	"github.com/homebudget/budget-backend/internal/dto"
	"github.com/homebudget/budget-backend/internal/mail"
	"github.com/homebudget/budget-backend/internal/revocation"
	"github.com/homebudget/budget-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type flakyRegistry struct {
	revocation.Registry
	down bool
}

func (f *flakyRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if f.down {
		return false, revocation.ErrStorageUnavailable
	}
	return f.Registry.IsRevoked(ctx, tokenID)
}

func (f *flakyRegistry) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if f.down {
		return revocation.ErrStorageUnavailable
	}
	return f.Registry.Revoke(ctx, tokenID, expiresAt)
}

func newTestServer(t *testing.T) (*fiber.App, *gorm.DB, *flakyRegistry) {
	t.Helper()
	db := testutil.NewDB(t)
	registry := &flakyRegistry{Registry: revocation.NewDBRegistry(db)}
	app := newApp(testutil.TestConfig(t), db, registry, mail.NewLogMailer(), false)
	return app, db, registry
}

func send(t *testing.T, app *fiber.App, method, path, bearer string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func registerUser(t *testing.T, app *fiber.App, email string) dto.AuthResponse {
	t.Helper()
	status, body := send(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": "password123", "name": "Test",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal(body, &auth))
	require.NotEmpty(t, auth.AccessToken)
	return auth
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	app, _, _ := newTestServer(t)
	auth := registerUser(t, app, "logout@example.com")

	status, _ := send(t, app, http.MethodGet, "/budgets", auth.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body := send(t, app, http.MethodPost, "/auth/logout", auth.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, body = send(t, app, http.MethodGet, "/budgets", auth.AccessToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, string(body), "revoked")

	status, _ = send(t, app, http.MethodPost, "/auth/logout", auth.AccessToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// logging in again yields a fresh, usable token
	status, body = send(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "logout@example.com", "password": "password123",
	})
	require.Equal(t, fiber.StatusOK, status)
	var again dto.AuthResponse
	require.NoError(t, json.Unmarshal(body, &again))

	status, _ = send(t, app, http.MethodGet, "/users/me", again.AccessToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRegistryOutageFailsClosed(t *testing.T) {
	app, _, registry := newTestServer(t)
	auth := registerUser(t, app, "outage@example.com")

	registry.down = true

	status, body := send(t, app, http.MethodGet, "/budgets", auth.AccessToken, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, string(body), "Unable to verify token")

	registry.down = false
	status, _ = send(t, app, http.MethodGet, "/budgets", auth.AccessToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestLogoutOutageReports503(t *testing.T) {
	db := testutil.NewDB(t)
	base := revocation.NewDBRegistry(db)
	registry := &failOnRevoke{Registry: base}
	app := newApp(testutil.TestConfig(t), db, registry, mail.NewLogMailer(), false)
	auth := registerUser(t, app, "sad@example.com")

	status, body := send(t, app, http.MethodPost, "/auth/logout", auth.AccessToken, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, string(body), "Logout failed, please try again")

	// the token was not revoked, so it keeps working
	status, _ = send(t, app, http.MethodGet, "/users/me", auth.AccessToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

type failOnRevoke struct {
	revocation.Registry
}

func (failOnRevoke) Revoke(context.Context, string, time.Time) error {
	return revocation.ErrStorageUnavailable
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	app, _, _ := newTestServer(t)

	for _, bearer := range []string{"", "garbage", "eyJhbGciOiJub25lIn0.eyJqdGkiOiJ4In0."} {
		status, _ := send(t, app, http.MethodGet, "/users/me", bearer, nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, "bearer %q", bearer)
	}
}

func TestDeleteAccountRevokesToken(t *testing.T) {
	app, _, _ := newTestServer(t)
	auth := registerUser(t, app, "leaving@example.com")

	status, body := send(t, app, http.MethodDelete, "/users/me", auth.AccessToken, map[string]string{"password": "password123"})
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, _ = send(t, app, http.MethodGet, "/users/me", auth.AccessToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestHealth(t *testing.T) {
	app, db, _ := newTestServer(t)

	status, body := send(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.DB)

	require.NoError(t, database.Close(db))
	status, _ = send(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	app, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnmatchedPathsReturnNotFound(t *testing.T) {
	app, _, _ := newTestServer(t)

	for _, path := range []string{"/nope", "/uploads/missing.png", "/budgetsx"} {
		status, body := send(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, fiber.StatusNotFound, status, path)
		assert.Contains(t, string(body), `"error":true`, path)
	}

	status, _ := send(t, app, http.MethodGet, "/budgets", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = send(t, app, http.MethodGet, "/expenses", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	app, _, _ := newTestServer(t)

	status, body := send(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "accents@example.com", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "password must be at most 72 bytes")
}
