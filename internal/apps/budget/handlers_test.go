package budget

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/homebudget/budget-backend/internal/config"
	"github.com/homebudget/budget-backend/internal/middleware"
	"github.com/homebudget/budget-backend/internal/models"
	"github.com/homebudget/budget-backend/internal/revocation"
	"github.com/homebudget/budget-backend/internal/testutil"
	"github.com/homebudget/budget-backend/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	app    *fiber.App
	cfg    *config.Config
	tokens *token.Manager
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.TestConfig(t)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTAccessExpiry)
	validator := middleware.NewTokenValidator(revocation.NewDBRegistry(db))

	app := fiber.New()
	New().RegisterRoutes(app, middleware.JWTProtected(tokens, validator), db, cfg)

	return &apiFixture{app: app, cfg: cfg, tokens: tokens}
}

func (f *apiFixture) bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	raw, _, err := f.tokens.Issue(userID, "owner@example.com")
	require.NoError(t, err)
	return "Bearer " + raw
}

func (f *apiFixture) do(t *testing.T, method, path, auth string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestBudgetRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/budgets", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBudgetHandlersLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.bearer(t, uuid.New())

	resp, body := f.do(t, http.MethodPost, "/budgets", owner, map[string]interface{}{
		"name": "Groceries", "category": "Food", "amount": 300,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var created models.Budget
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body = f.do(t, http.MethodGet, "/budgets", owner, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []models.Budget
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	resp, _ = f.do(t, http.MethodGet, "/budget/"+created.ID.String(), owner, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = f.do(t, http.MethodPut, "/budgets/"+created.ID.String(), owner, map[string]interface{}{"amount": 350})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodGet, "/budgets/"+created.ID.String()+"/summary", owner, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"remaining":350`)

	other := f.bearer(t, uuid.New())
	resp, _ = f.do(t, http.MethodGet, "/budgets/"+created.ID.String(), other, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/budgets/"+created.ID.String(), owner, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/budgets/"+created.ID.String(), owner, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBudgetCreateValidation(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.bearer(t, uuid.New())

	resp, body := f.do(t, http.MethodPost, "/budgets", owner, map[string]interface{}{"amount": -1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "name is required")

	resp, _ = f.do(t, http.MethodGet, "/budgets/not-a-uuid", owner, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func (f *apiFixture) upload(t *testing.T, auth, filename string, content []byte) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/budgets/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", auth)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestUploadStoresSniffedImage(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.bearer(t, uuid.New())

	// the extension comes from the content, not the client-supplied name
	resp, body := f.upload(t, owner, "receipt.txt", pngPixel)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var out struct {
		ImageURL string `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out.ImageURL, "/uploads/")
	assert.True(t, strings.HasSuffix(out.ImageURL, ".png"))

	name := out.ImageURL[strings.LastIndex(out.ImageURL, "/")+1:]
	stored, err := os.ReadFile(filepath.Join(f.cfg.UploadDir, name))
	require.NoError(t, err)
	assert.Equal(t, pngPixel, stored)
}

func TestUploadRejectsNonImages(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.bearer(t, uuid.New())

	resp, _ := f.upload(t, owner, "photo.png", []byte("#!/bin/sh\necho not an image\n"))
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	f.cfg.MaxUploadBytes = 16
	resp, _ = f.upload(t, owner, "big.png", pngPixel)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}
