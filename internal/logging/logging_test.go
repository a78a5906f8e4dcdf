package logging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homebudget/budget-backend/internal/models"
	"github.com/homebudget/budget-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBHandlerPersistsErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewDBHandler(db, time.Hour)
	t.Cleanup(h.Stop)

	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("not persisted")
	logger.Error("logout failed",
		"action", "logout",
		"user_id", "u-42",
		"error", errors.New("database is locked"),
		"latency_ms", 12.6,
		"path", "/auth/logout",
	)
	h.Flush()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "logout failed", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "logout", entry.Action)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-42", *entry.UserID)
	assert.Equal(t, "database is locked", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, "/auth/logout", extra["path"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	db := testutil.NewDB(t)
	dbh := NewDBHandler(db, time.Hour)
	t.Cleanup(dbh.Stop)

	multi := NewMultiHandler(slog.NewJSONHandler(testWriter{t}, nil), dbh)
	assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))

	slog.New(multi).Error("boom")
	dbh.Flush()

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCleanupJobEnforcesRetention(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()
	require.NoError(t, db.Create([]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -45), Level: "ERROR", Message: "old"},
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -1), Level: "ERROR", Message: "recent"},
	}).Error)

	CleanupJob(db, 30)()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "recent", logs[0].Message)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

type brokenHandler struct{ slog.Handler }

func (brokenHandler) Enabled(context.Context, slog.Level) bool { return true }

func (brokenHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink offline")
}

func TestMultiHandlerKeepsDeliveringAfterFailure(t *testing.T) {
	db := testutil.NewDB(t)
	dbh := NewDBHandler(db, time.Hour)
	t.Cleanup(dbh.Stop)

	multi := NewMultiHandler(brokenHandler{}, dbh)
	err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "still recorded", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink offline")

	dbh.Flush()
	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
