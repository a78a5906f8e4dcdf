package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/homebudget/budget-backend/internal/models"
	"gorm.io/gorm"
)

// DeleteOlderThan removes system_logs recorded before cutoff.
func DeleteOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// CleanupJob returns a scheduler task that enforces the retention window.
func CleanupJob(db *gorm.DB, retentionDays int) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		deleted, err := DeleteOlderThan(ctx, db, cutoff)
		if err != nil {
			slog.Error("log cleanup failed", "action", "log_cleanup", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	}
}
