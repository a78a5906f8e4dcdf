package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/homebudget/budget-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBRegistry keeps revocation records in the token_blocklist table.
type DBRegistry struct {
	db *gorm.DB
}

func NewDBRegistry(db *gorm.DB) *DBRegistry {
	return &DBRegistry{db: db}
}

func (r *DBRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, ErrInvalidTokenID
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("jti = ?", tokenID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: lookup: %v", ErrStorageUnavailable, err)
	}

	return count > 0, nil
}

func (r *DBRegistry) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrInvalidTokenID
	}

	record := models.RevokedToken{
		ID:        uuid.New(),
		JTI:       tokenID,
		ExpiresAt: expiresAt.UTC(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "jti"}},
			DoNothing: true,
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("%w: insert: %v", ErrStorageUnavailable, err)
	}

	return nil
}

func (r *DBRegistry) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now.UTC()).
		Delete(&models.RevokedToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: prune: %v", ErrStorageUnavailable, result.Error)
	}
	return result.RowsAffected, nil
}
