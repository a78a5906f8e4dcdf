package models

import (
	"time"

	"github.com/google/uuid"
)

// RevokedToken marks an access token, by its jti claim, as no longer honoured.
// Rows are never updated; they are only removed once ExpiresAt has passed.
type RevokedToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JTI       string    `gorm:"column:jti;size:64;not null;uniqueIndex" json:"jti"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string {
	return "token_blocklist"
}
