// Package revocation decides whether an issued access token has been
// explicitly killed before its natural expiry.
//
// A token id has two states: active (absent) and revoked (present). The only
// transition is active -> revoked, made by Revoke. Callers must treat any
// error from IsRevoked as "cannot verify" and reject the request.
package revocation

import (
	"context"
	"errors"
	"time"
)

var (
	ErrStorageUnavailable = errors.New("revocation storage unavailable")
	ErrInvalidTokenID     = errors.New("token id must not be empty")
)

// Registry is the authority over revoked token ids.
type Registry interface {
	// IsRevoked reports whether tokenID has been revoked. It never returns
	// (false, nil) when the lookup could not complete.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// Revoke marks tokenID as revoked. expiresAt is the token's own expiry and
	// only bounds how long the record must be retained. Revoking an already
	// revoked id is a no-op. Once Revoke returns nil, every later IsRevoked
	// call observes true.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// Pruner removes records whose tokens have expired on their own.
type Pruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}
