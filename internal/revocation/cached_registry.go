package revocation

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "budget:revoked:"

// CachedRegistry answers repeat lookups for revoked ids from Redis and
// defers everything else to the backing Registry.
//
// Only positive results are cached, and the backing store is written before
// the cache, so a cache miss or a Redis outage can never turn a revoked token
// into an active one.
type CachedRegistry struct {
	next   Registry
	client redis.Cmdable
	ttl    time.Duration
}

func NewCachedRegistry(next Registry, client redis.Cmdable, ttl time.Duration) *CachedRegistry {
	return &CachedRegistry{next: next, client: client, ttl: ttl}
}

func (r *CachedRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, ErrInvalidTokenID
	}

	key := cacheKey(tokenID)

	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		slog.Warn("revocation cache lookup failed", "error", err)
	} else if n > 0 {
		return true, nil
	}

	revoked, err := r.next.IsRevoked(ctx, tokenID)
	if err != nil {
		return false, err
	}

	if revoked {
		if err := r.client.Set(ctx, key, "1", r.ttl).Err(); err != nil {
			slog.Warn("revocation cache backfill failed", "error", err)
		}
	}

	return revoked, nil
}

func (r *CachedRegistry) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := r.next.Revoke(ctx, tokenID, expiresAt); err != nil {
		return err
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if ttl > r.ttl {
		ttl = r.ttl
	}

	if err := r.client.Set(ctx, cacheKey(tokenID), "1", ttl).Err(); err != nil {
		slog.Warn("revocation cache write failed", "error", err)
	}

	return nil
}

// PruneExpired delegates to the backing store when it supports pruning.
// Cache entries expire on their own TTL.
func (r *CachedRegistry) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	if p, ok := r.next.(Pruner); ok {
		return p.PruneExpired(ctx, now)
	}
	return 0, nil
}

func cacheKey(tokenID string) string {
	return cacheKeyPrefix + tokenID
}
