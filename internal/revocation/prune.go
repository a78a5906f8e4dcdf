package revocation

import (
	"context"
	"log/slog"
	"time"
)

// PruneJob returns a func suitable for a cron schedule that drops revocation
// records for tokens that have expired anyway.
func PruneJob(p Pruner, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		deleted, err := p.PruneExpired(ctx, time.Now())
		if err != nil {
			slog.Error("revocation prune failed", "action", "revocation_prune", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("revocation prune completed", "deleted", deleted)
		}
	}
}
