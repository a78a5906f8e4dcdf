// Package jobs runs periodic maintenance on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs named tasks on cron specs in UTC. A task still running when
// its next slot arrives is skipped rather than overlapped.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
	}
}

// Add registers task under spec. An empty spec disables the task.
func (s *Scheduler) Add(name, spec string, task func()) error {
	if spec == "" {
		slog.Info("scheduled job disabled", "job", name)
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		task()
		slog.Debug("scheduled job finished", "job", name, "latency_ms", time.Since(start).Milliseconds())
	}); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	slog.Info("scheduled job registered", "job", name, "spec", spec)
	return nil
}

// Len reports how many tasks are registered.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running tasks until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		slog.Warn("scheduled jobs still running at shutdown")
	}
}
