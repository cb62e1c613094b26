// Package scheduler runs the worker's periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/config"

	"github.com/robfig/cron/v3"
)

type StayCompleter interface {
	CompleteElapsedStays(ctx context.Context) (int, error)
}

type IdempotencyPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler skips a run while the previous run of the same job is still going.
type Scheduler struct {
	cron      *cron.Cron
	completer StayCompleter
	purger    IdempotencyPurger
	clock     clock.Clock
	timeout   time.Duration
}

func New(cfg config.SchedulerConfig, completer StayCompleter, purger IdempotencyPurger, clk clock.Clock) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		completer: completer,
		purger:    purger,
		clock:     clk,
		timeout:   10 * time.Minute,
	}

	if _, err := s.cron.AddFunc(cfg.CompletionSpec, func() { s.CompleteStays(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid completion schedule %q: %w", cfg.CompletionSpec, err)
	}
	if cfg.PurgeSpec != "" {
		if _, err := s.cron.AddFunc(cfg.PurgeSpec, func() { s.PurgeIdempotencyKeys(context.Background()) }); err != nil {
			return nil, fmt.Errorf("invalid idempotency purge schedule %q: %w", cfg.PurgeSpec, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) CompleteStays(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	n, err := s.completer.CompleteElapsedStays(ctx)
	if err != nil {
		slog.Error("stay completion sweep failed", "completed", n, "error", err)
		return
	}
	slog.Info("stay completion sweep finished", "completed", n, "duration", time.Since(started))
}

func (s *Scheduler) PurgeIdempotencyKeys(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.purger.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		slog.Error("idempotency key purge failed", "error", err)
		return
	}
	slog.Info("idempotency keys purged", "deleted", n)
}
