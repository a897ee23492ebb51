// Package scheduler drives unattended reminder ticks from a cron expression.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/robfig/cron/v3"
)

// Ticker is the operation run on every schedule firing.
type Ticker interface {
	Tick(ctx context.Context, force bool) (*domain.TickResult, error)
}

// Scheduler wraps a cron runner that calls Tick(false) on each firing.
// Overlapping firings are skipped rather than queued.
type Scheduler struct {
	cron    *cron.Cron
	ticker  Ticker
	timeout time.Duration
	logger  *slog.Logger
}

// New registers the tick job on spec (standard cron or "@every 15m").
func New(spec string, ticker Ticker, timeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	cronLogger := cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		ticker:  ticker,
		timeout: timeout,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	logger := s.logger.With(slog.String("job", "reminder_tick"))
	ctx, cancel := context.WithTimeout(middleware.WithLogger(context.Background(), logger), s.timeout)
	defer cancel()

	result, err := s.ticker.Tick(ctx, false)
	if err != nil {
		logger.Error("Reminder tick failed", slog.String("error", err.Error()))
		return
	}
	if result.Reason == domain.ReasonNoCurrentPeriod {
		logger.Warn("Reminder tick sent nothing", slog.String("reason", result.Reason))
		return
	}
	if result.Reason != "" {
		logger.Debug("Reminder tick skipped", slog.String("reason", result.Reason))
		return
	}
	logger.Info("Reminder tick finished", slog.Int("sent", result.Sent), slog.Int("skipped", result.Skipped), slog.Int("errors", len(result.Errors)))
}

// Start runs the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running tick up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Reminder tick still running at shutdown")
	}
}
