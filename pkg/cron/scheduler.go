// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/spendeeapp/spendee-go/internal/domain/limits"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	limits *limits.Service
	logger *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(limitsService *limits.Service, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:   c,
		limits: limitsService,
		logger: logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Spending limit sweep: runs daily at 6:00 AM
	_, err := s.cron.AddFunc("0 6 * * *", s.evaluateSpendingLimits)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the limit sweep (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.evaluateSpendingLimits()
}

// evaluateSpendingLimits checks every stored limit against current-period
// spending and raises notifications where limits are crossed.
func (s *Scheduler) evaluateSpendingLimits() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	s.logger.Info("starting daily spending limit sweep")
	if err := s.limits.EvaluateAll(ctx); err != nil {
		s.logger.Error("spending limit sweep failed", slog.Any("error", err))
	}
}
