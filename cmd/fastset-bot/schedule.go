package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastset-labs/fastset-go-sdk/runner"
)

type batchScheduler struct {
	cron    *cron.Cron
	run     func(context.Context) (runner.BatchStats, error)
	active  func() bool
	display runner.Display
	logger  *zap.Logger
}

func newBatchScheduler(run func(context.Context) (runner.BatchStats, error), active func() bool, display runner.Display, logger *zap.Logger) *batchScheduler {
	return &batchScheduler{
		cron:    cron.New(),
		run:     run,
		active:  active,
		display: display,
		logger:  logger.Named("scheduler"),
	}
}

// Start registers the batch job on expr and starts the cron loop.
func (s *batchScheduler) Start(ctx context.Context, expr string) error {
	if _, err := s.cron.AddFunc(expr, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	s.cron.Start()
	s.logger.Info("batch scheduler started", zap.String("schedule", expr))
	return nil
}

// Stop stops the cron loop and waits for a running batch to return.
func (s *batchScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("batch scheduler stopped")
}

func (s *batchScheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if s.active() {
		s.display.Log(runner.LevelWarning, "Previous batch still running, skipping scheduled run")
		return
	}
	s.display.Log(runner.LevelInfo, "Scheduled batch starting")
	stats, err := s.run(ctx)
	switch {
	case errors.Is(err, runner.ErrBatchActive):
		s.display.Log(runner.LevelWarning, "Previous batch still running, skipping scheduled run")
	case err != nil && !errors.Is(err, context.Canceled):
		s.logger.Error("scheduled batch failed", zap.Error(err))
	default:
		s.logger.Info("scheduled batch completed",
			zap.Int("attempted", stats.Attempted),
			zap.Int("succeeded", stats.Succeeded),
			zap.Int("failed", stats.Failed))
	}
}

func runSchedule(ctx context.Context, a *app, expr string) error {
	s := newBatchScheduler(a.runBatch, a.runner.Active, a.console, a.log)
	if err := s.Start(ctx, expr); err != nil {
		return err
	}
	a.console.Log(runner.LevelInfo, fmt.Sprintf("Scheduler running on %q, press Ctrl+C to stop", expr))
	<-ctx.Done()
	s.Stop()
	return nil
}
