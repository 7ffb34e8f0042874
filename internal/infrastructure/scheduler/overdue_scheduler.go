package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/repairshop/backend/internal/infrastructure/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OverdueSweeper marks issued invoices past their due date as overdue
type OverdueSweeper interface {
	MarkOverdueInvoices(ctx context.Context, limit int) (int, error)
}

// OverdueScheduler runs the overdue invoice sweep on a cron schedule. A run
// that is still going when the next one fires makes that one skip.
type OverdueScheduler struct {
	cron    *cron.Cron
	sweeper OverdueSweeper
	cfg     config.SchedulerConfig
	logger  *zap.Logger
}

// NewOverdueScheduler parses cfg.OverdueCron (standard five-field syntax,
// descriptors such as @hourly allowed) and registers the sweep.
func NewOverdueScheduler(sweeper OverdueSweeper, cfg config.SchedulerConfig, logger *zap.Logger) (*OverdueScheduler, error) {
	logger = logger.Named("overdue_scheduler")
	s := &OverdueScheduler{
		sweeper: sweeper,
		cfg:     cfg,
		logger:  logger,
	}

	cl := newCronLogger(logger)
	s.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(cfg.OverdueCron, s.runScheduled); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSchedule, cfg.OverdueCron, err)
	}
	return s, nil
}

// Start begins firing the schedule in the background
func (s *OverdueScheduler) Start() {
	s.cron.Start()
	s.logger.Info("overdue invoice sweep scheduled", zap.String("schedule", s.cfg.OverdueCron))
}

// Stop prevents new runs and waits for a running sweep, or for ctx
func (s *OverdueScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs one sweep bounded by the configured job timeout
func (s *OverdueScheduler) RunOnce(ctx context.Context) (int, error) {
	if s.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
		defer cancel()
	}

	start := time.Now()
	marked, err := s.sweeper.MarkOverdueInvoices(ctx, s.cfg.OverdueBatchSize)
	fields := []zap.Field{
		zap.Int("marked", marked),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		s.logger.Error("overdue invoice sweep failed", append(fields, zap.Error(err))...)
		return marked, err
	}
	s.logger.Info("overdue invoice sweep completed", fields...)
	return marked, nil
}

// Next returns the next scheduled run time, or zero before Start
func (s *OverdueScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *OverdueScheduler) runScheduled() {
	_, _ = s.RunOnce(context.Background())
}
