package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// UnpaidSweeper cancels PENDING_PAYMENT orders older than a threshold.
type UnpaidSweeper interface {
	SweepUnpaid(ctx context.Context, olderThan time.Duration) (int, error)
}

// UnpaidOrderSweepJob periodically cancels orders whose payment never arrived.
type UnpaidOrderSweepJob struct {
	sweeper   UnpaidSweeper
	schedule  string
	olderThan time.Duration
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewUnpaidOrderSweepJob builds the job. schedule is a six-field cron spec
// (seconds first), e.g. "0 */5 * * * *".
func NewUnpaidOrderSweepJob(sweeper UnpaidSweeper, schedule string, olderThan time.Duration, logger *slog.Logger) *UnpaidOrderSweepJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnpaidOrderSweepJob{
		sweeper:   sweeper,
		schedule:  schedule,
		olderThan: olderThan,
		timeout:   time.Minute,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "unpaid_order_sweep_job"),
	}
}

// Start registers the sweep on its schedule.
func (j *UnpaidOrderSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Unpaid order sweep job started", "schedule", j.schedule, "olderThan", j.olderThan.String())
	return nil
}

// Run performs a single sweep.
func (j *UnpaidOrderSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	cancelled, err := j.sweeper.SweepUnpaid(ctx, j.olderThan)
	if err != nil {
		j.logger.ErrorContext(ctx, "Unpaid order sweep failed", "error", err)
		return
	}
	if cancelled > 0 {
		j.logger.InfoContext(ctx, "Unpaid orders cancelled", "count", cancelled)
	}
}

// Stop waits for a running sweep to finish.
func (j *UnpaidOrderSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Unpaid order sweep job stopped")
}
