package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OverdueSweepJobName is the name of the overdue invoice sweep job
const OverdueSweepJobName = "overdue_sweep"

// OverdueSweeper marks unpaid invoices past their due date as overdue.
// The interface lets the job run against the invoice service without
// importing the service package.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, asOf time.Time) (int, error)
}

// OverdueSweepJob flips pending and partial invoices to overdue once
// their due date has passed. Overdue is the only payment status written
// outside the payment path.
type OverdueSweepJob struct {
	sweeper OverdueSweeper
	logger  *zap.Logger
	timeout time.Duration
}

func NewOverdueSweepJob(sweeper OverdueSweeper, logger *zap.Logger, timeout time.Duration) *OverdueSweepJob {
	return &OverdueSweepJob{
		sweeper: sweeper,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one sweep; called by the scheduler
func (j *OverdueSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	marked, err := j.sweeper.SweepOverdue(ctx, start)
	if err != nil {
		j.logger.Error("overdue sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("overdue sweep finished",
		zap.Int("invoices_marked", marked),
		zap.Duration("duration", time.Since(start)))
}

// RegisterOverdueSweepJob registers the sweep with the scheduler
func RegisterOverdueSweepJob(scheduler *Scheduler, sweeper OverdueSweeper, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewOverdueSweepJob(sweeper, logger, timeout)
	return scheduler.AddJob(OverdueSweepJobName, cronExpr, job.Run)
}
