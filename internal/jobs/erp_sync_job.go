package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/erp"
)

// ErpSyncJobName is the name of the ERP remittance sync job
const ErpSyncJobName = "erp_sync"

// defaultLookback bounds the first sync after startup so the job does not
// replay the accounting system's full history
const defaultLookback = 48 * time.Hour

// RemittanceApplier applies one accounting-system payment to the invoice
// ledger. Implemented by the invoice service.
type RemittanceApplier interface {
	ApplyRemittance(ctx context.Context, invoiceNumber string, remittance erp.Remittance) error
}

// ErpSyncJob pulls remittances recorded in the accounting system and
// applies them to the invoice ledger. The job keeps a watermark so each
// payment is applied once.
type ErpSyncJob struct {
	client  *erp.Client
	applier RemittanceApplier
	logger  *zap.Logger
	timeout time.Duration

	mu           sync.Mutex
	lastSynced   time.Time
	hasWatermark bool
}

func NewErpSyncJob(client *erp.Client, applier RemittanceApplier, logger *zap.Logger, timeout time.Duration) *ErpSyncJob {
	return &ErpSyncJob{
		client:  client,
		applier: applier,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one sync pass; called by the scheduler
func (j *ErpSyncJob) Run() {
	if !j.client.IsEnabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	j.mu.Lock()
	since := j.lastSynced
	if !j.hasWatermark {
		since = time.Now().Add(-defaultLookback)
	}
	j.mu.Unlock()

	start := time.Now()
	remittances, err := j.client.FetchRemittances(ctx, since)
	if err != nil {
		j.logger.Error("ERP remittance fetch failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	applied, failed, watermark := j.applyBatch(ctx, remittances, since)

	j.mu.Lock()
	j.lastSynced = watermark
	j.hasWatermark = true
	j.mu.Unlock()

	if applied > 0 || failed > 0 {
		j.logger.Info("ERP remittance sync finished",
			zap.Int("applied", applied),
			zap.Int("failed", failed),
			zap.Duration("duration", time.Since(start)))
	}
}

// applyBatch applies remittances oldest first and returns how far the
// watermark may advance. Processing stops at the first failure: rows are
// fetched with paid_at past the watermark, so the failed remittance and
// everything after it come back on the next pass instead of being skipped
// forever.
func (j *ErpSyncJob) applyBatch(ctx context.Context, remittances []erp.Remittance, since time.Time) (applied, failed int, watermark time.Time) {
	watermark = since
	for _, r := range remittances {
		if err := j.applier.ApplyRemittance(ctx, r.InvoiceNumber, r); err != nil {
			failed++
			j.logger.Warn("failed to apply remittance, retrying next pass",
				zap.String("invoice_number", r.InvoiceNumber),
				zap.String("amount", r.Amount.StringFixed(2)),
				zap.Error(err))
			return applied, failed, watermark
		}
		applied++
		if r.PaidAt.After(watermark) {
			watermark = r.PaidAt
		}
	}
	return applied, failed, watermark
}

// RegisterErpSyncJob registers the sync with the scheduler. A disabled
// ERP client registers a no-op so schedules stay consistent across
// environments.
func RegisterErpSyncJob(scheduler *Scheduler, client *erp.Client, applier RemittanceApplier, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewErpSyncJob(client, applier, logger, timeout)
	return scheduler.AddJob(ErpSyncJobName, cronExpr, job.Run)
}
