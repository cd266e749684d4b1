package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/erp"
)

type fakeRemittanceApplier struct {
	failing map[string]error
	applied []string
}

func (f *fakeRemittanceApplier) ApplyRemittance(_ context.Context, invoiceNumber string, _ erp.Remittance) error {
	if err, ok := f.failing[invoiceNumber]; ok {
		return err
	}
	f.applied = append(f.applied, invoiceNumber)
	return nil
}

func TestErpSyncWatermarkStopsAtFirstFailure(t *testing.T) {
	applier := &fakeRemittanceApplier{
		failing: map[string]error{"INV-2026-002": errors.New("invoice not found")},
	}
	job := &ErpSyncJob{applier: applier, logger: zap.NewNop()}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	remittances := []erp.Remittance{
		{InvoiceNumber: "INV-2026-001", Amount: decimal.NewFromInt(1000), PaidAt: base},
		{InvoiceNumber: "INV-2026-002", Amount: decimal.NewFromInt(2000), PaidAt: base.Add(time.Hour)},
		{InvoiceNumber: "INV-2026-003", Amount: decimal.NewFromInt(3000), PaidAt: base.Add(2 * time.Hour)},
	}

	since := base.Add(-time.Hour)
	applied, failed, watermark := job.applyBatch(context.Background(), remittances, since)

	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, failed)
	assert.Equal(t, base, watermark, "watermark stops before the failed remittance")
	assert.Equal(t, []string{"INV-2026-001"}, applier.applied)

	// Next pass refetches past the watermark; the failure is resolved and
	// the previously skipped payments land.
	delete(applier.failing, "INV-2026-002")
	applied, failed, watermark = job.applyBatch(context.Background(), remittances[1:], watermark)

	assert.Equal(t, 2, applied)
	assert.Equal(t, 0, failed)
	assert.Equal(t, base.Add(2*time.Hour), watermark)
	assert.Equal(t, []string{"INV-2026-001", "INV-2026-002", "INV-2026-003"}, applier.applied)
}

func TestErpSyncWatermarkHoldsWhenNothingNew(t *testing.T) {
	applier := &fakeRemittanceApplier{}
	job := &ErpSyncJob{applier: applier, logger: zap.NewNop()}

	since := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	applied, failed, watermark := job.applyBatch(context.Background(), nil, since)

	assert.Equal(t, 0, applied)
	assert.Equal(t, 0, failed)
	assert.Equal(t, since, watermark)
	assert.Empty(t, applier.applied)
}
