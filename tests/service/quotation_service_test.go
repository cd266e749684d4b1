package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/billing"
	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
	"github.com/fabrikk-as/console-api/tests/testutil"
)

func TestQuotationCreateComputesTotals(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Bygg og Anlegg AS")

	quotation, err := stack.quotations.Create(ctx, &domain.CreateQuotationRequest{
		CustomerID: customer.ID,
		Title:      "Facade panels",
		ValidUntil: "2026-12-31",
		LineItems:  lines(line("Panel type A", 2, 100)),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.QuotationStatusDraft, quotation.Status)
	assert.Equal(t, "200.00", quotation.Subtotal)
	assert.Equal(t, "30.00", quotation.TaxAmount)
	assert.Equal(t, "230.00", quotation.Total)
	assert.Empty(t, quotation.Number, "draft quotations carry no number")
	require.Len(t, quotation.LineItems, 1)
	assert.Equal(t, "30.00", quotation.LineItems[0].TaxAmount)
	assert.Equal(t, "230.00", quotation.LineItems[0].Total)
}

func TestQuotationCreateRejectsInvalidLines(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Bygg og Anlegg AS")

	_, err := stack.quotations.Create(ctx, &domain.CreateQuotationRequest{
		CustomerID: customer.ID,
		Title:      "Facade panels",
		ValidUntil: "2026-12-31",
		LineItems:  lines(line("Panel type A", -1, 100)),
	})

	var verrs billing.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Error(), "quantity")
}

func TestQuotationLifecycle(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Bygg og Anlegg AS")

	quotation, err := stack.quotations.Create(ctx, &domain.CreateQuotationRequest{
		CustomerID: customer.ID,
		Title:      "Facade panels",
		ValidUntil: "2026-12-31",
		LineItems:  lines(line("Panel type A", 2, 100)),
	})
	require.NoError(t, err)

	issued, err := stack.quotations.Issue(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusSent, issued.Status)
	assert.Contains(t, issued.Number, "QU-")

	// Issued quotations are read-only
	_, err = stack.quotations.Update(ctx, quotation.ID, &domain.UpdateQuotationRequest{
		Title:      "Changed",
		ValidUntil: "2026-12-31",
		LineItems:  lines(line("Panel type A", 1, 100)),
	})
	assert.ErrorIs(t, err, service.ErrQuotationNotEditable)

	accepted, err := stack.quotations.Accept(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusAccepted, accepted.Status)
	assert.Equal(t, issued.Number, accepted.Number, "number is assigned once")
}

func TestQuotationUpdateFailedWriteKeepsDocumentIntact(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Bygg og Anlegg AS")

	quotation, err := stack.quotations.Create(ctx, &domain.CreateQuotationRequest{
		CustomerID: customer.ID,
		Title:      "Facade panels",
		ValidUntil: "2026-12-31",
		LineItems:  lines(line("Panel type A", 2, 100)),
	})
	require.NoError(t, err)

	// Reject every line item insert so the replace aborts after its delete
	insertRejected := errors.New("line item insert rejected")
	require.NoError(t, stack.db.Callback().Create().Before("gorm:create").
		Register("reject_line_item_inserts", func(tx *gorm.DB) {
			if tx.Statement.Table == "line_items" {
				tx.AddError(insertRejected)
			}
		}))
	t.Cleanup(func() {
		require.NoError(t, stack.db.Callback().Create().Remove("reject_line_item_inserts"))
	})

	_, err = stack.quotations.Update(ctx, quotation.ID, &domain.UpdateQuotationRequest{
		Title:      "Facade panels",
		ValidUntil: "2026-12-31",
		LineItems:  lines(line("Panel type A", 5, 100)),
	})
	require.ErrorIs(t, err, insertRejected)

	// The stored document still carries its old line items and totals
	reloaded, err := stack.quotations.GetByID(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, "230.00", reloaded.Total)
	require.Len(t, reloaded.LineItems, 1)
	assert.Equal(t, "230.00", reloaded.LineItems[0].Total)
}

func TestQuotationDeleteOnlyDrafts(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Bygg og Anlegg AS")

	quotation, err := stack.quotations.Create(ctx, &domain.CreateQuotationRequest{
		CustomerID: customer.ID,
		Title:      "Facade panels",
		ValidUntil: "2026-12-31",
		LineItems:  lines(line("Panel type A", 2, 100)),
	})
	require.NoError(t, err)

	_, err = stack.quotations.Issue(ctx, quotation.ID)
	require.NoError(t, err)

	err = stack.quotations.Delete(ctx, quotation.ID)
	assert.ErrorIs(t, err, service.ErrQuotationNotEditable)
}
