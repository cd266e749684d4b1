package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrikk-as/console-api/internal/billing"
	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/workflow"
	"github.com/fabrikk-as/console-api/tests/testutil"
)

func TestTaxInvoiceRequiresDoneSalesOrder(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Industri Vest AS")

	poFile := createPOFile(t, stack.db)
	order, err := stack.salesOrders.Create(ctx, &domain.CreateSalesOrderRequest{
		CustomerID:       customer.ID,
		CustomerPONumber: "PO-2001",
		DeliveryLocation: "Verksgata 1, Stavanger",
		POFileID:         &poFile.ID,
		LineItems:        lines(line("Pipe rack modules", 1, 31456.52)),
	})
	require.NoError(t, err)
	_, err = stack.salesOrders.Submit(ctx, order.ID)
	require.NoError(t, err)

	_, err = stack.invoices.Create(ctx, &domain.CreateInvoiceRequest{
		InvoiceType:  domain.InvoiceTypeTax,
		CustomerID:   customer.ID,
		SalesOrderID: &order.ID,
		LineItems:    lines(line("Pipe rack modules", 1, 31456.52)),
	})
	var linkageErr *workflow.LinkageError
	require.ErrorAs(t, err, &linkageErr)
}

func TestTaxInvoiceAbsorbsProformaPayments(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Industri Vest AS")

	result := createDoneSalesOrder(t, stack, customer)
	orderID := result.SalesOrder.ID

	// Advance proforma: 25000 + 15% = 28750, then fully paid
	proforma, err := stack.invoices.Create(ctx, &domain.CreateInvoiceRequest{
		InvoiceType:  domain.InvoiceTypeProforma,
		CustomerID:   customer.ID,
		SalesOrderID: &orderID,
		LineItems:    lines(line("Advance payment", 1, 25000)),
	})
	require.NoError(t, err)
	assert.Equal(t, "28750.00", proforma.Total)

	proforma, err = stack.invoices.RecordPayment(ctx, proforma.ID, &domain.RecordPaymentRequest{
		Amount: decimal.NewFromInt(28750),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, proforma.PaymentStatus)

	// Final tax invoice: 31456.52 + 15% = 36175.00, offset by the proforma
	taxInvoice, err := stack.invoices.Create(ctx, &domain.CreateInvoiceRequest{
		InvoiceType:       domain.InvoiceTypeTax,
		CustomerID:        customer.ID,
		SalesOrderID:      &orderID,
		LinkedProformaIDs: []string{proforma.ID.String()},
		LineItems:         lines(line("Steel frame assembly, final", 1, 31456.52)),
	})
	require.NoError(t, err)

	assert.Equal(t, "36175.00", taxInvoice.Total)
	assert.Equal(t, "7425.00", taxInvoice.RemainingBalance)
	assert.Equal(t, domain.PaymentStatusPartial, taxInvoice.PaymentStatus)
	assert.NotEmpty(t, taxInvoice.QRCode, "tax invoices carry the QR payload")

	// Settling the remainder clears the balance
	taxInvoice, err = stack.invoices.RecordPayment(ctx, taxInvoice.ID, &domain.RecordPaymentRequest{
		Amount: decimal.NewFromInt(7425),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", taxInvoice.RemainingBalance)
	assert.Equal(t, domain.PaymentStatusPaid, taxInvoice.PaymentStatus)
}

func TestTaxInvoiceRejectsForeignProforma(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Industri Vest AS")

	first := createDoneSalesOrder(t, stack, customer)
	second := createDoneSalesOrder(t, stack, customer)

	// Proforma against the first order
	proforma, err := stack.invoices.Create(ctx, &domain.CreateInvoiceRequest{
		InvoiceType:  domain.InvoiceTypeProforma,
		CustomerID:   customer.ID,
		SalesOrderID: &first.SalesOrder.ID,
		LineItems:    lines(line("Advance payment", 1, 10000)),
	})
	require.NoError(t, err)

	// Linking it to a tax invoice on the second order is rejected
	_, err = stack.invoices.Create(ctx, &domain.CreateInvoiceRequest{
		InvoiceType:       domain.InvoiceTypeTax,
		CustomerID:        customer.ID,
		SalesOrderID:      &second.SalesOrder.ID,
		LinkedProformaIDs: []string{proforma.ID.String()},
		LineItems:         lines(line("Final invoice", 1, 50000)),
	})
	var linkageErr *workflow.LinkageError
	require.ErrorAs(t, err, &linkageErr)
}

func TestTaxInvoicePaymentRevalidatesLinkage(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Industri Vest AS")

	result := createDoneSalesOrder(t, stack, customer)
	orderID := result.SalesOrder.ID

	proforma, err := stack.invoices.Create(ctx, &domain.CreateInvoiceRequest{
		InvoiceType:  domain.InvoiceTypeProforma,
		CustomerID:   customer.ID,
		SalesOrderID: &orderID,
		LineItems:    lines(line("Advance payment", 1, 10000)),
	})
	require.NoError(t, err)

	taxInvoice, err := stack.invoices.Create(ctx, &domain.CreateInvoiceRequest{
		InvoiceType:       domain.InvoiceTypeTax,
		CustomerID:        customer.ID,
		SalesOrderID:      &orderID,
		LinkedProformaIDs: []string{proforma.ID.String()},
		LineItems:         lines(line("Steel frame assembly, final", 1, 50000)),
	})
	require.NoError(t, err)

	// Re-point the proforma at another order behind the service's back
	other := createDoneSalesOrder(t, stack, customer)
	require.NoError(t, stack.db.Model(&domain.Invoice{}).
		Where("id = ?", proforma.ID).
		Update("sales_order_id", other.SalesOrder.ID).Error)

	_, err = stack.invoices.RecordPayment(ctx, taxInvoice.ID, &domain.RecordPaymentRequest{
		Amount: decimal.NewFromInt(1000),
	})
	var linkageErr *workflow.LinkageError
	require.ErrorAs(t, err, &linkageErr)
}

func TestInvoicePaymentValidation(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Industri Vest AS")

	invoice, err := stack.invoices.Create(ctx, &domain.CreateInvoiceRequest{
		InvoiceType: domain.InvoiceTypeProforma,
		CustomerID:  customer.ID,
		LineItems:   lines(line("Advance payment", 1, 1000)),
	})
	require.NoError(t, err)

	_, err = stack.invoices.RecordPayment(ctx, invoice.ID, &domain.RecordPaymentRequest{
		Amount: decimal.Zero,
	})
	var verrs billing.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	// Overpayment clamps the balance at zero and flags the response
	paid, err := stack.invoices.RecordPayment(ctx, invoice.ID, &domain.RecordPaymentRequest{
		Amount: decimal.NewFromInt(2000),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", paid.RemainingBalance)
	assert.Equal(t, domain.PaymentStatusPaid, paid.PaymentStatus)
	assert.True(t, paid.Overpaid)
}

func TestOverdueSweepAndStickiness(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Industri Vest AS")

	dueDate := "2026-01-31"
	invoice, err := stack.invoices.Create(ctx, &domain.CreateInvoiceRequest{
		InvoiceType: domain.InvoiceTypeProforma,
		CustomerID:  customer.ID,
		IssueDate:   strPtr("2026-01-01"),
		DueDate:     &dueDate,
		LineItems:   lines(line("Advance payment", 1, 1000)),
	})
	require.NoError(t, err)

	asOf := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	marked, err := stack.invoices.SweepOverdue(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	invoice, err = stack.invoices.GetByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusOverdue, invoice.PaymentStatus)

	// A partial payment leaves the invoice overdue
	invoice, err = stack.invoices.RecordPayment(ctx, invoice.ID, &domain.RecordPaymentRequest{
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusOverdue, invoice.PaymentStatus)
	assert.Equal(t, "650.00", invoice.RemainingBalance)

	// Clearing the balance finally releases it
	invoice, err = stack.invoices.RecordPayment(ctx, invoice.ID, &domain.RecordPaymentRequest{
		Amount: decimal.NewFromInt(650),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, invoice.PaymentStatus)
}

func strPtr(s string) *string {
	return &s
}
