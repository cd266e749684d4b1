package workflow

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrikk-as/console-api/internal/billing"
	"github.com/fabrikk-as/console-api/internal/domain"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testOrchestrator() *Orchestrator {
	return NewOrchestrator(Config{
		SellerName:            "Fabrikk AS",
		SellerTaxNumber:       "NO999888777MVA",
		DefaultTaxRatePercent: d("15"),
		DueDateOffsetDays:     30,
	}).WithClock(func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	})
}

func line(desc, qty, price, rate string) domain.LineItem {
	return domain.LineItem{Description: desc, Quantity: d(qty), UnitPrice: d(price), TaxRatePercent: d(rate)}
}

func TestValidateAndComputeQuotation(t *testing.T) {
	o := testOrchestrator()
	q := &domain.Quotation{
		CustomerID: uuid.New(),
		Title:      "Stair railing fabrication",
		ValidUntil: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		LineItems:  []domain.LineItem{line("Railing", "2", "100", "15")},
	}
	require.NoError(t, o.ValidateAndComputeQuotation(q, true))
	assert.Equal(t, "200.00", q.Subtotal.StringFixed(2))
	assert.Equal(t, "30.00", q.TaxAmount.StringFixed(2))
	assert.Equal(t, "230.00", q.Total.StringFixed(2))
	assert.Equal(t, "30.00", q.LineItems[0].TaxAmount.StringFixed(2))
	assert.Equal(t, "230.00", q.LineItems[0].Total.StringFixed(2))
}

func TestValidateAndComputeQuotation_PastValidUntil(t *testing.T) {
	o := testOrchestrator()
	q := &domain.Quotation{
		CustomerID: uuid.New(),
		Title:      "Old offer",
		ValidUntil: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		LineItems:  []domain.LineItem{line("Railing", "1", "100", "15")},
	}
	err := o.ValidateAndComputeQuotation(q, true)
	require.Error(t, err)
	var verrs billing.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "validUntil")
}

func TestValidateAndComputeSalesOrder_RequiredFields(t *testing.T) {
	o := testOrchestrator()
	so := &domain.SalesOrder{
		Status:    domain.SalesOrderStatusDraft,
		LineItems: []domain.LineItem{line("Beam", "1", "500", "15")},
	}
	err := o.ValidateAndComputeSalesOrder(so)
	require.Error(t, err)
	var verrs billing.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "customerId")
	assert.Contains(t, verrs, "customerPONumber")
	assert.Contains(t, verrs, "deliveryLocation")
}

func TestValidateAndComputeSalesOrder_TerminalLocked(t *testing.T) {
	o := testOrchestrator()
	so := &domain.SalesOrder{
		CustomerID:       uuid.New(),
		CustomerPONumber: "PO-1",
		DeliveryLocation: "Oslo",
		Status:           domain.SalesOrderStatusDone,
		LineItems:        []domain.LineItem{line("Beam", "1", "500", "15")},
	}
	err := o.ValidateAndComputeSalesOrder(so)
	var lerr *LockedError
	require.ErrorAs(t, err, &lerr)
}

func TestTransitionSalesOrder_RequiresPOFile(t *testing.T) {
	o := testOrchestrator()
	so := &domain.SalesOrder{Status: domain.SalesOrderStatusDraft}

	err := o.TransitionSalesOrder(so, domain.SalesOrderStatusPending)
	var lerr *LinkageError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, domain.SalesOrderStatusDraft, so.Status)

	fileID := uuid.New()
	so.POFileID = &fileID
	require.NoError(t, o.TransitionSalesOrder(so, domain.SalesOrderStatusPending))
	assert.Equal(t, domain.SalesOrderStatusPending, so.Status)
}

func TestTransitionSalesOrder_CancelFromDraftWithoutPOFile(t *testing.T) {
	o := testOrchestrator()
	so := &domain.SalesOrder{Status: domain.SalesOrderStatusDraft}
	require.NoError(t, o.TransitionSalesOrder(so, domain.SalesOrderStatusCancelled))
	assert.Equal(t, domain.SalesOrderStatusCancelled, so.Status)
}

func TestCompleteSalesOrder(t *testing.T) {
	o := testOrchestrator()
	so := &domain.SalesOrder{
		BaseModel:        domain.BaseModel{ID: uuid.New()},
		Number:           "SO-2026-007",
		CustomerID:       uuid.New(),
		CustomerName:     "Nordvik Bygg AS",
		CustomerPONumber: "PO-4711",
		DeliveryLocation: "Trondheim",
		Status:           domain.SalesOrderStatusInProgress,
	}

	project, err := o.CompleteSalesOrder(so)
	require.NoError(t, err)
	assert.Equal(t, domain.SalesOrderStatusDone, so.Status)
	assert.Equal(t, so.ID, project.SalesOrderID)
	assert.Equal(t, domain.ProjectStatusOpen, project.Status)
	assert.False(t, project.DeliveryNoteSigned)
	assert.Equal(t, "Trondheim", project.DeliveryLocation)
	assert.Equal(t, "PO-4711", project.CustomerPONumber)
	require.NotNil(t, so.ProjectID)
	assert.Equal(t, project.ID, *so.ProjectID)
}

func TestCompleteSalesOrder_RequiresInProgress(t *testing.T) {
	o := testOrchestrator()
	for _, status := range []domain.SalesOrderStatus{
		domain.SalesOrderStatusDraft,
		domain.SalesOrderStatusPending,
		domain.SalesOrderStatusDone,
		domain.SalesOrderStatusCancelled,
	} {
		so := &domain.SalesOrder{Status: status}
		_, err := o.CompleteSalesOrder(so)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr, "status %s", status)
		assert.Equal(t, status, so.Status)
	}
}

func TestValidateAndComputeInvoice_ProformaOffsets(t *testing.T) {
	o := testOrchestrator()
	soID := uuid.New()
	salesOrder := &domain.SalesOrder{BaseModel: domain.BaseModel{ID: soID}, Status: domain.SalesOrderStatusDone}
	proforma := domain.Invoice{
		BaseModel:       domain.BaseModel{ID: uuid.New()},
		InvoiceType:     domain.InvoiceTypeProforma,
		SalesOrderID:    &soID,
		PaymentReceived: d("28750"),
	}

	inv := &domain.Invoice{
		InvoiceType:       domain.InvoiceTypeTax,
		CustomerID:        uuid.New(),
		SalesOrderID:      &soID,
		LinkedProformaIDs: []string{proforma.ID.String()},
		PaymentReceived:   d("0"),
		LineItems:         []domain.LineItem{line("Fabrication and installation", "1", "31456.52", "15")},
	}
	require.NoError(t, o.ValidateAndComputeInvoice(inv, salesOrder, []domain.Invoice{proforma}))

	assert.Equal(t, "36175.00", inv.Total.StringFixed(2))
	assert.Equal(t, "7425.00", inv.RemainingBalance.StringFixed(2))
	assert.Equal(t, domain.PaymentStatusPartial, inv.PaymentStatus)
	assert.NotEmpty(t, inv.QRCode)
}

func TestValidateAndComputeInvoice_DueDateDefault(t *testing.T) {
	o := testOrchestrator()
	inv := &domain.Invoice{
		InvoiceType:     domain.InvoiceTypeProforma,
		CustomerID:      uuid.New(),
		PaymentReceived: d("0"),
		LineItems:       []domain.LineItem{line("Deposit", "1", "1000", "15")},
	}
	require.NoError(t, o.ValidateAndComputeInvoice(inv, nil, nil))
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), inv.IssueDate)
	assert.Equal(t, time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC), inv.DueDate)
	assert.Equal(t, domain.PaymentStatusPending, inv.PaymentStatus)
	assert.Empty(t, inv.QRCode, "proforma invoices carry no QR payload")
}

func TestValidateAndComputeInvoice_TaxRequiresDoneOrder(t *testing.T) {
	o := testOrchestrator()
	soID := uuid.New()
	salesOrder := &domain.SalesOrder{BaseModel: domain.BaseModel{ID: soID}, Status: domain.SalesOrderStatusPending}
	inv := &domain.Invoice{
		InvoiceType:     domain.InvoiceTypeTax,
		CustomerID:      uuid.New(),
		SalesOrderID:    &soID,
		PaymentReceived: d("0"),
		LineItems:       []domain.LineItem{line("Work", "1", "100", "15")},
	}
	err := o.ValidateAndComputeInvoice(inv, salesOrder, nil)
	var lerr *LinkageError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "tax invoice requires a completed sales order", lerr.Message)
}

func TestValidateAndComputeInvoice_MismatchedProforma(t *testing.T) {
	o := testOrchestrator()
	soID := uuid.New()
	otherID := uuid.New()
	salesOrder := &domain.SalesOrder{BaseModel: domain.BaseModel{ID: soID}, Status: domain.SalesOrderStatusDone}
	proforma := domain.Invoice{
		BaseModel:       domain.BaseModel{ID: uuid.New()},
		InvoiceType:     domain.InvoiceTypeProforma,
		SalesOrderID:    &otherID,
		PaymentReceived: d("500"),
	}
	inv := &domain.Invoice{
		InvoiceType:       domain.InvoiceTypeTax,
		CustomerID:        uuid.New(),
		SalesOrderID:      &soID,
		LinkedProformaIDs: []string{proforma.ID.String()},
		PaymentReceived:   d("0"),
		LineItems:         []domain.LineItem{line("Work", "1", "100", "15")},
	}
	err := o.ValidateAndComputeInvoice(inv, salesOrder, []domain.Invoice{proforma})
	var lerr *LinkageError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "linked proforma invoice not found or mismatched order", lerr.Message)
}

func TestValidateAndComputeInvoice_QRPayload(t *testing.T) {
	o := testOrchestrator()
	soID := uuid.New()
	salesOrder := &domain.SalesOrder{BaseModel: domain.BaseModel{ID: soID}, Status: domain.SalesOrderStatusDone}
	inv := &domain.Invoice{
		InvoiceType:     domain.InvoiceTypeTax,
		CustomerID:      uuid.New(),
		SalesOrderID:    &soID,
		PaymentReceived: d("0"),
		LineItems:       []domain.LineItem{line("Work", "2", "100", "15")},
	}
	require.NoError(t, o.ValidateAndComputeInvoice(inv, salesOrder, nil))

	raw, err := base64.StdEncoding.DecodeString(inv.QRCode)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Fabrikk AS")
	assert.Contains(t, string(raw), "230.00")
	assert.Contains(t, string(raw), "30.00")
}

func TestValidateAndComputeWorkOrder(t *testing.T) {
	o := testOrchestrator()
	wo := &domain.WorkOrder{
		Title: "Assemble frame sections",
		MaterialRequirements: []domain.LineItem{
			line("Steel plate", "10", "120", "0"),
		},
		LaborAssignments: []domain.LaborAssignment{
			{Worker: "K. Berg", HoursAllocated: d("16"), HourlyRate: d("450")},
			{Worker: "A. Holm", HoursAllocated: d("8"), HourlyRate: d("520")},
		},
	}
	require.NoError(t, o.ValidateAndComputeWorkOrder(wo))
	assert.Equal(t, "1200.00", wo.TotalMaterialCost.StringFixed(2))
	assert.Equal(t, "11360.00", wo.TotalLaborCost.StringFixed(2))
	assert.Equal(t, "12560.00", wo.TotalEstimatedCost.StringFixed(2))
	assert.Equal(t, "7200.00", wo.LaborAssignments[0].Cost.StringFixed(2))
}

func TestSignDeliveryNote(t *testing.T) {
	o := testOrchestrator()
	p := &domain.Project{Status: domain.ProjectStatusInProgress}

	require.NoError(t, o.SignDeliveryNote(p, "Kari Nordmann"))
	assert.True(t, p.DeliveryNoteSigned)
	assert.Equal(t, domain.ProjectStatusCompleted, p.Status)
	assert.Equal(t, "Kari Nordmann", p.SignedBy)
	require.NotNil(t, p.DeliveryNoteDate)

	before := *p
	err := o.SignDeliveryNote(p, "Someone Else")
	var lerr *LockedError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, before, *p, "second signing must not change the project")
}

func TestTransitionProject_LockedAfterSigning(t *testing.T) {
	o := testOrchestrator()
	p := &domain.Project{Status: domain.ProjectStatusInProgress}
	require.NoError(t, o.SignDeliveryNote(p, "Kari Nordmann"))

	err := o.TransitionProject(p, domain.ProjectStatusOnHold)
	var lerr *LockedError
	require.ErrorAs(t, err, &lerr)
}

func TestTransitionProject_CompletionReservedForSigning(t *testing.T) {
	o := testOrchestrator()
	p := &domain.Project{Status: domain.ProjectStatusInProgress}
	err := o.TransitionProject(p, domain.ProjectStatusCompleted)
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, domain.ProjectStatusInProgress, p.Status)
}

func TestRecordContractorPayment_TwoInstallments(t *testing.T) {
	o := testOrchestrator()
	a := &domain.ContractorAssignment{
		ContractValue: d("35000"),
		AmountPaid:    decimal.Zero,
		PendingAmount: d("35000"),
		Status:        domain.ContractorAssignmentStatusPending,
	}

	first, err := o.RecordContractorPayment(a, d("15000"))
	require.NoError(t, err)
	assert.Equal(t, "20000.00", a.PendingAmount.StringFixed(2))
	assert.Equal(t, domain.ContractorAssignmentStatusInProgress, a.Status)
	assert.False(t, first.Overpaid)

	second, err := o.RecordContractorPayment(a, d("25000"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", a.PendingAmount.StringFixed(2))
	assert.Equal(t, "40000.00", a.AmountPaid.StringFixed(2))
	assert.Equal(t, domain.ContractorAssignmentStatusCompleted, a.Status)
	assert.True(t, second.Overpaid)
}

func TestRecordContractorPayment_RejectsNonPositive(t *testing.T) {
	o := testOrchestrator()
	a := &domain.ContractorAssignment{
		ContractValue: d("35000"),
		Status:        domain.ContractorAssignmentStatusPending,
	}
	for _, amount := range []string{"0", "-100"} {
		_, err := o.RecordContractorPayment(a, d(amount))
		require.Error(t, err, "amount %s", amount)
		var verrs billing.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs, "amount")
	}
}

func TestLineItemCommands(t *testing.T) {
	items := []domain.LineItem{line("Beam", "2", "100", "15")}

	items, totals, err := AddLineItem(items, billing.LineItemInput{
		Description: "Bolts", Quantity: d("50"), UnitPrice: d("3"), TaxRatePercent: d("15"),
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "402.50", totals.Total.StringFixed(2))
	assert.Equal(t, 1, items[1].DisplayOrder)

	items, totals, err = SetLineItemField(items, 0, LineFieldQuantity, "3")
	require.NoError(t, err)
	assert.Equal(t, "3", items[0].Quantity.String())
	assert.Equal(t, "517.50", totals.Total.StringFixed(2))

	items, totals, err = RemoveLineItem(items, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "345.00", totals.Total.StringFixed(2))
}

func TestLineItemCommands_InvalidInputRejected(t *testing.T) {
	items := []domain.LineItem{line("Beam", "2", "100", "15")}

	_, _, err := SetLineItemField(items, 0, LineFieldQuantity, "abc")
	require.Error(t, err)

	_, _, err = SetLineItemField(items, 5, LineFieldQuantity, "1")
	require.Error(t, err)

	_, _, err = RemoveLineItem(items, 0)
	require.Error(t, err, "removing the last line must fail")
	assert.Len(t, items, 1)

	_, _, err = AddLineItem(items, billing.LineItemInput{Description: "Bad", Quantity: d("0"), UnitPrice: d("1"), TaxRatePercent: d("15")})
	require.Error(t, err)
}
