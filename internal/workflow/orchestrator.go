package workflow

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabrikk-as/console-api/internal/billing"
	"github.com/fabrikk-as/console-api/internal/domain"
)

// Config carries the engine defaults supplied from configuration
type Config struct {
	SellerName            string
	SellerTaxNumber       string
	DefaultTaxRatePercent decimal.Decimal
	DueDateOffsetDays     int
}

// Orchestrator sequences the calculator, the ledger, the linkage rules
// and the status machine for every document write. All methods mutate the
// records they are handed and return them fully computed, or return an
// error and leave persistence to the caller.
type Orchestrator struct {
	cfg Config
	now func() time.Time
}

// NewOrchestrator builds an orchestrator with the given defaults
func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{cfg: cfg, now: time.Now}
}

// WithClock replaces the time source, for tests
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// DefaultTaxRate exposes the configured default rate for new line items
func (o *Orchestrator) DefaultTaxRate() decimal.Decimal {
	return o.cfg.DefaultTaxRatePercent
}

func lineInputs(items []domain.LineItem) []billing.LineItemInput {
	inputs := make([]billing.LineItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, billing.LineItemInput{
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TaxRatePercent: item.TaxRatePercent,
		})
	}
	return inputs
}

// recomputeLines derives per-line amounts and the document rollup.
// Validation failures across all lines come back as one field map.
func recomputeLines(items []domain.LineItem) (billing.DocumentTotals, error) {
	totals, err := billing.ComputeDocumentTotals(lineInputs(items))
	if err != nil {
		return billing.DocumentTotals{}, err
	}
	for i := range items {
		amounts, err := billing.ComputeLine(billing.LineItemInput{
			Description:    items[i].Description,
			Quantity:       items[i].Quantity,
			UnitPrice:      items[i].UnitPrice,
			TaxRatePercent: items[i].TaxRatePercent,
		})
		if err != nil {
			return billing.DocumentTotals{}, err
		}
		items[i].TaxAmount = amounts.TaxAmount
		items[i].Total = amounts.Total
	}
	return totals, nil
}

// ValidateAndComputeQuotation recomputes a quotation's totals and checks
// its own fields. The valid-until date must be in the future at creation.
func (o *Orchestrator) ValidateAndComputeQuotation(q *domain.Quotation, isNew bool) error {
	errs := billing.ValidationErrors{}
	if q.Title == "" {
		errs["title"] = "title is required"
	}
	if q.CustomerID == uuid.Nil {
		errs["customerId"] = "customer is required"
	}
	if isNew && !q.ValidUntil.After(o.now()) {
		errs["validUntil"] = "valid-until date must be in the future"
	}
	totals, err := recomputeLines(q.LineItems)
	if err != nil {
		if lineErrs, ok := err.(billing.ValidationErrors); ok {
			errs.Merge("", lineErrs)
		} else {
			return err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	q.Subtotal = totals.Subtotal
	q.TaxAmount = totals.TaxAmount
	q.Total = totals.Total
	return nil
}

// ValidateAndComputeSalesOrder recomputes totals and checks required
// order fields. Orders in a terminal state reject all edits.
func (o *Orchestrator) ValidateAndComputeSalesOrder(so *domain.SalesOrder) error {
	if err := ValidateSalesOrderEditable(so); err != nil {
		return err
	}
	errs := billing.ValidationErrors{}
	if so.CustomerID == uuid.Nil {
		errs["customerId"] = "customer is required"
	}
	if so.CustomerPONumber == "" {
		errs["customerPONumber"] = "customer PO number is required"
	}
	if so.DeliveryLocation == "" {
		errs["deliveryLocation"] = "delivery location is required"
	}
	totals, err := recomputeLines(so.LineItems)
	if err != nil {
		if lineErrs, ok := err.(billing.ValidationErrors); ok {
			errs.Merge("", lineErrs)
		} else {
			return err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	so.Subtotal = totals.Subtotal
	so.TaxAmount = totals.TaxAmount
	so.Total = totals.Total
	return nil
}

// ValidateAndComputeInvoice recomputes totals, validates linkage for tax
// invoices, derives the payment status through the ledger, defaults the
// due date, and stamps the QR payload on tax invoices. The caller loads
// the referenced sales order and linked proforma invoices.
func (o *Orchestrator) ValidateAndComputeInvoice(inv *domain.Invoice, salesOrder *domain.SalesOrder, linkedProformas []domain.Invoice) error {
	errs := billing.ValidationErrors{}
	if inv.CustomerID == uuid.Nil {
		errs["customerId"] = "customer is required"
	}
	if inv.InvoiceType != domain.InvoiceTypeProforma && inv.InvoiceType != domain.InvoiceTypeTax {
		errs["invoiceType"] = "invoice type must be proforma or tax"
	}
	if inv.PaymentReceived.IsNegative() {
		errs["paymentReceived"] = "payment received cannot be negative"
	}
	totals, err := recomputeLines(inv.LineItems)
	if err != nil {
		if lineErrs, ok := err.(billing.ValidationErrors); ok {
			errs.Merge("", lineErrs)
		} else {
			return err
		}
	}
	if len(errs) > 0 {
		return errs
	}

	if inv.InvoiceType == domain.InvoiceTypeTax {
		if inv.SalesOrderID == nil {
			return &LinkageError{Message: "tax invoice requires a completed sales order"}
		}
		if err := ValidateTaxInvoiceLinkage(salesOrder, linkedProformas, inv.LinkedProformaIDs); err != nil {
			return err
		}
	}

	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total

	prior := make([]decimal.Decimal, 0, len(linkedProformas)+1)
	if inv.InvoiceType == domain.InvoiceTypeTax {
		linked := make(map[string]bool, len(inv.LinkedProformaIDs))
		for _, id := range inv.LinkedProformaIDs {
			linked[id] = true
		}
		for _, proforma := range linkedProformas {
			if linked[proforma.ID.String()] {
				prior = append(prior, proforma.PaymentReceived)
			}
		}
	}
	allocation, err := billing.AllocatePayment(inv.Total, prior, inv.PaymentReceived)
	if err != nil {
		return err
	}
	inv.RemainingBalance = allocation.RemainingBalance
	// The overdue flag survives a recomputation as long as money is still
	// owed; the sweep job owns setting it.
	if !(inv.PaymentStatus == domain.PaymentStatusOverdue && allocation.Status != billing.LedgerStatusPaid) {
		inv.PaymentStatus = domain.PaymentStatus(allocation.Status)
	}

	if inv.IssueDate.IsZero() {
		inv.IssueDate = o.now()
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = inv.IssueDate.AddDate(0, 0, o.cfg.DueDateOffsetDays)
	}
	if inv.InvoiceType == domain.InvoiceTypeTax {
		inv.QRCode = o.qrPayload(inv)
	} else {
		inv.QRCode = ""
	}
	return nil
}

// ValidateAndComputeWorkOrder recomputes material, labor and combined
// estimated cost. Material requirements run through the line calculator
// with a zero tax rate; labor cost is hours times rate per assignment.
func (o *Orchestrator) ValidateAndComputeWorkOrder(wo *domain.WorkOrder) error {
	errs := billing.ValidationErrors{}
	if wo.Title == "" {
		errs["title"] = "title is required"
	}

	materialCost := decimal.Zero
	if len(wo.MaterialRequirements) > 0 {
		totals, err := recomputeLines(wo.MaterialRequirements)
		if err != nil {
			if lineErrs, ok := err.(billing.ValidationErrors); ok {
				errs.Merge("materialRequirements", lineErrs)
			} else {
				return err
			}
		} else {
			materialCost = totals.Total
		}
	}

	laborCost := decimal.Zero
	for i := range wo.LaborAssignments {
		la := &wo.LaborAssignments[i]
		if la.Worker == "" {
			errs[fmt.Sprintf("laborAssignments[%d].worker", i)] = "worker is required"
		}
		if la.HoursAllocated.IsNegative() {
			errs[fmt.Sprintf("laborAssignments[%d].hoursAllocated", i)] = "hours cannot be negative"
		}
		if la.HourlyRate.IsNegative() {
			errs[fmt.Sprintf("laborAssignments[%d].hourlyRate", i)] = "hourly rate cannot be negative"
		}
		la.Cost = la.HoursAllocated.Mul(la.HourlyRate).Round(2)
		laborCost = laborCost.Add(la.Cost)
	}
	if len(errs) > 0 {
		return errs
	}

	wo.TotalMaterialCost = materialCost
	wo.TotalLaborCost = laborCost
	wo.TotalEstimatedCost = materialCost.Add(laborCost)
	return nil
}

// TransitionSalesOrder applies a requested status change, enforcing the
// PO-file rule before the order leaves draft
func (o *Orchestrator) TransitionSalesOrder(so *domain.SalesOrder, to domain.SalesOrderStatus) error {
	if err := ValidatePOFilePresent(so, to); err != nil {
		return err
	}
	next, err := ApplyTransition(KindSalesOrder, string(so.Status), string(to))
	if err != nil {
		return err
	}
	so.Status = domain.SalesOrderStatus(next)
	return nil
}

// CompleteSalesOrder moves an in-progress order to done and builds the
// project that tracks its execution. Both records come back together; the
// caller must persist them in one transaction so neither exists alone.
func (o *Orchestrator) CompleteSalesOrder(so *domain.SalesOrder) (*domain.Project, error) {
	next, err := ApplyTransition(KindSalesOrder, string(so.Status), string(domain.SalesOrderStatusDone))
	if err != nil {
		return nil, err
	}
	so.Status = domain.SalesOrderStatus(next)

	project := &domain.Project{
		BaseModel:        domain.BaseModel{ID: uuid.New()},
		SalesOrderID:     so.ID,
		CustomerID:       so.CustomerID,
		CustomerName:     so.CustomerName,
		Name:             "Project for order " + so.Number,
		DeliveryLocation: so.DeliveryLocation,
		CustomerPONumber: so.CustomerPONumber,
		Status:           domain.ProjectStatusOpen,
	}
	so.ProjectID = &project.ID
	return project, nil
}

// TransitionProject applies a requested project status change. Completion
// is reserved for the delivery-note sign-off and rejected here.
func (o *Orchestrator) TransitionProject(p *domain.Project, to domain.ProjectStatus) error {
	if err := ValidateProjectMutable(p); err != nil {
		return err
	}
	if to == domain.ProjectStatusCompleted {
		return &TransitionError{Kind: KindProject, From: string(p.Status), To: string(to)}
	}
	next, err := ApplyTransition(KindProject, string(p.Status), string(to))
	if err != nil {
		return err
	}
	p.Status = domain.ProjectStatus(next)
	return nil
}

// SignDeliveryNote records the customer sign-off and freezes the project.
// Signing twice returns the locked error and changes nothing.
func (o *Orchestrator) SignDeliveryNote(p *domain.Project, signedBy string) error {
	if p.DeliveryNoteSigned {
		return &LockedError{Message: "project is finalized"}
	}
	if IsTerminal(KindProject, string(p.Status)) {
		return &TransitionError{Kind: KindProject, From: string(p.Status), To: string(domain.ProjectStatusCompleted)}
	}
	if signedBy == "" {
		return billing.ValidationErrors{"signedBy": "signer name is required"}
	}
	signedAt := o.now()
	p.DeliveryNoteSigned = true
	p.DeliveryNoteDate = &signedAt
	p.SignedBy = signedBy
	p.Status = domain.ProjectStatusCompleted
	return nil
}

// TransitionWorkOrder applies a requested work order status change
func (o *Orchestrator) TransitionWorkOrder(wo *domain.WorkOrder, to domain.WorkOrderStatus) error {
	next, err := ApplyTransition(KindWorkOrder, string(wo.Status), string(to))
	if err != nil {
		return err
	}
	wo.Status = domain.WorkOrderStatus(next)
	return nil
}

// RecordContractorPayment applies a payment to an assignment's ledger and
// derives the assignment status from the resulting balance. Overpayment is
// clamped; zero and negative amounts are rejected.
func (o *Orchestrator) RecordContractorPayment(a *domain.ContractorAssignment, amount decimal.Decimal) (billing.Allocation, error) {
	if !amount.IsPositive() {
		return billing.Allocation{}, billing.ValidationErrors{"amount": "payment amount must be greater than zero"}
	}
	allocation, err := billing.AllocatePayment(a.ContractValue, []decimal.Decimal{a.AmountPaid}, amount)
	if err != nil {
		return billing.Allocation{}, err
	}

	a.AmountPaid = a.AmountPaid.Add(amount)
	a.PendingAmount = allocation.RemainingBalance

	target := domain.ContractorAssignmentStatusInProgress
	if allocation.Status == billing.LedgerStatusPaid {
		target = domain.ContractorAssignmentStatusCompleted
	}
	if a.Status != target {
		next, err := ApplyTransition(KindContractorAssignment, string(a.Status), string(target))
		if err != nil {
			return billing.Allocation{}, err
		}
		a.Status = domain.ContractorAssignmentStatus(next)
	}
	return allocation, nil
}

// qrPayload builds the base64 TLV block carried on tax invoices: seller
// name, seller tax number, issue timestamp, total with tax, tax amount.
func (o *Orchestrator) qrPayload(inv *domain.Invoice) string {
	fields := []string{
		o.cfg.SellerName,
		o.cfg.SellerTaxNumber,
		inv.IssueDate.UTC().Format(time.RFC3339),
		inv.Total.StringFixed(2),
		inv.TaxAmount.StringFixed(2),
	}
	payload := make([]byte, 0, 128)
	for i, value := range fields {
		raw := []byte(value)
		payload = append(payload, byte(i+1), byte(len(raw)))
		payload = append(payload, raw...)
	}
	return base64.StdEncoding.EncodeToString(payload)
}
