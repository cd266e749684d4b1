package billing

import "github.com/shopspring/decimal"

// LedgerStatus is the payment state derived by AllocatePayment. Overdue is
// never produced here; it is applied by a scheduled check against the due
// date after the ledger has run.
type LedgerStatus string

const (
	LedgerStatusPending LedgerStatus = "pending"
	LedgerStatusPartial LedgerStatus = "partial"
	LedgerStatusPaid    LedgerStatus = "paid"
)

// Allocation is the result of applying a payment against a document total
type Allocation struct {
	EffectiveReceived decimal.Decimal
	RemainingBalance  decimal.Decimal
	Status            LedgerStatus
	// Overpaid flags that the received amount exceeded the document total.
	// The balance is clamped to zero; the flag is advisory, not an error.
	Overpaid bool
}

// AllocatePayment applies a new payment on top of prior payments against a
// document total. The remaining balance never goes negative; an excess
// payment is clamped and flagged. Shared by invoices (prior payments
// include linked proforma amounts) and contractor assignments (prior
// payments is the single running amountPaid).
func AllocatePayment(documentTotal decimal.Decimal, priorPayments []decimal.Decimal, newPayment decimal.Decimal) (Allocation, error) {
	if newPayment.IsNegative() {
		return Allocation{}, ValidationErrors{"amount": "payment amount cannot be negative"}
	}

	received := newPayment
	for _, p := range priorPayments {
		received = received.Add(p)
	}
	remaining := documentTotal.Sub(received)
	overpaid := remaining.IsNegative()
	if overpaid {
		remaining = decimal.Zero
	}

	status := LedgerStatusPending
	switch {
	case remaining.IsZero():
		status = LedgerStatusPaid
	case received.IsPositive():
		status = LedgerStatusPartial
	}

	return Allocation{
		EffectiveReceived: received,
		RemainingBalance:  remaining,
		Status:            status,
		Overpaid:          overpaid,
	}, nil
}
