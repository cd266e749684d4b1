// Package billing implements the monetary arithmetic shared by every
// financial document in the console: per-line tax and total computation,
// document rollups, and the partial-payment ledger used by invoices and
// contractor assignments. All functions are pure and operate on decimal
// values; callers persist the results.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
)

// LineItemInput is the raw content of one billable row
type LineItemInput struct {
	Description    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	TaxRatePercent decimal.Decimal
}

// LineAmounts holds the derived values for one line item
type LineAmounts struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// DocumentTotals holds the rollup over all line items of a document
type DocumentTotals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ValidateLine checks a single line item and returns field-keyed errors.
// Field keys are relative to the line ("quantity", not "lineItems[0].quantity").
func ValidateLine(item LineItemInput) ValidationErrors {
	errs := ValidationErrors{}
	if item.Description == "" {
		errs["description"] = "description is required"
	}
	if !item.Quantity.IsPositive() {
		errs["quantity"] = "quantity must be greater than zero"
	}
	if item.UnitPrice.IsNegative() {
		errs["unitPrice"] = "unit price cannot be negative"
	}
	if item.TaxRatePercent.IsNegative() || item.TaxRatePercent.GreaterThan(hundred) {
		errs["taxRatePercent"] = "tax rate must be between 0 and 100"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ComputeLine derives the tax amount and total for one line item.
// Amounts are rounded to two decimals; invalid input returns
// ValidationErrors and no amounts.
func ComputeLine(item LineItemInput) (LineAmounts, error) {
	if errs := ValidateLine(item); errs != nil {
		return LineAmounts{}, errs
	}
	subtotal := item.Quantity.Mul(item.UnitPrice)
	tax := subtotal.Mul(item.TaxRatePercent).Div(hundred).Round(2)
	return LineAmounts{
		Subtotal:  subtotal.Round(2),
		TaxAmount: tax,
		Total:     subtotal.Add(tax).Round(2),
	}, nil
}

// ComputeDocumentTotals sums per-line amounts over all lines of a document.
// A document needs at least one line item; every line must validate. Line
// errors are aggregated so the caller sees all problems at once, keyed by
// lineItems[i].<field>.
func ComputeDocumentTotals(items []LineItemInput) (DocumentTotals, error) {
	if len(items) == 0 {
		return DocumentTotals{}, ValidationErrors{"lineItems": "at least one line item required"}
	}

	allErrs := ValidationErrors{}
	totals := DocumentTotals{
		Subtotal:  decimal.Zero,
		TaxAmount: decimal.Zero,
		Total:     decimal.Zero,
	}
	for i, item := range items {
		amounts, err := ComputeLine(item)
		if err != nil {
			lineErrs, ok := err.(ValidationErrors)
			if !ok {
				return DocumentTotals{}, err
			}
			allErrs.Merge(fmt.Sprintf("lineItems[%d]", i), lineErrs)
			continue
		}
		totals.Subtotal = totals.Subtotal.Add(amounts.Subtotal)
		totals.TaxAmount = totals.TaxAmount.Add(amounts.TaxAmount)
		totals.Total = totals.Total.Add(amounts.Total)
	}
	if len(allErrs) > 0 {
		return DocumentTotals{}, allErrs
	}
	return totals, nil
}
