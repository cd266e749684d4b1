package workflow

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fabrikk-as/console-api/internal/billing"
	"github.com/fabrikk-as/console-api/internal/domain"
)

// LineItemField names an editable line item field
type LineItemField string

const (
	LineFieldDescription LineItemField = "description"
	LineFieldQuantity    LineItemField = "quantity"
	LineFieldUnitPrice   LineItemField = "unitPrice"
	LineFieldTaxRate     LineItemField = "taxRatePercent"
)

// Line item edits go through these three commands so the document's totals
// can never drift from its lines: every command returns a fresh slice with
// per-line amounts and the rollup recomputed, or an error and no change.

// AddLineItem appends a line and recomputes the document
func AddLineItem(items []domain.LineItem, input billing.LineItemInput) ([]domain.LineItem, billing.DocumentTotals, error) {
	next := make([]domain.LineItem, len(items), len(items)+1)
	copy(next, items)
	next = append(next, domain.LineItem{
		Description:    input.Description,
		Quantity:       input.Quantity,
		UnitPrice:      input.UnitPrice,
		TaxRatePercent: input.TaxRatePercent,
		DisplayOrder:   len(items),
	})
	totals, err := recomputeLines(next)
	if err != nil {
		return nil, billing.DocumentTotals{}, err
	}
	return next, totals, nil
}

// SetLineItemField replaces one field of one line and recomputes the
// document. Numeric fields take decimal strings.
func SetLineItemField(items []domain.LineItem, index int, field LineItemField, value string) ([]domain.LineItem, billing.DocumentTotals, error) {
	if index < 0 || index >= len(items) {
		return nil, billing.DocumentTotals{}, billing.ValidationErrors{"lineItems": fmt.Sprintf("no line item at index %d", index)}
	}
	next := make([]domain.LineItem, len(items))
	copy(next, items)

	switch field {
	case LineFieldDescription:
		next[index].Description = value
	case LineFieldQuantity, LineFieldUnitPrice, LineFieldTaxRate:
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			key := fmt.Sprintf("lineItems[%d].%s", index, field)
			return nil, billing.DocumentTotals{}, billing.ValidationErrors{key: "must be a decimal number"}
		}
		switch field {
		case LineFieldQuantity:
			next[index].Quantity = parsed
		case LineFieldUnitPrice:
			next[index].UnitPrice = parsed
		case LineFieldTaxRate:
			next[index].TaxRatePercent = parsed
		}
	default:
		return nil, billing.DocumentTotals{}, billing.ValidationErrors{"field": fmt.Sprintf("unknown line item field %q", field)}
	}

	totals, err := recomputeLines(next)
	if err != nil {
		return nil, billing.DocumentTotals{}, err
	}
	return next, totals, nil
}

// RemoveLineItem drops a line and recomputes the document. Removing the
// last line fails: a document keeps at least one line item.
func RemoveLineItem(items []domain.LineItem, index int) ([]domain.LineItem, billing.DocumentTotals, error) {
	if index < 0 || index >= len(items) {
		return nil, billing.DocumentTotals{}, billing.ValidationErrors{"lineItems": fmt.Sprintf("no line item at index %d", index)}
	}
	next := make([]domain.LineItem, 0, len(items)-1)
	next = append(next, items[:index]...)
	next = append(next, items[index+1:]...)
	for i := range next {
		next[i].DisplayOrder = i
	}
	totals, err := recomputeLines(next)
	if err != nil {
		return nil, billing.DocumentTotals{}, err
	}
	return next, totals, nil
}
