package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fabrikk-as/console-api/internal/domain"
)

// toLineItems converts request rows into model rows, applying the
// configured default tax rate where the request omits one. Derived fields
// stay zero until the orchestrator computes them.
func toLineItems(reqs []domain.LineItemRequest, defaultTaxRate decimal.Decimal) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(reqs))
	for i, req := range reqs {
		rate := defaultTaxRate
		if req.TaxRatePercent != nil {
			rate = *req.TaxRatePercent
		}
		items = append(items, domain.LineItem{
			Description:    req.Description,
			Quantity:       req.Quantity,
			UnitPrice:      req.UnitPrice,
			TaxRatePercent: rate,
			DisplayOrder:   i,
		})
	}
	return items
}

func toLaborAssignments(reqs []domain.LaborAssignmentRequest) []domain.LaborAssignment {
	assignments := make([]domain.LaborAssignment, 0, len(reqs))
	for _, req := range reqs {
		assignments = append(assignments, domain.LaborAssignment{
			Worker:         req.Worker,
			HoursAllocated: req.HoursAllocated,
			HourlyRate:     req.HourlyRate,
		})
	}
	return assignments
}

// parseDate parses an ISO 8601 date (yyyy-mm-dd)
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func parseDatePtr(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
