// Package workflow implements the status machine, cross-entity linkage
// rules, and the orchestrating operations the HTTP services call. The
// package is pure: callers load every referenced record up front and
// persist whatever comes back.
package workflow

// EntityKind selects a transition table
type EntityKind string

const (
	KindQuotation            EntityKind = "quotation"
	KindSalesOrder           EntityKind = "sales_order"
	KindProject              EntityKind = "project"
	KindWorkOrder            EntityKind = "work_order"
	KindContractorAssignment EntityKind = "contractor_assignment"
)

type transition struct {
	from string
	to   string
}

// One transition table for every user-driven lifecycle in the system.
// Invoices are absent on purpose: their payment status is derived by the
// ledger, never transitioned by a user.
var transitions = map[EntityKind]map[transition]bool{
	KindQuotation: {
		{"draft", "sent"}:    true,
		{"sent", "accepted"}: true,
		{"sent", "rejected"}: true,
	},
	KindSalesOrder: {
		{"draft", "pending"}:         true,
		{"pending", "in_progress"}:   true,
		{"in_progress", "done"}:      true,
		{"draft", "cancelled"}:       true,
		{"pending", "cancelled"}:     true,
		{"in_progress", "cancelled"}: true,
	},
	KindProject: {
		{"open", "in_progress"}:      true,
		{"in_progress", "on_hold"}:   true,
		{"on_hold", "in_progress"}:   true,
		{"in_progress", "completed"}: true,
		{"open", "cancelled"}:        true,
		{"in_progress", "cancelled"}: true,
		{"on_hold", "cancelled"}:     true,
	},
	KindWorkOrder: {
		{"pending", "in_progress"}:   true,
		{"in_progress", "on_hold"}:   true,
		{"on_hold", "in_progress"}:   true,
		{"in_progress", "completed"}: true,
		{"pending", "cancelled"}:     true,
		{"in_progress", "cancelled"}: true,
		{"on_hold", "cancelled"}:     true,
	},
	KindContractorAssignment: {
		{"pending", "in_progress"}:   true,
		{"pending", "completed"}:     true,
		{"in_progress", "completed"}: true,
	},
}

var terminalStates = map[EntityKind]map[string]bool{
	KindQuotation:            {"accepted": true, "rejected": true},
	KindSalesOrder:           {"done": true, "cancelled": true},
	KindProject:              {"completed": true, "cancelled": true},
	KindWorkOrder:            {"completed": true, "cancelled": true},
	KindContractorAssignment: {"completed": true},
}

// CanTransition reports whether the status change is in the table
func CanTransition(kind EntityKind, from, to string) bool {
	table, ok := transitions[kind]
	if !ok {
		return false
	}
	return table[transition{from, to}]
}

// ApplyTransition validates the status change and returns the new status,
// or a TransitionError identifying the rejected pair
func ApplyTransition(kind EntityKind, from, to string) (string, error) {
	if !CanTransition(kind, from, to) {
		return "", &TransitionError{Kind: kind, From: from, To: to}
	}
	return to, nil
}

// IsTerminal reports whether the state accepts no further transitions
func IsTerminal(kind EntityKind, state string) bool {
	return terminalStates[kind][state]
}
