package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		kind EntityKind
		from string
		to   string
		want bool
	}{
		{KindQuotation, "draft", "sent", true},
		{KindQuotation, "sent", "accepted", true},
		{KindQuotation, "sent", "rejected", true},
		{KindQuotation, "draft", "accepted", false},
		{KindQuotation, "accepted", "rejected", false},
		{KindQuotation, "rejected", "draft", false},

		{KindSalesOrder, "draft", "pending", true},
		{KindSalesOrder, "pending", "in_progress", true},
		{KindSalesOrder, "in_progress", "done", true},
		{KindSalesOrder, "draft", "cancelled", true},
		{KindSalesOrder, "pending", "cancelled", true},
		{KindSalesOrder, "in_progress", "cancelled", true},
		{KindSalesOrder, "draft", "done", false},
		{KindSalesOrder, "done", "in_progress", false},
		{KindSalesOrder, "cancelled", "draft", false},

		{KindProject, "open", "in_progress", true},
		{KindProject, "in_progress", "on_hold", true},
		{KindProject, "on_hold", "in_progress", true},
		{KindProject, "in_progress", "completed", true},
		{KindProject, "open", "cancelled", true},
		{KindProject, "on_hold", "cancelled", true},
		{KindProject, "open", "completed", false},
		{KindProject, "completed", "in_progress", false},

		{KindWorkOrder, "pending", "in_progress", true},
		{KindWorkOrder, "in_progress", "on_hold", true},
		{KindWorkOrder, "on_hold", "in_progress", true},
		{KindWorkOrder, "in_progress", "completed", true},
		{KindWorkOrder, "pending", "cancelled", true},
		{KindWorkOrder, "pending", "completed", false},
		{KindWorkOrder, "completed", "pending", false},

		{KindContractorAssignment, "pending", "in_progress", true},
		{KindContractorAssignment, "in_progress", "completed", true},
		{KindContractorAssignment, "pending", "completed", true},
		{KindContractorAssignment, "completed", "pending", false},

		{EntityKind("invoice"), "pending", "paid", false},
	}
	for _, tt := range tests {
		got := CanTransition(tt.kind, tt.from, tt.to)
		assert.Equal(t, tt.want, got, "%s: %s -> %s", tt.kind, tt.from, tt.to)
	}
}

func TestApplyTransition_RejectsWithDetail(t *testing.T) {
	_, err := ApplyTransition(KindSalesOrder, "done", "in_progress")
	require.Error(t, err)
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, KindSalesOrder, terr.Kind)
	assert.Equal(t, "done", terr.From)
	assert.Equal(t, "in_progress", terr.To)
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	allStates := map[EntityKind][]string{
		KindQuotation:            {"draft", "sent", "accepted", "rejected"},
		KindSalesOrder:           {"draft", "pending", "in_progress", "done", "cancelled"},
		KindProject:              {"open", "in_progress", "on_hold", "completed", "cancelled"},
		KindWorkOrder:            {"pending", "in_progress", "on_hold", "completed", "cancelled"},
		KindContractorAssignment: {"pending", "in_progress", "completed"},
	}
	for kind, states := range allStates {
		for _, from := range states {
			if !IsTerminal(kind, from) {
				continue
			}
			for _, to := range states {
				_, err := ApplyTransition(kind, from, to)
				assert.Error(t, err, "%s: terminal %s must reject transition to %s", kind, from, to)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(KindQuotation, "accepted"))
	assert.True(t, IsTerminal(KindQuotation, "rejected"))
	assert.True(t, IsTerminal(KindSalesOrder, "done"))
	assert.True(t, IsTerminal(KindSalesOrder, "cancelled"))
	assert.True(t, IsTerminal(KindProject, "completed"))
	assert.True(t, IsTerminal(KindWorkOrder, "cancelled"))
	assert.True(t, IsTerminal(KindContractorAssignment, "completed"))

	assert.False(t, IsTerminal(KindQuotation, "sent"))
	assert.False(t, IsTerminal(KindSalesOrder, "in_progress"))
	assert.False(t, IsTerminal(KindProject, "on_hold"))
}
