package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/workflow"
	"github.com/fabrikk-as/console-api/tests/testutil"
)

func TestWorkOrderComputesCosts(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Hallbygg AS")

	result := createDoneSalesOrder(t, stack, customer)

	workOrder, err := stack.workOrders.Create(ctx, &domain.CreateWorkOrderRequest{
		ProjectID:            result.Project.ID,
		Title:                "Roof truss fabrication",
		MaterialRequirements: lines(line("HEB 200 beams", 10, 450), line("Bolts M20", 200, 4.5)),
		LaborAssignments: []domain.LaborAssignmentRequest{
			{Worker: "Per Olsen", HoursAllocated: dec(40), HourlyRate: dec(650)},
			{Worker: "Nils Berg", HoursAllocated: dec(25), HourlyRate: dec(700)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.WorkOrderStatusPending, workOrder.Status)
	assert.Contains(t, workOrder.Number, "WO-")

	// Material requirements are internal cost lines: no tax applied
	assert.Equal(t, "5400.00", workOrder.TotalMaterialCost)
	require.Len(t, workOrder.MaterialRequirements, 2)
	assert.Equal(t, "0.00", workOrder.MaterialRequirements[0].TaxAmount)

	// 40*650 + 25*700 = 43500
	assert.Equal(t, "43500.00", workOrder.TotalLaborCost)
	assert.Equal(t, "48900.00", workOrder.TotalEstimatedCost)
}

func TestWorkOrderLifecycle(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Hallbygg AS")

	result := createDoneSalesOrder(t, stack, customer)

	workOrder, err := stack.workOrders.Create(ctx, &domain.CreateWorkOrderRequest{
		ProjectID: result.Project.ID,
		Title:     "Roof truss fabrication",
	})
	require.NoError(t, err)

	workOrder, err = stack.workOrders.Transition(ctx, workOrder.ID, domain.WorkOrderStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusInProgress, workOrder.Status)

	workOrder, err = stack.workOrders.Transition(ctx, workOrder.ID, domain.WorkOrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusCompleted, workOrder.Status)

	// Completed work orders reject edits
	_, err = stack.workOrders.Update(ctx, workOrder.ID, &domain.UpdateWorkOrderRequest{
		Title: "Changed",
	})
	var lockedErr *workflow.LockedError
	require.ErrorAs(t, err, &lockedErr)
}

func TestWorkOrderRejectedOnFinalizedProject(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Hallbygg AS")

	result := createDoneSalesOrder(t, stack, customer)
	_, err := stack.projects.SignDeliveryNote(ctx, result.Project.ID, &domain.SignDeliveryNoteRequest{
		SignedBy: "Kari Nordmann",
	})
	require.NoError(t, err)

	_, err = stack.workOrders.Create(ctx, &domain.CreateWorkOrderRequest{
		ProjectID: result.Project.ID,
		Title:     "Late work order",
	})
	var lockedErr *workflow.LockedError
	require.ErrorAs(t, err, &lockedErr)
}
