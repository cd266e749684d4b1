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

func TestSalesOrderSubmitRequiresPOFile(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Montasje Nord AS")

	order, err := stack.salesOrders.Create(ctx, &domain.CreateSalesOrderRequest{
		CustomerID:       customer.ID,
		CustomerPONumber: "PO-1001",
		DeliveryLocation: "Havnegata 12, Bodø",
		LineItems:        lines(line("Mezzanine structure", 1, 80000)),
	})
	require.NoError(t, err)

	_, err = stack.salesOrders.Submit(ctx, order.ID)
	var linkageErr *workflow.LinkageError
	require.ErrorAs(t, err, &linkageErr)

	// Cancelling without a PO file is still allowed
	cancelled, err := stack.salesOrders.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SalesOrderStatusCancelled, cancelled.Status)
	assert.Empty(t, cancelled.Number, "cancelled drafts never get a number")
}

func TestSalesOrderCompleteCreatesProject(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Montasje Nord AS")

	result := createDoneSalesOrder(t, stack, customer)

	assert.Equal(t, domain.SalesOrderStatusDone, result.SalesOrder.Status)
	assert.Contains(t, result.SalesOrder.Number, "SO-")
	require.NotNil(t, result.SalesOrder.ProjectID)
	assert.Equal(t, result.Project.ID, *result.SalesOrder.ProjectID)

	assert.Equal(t, domain.ProjectStatusOpen, result.Project.Status)
	assert.Contains(t, result.Project.Number, "PR-")
	assert.Equal(t, result.SalesOrder.ID, result.Project.SalesOrderID)
	assert.Equal(t, customer.ID, result.Project.CustomerID)
	assert.False(t, result.Project.DeliveryNoteSigned)

	// The project is reachable through the order
	project, err := stack.projects.GetBySalesOrderID(ctx, result.SalesOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Project.ID, project.ID)
}

func TestSalesOrderCompleteRejectsPendingOrder(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Montasje Nord AS")

	poFile := createPOFile(t, stack.db)
	order, err := stack.salesOrders.Create(ctx, &domain.CreateSalesOrderRequest{
		CustomerID:       customer.ID,
		CustomerPONumber: "PO-1002",
		DeliveryLocation: "Havnegata 12, Bodø",
		POFileID:         &poFile.ID,
		LineItems:        lines(line("Mezzanine structure", 1, 80000)),
	})
	require.NoError(t, err)
	_, err = stack.salesOrders.Submit(ctx, order.ID)
	require.NoError(t, err)

	_, err = stack.salesOrders.Complete(ctx, order.ID)
	var transitionErr *workflow.TransitionError
	require.ErrorAs(t, err, &transitionErr)

	// Nothing was created on the failed completion
	_, err = stack.projects.GetBySalesOrderID(ctx, order.ID)
	assert.Error(t, err)
}

func TestSalesOrderUpdateRejectedWhenDone(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Montasje Nord AS")

	result := createDoneSalesOrder(t, stack, customer)

	_, err := stack.salesOrders.Update(ctx, result.SalesOrder.ID, &domain.UpdateSalesOrderRequest{
		CustomerPONumber: "PO-other",
		DeliveryLocation: "Elsewhere",
		LineItems:        lines(line("Mezzanine structure", 1, 80000)),
	})
	var lockedErr *workflow.LockedError
	require.ErrorAs(t, err, &lockedErr)
}
