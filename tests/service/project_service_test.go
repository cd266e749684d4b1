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

func TestSignDeliveryNoteFreezesProject(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Tak og Fasade AS")

	result := createDoneSalesOrder(t, stack, customer)
	projectID := result.Project.ID

	signed, err := stack.projects.SignDeliveryNote(ctx, projectID, &domain.SignDeliveryNoteRequest{
		SignedBy: "Kari Nordmann",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusCompleted, signed.Status)
	assert.True(t, signed.DeliveryNoteSigned)
	assert.Equal(t, "Kari Nordmann", signed.SignedBy)
	require.NotNil(t, signed.DeliveryNoteDate)

	// Signing twice is rejected and changes nothing
	_, err = stack.projects.SignDeliveryNote(ctx, projectID, &domain.SignDeliveryNoteRequest{
		SignedBy: "Ola Hansen",
	})
	var lockedErr *workflow.LockedError
	require.ErrorAs(t, err, &lockedErr)

	unchanged, err := stack.projects.GetByID(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, "Kari Nordmann", unchanged.SignedBy)
	assert.Equal(t, *signed.DeliveryNoteDate, *unchanged.DeliveryNoteDate)

	// So is every other mutation
	_, err = stack.projects.Update(ctx, projectID, &domain.UpdateProjectRequest{
		Name: "Renamed",
	})
	require.ErrorAs(t, err, &lockedErr)

	_, err = stack.projects.Transition(ctx, projectID, domain.ProjectStatusOnHold)
	require.ErrorAs(t, err, &lockedErr)
}

func TestProjectTransitions(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Tak og Fasade AS")

	result := createDoneSalesOrder(t, stack, customer)
	projectID := result.Project.ID

	project, err := stack.projects.Transition(ctx, projectID, domain.ProjectStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusInProgress, project.Status)

	project, err = stack.projects.Transition(ctx, projectID, domain.ProjectStatusOnHold)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusOnHold, project.Status)

	// Completion only happens through the delivery-note sign-off
	_, err = stack.projects.Transition(ctx, projectID, domain.ProjectStatusCompleted)
	var transitionErr *workflow.TransitionError
	require.ErrorAs(t, err, &transitionErr)
}
