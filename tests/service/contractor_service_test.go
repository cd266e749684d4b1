package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrikk-as/console-api/internal/billing"
	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/workflow"
	"github.com/fabrikk-as/console-api/tests/testutil"
)

func TestContractorAssignmentLedger(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Stål og Sveis AS")
	contractor := testutil.CreateTestContractor(t, stack.db, "Sveiseservice AS")

	result := createDoneSalesOrder(t, stack, customer)

	assignment, err := stack.contractors.CreateAssignment(ctx, &domain.CreateContractorAssignmentRequest{
		ContractorID:  contractor.ID,
		ProjectID:     result.Project.ID,
		Description:   "On-site welding",
		ContractValue: decimal.NewFromInt(35000),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ContractorAssignmentStatusPending, assignment.Status)
	assert.Equal(t, "35000.00", assignment.PendingAmount)
	assert.Equal(t, "0.00", assignment.AmountPaid)

	// First payment moves the assignment in progress
	assignment, err = stack.contractors.RecordPayment(ctx, assignment.ID, &domain.RecordPaymentRequest{
		Amount:    decimal.NewFromInt(15000),
		Reference: "bank-001",
	}, "finance@fabrikk.no")
	require.NoError(t, err)
	assert.Equal(t, domain.ContractorAssignmentStatusInProgress, assignment.Status)
	assert.Equal(t, "20000.00", assignment.PendingAmount)

	// Overpayment clamps at zero and completes the assignment
	assignment, err = stack.contractors.RecordPayment(ctx, assignment.ID, &domain.RecordPaymentRequest{
		Amount:    decimal.NewFromInt(25000),
		Reference: "bank-002",
	}, "finance@fabrikk.no")
	require.NoError(t, err)
	assert.Equal(t, domain.ContractorAssignmentStatusCompleted, assignment.Status)
	assert.Equal(t, "0.00", assignment.PendingAmount)
	assert.Equal(t, "40000.00", assignment.AmountPaid)
	assert.True(t, assignment.Overpaid)

	require.Len(t, assignment.Payments, 2)
	assert.Equal(t, "bank-001", assignment.Payments[0].Reference)
	assert.Equal(t, "finance@fabrikk.no", assignment.Payments[0].RecordedBy)
}

func TestContractorPaymentValidation(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Stål og Sveis AS")
	contractor := testutil.CreateTestContractor(t, stack.db, "Sveiseservice AS")

	result := createDoneSalesOrder(t, stack, customer)

	_, err := stack.contractors.CreateAssignment(ctx, &domain.CreateContractorAssignmentRequest{
		ContractorID:  contractor.ID,
		ProjectID:     result.Project.ID,
		ContractValue: decimal.Zero,
	})
	var verrs billing.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	assignment, err := stack.contractors.CreateAssignment(ctx, &domain.CreateContractorAssignmentRequest{
		ContractorID:  contractor.ID,
		ProjectID:     result.Project.ID,
		ContractValue: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	_, err = stack.contractors.RecordPayment(ctx, assignment.ID, &domain.RecordPaymentRequest{
		Amount: decimal.NewFromInt(-100),
	}, "finance@fabrikk.no")
	require.ErrorAs(t, err, &verrs)
}

func TestContractorAssignmentRejectedOnFinalizedProject(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, stack.db, "Stål og Sveis AS")
	contractor := testutil.CreateTestContractor(t, stack.db, "Sveiseservice AS")

	result := createDoneSalesOrder(t, stack, customer)
	_, err := stack.projects.SignDeliveryNote(ctx, result.Project.ID, &domain.SignDeliveryNoteRequest{
		SignedBy: "Kari Nordmann",
	})
	require.NoError(t, err)

	_, err = stack.contractors.CreateAssignment(ctx, &domain.CreateContractorAssignmentRequest{
		ContractorID:  contractor.ID,
		ProjectID:     result.Project.ID,
		ContractValue: decimal.NewFromInt(5000),
	})
	var lockedErr *workflow.LockedError
	require.ErrorAs(t, err, &lockedErr)
}
