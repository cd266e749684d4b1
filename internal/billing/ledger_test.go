package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatePayment(t *testing.T) {
	tests := []struct {
		name          string
		total         string
		prior         []string
		payment       string
		wantRemaining string
		wantStatus    LedgerStatus
		wantOverpaid  bool
	}{
		{
			name:          "no payments yet",
			total:         "1000",
			prior:         nil,
			payment:       "0",
			wantRemaining: "1000.00",
			wantStatus:    LedgerStatusPending,
		},
		{
			name:          "partial payment",
			total:         "1000",
			prior:         nil,
			payment:       "400",
			wantRemaining: "600.00",
			wantStatus:    LedgerStatusPartial,
		},
		{
			name:          "exact payoff",
			total:         "1000",
			prior:         []string{"400"},
			payment:       "600",
			wantRemaining: "0.00",
			wantStatus:    LedgerStatusPaid,
		},
		{
			name:          "overpayment clamps to zero",
			total:         "1000",
			prior:         []string{"400"},
			payment:       "900",
			wantRemaining: "0.00",
			wantStatus:    LedgerStatusPaid,
			wantOverpaid:  true,
		},
		{
			name:          "tax invoice offset by linked proformas",
			total:         "36175",
			prior:         []string{"28750"},
			payment:       "0",
			wantRemaining: "7425.00",
			wantStatus:    LedgerStatusPartial,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prior := make([]decimal.Decimal, 0, len(tt.prior))
			for _, p := range tt.prior {
				prior = append(prior, d(p))
			}
			got, err := AllocatePayment(d(tt.total), prior, d(tt.payment))
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, got.RemainingBalance.StringFixed(2))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantOverpaid, got.Overpaid)
		})
	}
}

func TestAllocatePayment_NegativeRejected(t *testing.T) {
	_, err := AllocatePayment(d("1000"), nil, d("-1"))
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "amount")
}

func TestAllocatePayment_NeverNegativeBalance(t *testing.T) {
	payments := []string{"0", "0.01", "500", "35000", "100000"}
	for _, p := range payments {
		got, err := AllocatePayment(d("35000"), []decimal.Decimal{d("15000")}, d(p))
		require.NoError(t, err)
		assert.False(t, got.RemainingBalance.IsNegative(), "payment %s produced negative balance", p)
	}
}

func TestAllocatePayment_ContractorLedger(t *testing.T) {
	// Fixed-value contract paid off in two installments.
	first, err := AllocatePayment(d("35000"), nil, d("15000"))
	require.NoError(t, err)
	assert.Equal(t, "20000.00", first.RemainingBalance.StringFixed(2))
	assert.Equal(t, LedgerStatusPartial, first.Status)

	second, err := AllocatePayment(d("35000"), []decimal.Decimal{d("15000")}, d("25000"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", second.RemainingBalance.StringFixed(2))
	assert.Equal(t, LedgerStatusPaid, second.Status)
	assert.True(t, second.Overpaid)
}
