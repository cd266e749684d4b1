package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name      string
		item      LineItemInput
		wantTax   string
		wantTotal string
	}{
		{
			name:      "standard rate",
			item:      LineItemInput{Description: "Steel beam", Quantity: d("2"), UnitPrice: d("100"), TaxRatePercent: d("15")},
			wantTax:   "30.00",
			wantTotal: "230.00",
		},
		{
			name:      "zero tax rate",
			item:      LineItemInput{Description: "Exempt service", Quantity: d("3"), UnitPrice: d("50"), TaxRatePercent: d("0")},
			wantTax:   "0.00",
			wantTotal: "150.00",
		},
		{
			name:      "fractional quantity rounds tax",
			item:      LineItemInput{Description: "Cable per meter", Quantity: d("2.5"), UnitPrice: d("19.99"), TaxRatePercent: d("25")},
			wantTax:   "12.49",
			wantTotal: "62.47",
		},
		{
			name:      "free line",
			item:      LineItemInput{Description: "Included fastener kit", Quantity: d("1"), UnitPrice: d("0"), TaxRatePercent: d("15")},
			wantTax:   "0.00",
			wantTotal: "0.00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLine(tt.item)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTax, got.TaxAmount.StringFixed(2))
			assert.Equal(t, tt.wantTotal, got.Total.StringFixed(2))
		})
	}
}

func TestComputeLine_ArithmeticClosure(t *testing.T) {
	item := LineItemInput{Description: "Mounting bracket", Quantity: d("7"), UnitPrice: d("123.45"), TaxRatePercent: d("25")}
	got, err := ComputeLine(item)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.TaxAmount)),
		"total must equal subtotal + tax, got %s != %s + %s", got.Total, got.Subtotal, got.TaxAmount)
}

func TestComputeLine_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		item      LineItemInput
		wantField string
	}{
		{
			name:      "zero quantity",
			item:      LineItemInput{Description: "x", Quantity: d("0"), UnitPrice: d("100"), TaxRatePercent: d("15")},
			wantField: "quantity",
		},
		{
			name:      "negative quantity",
			item:      LineItemInput{Description: "x", Quantity: d("-1"), UnitPrice: d("100"), TaxRatePercent: d("15")},
			wantField: "quantity",
		},
		{
			name:      "negative unit price",
			item:      LineItemInput{Description: "x", Quantity: d("1"), UnitPrice: d("-5"), TaxRatePercent: d("15")},
			wantField: "unitPrice",
		},
		{
			name:      "tax rate above 100",
			item:      LineItemInput{Description: "x", Quantity: d("1"), UnitPrice: d("100"), TaxRatePercent: d("101")},
			wantField: "taxRatePercent",
		},
		{
			name:      "negative tax rate",
			item:      LineItemInput{Description: "x", Quantity: d("1"), UnitPrice: d("100"), TaxRatePercent: d("-1")},
			wantField: "taxRatePercent",
		},
		{
			name:      "empty description",
			item:      LineItemInput{Description: "", Quantity: d("1"), UnitPrice: d("100"), TaxRatePercent: d("15")},
			wantField: "description",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLine(tt.item)
			require.Error(t, err)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.wantField)
		})
	}
}

func TestComputeDocumentTotals(t *testing.T) {
	items := []LineItemInput{
		{Description: "Frame fabrication", Quantity: d("2"), UnitPrice: d("100"), TaxRatePercent: d("15")},
		{Description: "Installation labor", Quantity: d("10"), UnitPrice: d("85"), TaxRatePercent: d("15")},
	}
	got, err := ComputeDocumentTotals(items)
	require.NoError(t, err)
	assert.Equal(t, "1050.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "157.50", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "1207.50", got.Total.StringFixed(2))
	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.TaxAmount)))
}

func TestComputeDocumentTotals_Empty(t *testing.T) {
	_, err := ComputeDocumentTotals(nil)
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "at least one line item required", verrs["lineItems"])
}

func TestComputeDocumentTotals_AggregatesLineErrors(t *testing.T) {
	items := []LineItemInput{
		{Description: "Valid line", Quantity: d("1"), UnitPrice: d("100"), TaxRatePercent: d("15")},
		{Description: "Bad quantity", Quantity: d("0"), UnitPrice: d("100"), TaxRatePercent: d("15")},
		{Description: "Bad price", Quantity: d("1"), UnitPrice: d("-1"), TaxRatePercent: d("15")},
	}
	_, err := ComputeDocumentTotals(items)
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "lineItems[1].quantity")
	assert.Contains(t, verrs, "lineItems[2].unitPrice")
	assert.NotContains(t, verrs, "lineItems[0].quantity")
}

func TestComputeDocumentTotals_Idempotent(t *testing.T) {
	items := []LineItemInput{
		{Description: "Welding", Quantity: d("3.5"), UnitPrice: d("999.99"), TaxRatePercent: d("25")},
	}
	first, err := ComputeDocumentTotals(items)
	require.NoError(t, err)
	second, err := ComputeDocumentTotals(items)
	require.NoError(t, err)
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
	assert.True(t, first.Total.Equal(second.Total))
}
