package profit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipradar/flipradar/internal/model"
)

func TestApplyAdjustment(t *testing.T) {
	cases := []struct {
		expr string
		base float64
		want float64
	}{
		{"", 100, 100},
		{"+10% -$2", 100, 108},
		{"-10%", 100, 90},
		{"+$5", 100, 105},
		{"-$2 +10%", 100, 107.8},
		{"+8.25%", 100, 108.25},
		{"-5% -$1.50", 20, 17.5},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := applyAdjustment(tc.base, tc.expr)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestApplyAdjustmentRejectsGarbage(t *testing.T) {
	for _, expr := range []string{"ten%", "+$abc", "10%%"} {
		_, err := applyAdjustment(100, expr)
		assert.Error(t, err, "expr %q", expr)
	}
}

func TestCalculateFBM(t *testing.T) {
	e := NewEngine()
	got, err := e.Calculate(Input{
		BuyPrice:    10,
		SellPrice:   20,
		Fulfillment: model.FulfillmentFBM,
		Category:    "Default",
	})
	require.NoError(t, err)

	assert.InDelta(t, 3.00, got.Fees.TotalFees, 1e-9)
	assert.InDelta(t, 7.00, got.Profit, 1e-9)
	assert.InDelta(t, 70.0, got.ROI, 1e-9)
	assert.InDelta(t, 35.0, got.Margin, 1e-9)
	// Quick estimate: fee ratio 0.15 at the input price.
	assert.InDelta(t, 11.76, got.Breakeven, 1e-9)
}

func TestCalculateAppliesBuyAdjustment(t *testing.T) {
	e := NewEngine()
	got, err := e.Calculate(Input{
		BuyPrice:           100,
		BuyPriceAdjustment: "+10% -$2",
		SellPrice:          150,
		Fulfillment:        model.FulfillmentFBM,
	})
	require.NoError(t, err)
	assert.InDelta(t, 108.00, got.BuyPrice, 1e-9)
}

func TestCalculateZeroGuards(t *testing.T) {
	e := NewEngine()

	got, err := e.Calculate(Input{BuyPrice: 0, SellPrice: 20, Fulfillment: model.FulfillmentFBM})
	require.NoError(t, err)
	assert.Zero(t, got.ROI)

	got, err = e.Calculate(Input{BuyPrice: 10, SellPrice: 0, Fulfillment: model.FulfillmentFBM})
	require.NoError(t, err)
	assert.Zero(t, got.Margin)
	// With no usable sell price the quick estimate assumes a 30% fee ratio.
	assert.InDelta(t, 14.29, got.Breakeven, 1e-9)
}

func TestCalculateUnsupportedFulfillment(t *testing.T) {
	e := NewEngine()
	_, err := e.Calculate(Input{BuyPrice: 10, SellPrice: 20, Fulfillment: "DROPSHIP"})
	assert.ErrorIs(t, err, ErrUnsupportedFulfillment)

	_, err = e.BreakevenPrice(Input{BuyPrice: 10, SellPrice: 20, Fulfillment: "DROPSHIP"})
	assert.ErrorIs(t, err, ErrUnsupportedFulfillment)
}

func TestBreakevenPriceSolvesRoot(t *testing.T) {
	e := NewEngine()
	in := Input{
		BuyPrice:    10,
		Fulfillment: model.FulfillmentFBA,
		Category:    "Default",
	}

	breakeven, err := e.BreakevenPrice(in)
	require.NoError(t, err)
	assert.Greater(t, breakeven, 10.0)
	assert.Less(t, breakeven, 50.0)

	// Recomputed profit at the returned price is near zero. The price and
	// every fee component are rounded to cents, so a few cents of play
	// remain on top of the solver tolerance.
	check := in
	check.SellPrice = breakeven
	got, err := e.Calculate(check)
	require.NoError(t, err)
	assert.LessOrEqual(t, math.Abs(got.Profit), 0.03)
}

func TestBreakevenPriceZeroBuy(t *testing.T) {
	e := NewEngine()
	got, err := e.BreakevenPrice(Input{BuyPrice: 0, Fulfillment: model.FulfillmentFBM})
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestScenarioRecomputesFees(t *testing.T) {
	e := NewEngine()
	got, err := e.Scenario(Input{
		BuyPrice:    50,
		SellPrice:   100,
		Fulfillment: model.FulfillmentFBM,
		Category:    "Default",
	})
	require.NoError(t, err)

	assert.InDelta(t, 110.0, got.Best.SellPrice, 1e-9)
	assert.InDelta(t, 100.0, got.Expected.SellPrice, 1e-9)
	assert.InDelta(t, 85.0, got.Worst.SellPrice, 1e-9)

	// Referral fees are re-derived at each price, not scaled copies.
	assert.InDelta(t, 16.50, got.Best.Fees.ReferralFee, 1e-9)
	assert.InDelta(t, 15.00, got.Expected.Fees.ReferralFee, 1e-9)
	assert.InDelta(t, 12.75, got.Worst.Fees.ReferralFee, 1e-9)
}
