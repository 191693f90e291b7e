package fees

import (
	"sort"

	"github.com/flipradar/flipradar/internal/model"
)

// Input carries everything a calculator needs for one fee estimate.
// Dimensions are optional as a group; a nil Dimensions means size-based fees
// assume a weightless, dimensionless item.
type Input struct {
	SellPrice       float64
	Category        string
	Dimensions      *model.Dimensions
	PrepFee         float64
	InboundShipping float64
	MonthsInStorage float64
}

// Calculator estimates marketplace fees for one marketplace/fulfillment pair.
type Calculator interface {
	Fees(in Input) model.FeeBreakdown
}

// Registry maps fulfillment models to their calculators. The set is closed:
// every supported pair is registered here and nowhere else.
type Registry map[model.Fulfillment]Calculator

// NewRegistry builds the standard calculator set.
func NewRegistry() Registry {
	return Registry{
		model.FulfillmentFBA:  NewAmazonFBA(),
		model.FulfillmentFBM:  NewAmazonFBM(),
		model.FulfillmentWFS:  NewWalmartWFS(),
		model.FulfillmentWFM:  NewWalmartWFM(),
		model.FulfillmentEbay: NewEbay(),
	}
}

// For returns the calculator for a fulfillment model.
func (r Registry) For(f model.Fulfillment) (Calculator, bool) {
	c, ok := r[f]
	return c, ok
}

// referralFee applies the category percentage with the table's minimum floor.
func referralFee(m model.Marketplace, category string, sellPrice float64) (fee, percent float64) {
	table := referralTableFor(m)
	rate, ok := table[category]
	if !ok {
		rate = table[defaultCategory]
	}
	fee = sellPrice * rate.Percent / 100
	if fee < rate.Minimum {
		fee = rate.Minimum
	}
	return fee, rate.Percent
}

// sortedDims returns the dimensions ordered longest-first, so tier limits can
// compare longest to MaxLength, median to MaxWidth and shortest to MaxHeight.
func sortedDims(d *model.Dimensions) (longest, median, shortest float64) {
	if d == nil {
		return 0, 0, 0
	}
	s := []float64{d.Length, d.Width, d.Height}
	sort.Sort(sort.Reverse(sort.Float64Slice(s)))
	return s[0], s[1], s[2]
}

// sumFees adds the already-rounded components. The cent-level drift versus
// rounding an unrounded sum is part of the output contract.
func sumFees(b *model.FeeBreakdown) {
	total := b.ReferralFee + b.FulfillmentFee + b.StorageFee + b.PrepFee + b.InboundShipping
	if b.PaymentProcessingFee != nil {
		total += *b.PaymentProcessingFee
	}
	b.TotalFees = Round2(total)
}
