package fees

import (
	"math"

	"github.com/flipradar/flipradar/internal/model"
)

// WalmartWFS estimates fees for Walmart listings fulfilled by Walmart:
// referral plus a flat weight/longest-dimension fulfillment ladder and a
// flat monthly storage estimate.
type WalmartWFS struct{}

func NewWalmartWFS() *WalmartWFS { return &WalmartWFS{} }

func (c *WalmartWFS) Fees(in Input) model.FeeBreakdown {
	ref, pct := referralFee(model.MarketplaceWalmart, in.Category, in.SellPrice)
	months := in.MonthsInStorage
	if months <= 0 {
		months = 1
	}
	b := model.FeeBreakdown{
		ReferralFee:        Round2(ref),
		ReferralFeePercent: pct,
		FulfillmentFee:     Round2(wfsFulfillmentFee(in.Dimensions)),
		StorageFee:         Round2(wfsMonthlyStorageEstimate * months),
		PrepFee:            Round2(in.PrepFee),
		InboundShipping:    Round2(in.InboundShipping),
	}
	sumFees(&b)
	return b
}

// wfsFulfillmentFee looks up the first ladder row the item fits, by billed
// weight and longest dimension. Past the last row the fee grows by a fixed
// surcharge per started 10 lb block over the threshold.
func wfsFulfillmentFee(d *model.Dimensions) float64 {
	longest, _, _ := sortedDims(d)
	var weight float64
	if d != nil {
		weight = d.Weight
	}

	for _, r := range wfsRates {
		if weight <= r.MaxWeightLb && longest <= r.MaxLongestIn {
			return r.Fee
		}
	}

	over := weight - wfsOverweightThreshold
	if over < 0 {
		// Fits no row on dimensions alone; bill the top row.
		return wfsOverweightBase
	}
	return wfsOverweightBase + math.Ceil(over/10)*wfsOverweightPer10Lb
}

// WalmartWFM estimates fees for merchant-fulfilled Walmart listings:
// referral only.
type WalmartWFM struct{}

func NewWalmartWFM() *WalmartWFM { return &WalmartWFM{} }

func (c *WalmartWFM) Fees(in Input) model.FeeBreakdown {
	ref, pct := referralFee(model.MarketplaceWalmart, in.Category, in.SellPrice)
	b := model.FeeBreakdown{
		ReferralFee:        Round2(ref),
		ReferralFeePercent: pct,
		PrepFee:            Round2(in.PrepFee),
		InboundShipping:    Round2(in.InboundShipping),
	}
	sumFees(&b)
	return b
}
