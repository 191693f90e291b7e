package fees

import (
	"math"
	"time"

	"github.com/flipradar/flipradar/internal/model"
)

// AmazonFBA estimates fees for Amazon listings fulfilled by Amazon: referral,
// size-tier fulfillment and monthly storage.
type AmazonFBA struct {
	now func() time.Time
}

// NewAmazonFBA returns an FBA calculator using the wall clock for the
// peak-season storage decision.
func NewAmazonFBA() *AmazonFBA {
	return &AmazonFBA{now: time.Now}
}

func (c *AmazonFBA) Fees(in Input) model.FeeBreakdown {
	ref, pct := referralFee(model.MarketplaceAmazon, in.Category, in.SellPrice)
	b := model.FeeBreakdown{
		ReferralFee:        Round2(ref),
		ReferralFeePercent: pct,
		FulfillmentFee:     Round2(fbaFulfillmentFee(in.Dimensions)),
		StorageFee:         Round2(c.storageFee(in.Dimensions, in.MonthsInStorage)),
		PrepFee:            Round2(in.PrepFee),
		InboundShipping:    Round2(in.InboundShipping),
	}
	sumFees(&b)
	return b
}

// BillableWeight is the greater of actual and volumetric weight, where
// volumetric weight is L*W*H/139 in pounds.
func BillableWeight(d *model.Dimensions) float64 {
	if d == nil {
		return 0
	}
	volumetric := d.Length * d.Width * d.Height / 139
	return math.Max(d.Weight, volumetric)
}

func fbaFulfillmentFee(d *model.Dimensions) float64 {
	tier := matchSizeTier(d)
	bw := BillableWeight(d)
	fee := tier.BaseFee
	if bw > tier.FirstWeightLb {
		fee += math.Ceil(bw-tier.FirstWeightLb) * tier.PerLbOverFirst
	}
	return fee
}

// matchSizeTier walks the ladder ascending and returns the first tier whose
// size and weight limits all hold. A zero limit means unbounded. Nothing
// matching lands on the final Special Oversize row.
func matchSizeTier(d *model.Dimensions) sizeTier {
	longest, median, shortest := sortedDims(d)
	bw := BillableWeight(d)
	for _, t := range fbaSizeTiers {
		if t.MaxLength > 0 && longest > t.MaxLength {
			continue
		}
		if t.MaxWidth > 0 && median > t.MaxWidth {
			continue
		}
		if t.MaxHeight > 0 && shortest > t.MaxHeight {
			continue
		}
		if t.MaxWeight > 0 && bw > t.MaxWeight {
			continue
		}
		return t
	}
	return fbaSizeTiers[len(fbaSizeTiers)-1]
}

// storageFee estimates monthly storage: cubic feet times a rate picked by
// oversize classification and calendar month (Oct-Dec is peak).
func (c *AmazonFBA) storageFee(d *model.Dimensions, months float64) float64 {
	if d == nil {
		return 0
	}
	if months <= 0 {
		months = 1
	}
	cubicFeet := d.Length * d.Width * d.Height / 1728

	oversize := d.Length > oversizeLengthIn || d.Width > oversizeWidthIn ||
		d.Height > oversizeHeightIn || d.Weight > oversizeWeightLb

	peak := false
	switch c.now().Month() {
	case time.October, time.November, time.December:
		peak = true
	}

	rate := storageStandardOffPeak
	switch {
	case oversize && peak:
		rate = storageOversizePeak
	case oversize:
		rate = storageOversizeOffPeak
	case peak:
		rate = storageStandardPeak
	}

	return cubicFeet * rate * months
}

// AmazonFBM estimates fees for merchant-fulfilled Amazon listings: referral
// only, with prep and inbound passed through. Shipping cost is the seller's
// own and not modeled here.
type AmazonFBM struct{}

func NewAmazonFBM() *AmazonFBM { return &AmazonFBM{} }

func (c *AmazonFBM) Fees(in Input) model.FeeBreakdown {
	ref, pct := referralFee(model.MarketplaceAmazon, in.Category, in.SellPrice)
	b := model.FeeBreakdown{
		ReferralFee:        Round2(ref),
		ReferralFeePercent: pct,
		PrepFee:            Round2(in.PrepFee),
		InboundShipping:    Round2(in.InboundShipping),
	}
	sumFees(&b)
	return b
}
