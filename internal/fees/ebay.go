package fees

import "github.com/flipradar/flipradar/internal/model"

// Ebay estimates fees for seller-shipped eBay listings: a flat final-value
// percentage with no minimum, plus a separate payment processing fee.
type Ebay struct{}

func NewEbay() *Ebay { return &Ebay{} }

func (c *Ebay) Fees(in Input) model.FeeBreakdown {
	processing := Round2(in.SellPrice*ebayPaymentProcessingRate + ebayPaymentProcessingFlat)
	b := model.FeeBreakdown{
		ReferralFee:          Round2(in.SellPrice * ebayFinalValuePercent / 100),
		ReferralFeePercent:   ebayFinalValuePercent,
		PrepFee:              Round2(in.PrepFee),
		InboundShipping:      Round2(in.InboundShipping),
		PaymentProcessingFee: &processing,
	}
	sumFees(&b)
	return b
}
