package model

import "math"

// Marketplace identifies the venue a listing lives on.
type Marketplace string

const (
	MarketplaceAmazon  Marketplace = "amazon"
	MarketplaceWalmart Marketplace = "walmart"
	MarketplaceEbay    Marketplace = "ebay"
)

// Fulfillment identifies who stores and ships the item after a sale.
type Fulfillment string

const (
	FulfillmentFBA  Fulfillment = "FBA"  // Fulfilled by Amazon
	FulfillmentFBM  Fulfillment = "FBM"  // Fulfilled by merchant, sold on Amazon
	FulfillmentWFS  Fulfillment = "WFS"  // Walmart Fulfillment Services
	FulfillmentWFM  Fulfillment = "WFM"  // Fulfilled by merchant, sold on Walmart
	FulfillmentEbay Fulfillment = "EBAY" // Seller-shipped eBay listing
)

// BarcodeType identifies the retail barcode standard of a search code.
type BarcodeType string

const (
	BarcodeUPC BarcodeType = "UPC"
	BarcodeEAN BarcodeType = "EAN"
)

// Dimensions holds package measurements in inches and pounds.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// ListingSnapshot is a point-in-time view of a live marketplace listing.
// Numeric fields are nil when the upstream source had no value.
type ListingSnapshot struct {
	Marketplace     Marketplace `json:"marketplace"`
	MarketplaceID   string      `json:"marketplace_id"`
	CurrentPrice    *float64    `json:"current_price,omitempty"`
	BuyBoxPrice     *float64    `json:"buy_box_price,omitempty"`
	BSR             *int        `json:"bsr,omitempty"`
	BSRCategory     string      `json:"bsr_category,omitempty"`
	OfferCount      *int        `json:"offer_count,omitempty"`
	FBAOfferCount   *int        `json:"fba_offer_count,omitempty"`
	IsAmazonSelling *bool       `json:"is_amazon_selling,omitempty"`
	Rating          *float64    `json:"rating,omitempty"`
	ReviewCount     *int        `json:"review_count,omitempty"`
	// EstimatedFees is the marketplace's own fee preview for the current
	// price, when the source exposes one.
	EstimatedFees *float64 `json:"estimated_fees,omitempty"`
}

// NormalizedProduct is the common record every upstream provider maps into.
type NormalizedProduct struct {
	ASIN       string           `json:"asin,omitempty"`
	UPC        string           `json:"upc,omitempty"`
	EAN        string           `json:"ean,omitempty"`
	Title      string           `json:"title"`
	Brand      string           `json:"brand,omitempty"`
	Category   string           `json:"category,omitempty"`
	ImageURL   string           `json:"image_url,omitempty"`
	Dimensions *Dimensions      `json:"dimensions,omitempty"`
	Listing    *ListingSnapshot `json:"listing,omitempty"`
}

// EnsureTitle guarantees the title invariant: never empty. Falls back to the
// first known identifier, then the literal "Unknown".
func (p *NormalizedProduct) EnsureTitle() {
	if p.Title != "" {
		return
	}
	switch {
	case p.ASIN != "":
		p.Title = p.ASIN
	case p.UPC != "":
		p.Title = p.UPC
	case p.EAN != "":
		p.Title = p.EAN
	default:
		p.Title = "Unknown"
	}
}

// FeeBreakdown itemizes marketplace fees for a single sale. Every currency
// field is rounded to cents; TotalFees is the sum of the already-rounded
// components, so it can drift a cent from the unrounded sum. Downstream
// consumers depend on that exact behavior.
type FeeBreakdown struct {
	ReferralFee          float64  `json:"referral_fee"`
	ReferralFeePercent   float64  `json:"referral_fee_percent"`
	FulfillmentFee       float64  `json:"fulfillment_fee"`
	StorageFee           float64  `json:"storage_fee"`
	PrepFee              float64  `json:"prep_fee"`
	InboundShipping      float64  `json:"inbound_shipping"`
	TotalFees            float64  `json:"total_fees"`
	PaymentProcessingFee *float64 `json:"payment_processing_fee,omitempty"`
}

// ProfitResult is the outcome of one profit calculation.
type ProfitResult struct {
	BuyPrice  float64      `json:"buy_price"`
	SellPrice float64      `json:"sell_price"`
	Fees      FeeBreakdown `json:"fees"`
	Profit    float64      `json:"profit"`
	ROI       float64      `json:"roi"`
	Margin    float64      `json:"margin"`
	Breakeven float64      `json:"breakeven"`
}

// ScenarioResult holds three independently recomputed profit results at
// optimistic, expected and pessimistic sell prices.
type ScenarioResult struct {
	Best     ProfitResult `json:"best"`
	Expected ProfitResult `json:"expected"`
	Worst    ProfitResult `json:"worst"`
}

// OptFloat returns a pointer to v, or nil when v is negative or not a real
// number. Mappers use it to enforce the "valid non-negative or absent"
// invariant on upstream numerics.
func OptFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// OptInt is OptFloat for integer fields.
func OptInt(v int) *int {
	if v < 0 {
		return nil
	}
	return &v
}
