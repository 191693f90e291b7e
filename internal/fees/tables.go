package fees

import "github.com/flipradar/flipradar/internal/model"

// referralRate is one row of a marketplace referral table.
type referralRate struct {
	Percent float64
	Minimum float64
}

// defaultCategory is the fallback row used when a category has no entry.
const defaultCategory = "Default"

// Referral tables are loaded once and never mutated at runtime.
var amazonReferral = map[string]referralRate{
	"Amazon Device Accessories":  {Percent: 45.0, Minimum: 0.30},
	"Appliances":                 {Percent: 15.0, Minimum: 0.30},
	"Automotive":                 {Percent: 12.0, Minimum: 0.30},
	"Baby Products":              {Percent: 15.0, Minimum: 0.30},
	"Beauty":                     {Percent: 15.0, Minimum: 0.30},
	"Books":                      {Percent: 15.0, Minimum: 0.30},
	"Camera & Photo":             {Percent: 8.0, Minimum: 0.30},
	"Clothing & Accessories":     {Percent: 17.0, Minimum: 0.30},
	"Consumer Electronics":       {Percent: 8.0, Minimum: 0.30},
	"Grocery & Gourmet":          {Percent: 15.0, Minimum: 0.00},
	"Health & Personal Care":     {Percent: 15.0, Minimum: 0.30},
	"Home & Garden":              {Percent: 15.0, Minimum: 0.30},
	"Jewelry":                    {Percent: 20.0, Minimum: 0.30},
	"Musical Instruments":        {Percent: 15.0, Minimum: 0.30},
	"Office Products":            {Percent: 15.0, Minimum: 0.30},
	"Pet Supplies":               {Percent: 15.0, Minimum: 0.30},
	"Shoes, Handbags & Sunglasses": {Percent: 15.0, Minimum: 0.30},
	"Sports & Outdoors":          {Percent: 15.0, Minimum: 0.30},
	"Tools & Home Improvement":   {Percent: 15.0, Minimum: 0.30},
	"Toys & Games":               {Percent: 15.0, Minimum: 0.30},
	"Video Games":                {Percent: 15.0, Minimum: 0.30},
	"Watches":                    {Percent: 16.0, Minimum: 0.30},
	defaultCategory:              {Percent: 15.0, Minimum: 0.30},
}

var walmartReferral = map[string]referralRate{
	"Apparel & Accessories":    {Percent: 15.0, Minimum: 0.00},
	"Automotive":               {Percent: 12.0, Minimum: 0.00},
	"Baby":                     {Percent: 15.0, Minimum: 0.00},
	"Beauty":                   {Percent: 15.0, Minimum: 0.00},
	"Cameras & Photo":          {Percent: 8.0, Minimum: 0.00},
	"Electronics":              {Percent: 8.0, Minimum: 0.00},
	"Grocery":                  {Percent: 15.0, Minimum: 0.00},
	"Health & Personal Care":   {Percent: 15.0, Minimum: 0.00},
	"Home & Garden":            {Percent: 15.0, Minimum: 0.00},
	"Jewelry":                  {Percent: 20.0, Minimum: 0.00},
	"Sporting Goods":           {Percent: 15.0, Minimum: 0.00},
	"Tools & Home Improvement": {Percent: 15.0, Minimum: 0.00},
	"Toys & Games":             {Percent: 15.0, Minimum: 0.00},
	"Video Games":              {Percent: 15.0, Minimum: 0.00},
	defaultCategory:            {Percent: 15.0, Minimum: 0.00},
}

// eBay uses a flat final-value percentage with no minimum, with payment
// processing billed separately.
const (
	ebayFinalValuePercent     = 10.0
	ebayPaymentProcessingRate = 0.0235
	ebayPaymentProcessingFlat = 0.25
)

// sizeTier is one row of the FBA size-tier ladder. Limits apply to dimensions
// sorted longest-first (longest, median, shortest) and to billable weight.
type sizeTier struct {
	Name           string
	MaxLength      float64
	MaxWidth       float64
	MaxHeight      float64
	MaxWeight      float64
	BaseFee        float64
	FirstWeightLb  float64
	PerLbOverFirst float64
}

// fbaSizeTiers is ordered ascending; the first tier whose limits all hold
// wins. Nothing matching falls back to the last (Special Oversize) row.
var fbaSizeTiers = []sizeTier{
	{Name: "Small Standard", MaxLength: 15, MaxWidth: 12, MaxHeight: 0.75, MaxWeight: 1, BaseFee: 3.22, FirstWeightLb: 1, PerLbOverFirst: 0},
	{Name: "Large Standard", MaxLength: 18, MaxWidth: 14, MaxHeight: 8, MaxWeight: 20, BaseFee: 3.86, FirstWeightLb: 1, PerLbOverFirst: 0.08},
	{Name: "Small Oversize", MaxLength: 60, MaxWidth: 30, MaxHeight: 30, MaxWeight: 70, BaseFee: 9.73, FirstWeightLb: 1, PerLbOverFirst: 0.42},
	{Name: "Medium Oversize", MaxLength: 108, MaxWidth: 54, MaxHeight: 54, MaxWeight: 90, BaseFee: 19.05, FirstWeightLb: 1, PerLbOverFirst: 0.42},
	{Name: "Large Oversize", MaxLength: 108, MaxWidth: 54, MaxHeight: 54, MaxWeight: 150, BaseFee: 89.98, FirstWeightLb: 90, PerLbOverFirst: 0.83},
	{Name: "Special Oversize", MaxLength: 0, MaxWidth: 0, MaxHeight: 0, MaxWeight: 0, BaseFee: 158.49, FirstWeightLb: 90, PerLbOverFirst: 0.83},
}

// Monthly storage rates in dollars per cubic foot. Peak covers Oct-Dec.
const (
	storageStandardOffPeak = 0.87
	storageStandardPeak    = 2.40
	storageOversizeOffPeak = 0.56
	storageOversizePeak    = 1.40
)

// Oversize classification thresholds for storage purposes.
const (
	oversizeLengthIn = 18.0
	oversizeWidthIn  = 14.0
	oversizeHeightIn = 8.0
	oversizeWeightLb = 20.0
)

// wfsRate is one row of the Walmart fulfillment fee ladder.
type wfsRate struct {
	MaxWeightLb  float64
	MaxLongestIn float64
	Fee          float64
}

var wfsRates = []wfsRate{
	{MaxWeightLb: 1, MaxLongestIn: 15, Fee: 3.45},
	{MaxWeightLb: 2, MaxLongestIn: 25, Fee: 4.95},
	{MaxWeightLb: 3, MaxLongestIn: 25, Fee: 5.45},
	{MaxWeightLb: 5, MaxLongestIn: 30, Fee: 5.95},
	{MaxWeightLb: 10, MaxLongestIn: 48, Fee: 8.35},
	{MaxWeightLb: 20, MaxLongestIn: 48, Fee: 12.60},
	{MaxWeightLb: 30, MaxLongestIn: 72, Fee: 16.00},
	{MaxWeightLb: 50, MaxLongestIn: 96, Fee: 19.95},
	{MaxWeightLb: 70, MaxLongestIn: 108, Fee: 24.95},
}

// Items past the last WFS row pay the final rate plus a surcharge per
// started 10 lb block.
const (
	wfsOverweightBase      = 24.95
	wfsOverweightPer10Lb   = 5.00
	wfsOverweightThreshold = 70.0
)

// Walmart publishes combined storage pricing; the calculator uses a flat
// monthly estimate rather than a cubic-foot model.
const wfsMonthlyStorageEstimate = 0.75

func referralTableFor(m model.Marketplace) map[string]referralRate {
	if m == model.MarketplaceWalmart {
		return walmartReferral
	}
	return amazonReferral
}
