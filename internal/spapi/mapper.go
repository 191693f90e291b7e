package spapi

import (
	"strings"

	"github.com/flipradar/flipradar/internal/model"
	"github.com/flipradar/flipradar/internal/provider"
)

// catalogSearchResponse is the barcode-search slice of the catalog API.
type catalogSearchResponse struct {
	Items []struct {
		ASIN string `json:"asin"`
	} `json:"items"`
}

// catalogItem is the slice of a catalog item record this adapter consumes.
// Each section is keyed by marketplace and entirely optional.
type catalogItem struct {
	ASIN string `json:"asin"`

	Summaries []struct {
		MarketplaceID        string `json:"marketplaceId"`
		ItemName             string `json:"itemName"`
		Brand                string `json:"brand"`
		BrowseClassification *struct {
			DisplayName string `json:"displayName"`
		} `json:"browseClassification"`
	} `json:"summaries"`

	Images []struct {
		Images []struct {
			Variant string `json:"variant"`
			Link    string `json:"link"`
		} `json:"images"`
	} `json:"images"`

	Dimensions []struct {
		Package *struct {
			Length *measurement `json:"length"`
			Width  *measurement `json:"width"`
			Height *measurement `json:"height"`
			Weight *measurement `json:"weight"`
		} `json:"package"`
	} `json:"dimensions"`

	SalesRanks []struct {
		ClassificationRanks []struct {
			Title string `json:"title"`
			Rank  int    `json:"rank"`
		} `json:"classificationRanks"`
	} `json:"salesRanks"`

	Identifiers []struct {
		Identifiers []struct {
			IdentifierType string `json:"identifierType"`
			Identifier     string `json:"identifier"`
		} `json:"identifiers"`
	} `json:"identifiers"`
}

type measurement struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// pricingResponse is the competitive pricing slice.
type pricingResponse struct {
	Payload struct {
		Summary *pricingSummary `json:"Summary"`
	} `json:"payload"`
}

type pricingSummary struct {
	TotalOfferCount int `json:"TotalOfferCount"`

	NumberOfOffers []struct {
		Condition          string `json:"condition"`
		FulfillmentChannel string `json:"fulfillmentChannel"`
		OfferCount         int    `json:"OfferCount"`
	} `json:"NumberOfOffers"`

	BuyBoxPrices []struct {
		Condition   string `json:"condition"`
		LandedPrice struct {
			Amount float64 `json:"Amount"`
		} `json:"LandedPrice"`
	} `json:"BuyBoxPrices"`

	LowestPrices []struct {
		Condition   string `json:"condition"`
		LandedPrice struct {
			Amount float64 `json:"Amount"`
		} `json:"LandedPrice"`
	} `json:"LowestPrices"`
}

type feesEstimateRequest struct {
	FeesEstimateRequest struct {
		MarketplaceID       string `json:"MarketplaceId"`
		Identifier          string `json:"Identifier"`
		IsAmazonFulfilled   bool   `json:"IsAmazonFulfilled"`
		PriceToEstimateFees struct {
			ListingPrice struct {
				CurrencyCode string  `json:"CurrencyCode"`
				Amount       float64 `json:"Amount"`
			} `json:"ListingPrice"`
		} `json:"PriceToEstimateFees"`
	} `json:"FeesEstimateRequest"`
}

type feesEstimateResponse struct {
	Payload struct {
		FeesEstimateResult struct {
			FeesEstimate *struct {
				TotalFeesEstimate struct {
					Amount float64 `json:"Amount"`
				} `json:"TotalFeesEstimate"`
			} `json:"FeesEstimate"`
		} `json:"FeesEstimateResult"`
	} `json:"payload"`
}

// mapProduct joins the three sub-fetch payloads into a normalized record.
// pricing and fees may be nil; their fields stay absent.
func mapProduct(item *catalogItem, pricing *pricingSummary, fees *float64) *model.NormalizedProduct {
	if item == nil {
		return nil
	}

	out := &model.NormalizedProduct{ASIN: item.ASIN}

	if len(item.Summaries) > 0 {
		s := item.Summaries[0]
		out.Title = s.ItemName
		out.Brand = s.Brand
		if s.BrowseClassification != nil {
			out.Category = s.BrowseClassification.DisplayName
		}
	}

	for _, group := range item.Images {
		for _, img := range group.Images {
			if strings.EqualFold(img.Variant, "MAIN") && img.Link != "" {
				out.ImageURL = img.Link
				break
			}
		}
		if out.ImageURL != "" {
			break
		}
	}

	for _, id := range item.Identifiers {
		for _, ident := range id.Identifiers {
			switch ident.IdentifierType {
			case "UPC":
				if out.UPC == "" {
					out.UPC = ident.Identifier
				}
			case "EAN":
				if out.EAN == "" {
					out.EAN = ident.Identifier
				}
			}
		}
	}

	if len(item.Dimensions) > 0 && item.Dimensions[0].Package != nil {
		pkg := item.Dimensions[0].Package
		d := &model.Dimensions{}
		if pkg.Length != nil {
			d.Length = provider.LengthToInches(pkg.Length.Value, pkg.Length.Unit)
		}
		if pkg.Width != nil {
			d.Width = provider.LengthToInches(pkg.Width.Value, pkg.Width.Unit)
		}
		if pkg.Height != nil {
			d.Height = provider.LengthToInches(pkg.Height.Value, pkg.Height.Unit)
		}
		if pkg.Weight != nil {
			d.Weight = provider.WeightToLb(pkg.Weight.Value, pkg.Weight.Unit)
		}
		out.Dimensions = d
	}

	listing := &model.ListingSnapshot{
		Marketplace:   model.MarketplaceAmazon,
		MarketplaceID: item.ASIN,
		EstimatedFees: fees,
	}

	if len(item.SalesRanks) > 0 && len(item.SalesRanks[0].ClassificationRanks) > 0 {
		r := item.SalesRanks[0].ClassificationRanks[0]
		if r.Rank > 0 {
			listing.BSR = model.OptInt(r.Rank)
			listing.BSRCategory = r.Title
		}
	}

	if pricing != nil {
		if pricing.TotalOfferCount > 0 {
			listing.OfferCount = model.OptInt(pricing.TotalOfferCount)
		}
		fba := 0
		for _, n := range pricing.NumberOfOffers {
			if strings.EqualFold(n.FulfillmentChannel, "Amazon") {
				fba += n.OfferCount
			}
		}
		if fba > 0 {
			listing.FBAOfferCount = model.OptInt(fba)
		}
		for _, p := range pricing.BuyBoxPrices {
			if strings.EqualFold(p.Condition, "New") {
				listing.BuyBoxPrice = model.OptFloat(p.LandedPrice.Amount)
				break
			}
		}
		for _, p := range pricing.LowestPrices {
			if strings.EqualFold(p.Condition, "New") {
				listing.CurrentPrice = model.OptFloat(p.LandedPrice.Amount)
				break
			}
		}
	}
	out.Listing = listing

	out.EnsureTitle()
	return out
}
