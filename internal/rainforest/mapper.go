package rainforest

import (
	"github.com/flipradar/flipradar/internal/model"
	"github.com/flipradar/flipradar/internal/provider"
)

// apiResponse mirrors the slice of the Rainforest payload this adapter
// consumes. Every field is optional upstream; the mapper never assumes
// presence.
type apiResponse struct {
	RequestInfo struct {
		Success bool `json:"success"`
	} `json:"request_info"`
	Product       *apiProduct       `json:"product"`
	BuyboxWinner  *apiBuyboxWinner  `json:"buybox_winner"`
	OffersSummary *apiOffersSummary `json:"offers_summary"`
}

type apiProduct struct {
	ASIN  string `json:"asin"`
	Title string `json:"title"`
	Brand string `json:"brand"`
	UPC   string `json:"upc"`
	EAN   string `json:"ean"`

	MainImage *struct {
		Link string `json:"link"`
	} `json:"main_image"`

	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`

	Dimensions *struct {
		Length float64 `json:"length"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Unit   string  `json:"unit"`
	} `json:"dimensions"`

	Weight *struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	} `json:"weight"`

	Price *struct {
		Value float64 `json:"value"`
	} `json:"price"`

	Rating       float64 `json:"rating"`
	RatingsTotal int     `json:"ratings_total"`

	BestsellersRank []struct {
		Category string `json:"category"`
		Rank     int    `json:"rank"`
	} `json:"bestsellers_rank"`
}

type apiBuyboxWinner struct {
	Price *struct {
		Value float64 `json:"value"`
	} `json:"price"`
	IsAmazon bool `json:"is_amazon"`
}

type apiOffersSummary struct {
	Total int `json:"total"`
	FBA   int `json:"fba"`
}

// mapProduct normalizes one Rainforest product payload. Missing sections
// become absent fields, never errors.
func mapProduct(p *apiProduct, buybox *apiBuyboxWinner, offers *apiOffersSummary) *model.NormalizedProduct {
	if p == nil {
		return nil
	}

	out := &model.NormalizedProduct{
		ASIN:  p.ASIN,
		UPC:   p.UPC,
		EAN:   p.EAN,
		Title: p.Title,
		Brand: p.Brand,
	}
	if p.MainImage != nil {
		out.ImageURL = p.MainImage.Link
	}
	if len(p.Categories) > 0 {
		// Rainforest lists the category path root-first; the leaf is the
		// most specific.
		out.Category = p.Categories[len(p.Categories)-1].Name
	}

	if p.Dimensions != nil || p.Weight != nil {
		d := &model.Dimensions{}
		if p.Dimensions != nil {
			d.Length = provider.LengthToInches(p.Dimensions.Length, p.Dimensions.Unit)
			d.Width = provider.LengthToInches(p.Dimensions.Width, p.Dimensions.Unit)
			d.Height = provider.LengthToInches(p.Dimensions.Height, p.Dimensions.Unit)
		}
		if p.Weight != nil {
			d.Weight = provider.WeightToLb(p.Weight.Value, p.Weight.Unit)
		}
		if d.Length >= 0 && d.Width >= 0 && d.Height >= 0 && d.Weight >= 0 {
			out.Dimensions = d
		}
	}

	listing := &model.ListingSnapshot{
		Marketplace:   model.MarketplaceAmazon,
		MarketplaceID: p.ASIN,
	}
	// Zero in these fields means "not reported" upstream.
	if p.Rating > 0 {
		listing.Rating = model.OptFloat(p.Rating)
	}
	if p.RatingsTotal > 0 {
		listing.ReviewCount = model.OptInt(p.RatingsTotal)
	}
	if p.Price != nil {
		listing.CurrentPrice = model.OptFloat(p.Price.Value)
	}
	if buybox != nil {
		if buybox.Price != nil {
			listing.BuyBoxPrice = model.OptFloat(buybox.Price.Value)
		}
		isAmazon := buybox.IsAmazon
		listing.IsAmazonSelling = &isAmazon
	}
	if offers != nil {
		listing.OfferCount = model.OptInt(offers.Total)
		listing.FBAOfferCount = model.OptInt(offers.FBA)
	}
	if len(p.BestsellersRank) > 0 && p.BestsellersRank[0].Rank > 0 {
		listing.BSR = model.OptInt(p.BestsellersRank[0].Rank)
		listing.BSRCategory = p.BestsellersRank[0].Category
	}
	out.Listing = listing

	out.EnsureTitle()
	return out
}
