package keepa

import (
	"strings"

	"github.com/flipradar/flipradar/internal/model"
	"github.com/flipradar/flipradar/internal/provider"
)

// Keepa packs current values into a positional array; these are the indices
// this adapter reads. Prices are integer cents and -1 means "no value".
const (
	statNewPrice     = 1
	statSalesRank    = 3
	statRating       = 16 // rating * 10
	statReviewCount  = 17
	statBuyBoxPrice  = 18
	statOfferCount   = 11
	keepaNoValue     = -1
	keepaImagePrefix = "https://images-na.ssl-images-amazon.com/images/I/"
)

type apiResponse struct {
	TokensLeft int          `json:"tokensLeft"`
	Products   []apiProduct `json:"products"`
}

// apiProduct is the slice of a Keepa product object this adapter consumes.
// Package measurements are millimeters and grams.
type apiProduct struct {
	ASIN    string   `json:"asin"`
	Title   string   `json:"title"`
	Brand   string   `json:"brand"`
	UPCList []string `json:"upcList"`
	EANList []string `json:"eanList"`

	CategoryTree []struct {
		CatID int64  `json:"catId"`
		Name  string `json:"name"`
	} `json:"categoryTree"`

	ImagesCSV string `json:"imagesCSV"`

	PackageLength float64 `json:"packageLength"`
	PackageWidth  float64 `json:"packageWidth"`
	PackageHeight float64 `json:"packageHeight"`
	PackageWeight float64 `json:"packageWeight"`

	Stats *struct {
		Current        []int `json:"current"`
		BuyBoxIsAmazon bool  `json:"buyBoxIsAmazon"`
		OfferCountFBA  int   `json:"offerCountFBA"`
	} `json:"stats"`
}

func mapProduct(p *apiProduct) *model.NormalizedProduct {
	if p == nil {
		return nil
	}

	out := &model.NormalizedProduct{
		ASIN:  p.ASIN,
		Title: p.Title,
		Brand: p.Brand,
	}
	if len(p.UPCList) > 0 {
		out.UPC = p.UPCList[0]
	}
	if len(p.EANList) > 0 {
		out.EAN = p.EANList[0]
	}
	if len(p.CategoryTree) > 0 {
		out.Category = p.CategoryTree[len(p.CategoryTree)-1].Name
	}
	if p.ImagesCSV != "" {
		first := strings.SplitN(p.ImagesCSV, ",", 2)[0]
		if first != "" {
			out.ImageURL = keepaImagePrefix + first
		}
	}

	if p.PackageLength > 0 || p.PackageWidth > 0 || p.PackageHeight > 0 || p.PackageWeight > 0 {
		// Package fields use the same -1 sentinel as the stats array; a
		// non-positive measurement is unknown, not a size.
		d := &model.Dimensions{}
		if p.PackageLength > 0 {
			d.Length = provider.MMToInches(p.PackageLength)
		}
		if p.PackageWidth > 0 {
			d.Width = provider.MMToInches(p.PackageWidth)
		}
		if p.PackageHeight > 0 {
			d.Height = provider.MMToInches(p.PackageHeight)
		}
		if p.PackageWeight > 0 {
			d.Weight = provider.GramsToLb(p.PackageWeight)
		}
		out.Dimensions = d
	}

	listing := &model.ListingSnapshot{
		Marketplace:   model.MarketplaceAmazon,
		MarketplaceID: p.ASIN,
	}
	if p.Stats != nil {
		if cents, ok := statAt(p.Stats.Current, statNewPrice); ok {
			listing.CurrentPrice = model.OptFloat(float64(cents) / 100)
		}
		if cents, ok := statAt(p.Stats.Current, statBuyBoxPrice); ok {
			listing.BuyBoxPrice = model.OptFloat(float64(cents) / 100)
		}
		if rank, ok := statAt(p.Stats.Current, statSalesRank); ok {
			listing.BSR = model.OptInt(rank)
			if len(p.CategoryTree) > 0 {
				listing.BSRCategory = p.CategoryTree[0].Name
			}
		}
		if count, ok := statAt(p.Stats.Current, statOfferCount); ok {
			listing.OfferCount = model.OptInt(count)
		}
		if rating, ok := statAt(p.Stats.Current, statRating); ok {
			listing.Rating = model.OptFloat(float64(rating) / 10)
		}
		if reviews, ok := statAt(p.Stats.Current, statReviewCount); ok {
			listing.ReviewCount = model.OptInt(reviews)
		}
		if p.Stats.OfferCountFBA > 0 {
			listing.FBAOfferCount = model.OptInt(p.Stats.OfferCountFBA)
		}
		isAmazon := p.Stats.BuyBoxIsAmazon
		listing.IsAmazonSelling = &isAmazon
	}
	out.Listing = listing

	out.EnsureTitle()
	return out
}

// statAt reads one slot of the packed stats array, treating short arrays and
// the -1 sentinel as absent.
func statAt(current []int, idx int) (int, bool) {
	if idx >= len(current) {
		return 0, false
	}
	v := current[idx]
	if v == keepaNoValue {
		return 0, false
	}
	return v, true
}
