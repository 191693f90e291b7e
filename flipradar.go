// Package flipradar is the core of a reselling arbitrage service: it
// resolves product data from heterogeneous upstream providers through a
// fallback chain, and turns a listing plus a buy price into a fee breakdown,
// profit metrics, a breakeven price and scenarios.
//
// The package owns no storage and schedules nothing; callers persist results
// and poll as they see fit.
package flipradar

import (
	"go.uber.org/zap"

	"github.com/flipradar/flipradar/internal/keepa"
	"github.com/flipradar/flipradar/internal/model"
	"github.com/flipradar/flipradar/internal/profit"
	"github.com/flipradar/flipradar/internal/provider"
	"github.com/flipradar/flipradar/internal/rainforest"
	"github.com/flipradar/flipradar/internal/resolve"
	"github.com/flipradar/flipradar/internal/scrape"
	"github.com/flipradar/flipradar/internal/spapi"
)

// Re-exported domain types, so callers need only this package.
type (
	Marketplace       = model.Marketplace
	Fulfillment       = model.Fulfillment
	BarcodeType       = model.BarcodeType
	Dimensions        = model.Dimensions
	ListingSnapshot   = model.ListingSnapshot
	NormalizedProduct = model.NormalizedProduct
	FeeBreakdown      = model.FeeBreakdown
	ProfitResult      = model.ProfitResult
	ScenarioResult    = model.ScenarioResult
	ProfitInput       = profit.Input
)

const (
	MarketplaceAmazon  = model.MarketplaceAmazon
	MarketplaceWalmart = model.MarketplaceWalmart
	MarketplaceEbay    = model.MarketplaceEbay

	FulfillmentFBA  = model.FulfillmentFBA
	FulfillmentFBM  = model.FulfillmentFBM
	FulfillmentWFS  = model.FulfillmentWFS
	FulfillmentWFM  = model.FulfillmentWFM
	FulfillmentEbay = model.FulfillmentEbay

	BarcodeUPC = model.BarcodeUPC
	BarcodeEAN = model.BarcodeEAN
)

// ErrUnsupportedFulfillment is re-exported for callers matching engine
// errors.
var ErrUnsupportedFulfillment = profit.ErrUnsupportedFulfillment

// Client bundles the resolution chain and the profit engine.
type Client struct {
	// Products resolves normalized product records through the provider
	// fallback chain.
	Products *resolve.Chain
	// Profit computes fees, profit metrics, breakeven and scenarios.
	Profit *profit.Engine
}

// New wires the chain in its fixed priority order (rainforest, keepa, then
// the authoritative API) from the given configuration. A nil logger
// disables logging.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	providers := []provider.Provider{
		rainforest.New(rainforest.Config{
			APIKey:  cfg.RainforestAPIKey,
			Timeout: cfg.RequestTimeout,
			Logger:  logger,
		}),
		keepa.New(keepa.Config{
			APIKey:  cfg.KeepaAPIKey,
			Timeout: cfg.RequestTimeout,
			Logger:  logger,
		}),
		spapi.New(spapi.Config{
			LWA: spapi.LWAConfig{
				ClientID:     cfg.LWAClientID,
				ClientSecret: cfg.LWAClientSecret,
				RefreshToken: cfg.LWARefreshToken,
			},
			Sandbox: cfg.SPAPISandbox,
			Timeout: cfg.RequestTimeout,
			Logger:  logger,
		}),
	}

	opts := []resolve.Option{resolve.WithLogger(logger)}
	if cfg.CacheTTL > 0 && cfg.CacheSize > 0 {
		opts = append(opts, resolve.WithCache(cfg.CacheSize, cfg.CacheTTL))
	}
	if cfg.ScrapeEnrichment {
		opts = append(opts, resolve.WithEnricher(scrape.New(scrape.Config{
			Timeout: cfg.RequestTimeout,
			Logger:  logger,
		})))
	}

	return &Client{
		Products: resolve.NewChain(providers, opts...),
		Profit:   profit.NewEngine(),
	}
}
