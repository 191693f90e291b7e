// Package resolve unifies the upstream providers into one fallback chain.
// Providers are tried strictly in priority order, cheapest first, and the
// first hit wins; the authoritative API is only reached when everything
// cheaper came up empty. There is deliberately no cross-adapter timeout: a
// slow provider blocks the chain, and callers wanting a bound put a deadline
// on the context.
package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flipradar/flipradar/internal/model"
	"github.com/flipradar/flipradar/internal/provider"
)

// Enricher fills gaps in a resolved record. scrape.Enricher implements it.
type Enricher interface {
	Enrich(ctx context.Context, p *model.NormalizedProduct) *model.NormalizedProduct
}

// Option customizes a Chain.
type Option func(*Chain)

// WithCache keeps resolved records in memory for ttl, sparing upstream
// quota on repeated lookups.
func WithCache(maxSize int, ttl time.Duration) Option {
	return func(c *Chain) { c.cache = newMemoryCache(maxSize, ttl) }
}

// WithEnricher runs a best-effort gap filler over every resolved record.
func WithEnricher(e Enricher) Option {
	return func(c *Chain) { c.enricher = e }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Chain) { c.logger = l.Named("resolve") }
}

// Chain is the provider fallback chain.
type Chain struct {
	providers []provider.Provider
	cache     *memoryCache
	enricher  Enricher
	logger    *zap.Logger
}

// NewChain builds a chain over providers in the given priority order.
func NewChain(providers []provider.Provider, opts ...Option) *Chain {
	c := &Chain{
		providers: providers,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetByASIN resolves a product by marketplace identifier. A nil result with
// a nil error means no provider had data; provider failures never surface,
// only context cancellation does.
func (c *Chain) GetByASIN(ctx context.Context, asin string, marketplace model.Marketplace) (*model.NormalizedProduct, error) {
	key := fmt.Sprintf("asin:%s:%s", marketplace, asin)
	return c.lookup(ctx, key, func(p provider.Provider) (*model.NormalizedProduct, error) {
		return p.GetByASIN(ctx, asin, marketplace)
	})
}

// SearchByBarcode resolves a product by UPC or EAN.
func (c *Chain) SearchByBarcode(ctx context.Context, code string, barcodeType model.BarcodeType, marketplace model.Marketplace) (*model.NormalizedProduct, error) {
	key := fmt.Sprintf("code:%s:%s:%s", marketplace, barcodeType, code)
	return c.lookup(ctx, key, func(p provider.Provider) (*model.NormalizedProduct, error) {
		return p.SearchByBarcode(ctx, code, barcodeType, marketplace)
	})
}

func (c *Chain) lookup(ctx context.Context, key string, fetch func(provider.Provider) (*model.NormalizedProduct, error)) (*model.NormalizedProduct, error) {
	trace := uuid.NewString()
	log := c.logger.With(zap.String("trace", trace), zap.String("key", key))

	if c.cache != nil {
		if hit, ok := c.cache.Get(key); ok {
			log.Debug("cache hit")
			return hit, nil
		}
	}

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !p.Available() {
			log.Debug("provider skipped", zap.String("provider", p.Name()))
			continue
		}

		result, err := fetch(p)
		if err != nil {
			// Swallowed on purpose: a provider failure is just "no data
			// here", and the next rung gets its chance.
			log.Warn("provider failed", zap.String("provider", p.Name()), zap.Error(err))
			continue
		}
		if result == nil {
			log.Debug("provider empty", zap.String("provider", p.Name()))
			continue
		}

		log.Debug("resolved", zap.String("provider", p.Name()))
		if c.enricher != nil {
			result = c.enricher.Enrich(ctx, result)
		}
		if c.cache != nil {
			c.cache.Put(key, result)
		}
		return result, nil
	}

	log.Debug("exhausted all providers")
	return nil, nil
}
