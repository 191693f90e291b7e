// Package spapi adapts the authoritative marketplace Selling Partner API,
// the last and most expensive rung of the resolution chain. One lookup fans
// out to three sub-requests: catalog item, competitive pricing and a fee
// estimate. The catalog item is mandatory; the other two degrade to absent
// fields.
package spapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/flipradar/flipradar/internal/model"
	"github.com/flipradar/flipradar/internal/provider"
)

const (
	productionBaseURL = "https://sellingpartnerapi-na.amazon.com"
	sandboxBaseURL    = "https://sandbox.sellingpartnerapi-na.amazon.com"

	marketplaceIDAmazonUS = "ATVPDKIKX0DER"
)

// errNoCatalog marks a lookup whose catalog sub-fetch came back without an
// item. It voids the whole lookup.
var errNoCatalog = errors.New("catalog item unavailable")

// Config holds SP-API client settings.
type Config struct {
	LWA     LWAConfig
	Sandbox bool
	// BaseURL overrides both endpoint variants, for tests.
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client implements provider.Provider against the Selling Partner API.
type Client struct {
	baseURL    string
	auth       *AuthManager
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      provider.RetryPolicy
	logger     *zap.Logger
}

var _ provider.Provider = (*Client)(nil)

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Sandbox {
			baseURL = sandboxBaseURL
		} else {
			baseURL = productionBaseURL
		}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		auth:       NewAuthManager(cfg.LWA, logger),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		retry:      provider.DefaultRetryPolicy(),
		logger:     logger.Named("spapi"),
	}
}

func (c *Client) Available() bool {
	return c.auth.Configured()
}

func (c *Client) Name() string {
	return "spapi"
}

func (c *Client) GetByASIN(ctx context.Context, asin string, marketplace model.Marketplace) (*model.NormalizedProduct, error) {
	mktID, ok := marketplaceID(marketplace)
	if !ok || !c.Available() {
		return nil, nil
	}
	token, err := c.auth.AccessToken(ctx)
	if err != nil {
		if errors.Is(err, provider.ErrNotConfigured) {
			return nil, nil
		}
		return nil, err
	}
	return c.assemble(ctx, token, mktID, asin)
}

// SearchByBarcode resolves the barcode to an ASIN through the catalog search
// endpoint, then runs the regular lookup for it.
func (c *Client) SearchByBarcode(ctx context.Context, code string, barcodeType model.BarcodeType, marketplace model.Marketplace) (*model.NormalizedProduct, error) {
	mktID, ok := marketplaceID(marketplace)
	if !ok || !c.Available() {
		return nil, nil
	}
	token, err := c.auth.AccessToken(ctx)
	if err != nil {
		if errors.Is(err, provider.ErrNotConfigured) {
			return nil, nil
		}
		return nil, err
	}

	params := url.Values{}
	params.Set("identifiers", code)
	params.Set("identifiersType", string(barcodeType))
	params.Set("marketplaceIds", mktID)
	params.Set("includedData", "summaries")

	var search catalogSearchResponse
	done, err := c.getJSON(ctx, token, "/catalog/2022-04-01/items?"+params.Encode(), &search)
	if err != nil || !done {
		return nil, err
	}
	if len(search.Items) == 0 || search.Items[0].ASIN == "" {
		return nil, nil
	}

	out, err := c.assemble(ctx, token, mktID, search.Items[0].ASIN)
	if out != nil && out.UPC == "" && out.EAN == "" {
		switch barcodeType {
		case model.BarcodeEAN:
			out.EAN = code
		default:
			out.UPC = code
		}
	}
	return out, err
}

// assemble runs the three sub-fetches concurrently and joins them. Pricing
// and fee failures are logged and tolerated; a catalog failure voids the
// lookup.
func (c *Client) assemble(ctx context.Context, token, mktID, asin string) (*model.NormalizedProduct, error) {
	var (
		catalog catalogItem
		pricing *pricingSummary
		fees    *float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		params := url.Values{}
		params.Set("marketplaceIds", mktID)
		params.Set("includedData", "summaries,images,dimensions,salesRanks,identifiers")
		done, err := c.getJSON(gctx, token, "/catalog/2022-04-01/items/"+asin+"?"+params.Encode(), &catalog)
		if err != nil {
			return err
		}
		if !done || catalog.ASIN == "" {
			return errNoCatalog
		}
		return nil
	})

	g.Go(func() error {
		params := url.Values{}
		params.Set("MarketplaceId", mktID)
		params.Set("ItemCondition", "New")
		var resp pricingResponse
		done, err := c.getJSON(gctx, token, "/products/pricing/v0/items/"+asin+"/offers?"+params.Encode(), &resp)
		if err != nil || !done {
			c.logger.Debug("pricing sub-fetch degraded", zap.String("asin", asin), zap.Error(err))
			return nil
		}
		pricing = resp.Payload.Summary
		return nil
	})

	g.Go(func() error {
		estimate, err := c.fetchFeesEstimate(gctx, token, mktID, asin)
		if err != nil {
			c.logger.Debug("fees sub-fetch degraded", zap.String("asin", asin), zap.Error(err))
			return nil
		}
		fees = estimate
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, errNoCatalog) {
			return nil, nil
		}
		return nil, err
	}

	return mapProduct(&catalog, pricing, fees), nil
}

// fetchFeesEstimate asks the marketplace for its own fee preview. The
// request carries a zero listing price: the pricing sub-fetch runs
// concurrently, so no price is known yet, and the preview is kept as a
// coarse signal rather than a quote.
func (c *Client) fetchFeesEstimate(ctx context.Context, token, mktID, asin string) (*float64, error) {
	body := feesEstimateRequest{}
	body.FeesEstimateRequest.MarketplaceID = mktID
	body.FeesEstimateRequest.Identifier = asin
	body.FeesEstimateRequest.IsAmazonFulfilled = true
	body.FeesEstimateRequest.PriceToEstimateFees.ListingPrice.CurrencyCode = "USD"
	body.FeesEstimateRequest.PriceToEstimateFees.ListingPrice.Amount = 0

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var resp feesEstimateResponse
	done, err := c.postJSON(ctx, token, "/products/fees/v0/items/"+asin+"/feesEstimate", payload, &resp)
	if err != nil || !done {
		return nil, err
	}
	est := resp.Payload.FeesEstimateResult.FeesEstimate
	if est == nil {
		return nil, nil
	}
	return model.OptFloat(est.TotalFeesEstimate.Amount), nil
}

func (c *Client) getJSON(ctx context.Context, token, path string, into interface{}) (bool, error) {
	return c.do(ctx, http.MethodGet, token, path, nil, into)
}

func (c *Client) postJSON(ctx context.Context, token, path string, body []byte, into interface{}) (bool, error) {
	return c.do(ctx, http.MethodPost, token, path, body, into)
}

// do performs one retried request. done=false with a nil error means the
// upstream answered with a permanent non-2xx status.
func (c *Client) do(ctx context.Context, method, token, path string, body []byte, into interface{}) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("x-amz-access-token", token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return provider.Retryable(err)
		}
		defer resp.Body.Close()

		if provider.IsRetryableStatus(resp.StatusCode) {
			b, _ := io.ReadAll(resp.Body)
			return provider.Retryable(&provider.StatusError{Code: resp.StatusCode, Body: string(b)})
		}
		if resp.StatusCode/100 != 2 {
			b, _ := io.ReadAll(resp.Body)
			return &provider.StatusError{Code: resp.StatusCode, Body: string(b)}
		}
		return json.NewDecoder(resp.Body).Decode(into)
	})
	if err != nil {
		var se *provider.StatusError
		if errors.As(err, &se) && !provider.IsRetryableStatus(se.Code) {
			c.logger.Warn("permanent upstream failure",
				zap.String("path", path), zap.Int("status", se.Code))
			return false, nil
		}
		return false, fmt.Errorf("spapi %s %s: %w", method, path, err)
	}
	return true, nil
}

func marketplaceID(m model.Marketplace) (string, bool) {
	switch m {
	case model.MarketplaceAmazon, "":
		return marketplaceIDAmazonUS, true
	default:
		return "", false
	}
}
