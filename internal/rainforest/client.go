// Package rainforest adapts the Rainforest scraping aggregator, the cheapest
// rung of the resolution chain. It trades freshness and completeness for not
// touching the authoritative API's quota.
package rainforest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/flipradar/flipradar/internal/model"
	"github.com/flipradar/flipradar/internal/provider"
)

const defaultBaseURL = "https://api.rainforestapi.com"

// Config holds Rainforest client settings. An empty APIKey disables the
// adapter entirely.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client implements provider.Provider against the Rainforest request API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      provider.RetryPolicy
	logger     *zap.Logger
}

var _ provider.Provider = (*Client)(nil)

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
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
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
		retry:      provider.DefaultRetryPolicy(),
		logger:     logger.Named("rainforest"),
	}
}

func (c *Client) Available() bool {
	return c.apiKey != ""
}

func (c *Client) Name() string {
	return "rainforest"
}

// GetByASIN looks up a product snapshot by ASIN. Rainforest only covers
// Amazon catalogs, so other marketplaces yield no data.
func (c *Client) GetByASIN(ctx context.Context, asin string, marketplace model.Marketplace) (*model.NormalizedProduct, error) {
	domain, ok := amazonDomain(marketplace)
	if !ok || !c.Available() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("type", "product")
	params.Set("asin", asin)
	params.Set("amazon_domain", domain)

	var resp apiResponse
	if done, err := c.request(ctx, params, &resp); err != nil || !done {
		return nil, err
	}
	if resp.Product == nil {
		return nil, nil
	}
	return mapProduct(resp.Product, resp.BuyboxWinner, resp.OffersSummary), nil
}

// SearchByBarcode resolves a UPC or EAN through the aggregator's GTIN
// search, returning the first hit.
func (c *Client) SearchByBarcode(ctx context.Context, code string, barcodeType model.BarcodeType, marketplace model.Marketplace) (*model.NormalizedProduct, error) {
	domain, ok := amazonDomain(marketplace)
	if !ok || !c.Available() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("type", "product")
	params.Set("gtin", code)
	params.Set("amazon_domain", domain)

	var resp apiResponse
	if done, err := c.request(ctx, params, &resp); err != nil || !done {
		return nil, err
	}
	if resp.Product == nil {
		return nil, nil
	}
	out := mapProduct(resp.Product, resp.BuyboxWinner, resp.OffersSummary)
	if out != nil && out.UPC == "" && out.EAN == "" {
		switch barcodeType {
		case model.BarcodeEAN:
			out.EAN = code
		default:
			out.UPC = code
		}
	}
	return out, nil
}

// request performs one retried GET. It returns done=false with a nil error
// when the upstream answered with a permanent non-2xx status, which callers
// treat as "no data".
func (c *Client) request(ctx context.Context, params url.Values, into *apiResponse) (done bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}
	params.Set("api_key", c.apiKey)
	u := fmt.Sprintf("%s/request?%s", c.baseURL, params.Encode())

	err = c.retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return provider.Retryable(err)
		}
		defer resp.Body.Close()

		if provider.IsRetryableStatus(resp.StatusCode) {
			body, _ := io.ReadAll(resp.Body)
			return provider.Retryable(&provider.StatusError{Code: resp.StatusCode, Body: string(body)})
		}
		if resp.StatusCode/100 != 2 {
			body, _ := io.ReadAll(resp.Body)
			return &provider.StatusError{Code: resp.StatusCode, Body: string(body)}
		}
		return json.NewDecoder(resp.Body).Decode(into)
	})
	if err != nil {
		var se *provider.StatusError
		if errors.As(err, &se) && !provider.IsRetryableStatus(se.Code) {
			c.logger.Warn("permanent upstream failure", zap.Int("status", se.Code))
			return false, nil
		}
		return false, fmt.Errorf("rainforest request: %w", err)
	}
	if !into.RequestInfo.Success {
		return false, nil
	}
	return true, nil
}

func amazonDomain(m model.Marketplace) (string, bool) {
	switch m {
	case model.MarketplaceAmazon, "":
		return "amazon.com", true
	default:
		return "", false
	}
}
