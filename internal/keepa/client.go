// Package keepa adapts the Keepa historical-analytics API, the second rung
// of the resolution chain. Keepa answers from its own crawl history, so its
// prices may lag the live marketplace.
package keepa

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

const defaultBaseURL = "https://api.keepa.com"

// Keepa marketplace domain ids. Only the US Amazon catalog is wired in.
const domainAmazonUS = 1

// Config holds Keepa client settings. An empty APIKey disables the adapter.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client implements provider.Provider against the Keepa product endpoint.
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
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		retry:      provider.DefaultRetryPolicy(),
		logger:     logger.Named("keepa"),
	}
}

func (c *Client) Available() bool {
	return c.apiKey != ""
}

func (c *Client) Name() string {
	return "keepa"
}

func (c *Client) GetByASIN(ctx context.Context, asin string, marketplace model.Marketplace) (*model.NormalizedProduct, error) {
	params := url.Values{}
	params.Set("asin", asin)
	return c.lookup(ctx, params, marketplace)
}

func (c *Client) SearchByBarcode(ctx context.Context, code string, barcodeType model.BarcodeType, marketplace model.Marketplace) (*model.NormalizedProduct, error) {
	params := url.Values{}
	params.Set("code", code)
	out, err := c.lookup(ctx, params, marketplace)
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

func (c *Client) lookup(ctx context.Context, params url.Values, marketplace model.Marketplace) (*model.NormalizedProduct, error) {
	if !c.Available() {
		return nil, nil
	}
	switch marketplace {
	case model.MarketplaceAmazon, "":
	default:
		// Keepa tracks Amazon catalogs only.
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("key", c.apiKey)
	params.Set("domain", fmt.Sprint(domainAmazonUS))
	params.Set("stats", "90")
	u := fmt.Sprintf("%s/product?%s", c.baseURL, params.Encode())

	var resp apiResponse
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		r, err := c.httpClient.Do(req)
		if err != nil {
			return provider.Retryable(err)
		}
		defer r.Body.Close()

		if provider.IsRetryableStatus(r.StatusCode) {
			body, _ := io.ReadAll(r.Body)
			return provider.Retryable(&provider.StatusError{Code: r.StatusCode, Body: string(body)})
		}
		if r.StatusCode/100 != 2 {
			body, _ := io.ReadAll(r.Body)
			return &provider.StatusError{Code: r.StatusCode, Body: string(body)}
		}
		return json.NewDecoder(r.Body).Decode(&resp)
	})
	if err != nil {
		var se *provider.StatusError
		if errors.As(err, &se) && !provider.IsRetryableStatus(se.Code) {
			c.logger.Warn("permanent upstream failure", zap.Int("status", se.Code))
			return nil, nil
		}
		return nil, fmt.Errorf("keepa request: %w", err)
	}

	if len(resp.Products) == 0 {
		return nil, nil
	}
	return mapProduct(&resp.Products[0]), nil
}
