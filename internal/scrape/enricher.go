// Package scrape fills gaps in resolved product records by fetching the
// public product page. It is a best-effort enricher: any failure leaves the
// record exactly as it was.
package scrape

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/flipradar/flipradar/internal/model"
)

const defaultBaseURL = "https://www.amazon.com"

// Config holds enricher settings.
type Config struct {
	// BaseURL overrides the product page host, for tests.
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
}

// Enricher scrapes public product pages for title, brand and image when the
// upstream providers returned a record without them.
type Enricher struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func New(cfg Config) *Enricher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:     logger.Named("scrape"),
	}
}

// Enrich fills absent title, brand and image fields on a record that has an
// ASIN. Fields already present are never overwritten. Errors are logged and
// swallowed; the input record is always returned.
func (e *Enricher) Enrich(ctx context.Context, p *model.NormalizedProduct) *model.NormalizedProduct {
	if p == nil || p.ASIN == "" {
		return p
	}
	if !needsEnrichment(p) {
		return p
	}

	page, err := e.fetchPage(ctx, p.ASIN)
	if err != nil {
		e.logger.Debug("page fetch failed", zap.String("asin", p.ASIN), zap.Error(err))
		return p
	}

	if p.Title == "" || p.Title == "Unknown" || p.Title == p.ASIN {
		if title := page.title(); title != "" {
			p.Title = title
		}
	}
	if p.Brand == "" {
		p.Brand = page.brand()
	}
	if p.ImageURL == "" {
		p.ImageURL = page.image()
	}
	return p
}

func needsEnrichment(p *model.NormalizedProduct) bool {
	missingTitle := p.Title == "" || p.Title == "Unknown" || p.Title == p.ASIN
	return missingTitle || p.Brand == "" || p.ImageURL == ""
}

type productPage struct {
	doc *goquery.Document
}

func (e *Enricher) fetchPage(ctx context.Context, asin string) (*productPage, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/dp/"+asin, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product page status %d", resp.StatusCode)
	}

	reader, err := decodedReader(resp)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing product page: %w", err)
	}
	return &productPage{doc: doc}, nil
}

// decodedReader unwraps the response body according to Content-Encoding.
func decodedReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

func (p *productPage) title() string {
	if t := strings.TrimSpace(p.doc.Find("#productTitle").First().Text()); t != "" {
		return t
	}
	if t, ok := p.doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return strings.TrimSpace(t)
	}
	return ""
}

func (p *productPage) brand() string {
	if b := strings.TrimSpace(p.doc.Find("#bylineInfo").First().Text()); b != "" {
		b = strings.TrimPrefix(b, "Visit the ")
		b = strings.TrimSuffix(b, " Store")
		b = strings.TrimPrefix(b, "Brand: ")
		return strings.TrimSpace(b)
	}
	return ""
}

func (p *productPage) image() string {
	if link, ok := p.doc.Find("#landingImage").Attr("src"); ok && link != "" {
		return link
	}
	if link, ok := p.doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		return strings.TrimSpace(link)
	}
	return ""
}
