package flipradar

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config wires the core together. Credential presence decides which
// providers participate in the resolution chain; everything else has a
// sensible default.
type Config struct {
	// RainforestAPIKey enables the scraping aggregator. Empty disables it.
	RainforestAPIKey string
	// KeepaAPIKey enables the historical analytics provider.
	KeepaAPIKey string

	// LWA credentials enable the authoritative marketplace API. All three
	// must be set.
	LWAClientID     string
	LWAClientSecret string
	LWARefreshToken string
	// SPAPISandbox switches the authoritative adapter to sandbox endpoints.
	SPAPISandbox bool

	// RequestTimeout bounds each upstream HTTP request.
	RequestTimeout time.Duration

	// CacheTTL and CacheSize control the in-memory response cache. A zero
	// TTL disables caching.
	CacheTTL  time.Duration
	CacheSize int

	// ScrapeEnrichment turns on product-page gap filling for sparse
	// records.
	ScrapeEnrichment bool
}

// Load reads a .env file when one is present, then builds a Config from the
// process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() Config {
	return Config{
		RainforestAPIKey: os.Getenv("FLIPRADAR_RAINFOREST_API_KEY"),
		KeepaAPIKey:      os.Getenv("FLIPRADAR_KEEPA_API_KEY"),
		LWAClientID:      os.Getenv("FLIPRADAR_LWA_CLIENT_ID"),
		LWAClientSecret:  os.Getenv("FLIPRADAR_LWA_CLIENT_SECRET"),
		LWARefreshToken:  os.Getenv("FLIPRADAR_LWA_REFRESH_TOKEN"),
		SPAPISandbox:     boolEnv("FLIPRADAR_SPAPI_SANDBOX", false),
		RequestTimeout:   durationEnv("FLIPRADAR_REQUEST_TIMEOUT", 30*time.Second),
		CacheTTL:         durationEnv("FLIPRADAR_CACHE_TTL", 15*time.Minute),
		CacheSize:        intEnv("FLIPRADAR_CACHE_SIZE", 1024),
		ScrapeEnrichment: boolEnv("FLIPRADAR_SCRAPE_ENRICHMENT", false),
	}
}

func boolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
