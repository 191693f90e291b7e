package flipradar

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"FLIPRADAR_RAINFOREST_API_KEY",
		"FLIPRADAR_KEEPA_API_KEY",
		"FLIPRADAR_LWA_CLIENT_ID",
		"FLIPRADAR_LWA_CLIENT_SECRET",
		"FLIPRADAR_LWA_REFRESH_TOKEN",
		"FLIPRADAR_SPAPI_SANDBOX",
		"FLIPRADAR_REQUEST_TIMEOUT",
		"FLIPRADAR_CACHE_TTL",
		"FLIPRADAR_CACHE_SIZE",
		"FLIPRADAR_SCRAPE_ENRICHMENT",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.RainforestAPIKey != "" || cfg.KeepaAPIKey != "" {
		t.Errorf("keys = %q/%q, want empty", cfg.RainforestAPIKey, cfg.KeepaAPIKey)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want 15m", cfg.CacheTTL)
	}
	if cfg.CacheSize != 1024 {
		t.Errorf("CacheSize = %d, want 1024", cfg.CacheSize)
	}
	if cfg.SPAPISandbox || cfg.ScrapeEnrichment {
		t.Error("boolean toggles should default to false")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FLIPRADAR_RAINFOREST_API_KEY", "rf-key")
	t.Setenv("FLIPRADAR_KEEPA_API_KEY", "keepa-key")
	t.Setenv("FLIPRADAR_LWA_CLIENT_ID", "id")
	t.Setenv("FLIPRADAR_LWA_CLIENT_SECRET", "secret")
	t.Setenv("FLIPRADAR_LWA_REFRESH_TOKEN", "refresh")
	t.Setenv("FLIPRADAR_SPAPI_SANDBOX", "true")
	t.Setenv("FLIPRADAR_REQUEST_TIMEOUT", "5s")
	t.Setenv("FLIPRADAR_CACHE_TTL", "1h")
	t.Setenv("FLIPRADAR_CACHE_SIZE", "64")
	t.Setenv("FLIPRADAR_SCRAPE_ENRICHMENT", "1")

	cfg := FromEnv()
	if cfg.RainforestAPIKey != "rf-key" {
		t.Errorf("RainforestAPIKey = %q", cfg.RainforestAPIKey)
	}
	if cfg.KeepaAPIKey != "keepa-key" {
		t.Errorf("KeepaAPIKey = %q", cfg.KeepaAPIKey)
	}
	if cfg.LWAClientID != "id" || cfg.LWAClientSecret != "secret" || cfg.LWARefreshToken != "refresh" {
		t.Error("LWA credentials not read")
	}
	if !cfg.SPAPISandbox {
		t.Error("SPAPISandbox = false, want true")
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.CacheSize != 64 {
		t.Errorf("CacheSize = %d", cfg.CacheSize)
	}
	if !cfg.ScrapeEnrichment {
		t.Error("ScrapeEnrichment = false, want true")
	}
}

func TestFromEnvMalformedValuesFallBack(t *testing.T) {
	t.Setenv("FLIPRADAR_REQUEST_TIMEOUT", "soon")
	t.Setenv("FLIPRADAR_CACHE_SIZE", "lots")
	t.Setenv("FLIPRADAR_SPAPI_SANDBOX", "maybe")

	cfg := FromEnv()
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want the default", cfg.RequestTimeout)
	}
	if cfg.CacheSize != 1024 {
		t.Errorf("CacheSize = %d, want the default", cfg.CacheSize)
	}
	if cfg.SPAPISandbox {
		t.Error("SPAPISandbox = true, want the default")
	}
}
