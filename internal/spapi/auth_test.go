package spapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flipradar/flipradar/internal/provider"
)

func testLWAConfig(tokenURL string) LWAConfig {
	return LWAConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-token",
		TokenURL:     tokenURL,
	}
}

func tokenServer(t *testing.T, calls *int32, expiresIn int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		if got := r.PostForm.Get("client_id"); got != "client-id" {
			t.Errorf("client_id = %q", got)
		}
		if got := r.PostForm.Get("refresh_token"); got != "refresh-token" {
			t.Errorf("refresh_token = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"token-%d","token_type":"bearer","expires_in":%d}`, n, expiresIn)
	}))
}

func TestAccessTokenCachesUntilNearExpiry(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls, 3600)
	defer srv.Close()

	m := NewAuthManager(testLWAConfig(srv.URL), nil)
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	now := base
	m.now = func() time.Time { return now }

	tok, err := m.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if tok != "token-1" {
		t.Errorf("token = %q, want token-1", tok)
	}

	// Well inside the token's lifetime: served from cache.
	now = base.Add(3000 * time.Second)
	tok, err = m.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if tok != "token-1" {
		t.Errorf("token = %q, want cached token-1", tok)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("token endpoint calls = %d, want 1", calls)
	}

	// Inside the 60s expiry skew: refreshed even though not yet expired.
	now = base.Add(3541 * time.Second)
	tok, err = m.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if tok != "token-2" {
		t.Errorf("token = %q, want refreshed token-2", tok)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("token endpoint calls = %d, want 2", calls)
	}
}

func TestAccessTokenUnconfigured(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls, 3600)
	defer srv.Close()

	m := NewAuthManager(LWAConfig{TokenURL: srv.URL}, nil)
	if m.Configured() {
		t.Fatal("Configured() = true for empty credentials")
	}

	_, err := m.AccessToken(context.Background())
	if !errors.Is(err, provider.ErrNotConfigured) {
		t.Fatalf("AccessToken() error = %v, want ErrNotConfigured", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("token endpoint calls = %d, want 0", calls)
	}
}

func TestAccessTokenFailureClearsCache(t *testing.T) {
	var fail atomic.Bool
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if fail.Load() {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"access_token":"token-%d","expires_in":3600}`, n)
	}))
	defer srv.Close()

	m := NewAuthManager(testLWAConfig(srv.URL), nil)
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	now := base
	m.now = func() time.Time { return now }

	if _, err := m.AccessToken(context.Background()); err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}

	fail.Store(true)
	now = base.Add(3541 * time.Second)
	if _, err := m.AccessToken(context.Background()); err == nil {
		t.Fatal("AccessToken() after upstream failure should error")
	}

	// Cache was cleared, so recovery issues a fresh exchange.
	fail.Store(false)
	tok, err := m.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if tok != "token-3" {
		t.Errorf("token = %q, want token-3", tok)
	}
}

func TestAccessTokenCoalescesConcurrentRefreshes(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, `{"access_token":"shared-token","expires_in":3600}`)
	}))
	defer srv.Close()

	m := NewAuthManager(testLWAConfig(srv.URL), nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := m.AccessToken(context.Background())
			if err != nil {
				t.Errorf("AccessToken() error = %v", err)
				return
			}
			if tok != "shared-token" {
				t.Errorf("token = %q, want shared-token", tok)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("token endpoint calls = %d, want 1 coalesced refresh", got)
	}
}
