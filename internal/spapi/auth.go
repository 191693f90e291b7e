package spapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/flipradar/flipradar/internal/provider"
)

const defaultTokenURL = "https://api.amazon.com/auth/o2/token"

// tokenExpirySkew is how much remaining validity a cached token must have to
// be reused. Anything closer to expiry triggers a refresh.
const tokenExpirySkew = 60 * time.Second

// LWAConfig holds Login-with-Amazon client credentials. All three fields
// must be present for the auth manager to be considered configured.
type LWAConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	// TokenURL overrides the LWA endpoint, for tests.
	TokenURL string
}

type cachedToken struct {
	accessToken string
	expiresAt   time.Time
}

// AuthManager holds the single shared LWA bearer token. Concurrent callers
// during a refresh are coalesced onto one in-flight exchange instead of each
// issuing their own.
type AuthManager struct {
	cfg        LWAConfig
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time

	group singleflight.Group

	mu    sync.Mutex
	token *cachedToken
}

// NewAuthManager creates an auth manager. A nil logger disables logging.
func NewAuthManager(cfg LWAConfig, logger *zap.Logger) *AuthManager {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthManager{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.Named("lwa"),
		now:        time.Now,
	}
}

// Configured reports whether credentials are present. An unconfigured
// manager never makes a network call.
func (m *AuthManager) Configured() bool {
	return m.cfg.ClientID != "" && m.cfg.ClientSecret != "" && m.cfg.RefreshToken != ""
}

// AccessToken returns a bearer token with at least a minute of validity
// left, refreshing through the token endpoint when the cache is stale. On
// refresh failure the cache is cleared and the error returned; retrying is
// the caller's decision.
func (m *AuthManager) AccessToken(ctx context.Context) (string, error) {
	if !m.Configured() {
		return "", provider.ErrNotConfigured
	}

	m.mu.Lock()
	if m.token != nil && m.token.expiresAt.After(m.now().Add(tokenExpirySkew)) {
		tok := m.token.accessToken
		m.mu.Unlock()
		return tok, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refresh exchanges the refresh token for a fresh access token.
func (m *AuthManager) refresh(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", m.cfg.RefreshToken)
	form.Set("client_id", m.cfg.ClientID)
	form.Set("client_secret", m.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		m.clear()
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.clear()
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		m.clear()
		m.logger.Warn("token exchange failed", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("token exchange failed: status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		m.clear()
		return "", fmt.Errorf("parsing token response: %w", err)
	}

	m.mu.Lock()
	m.token = &cachedToken{
		accessToken: payload.AccessToken,
		expiresAt:   m.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}
	m.mu.Unlock()

	return payload.AccessToken, nil
}

func (m *AuthManager) clear() {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()
}
