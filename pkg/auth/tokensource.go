package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/davidcastellanos/shopstream-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

// expirySkew refreshes slightly early so an almost-expired token is never
// sent upstream.
const expirySkew = 30 * time.Second

// TokenSource holds the access/refresh credential pair attached to upstream
// gateway calls and swaps the access token through the auth service's refresh
// endpoint once its exp claim has passed.
type TokenSource struct {
	mu           sync.Mutex
	httpClient   *http.Client
	refreshURL   string
	accessToken  string
	refreshToken string
	now          func() time.Time
}

// Option configures optional token source behavior.
type Option func(*TokenSource)

// WithHTTPClient overrides the client used for refresh calls.
func WithHTTPClient(client *http.Client) Option {
	return func(s *TokenSource) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithClock overrides the expiry clock.
func WithClock(now func() time.Time) Option {
	return func(s *TokenSource) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenSource builds a token source from the configured credentials.
func NewTokenSource(cfg config.UpstreamAuthConfig, opts ...Option) *TokenSource {
	source := &TokenSource{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		refreshURL:   strings.TrimSpace(cfg.RefreshURL),
		accessToken:  strings.TrimSpace(cfg.AccessToken),
		refreshToken: strings.TrimSpace(cfg.RefreshToken),
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(source)
		}
	}
	return source
}

// Token returns the current access token, refreshing it first when expired.
// An empty token with no error means calls go out without credentials.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken == "" || !s.expired(s.accessToken) {
		return s.accessToken, nil
	}
	if s.refreshURL == "" || s.refreshToken == "" {
		return s.accessToken, nil
	}
	if err := s.refresh(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

// expired inspects the exp claim without verifying the signature; the
// storefront is not the token's audience, it only decides when to refresh.
// Opaque tokens (unparseable, or without exp) never count as expired.
func (s *TokenSource) expired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return s.now().Add(expirySkew).After(expiry.Time)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *TokenSource) refresh(ctx context.Context) error {
	body, err := json.Marshal(refreshRequest{RefreshToken: s.refreshToken})
	if err != nil {
		return fmt.Errorf("marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.refreshURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh token: unexpected status %d", resp.StatusCode)
	}

	var payload refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("refresh response missing access token")
	}

	s.accessToken = payload.AccessToken
	if payload.RefreshToken != "" {
		s.refreshToken = payload.RefreshToken
	}
	return nil
}

// Transport attaches the bearer token to every outgoing request.
type Transport struct {
	Source *TokenSource
	Base   http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Source == nil {
		return base.RoundTrip(req)
	}

	token, err := t.Source.Token(req.Context())
	if err != nil {
		return nil, err
	}
	if token == "" {
		return base.RoundTrip(req)
	}

	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return base.RoundTrip(cloned)
}
