// Package oauth supplies bearer credentials for the publishing API from a
// refresh token, with a file-backed cache so restarts do not burn a token
// exchange. The authorization-code dance that produced the refresh token
// happens outside this service.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

// expirySkew refreshes slightly early so a token never expires mid-request.
const expirySkew = 60 * time.Second

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type cachedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type GoogleTokenSource struct {
	clientID     string
	clientSecret string
	refreshToken string
	tokenURL     string
	cachePath    string
	httpClient   *http.Client
	logger       *slog.Logger

	mu     sync.Mutex
	cached cachedToken
}

func NewGoogleTokenSource(clientID, clientSecret, refreshToken, cachePath string, logger *slog.Logger) *GoogleTokenSource {
	return &GoogleTokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		tokenURL:     googleTokenURL,
		cachePath:    cachePath,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

// WithTokenURL overrides the exchange endpoint, used by tests.
func (s *GoogleTokenSource) WithTokenURL(u string) *GoogleTokenSource {
	s.tokenURL = u
	return s
}

func (s *GoogleTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached.AccessToken != "" && time.Now().Before(s.cached.ExpiresAt.Add(-expirySkew)) {
		return s.cached.AccessToken, nil
	}

	if tok, ok := s.loadCacheFile(); ok && time.Now().Before(tok.ExpiresAt.Add(-expirySkew)) {
		s.cached = tok
		return tok.AccessToken, nil
	}

	tok, err := s.refresh(ctx)
	if err != nil {
		return "", err
	}

	s.cached = tok
	s.storeCacheFile(tok)
	return tok.AccessToken, nil
}

func (s *GoogleTokenSource) refresh(ctx context.Context) (cachedToken, error) {
	form := url.Values{}
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)
	form.Set("refresh_token", s.refreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, "POST", s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return cachedToken{}, fmt.Errorf("error creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return cachedToken{}, fmt.Errorf("error exchanging refresh token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return cachedToken{}, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return cachedToken{}, fmt.Errorf("error decoding token response: %w", err)
	}
	if result.AccessToken == "" {
		return cachedToken{}, fmt.Errorf("token endpoint returned no access token")
	}

	s.logger.Debug("Refreshed access token",
		slog.Int("expires_in", result.ExpiresIn))

	return cachedToken{
		AccessToken: result.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(result.ExpiresIn) * time.Second),
	}, nil
}

func (s *GoogleTokenSource) loadCacheFile() (cachedToken, bool) {
	if s.cachePath == "" {
		return cachedToken{}, false
	}
	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return cachedToken{}, false
	}
	var tok cachedToken
	if err := json.Unmarshal(data, &tok); err != nil || tok.AccessToken == "" {
		return cachedToken{}, false
	}
	return tok, true
}

func (s *GoogleTokenSource) storeCacheFile(tok cachedToken) {
	if s.cachePath == "" {
		return
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return
	}
	if err := os.WriteFile(s.cachePath, data, 0600); err != nil {
		s.logger.Warn("Failed to write token cache file",
			slog.String("path", s.cachePath),
			slog.String("error", err.Error()))
	}
}

// StaticTokenSource returns a fixed token, used by tests and one-off scripts.
type StaticTokenSource string

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}
