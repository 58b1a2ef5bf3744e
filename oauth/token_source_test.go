package oauth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTokenRefreshAndMemoryCache(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		if got := r.Form.Get("refresh_token"); got != "refresh-abc" {
			t.Errorf("refresh_token = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access-xyz",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	cachePath := filepath.Join(t.TempDir(), "token.json")
	source := NewGoogleTokenSource("client-id", "client-secret", "refresh-abc", cachePath, discardLogger()).
		WithTokenURL(server.URL)

	token, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if token != "access-xyz" {
		t.Errorf("Token() = %q, want access-xyz", token)
	}

	// Second call is served from memory.
	if _, err := source.Token(context.Background()); err != nil {
		t.Fatalf("second Token() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("token endpoint called %d times, want 1", calls)
	}

	// The cache file was written for the next process.
	data, err := os.ReadFile(cachePath)
	if err != nil {
		t.Fatalf("reading cache file: %v", err)
	}
	var cached cachedToken
	if err := json.Unmarshal(data, &cached); err != nil {
		t.Fatalf("unmarshaling cache file: %v", err)
	}
	if cached.AccessToken != "access-xyz" {
		t.Errorf("cached token = %q", cached.AccessToken)
	}
}

func TestTokenReadsCacheFile(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "token.json")
	cached := cachedToken{
		AccessToken: "from-file",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	data, _ := json.Marshal(cached)
	if err := os.WriteFile(cachePath, data, 0600); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("token endpoint must not be hit when the cache file is fresh")
	}))
	defer server.Close()

	source := NewGoogleTokenSource("id", "secret", "refresh", cachePath, discardLogger()).
		WithTokenURL(server.URL)

	token, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if token != "from-file" {
		t.Errorf("Token() = %q, want from-file", token)
	}
}

func TestTokenRefreshesExpiredCacheFile(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "token.json")
	cached := cachedToken{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}
	data, _ := json.Marshal(cached)
	if err := os.WriteFile(cachePath, data, 0600); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fresh",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	source := NewGoogleTokenSource("id", "secret", "refresh", cachePath, discardLogger()).
		WithTokenURL(server.URL)

	token, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if token != "fresh" {
		t.Errorf("Token() = %q, want fresh", token)
	}
}

func TestTokenEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	source := NewGoogleTokenSource("id", "secret", "revoked", "", discardLogger()).
		WithTokenURL(server.URL)

	if _, err := source.Token(context.Background()); err == nil {
		t.Fatal("expected error for rejected refresh token")
	}
}

func TestStaticTokenSource(t *testing.T) {
	token, err := StaticTokenSource("fixed").Token(context.Background())
	if err != nil || token != "fixed" {
		t.Errorf("StaticTokenSource = (%q, %v)", token, err)
	}
}
