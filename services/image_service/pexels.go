package image_service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/serisow/glowpress/pipeline_type"
)

const pexelsSearchURL = "https://api.pexels.com/v1/search"

// PexelsService searches stock photos. Results are memoized per (query, count)
// for the lifetime of the process; the cache is unbounded and never evicted,
// which is fine for a short-lived single-user process.
type PexelsService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	cache map[string][]pipeline_type.Image
}

func NewPexelsService(apiKey string, logger *slog.Logger) *PexelsService {
	return &PexelsService{
		apiKey:     apiKey,
		baseURL:    pexelsSearchURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		cache:      make(map[string][]pipeline_type.Image),
	}
}

// WithBaseURL overrides the search endpoint, used by tests.
func (s *PexelsService) WithBaseURL(u string) *PexelsService {
	s.baseURL = u
	return s
}

func (s *PexelsService) Search(ctx context.Context, query string, count int) ([]pipeline_type.Image, error) {
	if count <= 0 {
		return nil, nil
	}

	cacheKey := fmt.Sprintf("%s|%d", query, count)
	s.mu.Lock()
	if cached, ok := s.cache[cacheKey]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprint(count))
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making Pexels request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pexels API returned non-200 status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Photos []struct {
			Alt          string `json:"alt"`
			Photographer string `json:"photographer"`
			Src          struct {
				Large string `json:"large"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding Pexels response: %w", err)
	}

	images := make([]pipeline_type.Image, 0, len(result.Photos))
	for _, photo := range result.Photos {
		alt := photo.Alt
		if alt == "" {
			alt = query
		}
		images = append(images, pipeline_type.Image{
			URL:          photo.Src.Large,
			Alt:          alt,
			Photographer: photo.Photographer,
		})
	}

	s.mu.Lock()
	s.cache[cacheKey] = images
	s.mu.Unlock()

	s.logger.Debug("Pexels search completed",
		slog.String("query", query),
		slog.Int("requested", count),
		slog.Int("returned", len(images)))

	return images, nil
}
