package image_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/serisow/glowpress/pipeline_type"
)

// GenerationService drives a submit-then-poll image generation API. The job
// status is polled at a fixed interval with a hard attempt cap; exceeding the
// cap or a cancelled context ends the wait with an error rather than spinning
// forever.
type GenerationService struct {
	apiURL     string
	apiKey     string
	pollDelay  time.Duration
	maxPolls   int
	httpClient *http.Client
	logger     *slog.Logger
}

func NewGenerationService(apiURL, apiKey string, pollDelay time.Duration, maxPolls int, logger *slog.Logger) *GenerationService {
	if pollDelay <= 0 {
		pollDelay = 2 * time.Second
	}
	if maxPolls <= 0 {
		maxPolls = 30
	}
	return &GenerationService{
		apiURL:     apiURL,
		apiKey:     apiKey,
		pollDelay:  pollDelay,
		maxPolls:   maxPolls,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

func (s *GenerationService) Search(ctx context.Context, query string, count int) ([]pipeline_type.Image, error) {
	if count <= 0 {
		return nil, nil
	}

	jobID, err := s.submitJob(ctx, query)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.waitForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return []pipeline_type.Image{{
		URL:          imageURL,
		Alt:          query,
		Photographer: "AI generated",
	}}, nil
}

func (s *GenerationService) submitJob(ctx context.Context, prompt string) (string, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"prompt": prompt,
		"n":      1,
	})
	if err != nil {
		return "", fmt.Errorf("error marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error submitting generation job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("image generation API returned status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error decoding job submission response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("image generation API returned no job id")
	}
	return result.ID, nil
}

func (s *GenerationService) waitForJob(ctx context.Context, jobID string) (string, error) {
	ticker := time.NewTicker(s.pollDelay)
	defer ticker.Stop()

	for attempt := 1; attempt <= s.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("image generation cancelled: %w", ctx.Err())
		case <-ticker.C:
		}

		status, imageURL, err := s.pollJob(ctx, jobID)
		if err != nil {
			return "", err
		}

		switch status {
		case "succeeded":
			return imageURL, nil
		case "failed":
			return "", fmt.Errorf("image generation job %s failed", jobID)
		}

		s.logger.Debug("Image generation still pending",
			slog.String("job_id", jobID),
			slog.Int("attempt", attempt),
			slog.String("status", status))
	}

	return "", fmt.Errorf("image generation job %s did not finish after %d polls", jobID, s.maxPolls)
}

func (s *GenerationService) pollJob(ctx context.Context, jobID string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.apiURL+"/"+jobID, nil)
	if err != nil {
		return "", "", fmt.Errorf("error creating poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("error polling generation job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("image generation poll returned status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Status string `json:"status"`
		URL    string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("error decoding poll response: %w", err)
	}
	return result.Status, result.URL, nil
}
