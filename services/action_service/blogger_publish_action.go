package action_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/serisow/glowpress/oauth"
	"github.com/serisow/glowpress/pipeline_type"
)

const (
	BloggerPublishServiceName = "blogger_publish"
	bloggerAPIBaseURL         = "https://www.googleapis.com/blogger/v3"
)

// BloggerPublishActionService creates one remote post per successful call.
// The operation is not idempotent: publishing the same content twice creates
// two posts. Failures carry the response body and are never retried here.
type BloggerPublishActionService struct {
	logger     *slog.Logger
	tokens     oauth.TokenSource
	blogID     string
	apiBaseURL string
	httpClient *http.Client
}

func NewBloggerPublishActionService(blogID string, tokens oauth.TokenSource, logger *slog.Logger) *BloggerPublishActionService {
	return &BloggerPublishActionService{
		logger:     logger,
		tokens:     tokens,
		blogID:     blogID,
		apiBaseURL: bloggerAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithAPIBaseURL overrides the Blogger endpoint, used by tests.
func (s *BloggerPublishActionService) WithAPIBaseURL(u string) *BloggerPublishActionService {
	s.apiBaseURL = u
	return s
}

func (s *BloggerPublishActionService) Execute(ctx context.Context, actionConfig string, pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (string, error) {
	post, err := findPost(pipelineContext, step.RequiredSteps)
	if err != nil {
		return "", err
	}

	result, err := s.Publish(ctx, post)
	if err != nil {
		return "", err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("error marshaling publish result: %w", err)
	}
	return string(resultJSON), nil
}

// Publish performs the single authenticated POST against the Blogger API and
// returns the created post's identifier and public URL.
func (s *BloggerPublishActionService) Publish(ctx context.Context, post pipeline_type.Post) (pipeline_type.PublishResult, error) {
	if s.blogID == "" {
		return pipeline_type.PublishResult{}, fmt.Errorf("blog ID is not configured")
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return pipeline_type.PublishResult{}, fmt.Errorf("error obtaining access token: %w", err)
	}

	payload := map[string]interface{}{
		"kind":    "blogger#post",
		"title":   post.Title,
		"content": post.HTML,
		"labels":  post.Labels,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return pipeline_type.PublishResult{}, fmt.Errorf("error marshaling payload: %w", err)
	}

	url := fmt.Sprintf("%s/blogs/%s/posts/", s.apiBaseURL, s.blogID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return pipeline_type.PublishResult{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return pipeline_type.PublishResult{}, fmt.Errorf("error executing publish request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("Blogger API error",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", string(body)))
		return pipeline_type.PublishResult{}, fmt.Errorf("blogger API error (status %d): %s", resp.StatusCode, string(body))
	}

	var createResponse struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&createResponse); err != nil {
		return pipeline_type.PublishResult{}, fmt.Errorf("error decoding publish response: %w", err)
	}

	s.logger.Info("Post published",
		slog.String("post_id", createResponse.ID),
		slog.String("url", createResponse.URL))

	return pipeline_type.PublishResult{
		PostID: createResponse.ID,
		URL:    createResponse.URL,
	}, nil
}

func (s *BloggerPublishActionService) CanHandle(actionService string) bool {
	return actionService == BloggerPublishServiceName
}

// findPost locates the assembled Post among the required step outputs.
func findPost(pipelineContext *pipeline_type.Context, requiredSteps string) (pipeline_type.Post, error) {
	for _, requiredStep := range strings.Split(requiredSteps, ",") {
		requiredStep = strings.TrimSpace(requiredStep)
		if requiredStep == "" {
			continue
		}
		value, ok := pipelineContext.GetStepOutput(requiredStep)
		if !ok {
			continue
		}
		if post, ok := value.(pipeline_type.Post); ok {
			return post, nil
		}
	}
	return pipeline_type.Post{}, fmt.Errorf("no assembled post found in required steps %q", requiredSteps)
}
