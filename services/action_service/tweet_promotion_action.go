package action_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dghubble/oauth1"

	"github.com/serisow/glowpress/pipeline_type"
)

const (
	TweetPromotionServiceName = "tweet_promotion"
	twitterAPIV2URL           = "https://api.twitter.com/2/tweets"
)

// TweetPromotionActionService announces a freshly published post on X.
// It runs after the publish action and reads both the Post and the
// PublishResult from the pipeline context.
type TweetPromotionActionService struct {
	logger *slog.Logger
	apiURL string
}

func NewTweetPromotionActionService(logger *slog.Logger) *TweetPromotionActionService {
	return &TweetPromotionActionService{
		logger: logger,
		apiURL: twitterAPIV2URL,
	}
}

// WithAPIURL overrides the tweets endpoint, used by tests.
func (s *TweetPromotionActionService) WithAPIURL(u string) *TweetPromotionActionService {
	s.apiURL = u
	return s
}

type TwitterCredentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

func (s *TweetPromotionActionService) Execute(ctx context.Context, actionConfig string, pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (string, error) {
	if step.ActionDetails == nil || step.ActionDetails.Configuration == nil {
		return "", fmt.Errorf("missing action configuration for TweetPromotionAction")
	}

	credentials, err := extractTwitterCredentials(step.ActionDetails.Configuration)
	if err != nil {
		return "", fmt.Errorf("error extracting Twitter credentials: %w", err)
	}

	post, err := findPost(pipelineContext, step.RequiredSteps)
	if err != nil {
		return "", err
	}

	text := post.Title
	if result, ok := findPublishResult(pipelineContext, step.RequiredSteps); ok && result.URL != "" {
		text = fmt.Sprintf("%s %s", post.Title, result.URL)
	}

	oauthConfig := oauth1.NewConfig(credentials.ConsumerKey, credentials.ConsumerSecret)
	token := oauth1.NewToken(credentials.AccessToken, credentials.AccessTokenSecret)
	httpClient := oauthConfig.Client(ctx, token)

	jsonData, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("error marshaling tweet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error executing tweet request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("Twitter API error",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", string(body)))
		return "", fmt.Errorf("twitter API error (status %d): %s", resp.StatusCode, string(body))
	}

	var createResponse struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&createResponse); err != nil {
		return "", fmt.Errorf("error decoding tweet response: %w", err)
	}

	result := map[string]interface{}{
		"tweet_id": createResponse.Data.ID,
		"text":     text,
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("error marshaling result: %w", err)
	}
	return string(resultJSON), nil
}

func (s *TweetPromotionActionService) CanHandle(actionService string) bool {
	return actionService == TweetPromotionServiceName
}

func extractTwitterCredentials(config map[string]interface{}) (*TwitterCredentials, error) {
	credentials := &TwitterCredentials{}
	var ok bool

	if credentials.ConsumerKey, ok = config["consumer_key"].(string); !ok {
		return nil, fmt.Errorf("consumer_key not found in config")
	}
	if credentials.ConsumerSecret, ok = config["consumer_secret"].(string); !ok {
		return nil, fmt.Errorf("consumer_secret not found in config")
	}
	if credentials.AccessToken, ok = config["access_token"].(string); !ok {
		return nil, fmt.Errorf("access_token not found in config")
	}
	if credentials.AccessTokenSecret, ok = config["access_token_secret"].(string); !ok {
		return nil, fmt.Errorf("access_token_secret not found in config")
	}

	return credentials, nil
}
