package llm_service

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIService is the alternate text-generation provider. Unlike the Groq
// service it goes through the official client library, so retries and error
// shaping follow the library's behavior.
type OpenAIService struct {
	logger *slog.Logger
	// newClient is an injection point for tests.
	newClient func(apiKey string) openaiClient
}

type openaiClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func NewOpenAIService(logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		logger: logger,
		newClient: func(apiKey string) openaiClient {
			return openai.NewClient(apiKey)
		},
	}
}

func (s *OpenAIService) CallLLM(ctx context.Context, config map[string]interface{}, prompt string) (string, error) {
	apiKey, ok := config["api_key"].(string)
	if !ok || apiKey == "" {
		return "", fmt.Errorf("api_key not found in config")
	}

	modelName, ok := config["model_name"].(string)
	if !ok || modelName == "" {
		modelName = openai.GPT4oMini
	}

	client := s.newClient(apiKey)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: groqSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		s.logger.Error("OpenAI API error",
			slog.String("model", modelName),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("error calling OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("unexpected response format from OpenAI API")
	}

	return resp.Choices[0].Message.Content, nil
}
