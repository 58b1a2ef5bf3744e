package llm_service

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type stubOpenAIClient struct {
	resp       openai.ChatCompletionResponse
	err        error
	gotRequest openai.ChatCompletionRequest
}

func (c *stubOpenAIClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.gotRequest = request
	return c.resp, c.err
}

func TestOpenAICallLLM(t *testing.T) {
	client := &stubOpenAIClient{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "<h2>Draft</h2>"}},
			},
		},
	}

	s := NewOpenAIService(discardLogger())
	s.newClient = func(apiKey string) openaiClient {
		if apiKey != "test-key" {
			t.Errorf("apiKey = %q", apiKey)
		}
		return client
	}

	got, err := s.CallLLM(context.Background(), map[string]interface{}{
		"api_key":    "test-key",
		"model_name": "gpt-4o",
	}, "Write a draft.")
	if err != nil {
		t.Fatalf("CallLLM() error: %v", err)
	}
	if got != "<h2>Draft</h2>" {
		t.Errorf("CallLLM() = %q", got)
	}
	if client.gotRequest.Model != "gpt-4o" {
		t.Errorf("model = %q", client.gotRequest.Model)
	}
	if len(client.gotRequest.Messages) != 2 {
		t.Errorf("got %d messages, want system plus user", len(client.gotRequest.Messages))
	}
}

func TestOpenAICallLLMDefaultsModel(t *testing.T) {
	client := &stubOpenAIClient{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "ok"}},
			},
		},
	}

	s := NewOpenAIService(discardLogger())
	s.newClient = func(apiKey string) openaiClient { return client }

	if _, err := s.CallLLM(context.Background(), map[string]interface{}{"api_key": "k"}, "p"); err != nil {
		t.Fatalf("CallLLM() error: %v", err)
	}
	if client.gotRequest.Model != openai.GPT4oMini {
		t.Errorf("default model = %q", client.gotRequest.Model)
	}
}

func TestOpenAICallLLMErrors(t *testing.T) {
	s := NewOpenAIService(discardLogger())
	s.newClient = func(apiKey string) openaiClient {
		return &stubOpenAIClient{err: errors.New("boom")}
	}

	if _, err := s.CallLLM(context.Background(), map[string]interface{}{}, "p"); err == nil {
		t.Fatal("expected error for missing api_key")
	}
	if _, err := s.CallLLM(context.Background(), map[string]interface{}{"api_key": "k"}, "p"); err == nil {
		t.Fatal("expected error from client failure")
	}
}
