package llm_step

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/serisow/glowpress/llm_service"
	"github.com/serisow/glowpress/pipeline_type"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLLMStepExecute(t *testing.T) {
	tests := []struct {
		name            string
		pipelineStep    pipeline_type.PipelineStep
		stepOutputs     map[string]interface{}
		mockLLMResponse string
		mockLLMError    error
		optional        bool
		expectedError   bool
		expectedOutput  string
		expectedPrompt  string
	}{
		{
			name: "placeholders replaced with prior step outputs",
			pipelineStep: pipeline_type.PipelineStep{
				ID:            "draft",
				Type:          "llm_step",
				Prompt:        "Write about {topic} for a beauty blog.",
				StepOutputKey: "draft",
				RequiredSteps: "topic",
			},
			stepOutputs:     map[string]interface{}{"topic": "glass skin routine"},
			mockLLMResponse: "<p>draft body</p>",
			expectedOutput:  "<p>draft body</p>",
			expectedPrompt:  "Write about glass skin routine for a beauty blog.",
		},
		{
			name: "service error fails a mandatory step",
			pipelineStep: pipeline_type.PipelineStep{
				ID:            "draft",
				Type:          "llm_step",
				Prompt:        "Write something.",
				StepOutputKey: "draft",
			},
			mockLLMError:  errors.New("rate limit exceeded"),
			expectedError: true,
		},
		{
			name: "service error degrades an optional step to empty output",
			pipelineStep: pipeline_type.PipelineStep{
				ID:            "draft",
				Type:          "llm_step",
				Prompt:        "Write something.",
				StepOutputKey: "draft",
			},
			mockLLMError:   errors.New("rate limit exceeded"),
			optional:       true,
			expectedOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPrompt string
			mockService := &llm_service.MockLLMService{
				CallLLMFunc: func(ctx context.Context, config map[string]interface{}, prompt string) (string, error) {
					gotPrompt = prompt
					if tt.mockLLMError != nil {
						return "", tt.mockLLMError
					}
					return tt.mockLLMResponse, nil
				},
			}

			pipelineContext := pipeline_type.NewContext()
			for k, v := range tt.stepOutputs {
				pipelineContext.SetStepOutput(k, v)
			}

			step := &LLMStepImpl{
				PipelineStep:       tt.pipelineStep,
				LLMServiceInstance: mockService,
				Logger:             discardLogger(),
				Optional:           tt.optional,
			}

			err := step.Execute(context.Background(), pipelineContext)
			if tt.expectedError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}

			output, ok := pipelineContext.GetStepOutput(tt.pipelineStep.StepOutputKey)
			if !ok {
				t.Fatal("step output not set")
			}
			if output != tt.expectedOutput {
				t.Errorf("output = %q, want %q", output, tt.expectedOutput)
			}
			if tt.expectedPrompt != "" && gotPrompt != tt.expectedPrompt {
				t.Errorf("prompt = %q, want %q", gotPrompt, tt.expectedPrompt)
			}
		})
	}
}

func TestLLMStepWithoutService(t *testing.T) {
	step := &LLMStepImpl{
		PipelineStep: pipeline_type.PipelineStep{ID: "draft"},
	}
	if err := step.Execute(context.Background(), pipeline_type.NewContext()); err == nil {
		t.Fatal("expected error with nil LLM service")
	}
}
