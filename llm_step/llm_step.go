package llm_step

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/serisow/glowpress/llm_service"
	"github.com/serisow/glowpress/pipeline_type"
)

type LLMStepImpl struct {
	PipelineStep       pipeline_type.PipelineStep
	LLMServiceInstance llm_service.LLMService
	Logger             *slog.Logger
	// Optional steps degrade to an empty output on service failure instead of
	// failing the pipeline; the assembler then falls back to template copy.
	Optional bool
}

func (s *LLMStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	// Split required steps, handling the case where it might be empty
	var requiredStepsList []string
	if s.PipelineStep.RequiredSteps != "" {
		requiredStepsList = strings.Split(s.PipelineStep.RequiredSteps, ",")
	}

	// Replace placeholders in the prompt with previous step outputs
	prompt := s.PipelineStep.Prompt
	for _, requiredStep := range requiredStepsList {
		requiredStep = strings.TrimSpace(requiredStep)
		if requiredStep == "" {
			continue
		}
		if value, ok := pipelineContext.GetStepOutput(requiredStep); ok {
			placeholder := fmt.Sprintf("{%s}", requiredStep)
			prompt = strings.Replace(prompt, placeholder, fmt.Sprintf("%v", value), -1)
		}
	}

	if s.LLMServiceInstance == nil {
		return fmt.Errorf("LLMService is not initialized for step %s", s.PipelineStep.ID)
	}

	result, err := s.LLMServiceInstance.CallLLM(ctx, s.PipelineStep.LLMServiceConfig, prompt)
	if err != nil {
		if s.Optional {
			if s.Logger != nil {
				s.Logger.Warn("Optional LLM step degraded to empty output",
					slog.String("step_id", s.PipelineStep.ID),
					slog.String("error", err.Error()))
			}
			if s.PipelineStep.StepOutputKey != "" {
				pipelineContext.SetStepOutput(s.PipelineStep.StepOutputKey, "")
			}
			return nil
		}
		return fmt.Errorf("error calling LLM service for step %s: %w", s.PipelineStep.ID, err)
	}

	if s.PipelineStep.StepOutputKey != "" {
		pipelineContext.SetStepOutput(s.PipelineStep.StepOutputKey, result)
	}

	s.PipelineStep.Response = result

	return nil
}

func (s *LLMStepImpl) GetType() string {
	return "llm_step"
}
