package action_step

import (
	"context"
	"fmt"

	"github.com/serisow/glowpress/pipeline_type"
	"github.com/serisow/glowpress/services/action_service"
)

type ActionStepImpl struct {
	PipelineStep          pipeline_type.PipelineStep
	ActionServiceInstance action_service.ActionService
}

func (s *ActionStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	if s.ActionServiceInstance == nil {
		return fmt.Errorf("action service is not initialized for step %s", s.PipelineStep.ID)
	}

	result, err := s.ActionServiceInstance.Execute(ctx, s.PipelineStep.ActionConfig, pipelineContext, &s.PipelineStep)
	if err != nil {
		return fmt.Errorf("error executing action %s: %w", s.PipelineStep.ActionConfig, err)
	}

	if s.PipelineStep.StepOutputKey != "" {
		pipelineContext.SetStepOutput(s.PipelineStep.StepOutputKey, result)
	}
	return nil
}

func (s *ActionStepImpl) GetType() string {
	return "action_step"
}
