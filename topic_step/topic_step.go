package topic_step

import (
	"context"
	"fmt"

	"github.com/serisow/glowpress/pipeline_type"
	"github.com/serisow/glowpress/services/trend_service"
)

// TopicStepImpl resolves the topic driving the rest of the run. It never
// fails: the selector guarantees a non-empty topic even when every trend
// source is down.
type TopicStepImpl struct {
	PipelineStep pipeline_type.PipelineStep
	Selector     *trend_service.Selector
}

func (s *TopicStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	if s.Selector == nil {
		return fmt.Errorf("topic selector is not initialized for step %s", s.PipelineStep.ID)
	}

	var explicit, category string
	if s.PipelineStep.TopicConfig != nil {
		explicit = s.PipelineStep.TopicConfig.Topic
		category = s.PipelineStep.TopicConfig.Category
	}

	topic := s.Selector.Select(ctx, explicit, category)

	if s.PipelineStep.StepOutputKey != "" {
		pipelineContext.SetStepOutput(s.PipelineStep.StepOutputKey, topic)
	}
	return nil
}

func (s *TopicStepImpl) GetType() string {
	return "topic_step"
}
