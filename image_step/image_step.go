package image_step

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/serisow/glowpress/pipeline_type"
	"github.com/serisow/glowpress/services/image_service"
)

type ImageStepImpl struct {
	PipelineStep         pipeline_type.PipelineStep
	ImageServiceInstance image_service.ImageService
	Logger               *slog.Logger
}

// Execute fetches images for the topic. A failed or empty search degrades to
// the hardcoded fallback set; this step never fails the pipeline.
func (s *ImageStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	if s.ImageServiceInstance == nil {
		return fmt.Errorf("image service is not initialized for step %s", s.PipelineStep.ID)
	}

	query := "beauty"
	count := 4
	if s.PipelineStep.ImageConfig != nil {
		if s.PipelineStep.ImageConfig.Query != "" {
			query = s.PipelineStep.ImageConfig.Query
		}
		if s.PipelineStep.ImageConfig.Count > 0 {
			count = s.PipelineStep.ImageConfig.Count
		}
	}

	// Replace {step_output} placeholders in the query, typically {topic}.
	for _, requiredStep := range strings.Split(s.PipelineStep.RequiredSteps, ",") {
		requiredStep = strings.TrimSpace(requiredStep)
		if requiredStep == "" {
			continue
		}
		if value, ok := pipelineContext.GetStepOutput(requiredStep); ok {
			placeholder := fmt.Sprintf("{%s}", requiredStep)
			query = strings.Replace(query, placeholder, fmt.Sprint(value), -1)
		}
	}

	images, err := s.ImageServiceInstance.Search(ctx, query, count)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("Image search failed, using fallback images",
				slog.String("step_id", s.PipelineStep.ID),
				slog.String("query", query),
				slog.String("error", err.Error()))
		}
		images = nil
	}
	if len(images) == 0 {
		images = image_service.FallbackImages(query)
	}

	if s.PipelineStep.StepOutputKey != "" {
		pipelineContext.SetStepOutput(s.PipelineStep.StepOutputKey, images)
	}
	return nil
}

func (s *ImageStepImpl) GetType() string {
	return "image_step"
}
