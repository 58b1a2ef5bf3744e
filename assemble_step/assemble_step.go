package assemble_step

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/serisow/glowpress/assembler"
	"github.com/serisow/glowpress/catalog"
	"github.com/serisow/glowpress/pipeline_type"
)

// AssembleStepImpl turns the topic, images and optional LLM draft into the
// final Post aggregate: title, meta description, labels and tagged HTML body.
type AssembleStepImpl struct {
	PipelineStep pipeline_type.PipelineStep
	Assembler    *assembler.Assembler
}

func (s *AssembleStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	if s.Assembler == nil {
		return fmt.Errorf("assembler is not initialized for step %s", s.PipelineStep.ID)
	}

	topic, images, draft, err := s.collectInputs(pipelineContext)
	if err != nil {
		return err
	}

	category := ""
	if s.PipelineStep.AssembleConfig != nil {
		category = s.PipelineStep.AssembleConfig.Category
	}

	products := catalog.ProductsFor(topic, 3)
	html := s.Assembler.Assemble(topic, products, images, draft)

	post := pipeline_type.Post{
		ID:                uuid.New().String(),
		Topic:             topic,
		Title:             s.Assembler.Title(topic),
		SearchDescription: s.Assembler.MetaDescription(topic),
		Labels:            s.Assembler.Labels(topic, category),
		HTML:              html,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}

	if s.PipelineStep.StepOutputKey != "" {
		pipelineContext.SetStepOutput(s.PipelineStep.StepOutputKey, post)
	}
	return nil
}

// collectInputs reads the upstream step outputs. The topic is mandatory;
// images and draft are optional and default to empty.
func (s *AssembleStepImpl) collectInputs(pipelineContext *pipeline_type.Context) (string, []pipeline_type.Image, string, error) {
	var topic, draft string
	var images []pipeline_type.Image

	for _, requiredStep := range strings.Split(s.PipelineStep.RequiredSteps, ",") {
		requiredStep = strings.TrimSpace(requiredStep)
		if requiredStep == "" {
			continue
		}
		value, ok := pipelineContext.GetStepOutput(requiredStep)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case []pipeline_type.Image:
			images = v
		case string:
			if topic == "" && requiredStep == "topic" {
				topic = v
			} else {
				draft = v
			}
		}
	}

	if strings.TrimSpace(topic) == "" {
		return "", nil, "", fmt.Errorf("required topic output not found for step %s", s.PipelineStep.ID)
	}
	return topic, images, draft, nil
}

func (s *AssembleStepImpl) GetType() string {
	return "assemble_step"
}
