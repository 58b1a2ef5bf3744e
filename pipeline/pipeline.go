package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/serisow/glowpress/action_step"
	"github.com/serisow/glowpress/assemble_step"
	"github.com/serisow/glowpress/assembler"
	"github.com/serisow/glowpress/image_step"
	"github.com/serisow/glowpress/llm_step"
	"github.com/serisow/glowpress/pipeline_type"
	"github.com/serisow/glowpress/plugin_registry"
	"github.com/serisow/glowpress/services/trend_service"
	"github.com/serisow/glowpress/topic_step"
)

// ExecutePipeline runs every step in weight order against the shared context
// and returns the per-step outputs keyed by step ID. The first failing step
// aborts the run; steps with graceful-degradation semantics (topic, image,
// optional LLM) handle their own fallbacks and do not fail.
func ExecutePipeline(ctx context.Context, p *pipeline_type.Pipeline, registry *plugin_registry.PluginRegistry, logger *slog.Logger) (map[string]interface{}, error) {
	if p.Context == nil {
		p.Context = pipeline_type.NewContext()
	}

	steps := make([]pipeline_type.PipelineStep, len(p.Steps))
	copy(steps, p.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Weight < steps[j].Weight })

	results := make(map[string]interface{})

	for _, pipelineStep := range steps {
		step, err := buildStep(pipelineStep, registry, logger)
		if err != nil {
			return results, err
		}

		if err := step.Execute(ctx, p.Context); err != nil {
			return results, fmt.Errorf("error executing step %s: %w", pipelineStep.ID, err)
		}

		output, _ := p.Context.GetStepOutput(pipelineStep.StepOutputKey)
		results[pipelineStep.ID] = map[string]interface{}{
			"output": output,
		}
	}

	return results, nil
}

func buildStep(pipelineStep pipeline_type.PipelineStep, registry *plugin_registry.PluginRegistry, logger *slog.Logger) (interface {
	Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error
	GetType() string
}, error) {
	switch pipelineStep.Type {
	case "topic_step":
		return &topic_step.TopicStepImpl{
			PipelineStep: pipelineStep,
			Selector:     trend_service.NewSelector(registry.TrendServices(), logger),
		}, nil

	case "llm_step":
		serviceName, ok := pipelineStep.LLMServiceConfig["service_name"].(string)
		if !ok {
			return nil, fmt.Errorf("service_name not found in llm_service configuration for step %s", pipelineStep.ID)
		}
		llmServiceInstance, ok := registry.GetLLMService(serviceName)
		if !ok {
			return nil, fmt.Errorf("unknown LLM service: %s", serviceName)
		}
		return &llm_step.LLMStepImpl{
			PipelineStep:       pipelineStep,
			LLMServiceInstance: llmServiceInstance,
			Logger:             logger,
			Optional:           pipelineStep.Optional,
		}, nil

	case "image_step":
		serviceName := "pexels"
		if pipelineStep.ImageConfig != nil && pipelineStep.ImageConfig.Service != "" {
			serviceName = pipelineStep.ImageConfig.Service
		}
		imageServiceInstance, ok := registry.GetImageService(serviceName)
		if !ok {
			return nil, fmt.Errorf("unknown image service: %s", serviceName)
		}
		return &image_step.ImageStepImpl{
			PipelineStep:         pipelineStep,
			ImageServiceInstance: imageServiceInstance,
			Logger:               logger,
		}, nil

	case "assemble_step":
		affiliateTag := ""
		if pipelineStep.AssembleConfig != nil {
			affiliateTag = pipelineStep.AssembleConfig.AffiliateTag
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return &assemble_step.AssembleStepImpl{
			PipelineStep: pipelineStep,
			Assembler:    assembler.New(rng, affiliateTag),
		}, nil

	case "action_step":
		actionServiceInstance, ok := registry.GetActionService(pipelineStep.ActionConfig)
		if !ok {
			return nil, fmt.Errorf("unknown action service: %s", pipelineStep.ActionConfig)
		}
		return &action_step.ActionStepImpl{
			PipelineStep:          pipelineStep,
			ActionServiceInstance: actionServiceInstance,
		}, nil

	default:
		// Custom step types registered by tests or extensions.
		instance, err := registry.GetStepInstance(pipelineStep.Type)
		if err != nil {
			return nil, fmt.Errorf("unknown step type: %s", pipelineStep.Type)
		}
		return instance, nil
	}
}
