package plugin_registry

import (
	"fmt"

	"github.com/serisow/glowpress/llm_service"
	"github.com/serisow/glowpress/services/action_service"
	"github.com/serisow/glowpress/services/image_service"
	"github.com/serisow/glowpress/services/trend_service"
	"github.com/serisow/glowpress/step"
)

type PluginRegistry struct {
	stepTypes      map[string]func() step.Step
	llmServices    map[string]llm_service.LLMService
	actionServices map[string]action_service.ActionService
	imageServices  map[string]image_service.ImageService
	trendServices  map[string]trend_service.TrendService
}

func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		stepTypes:      make(map[string]func() step.Step),
		llmServices:    make(map[string]llm_service.LLMService),
		actionServices: make(map[string]action_service.ActionService),
		imageServices:  make(map[string]image_service.ImageService),
		trendServices:  make(map[string]trend_service.TrendService),
	}
}

// RegisterStepType registers a new step type
func (pr *PluginRegistry) RegisterStepType(typeName string, factory func() step.Step) {
	pr.stepTypes[typeName] = factory
}

// GetStepInstance returns a new instance of a step type
func (pr *PluginRegistry) GetStepInstance(typeName string) (step.Step, error) {
	factory, ok := pr.stepTypes[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown step type: %s", typeName)
	}
	return factory(), nil
}

// RegisterLLMService registers a new LLM service
func (pr *PluginRegistry) RegisterLLMService(name string, service llm_service.LLMService) {
	pr.llmServices[name] = service
}

// GetLLMService returns an LLM service by name
func (pr *PluginRegistry) GetLLMService(name string) (llm_service.LLMService, bool) {
	service, ok := pr.llmServices[name]
	return service, ok
}

// RegisterActionService registers a new Action service
func (pr *PluginRegistry) RegisterActionService(name string, service action_service.ActionService) {
	pr.actionServices[name] = service
}

// GetActionService returns an Action service by name
func (pr *PluginRegistry) GetActionService(name string) (action_service.ActionService, bool) {
	service, ok := pr.actionServices[name]
	return service, ok
}

// RegisterImageService registers a new image search/generation service
func (pr *PluginRegistry) RegisterImageService(name string, service image_service.ImageService) {
	pr.imageServices[name] = service
}

// GetImageService returns an image service by name
func (pr *PluginRegistry) GetImageService(name string) (image_service.ImageService, bool) {
	service, ok := pr.imageServices[name]
	return service, ok
}

// RegisterTrendService registers a new trend source
func (pr *PluginRegistry) RegisterTrendService(name string, service trend_service.TrendService) {
	pr.trendServices[name] = service
}

// GetTrendService returns a trend source by name
func (pr *PluginRegistry) GetTrendService(name string) (trend_service.TrendService, bool) {
	service, ok := pr.trendServices[name]
	return service, ok
}

// TrendServices returns every registered trend source keyed by name.
func (pr *PluginRegistry) TrendServices() map[string]trend_service.TrendService {
	return pr.trendServices
}
