package plugin_registry_test

import (
	"context"
	"testing"

	"github.com/serisow/glowpress/llm_service"
	"github.com/serisow/glowpress/pipeline_type"
	"github.com/serisow/glowpress/plugin_registry"
	"github.com/serisow/glowpress/services/action_service"
	"github.com/serisow/glowpress/services/trend_service"
	"github.com/serisow/glowpress/step"
)

type MockStep struct{}

func (s *MockStep) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	return nil
}

func (s *MockStep) GetType() string {
	return "mock_step"
}

type mockImageService struct{}

func (s *mockImageService) Search(ctx context.Context, query string, count int) ([]pipeline_type.Image, error) {
	return nil, nil
}

func TestRegisterAndGetStepType(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	registry.RegisterStepType("mock_step", func() step.Step {
		return &MockStep{}
	})

	stepInstance, err := registry.GetStepInstance("mock_step")
	if err != nil {
		t.Fatalf("Expected to retrieve step instance, got error: %v", err)
	}

	if stepInstance.GetType() != "mock_step" {
		t.Errorf("Expected step type 'mock_step', got '%s'", stepInstance.GetType())
	}
}

func TestGetUnregisteredStepType(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	_, err := registry.GetStepInstance("unknown_step")
	if err == nil {
		t.Fatal("Expected error when retrieving unregistered step type, got nil")
	}

	expectedErrorMsg := "unknown step type: unknown_step"
	if err.Error() != expectedErrorMsg {
		t.Errorf("Expected error '%s', got '%s'", expectedErrorMsg, err.Error())
	}
}

func TestRegisterAndGetLLMService(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	mock := &llm_service.MockLLMService{}
	registry.RegisterLLMService("mock_llm", mock)

	service, ok := registry.GetLLMService("mock_llm")
	if !ok {
		t.Fatal("Expected to retrieve registered LLM service")
	}
	if service != mock {
		t.Error("Retrieved service is not the registered instance")
	}

	if _, ok := registry.GetLLMService("missing"); ok {
		t.Error("Expected false for unregistered LLM service")
	}
}

func TestRegisterAndGetActionService(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	mock := &action_service.MockActionService{ServiceName: "blogger_publish"}
	registry.RegisterActionService("blogger_publish", mock)

	service, ok := registry.GetActionService("blogger_publish")
	if !ok {
		t.Fatal("Expected to retrieve registered action service")
	}
	if !service.CanHandle("blogger_publish") {
		t.Error("Service does not handle its own name")
	}
}

func TestRegisterAndGetImageService(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	registry.RegisterImageService("pexels", &mockImageService{})

	if _, ok := registry.GetImageService("pexels"); !ok {
		t.Error("Expected to retrieve registered image service")
	}
	if _, ok := registry.GetImageService("missing"); ok {
		t.Error("Expected false for unregistered image service")
	}
}

func TestTrendServices(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	registry.RegisterTrendService("google_trends", &trend_service.MockTrendService{})
	registry.RegisterTrendService("board", &trend_service.MockTrendService{})

	services := registry.TrendServices()
	if len(services) != 2 {
		t.Errorf("got %d trend services, want 2", len(services))
	}
	if _, ok := registry.GetTrendService("google_trends"); !ok {
		t.Error("Expected to retrieve registered trend service")
	}
}
