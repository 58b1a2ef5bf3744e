// Package action_service provides implementations of the pipeline action
// services: publishing, promotion and notification.
package action_service

import (
	"context"

	"github.com/serisow/glowpress/pipeline_type"
)

type ActionService interface {
	// Execute processes an action step
	Execute(ctx context.Context, actionConfig string, pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (string, error)

	// CanHandle reports whether this service handles the named action
	CanHandle(actionService string) bool
}
