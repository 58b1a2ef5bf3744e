package image_service

import (
	"context"

	"github.com/serisow/glowpress/pipeline_type"
)

type MockImageService struct {
	SearchFunc func(ctx context.Context, query string, count int) ([]pipeline_type.Image, error)
}

func (m *MockImageService) Search(ctx context.Context, query string, count int) ([]pipeline_type.Image, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, count)
	}
	return nil, nil
}
