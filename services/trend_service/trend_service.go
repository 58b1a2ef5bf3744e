// Package trend_service supplies topic candidates from external trend sources
// and the static seasonal table. Every source degrades to "no candidates" on
// failure; the selector guarantees a non-empty topic regardless.
package trend_service

import (
	"context"

	"github.com/serisow/glowpress/pipeline_type"
)

type TrendService interface {
	Fetch(ctx context.Context, category string) ([]pipeline_type.Topic, error)
}

type MockTrendService struct {
	FetchFunc func(ctx context.Context, category string) ([]pipeline_type.Topic, error)
}

func (m *MockTrendService) Fetch(ctx context.Context, category string) ([]pipeline_type.Topic, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, category)
	}
	return nil, nil
}
