package action_service

import (
	"encoding/json"
	"strings"

	"github.com/serisow/glowpress/pipeline_type"
)

// findPublishResult scans required step outputs for a publish result, either
// as a typed value or as the JSON string an action step stored.
func findPublishResult(pipelineContext *pipeline_type.Context, requiredSteps string) (pipeline_type.PublishResult, bool) {
	for _, requiredStep := range strings.Split(requiredSteps, ",") {
		requiredStep = strings.TrimSpace(requiredStep)
		if requiredStep == "" {
			continue
		}
		value, ok := pipelineContext.GetStepOutput(requiredStep)
		if !ok {
			continue
		}

		switch v := value.(type) {
		case pipeline_type.PublishResult:
			return v, true
		case string:
			var result pipeline_type.PublishResult
			if err := json.Unmarshal([]byte(v), &result); err == nil && result.URL != "" {
				return result, true
			}
		}
	}
	return pipeline_type.PublishResult{}, false
}
