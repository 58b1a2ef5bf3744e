package pipeline

import (
	"github.com/google/uuid"

	"github.com/serisow/glowpress/config"
	"github.com/serisow/glowpress/pipeline_type"
)

// GenerationRequest carries the operator's input for one run.
type GenerationRequest struct {
	Topic    string `json:"topic"`
	Category string `json:"category"`
	Publish  bool   `json:"publish"`
}

// NewGenerationPipeline builds the standard content-assembly run: topic
// selection, optional LLM draft, image search, section assembly and, when
// requested, the publish action.
func NewGenerationPipeline(cfg config.Config, req GenerationRequest) *pipeline_type.Pipeline {
	steps := []pipeline_type.PipelineStep{
		{
			ID:            "topic",
			Type:          "topic_step",
			Weight:        0,
			StepOutputKey: "topic",
			TopicConfig: &pipeline_type.TopicConfig{
				Topic:    req.Topic,
				Category: req.Category,
			},
		},
		{
			ID:            "draft",
			Type:          "llm_step",
			Weight:        10,
			StepOutputKey: "draft",
			RequiredSteps: "topic",
			Optional:      true,
			Prompt: "Write two short HTML paragraphs explaining what \"{topic}\" is and why it matters, " +
				"for a beauty blog reader. Start directly with a <p> tag. No headings, no meta tags.",
			LLMServiceConfig: map[string]interface{}{
				"service_name": "groq",
				"api_url":      cfg.GroqAPIURL,
				"api_key":      cfg.GroqAPIKey,
				"model_name":   cfg.GroqModel,
			},
		},
		{
			ID:            "images",
			Type:          "image_step",
			Weight:        20,
			StepOutputKey: "images",
			RequiredSteps: "topic",
			ImageConfig: &pipeline_type.ImageConfig{
				Service: "pexels",
				Query:   "{topic}",
				Count:   4,
			},
		},
		{
			ID:            "assemble",
			Type:          "assemble_step",
			Weight:        30,
			StepOutputKey: "post",
			RequiredSteps: "topic,images,draft",
			AssembleConfig: &pipeline_type.AssembleConfig{
				Category:     req.Category,
				AffiliateTag: cfg.AmazonTag,
			},
		},
	}

	if req.Publish {
		steps = append(steps, pipeline_type.PipelineStep{
			ID:            "publish",
			Type:          "action_step",
			Weight:        40,
			StepOutputKey: "publish_result",
			RequiredSteps: "post",
			ActionConfig:  "blogger_publish",
		})
	}

	return &pipeline_type.Pipeline{
		ID:      uuid.New().String(),
		Label:   "content-assembly",
		Steps:   steps,
		Context: pipeline_type.NewContext(),
	}
}

// NewScheduledPipeline is the unattended variant: topic comes from trend
// data, the post is always published, and promotion/notification steps are
// appended when their credentials are configured.
func NewScheduledPipeline(cfg config.Config) *pipeline_type.Pipeline {
	p := NewGenerationPipeline(cfg, GenerationRequest{
		Category: cfg.ScheduleCategory,
		Publish:  true,
	})
	p.Label = "scheduled-content-assembly"

	if cfg.TwitterConsumerKey != "" && cfg.TwitterAccessToken != "" {
		p.Steps = append(p.Steps, pipeline_type.PipelineStep{
			ID:            "promote",
			Type:          "action_step",
			Weight:        50,
			StepOutputKey: "promotion_result",
			RequiredSteps: "post,publish_result",
			ActionConfig:  "tweet_promotion",
			ActionDetails: &pipeline_type.ActionDetails{
				Configuration: map[string]interface{}{
					"consumer_key":        cfg.TwitterConsumerKey,
					"consumer_secret":     cfg.TwitterConsumerSecret,
					"access_token":        cfg.TwitterAccessToken,
					"access_token_secret": cfg.TwitterAccessSecret,
				},
			},
		})
	}

	if cfg.TwilioAccountSID != "" && cfg.NotifyPhoneNumber != "" {
		p.Steps = append(p.Steps, pipeline_type.PipelineStep{
			ID:            "notify",
			Type:          "action_step",
			Weight:        60,
			StepOutputKey: "notify_result",
			RequiredSteps: "post,publish_result",
			ActionConfig:  "sms_notify",
			ActionDetails: &pipeline_type.ActionDetails{
				Configuration: map[string]interface{}{
					"account_sid": cfg.TwilioAccountSID,
					"auth_token":  cfg.TwilioAuthToken,
					"from_number": cfg.TwilioFromNumber,
					"to_number":   cfg.NotifyPhoneNumber,
				},
			},
		})
	}

	return p
}
