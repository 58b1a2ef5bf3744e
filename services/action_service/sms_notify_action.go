package action_service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/serisow/glowpress/pipeline_type"
)

const SMSNotifyServiceName = "sms_notify"

// SMSNotifyActionService texts the operator the outcome of a scheduled run.
type SMSNotifyActionService struct {
	logger *slog.Logger
	// newClient is an injection point for tests.
	newClient func(accountSid, authToken string) smsSender
}

type smsSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

func NewSMSNotifyActionService(logger *slog.Logger) *SMSNotifyActionService {
	return &SMSNotifyActionService{
		logger: logger,
		newClient: func(accountSid, authToken string) smsSender {
			client := twilio.NewRestClientWithParams(twilio.ClientParams{
				Username: accountSid,
				Password: authToken,
			})
			return client.Api
		},
	}
}

func (s *SMSNotifyActionService) Execute(ctx context.Context, actionConfig string, pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (string, error) {
	if step.ActionDetails == nil || step.ActionDetails.Configuration == nil {
		return "", fmt.Errorf("missing action configuration for SMSNotifyAction")
	}

	config := step.ActionDetails.Configuration
	credentials, err := extractTwilioCredentials(config)
	if err != nil {
		return "", fmt.Errorf("error extracting Twilio credentials: %w", err)
	}

	message := "GlowPress: scheduled run finished."
	if custom, ok := config["message"].(string); ok && custom != "" {
		message = custom
	} else if post, err := findPost(pipelineContext, step.RequiredSteps); err == nil {
		message = fmt.Sprintf("GlowPress: published %q", post.Title)
		if result, ok := findPublishResult(pipelineContext, step.RequiredSteps); ok {
			message += " " + result.URL
		}
	}

	client := s.newClient(credentials.AccountSid, credentials.AuthToken)
	params := &twilioApi.CreateMessageParams{
		To:   &credentials.ToNumber,
		From: &credentials.FromNumber,
		Body: &message,
	}

	sent, err := client.CreateMessage(params)
	if err != nil {
		s.logger.Error("Failed to send SMS",
			slog.String("error", err.Error()),
			slog.String("to", credentials.ToNumber))
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}

	result := map[string]interface{}{
		"message": message,
	}
	if sent.Sid != nil {
		result["message_sid"] = *sent.Sid
	}
	if sent.Status != nil {
		result["status"] = *sent.Status
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("error marshaling result: %w", err)
	}
	return string(resultJSON), nil
}

func (s *SMSNotifyActionService) CanHandle(actionService string) bool {
	return actionService == SMSNotifyServiceName
}

type TwilioCredentials struct {
	AccountSid string
	AuthToken  string
	FromNumber string
	ToNumber   string
}

func extractTwilioCredentials(config map[string]interface{}) (*TwilioCredentials, error) {
	credentials := &TwilioCredentials{}
	var ok bool

	if credentials.AccountSid, ok = config["account_sid"].(string); !ok {
		return nil, fmt.Errorf("account_sid not found in config")
	}
	if credentials.AuthToken, ok = config["auth_token"].(string); !ok {
		return nil, fmt.Errorf("auth_token not found in config")
	}
	if credentials.FromNumber, ok = config["from_number"].(string); !ok {
		return nil, fmt.Errorf("from_number not found in config")
	}
	if credentials.ToNumber, ok = config["to_number"].(string); !ok {
		return nil, fmt.Errorf("to_number not found in config")
	}

	return credentials, nil
}
