package llm_service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError represents the error structure returned by OpenAI-compatible APIs
// (Groq speaks the same dialect).
type APIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

type GroqHTTPError struct {
	StatusCode int
	Message    string
	ErrorType  string
	RawBody    string
}

func (e *GroqHTTPError) Error() string {
	return fmt.Sprintf("Groq API error (HTTP %d): %s (Type: %s)", e.StatusCode, e.Message, e.ErrorType)
}

// extractAPIErrorDetails extracts error information from OpenAI-compatible API responses
func extractAPIErrorDetails(resp *http.Response) (string, *APIError) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return string(body), &apiErr
	}

	return string(body), nil
}
