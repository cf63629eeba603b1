package analyzer

import (
	"errors"
	"fmt"
	"net/http"

	"funnel-coach-api/gemini"
)

// ErrServiceUnavailable is returned when no API key was configured at startup
var ErrServiceUnavailable = errors.New("analyzer: AI service not configured")

// FieldError rejects a request before any upstream call
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// EmptyResponseError means the model answered without any text
type EmptyResponseError struct {
	BlockReason        string
	BlockReasonMessage string
}

func (e *EmptyResponseError) Error() string {
	if e.BlockReasonMessage != "" {
		return fmt.Sprintf("AI service returned no content. (Reason: %s)", e.BlockReasonMessage)
	}
	return "AI service returned no content."
}

// Outcome labels used for metrics and the audit table
const (
	OutcomeSuccess           = "success"
	OutcomeSentinel          = "sentinel"
	OutcomeInvalidRequest    = "invalid_request"
	OutcomeNotConfigured     = "not_configured"
	OutcomeInvalidCredential = "invalid_credential"
	OutcomeUpstreamError     = "upstream_error"
	OutcomeEmptyResponse     = "empty_response"
)

// ErrorStatus maps a pipeline error to the HTTP status and message sent to the caller
func ErrorStatus(err error) (int, string) {
	var fieldErr *FieldError
	var emptyErr *EmptyResponseError

	switch {
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest, fieldErr.Message
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusInternalServerError, "AI service not configured. API key is missing."
	case errors.Is(err, gemini.ErrInvalidCredential):
		return http.StatusInternalServerError, "Invalid Gemini API Key. Please check your configuration."
	case errors.As(err, &emptyErr):
		return http.StatusInternalServerError, emptyErr.Error()
	default:
		return http.StatusInternalServerError, fmt.Sprintf("An error occurred processing your request: %v", err)
	}
}

func outcomeOf(resp *Response, err error) string {
	var fieldErr *FieldError
	var emptyErr *EmptyResponseError

	switch {
	case err == nil && resp != nil && resp.IsError:
		return OutcomeSentinel
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &fieldErr):
		return OutcomeInvalidRequest
	case errors.Is(err, ErrServiceUnavailable):
		return OutcomeNotConfigured
	case errors.Is(err, gemini.ErrInvalidCredential):
		return OutcomeInvalidCredential
	case errors.As(err, &emptyErr):
		return OutcomeEmptyResponse
	default:
		return OutcomeUpstreamError
	}
}
