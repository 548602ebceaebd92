// File: internal/services/ai/errors.go
package ai

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig        ErrorType = "CONFIG"
	ErrTypeRateLimit     ErrorType = "RATE_LIMIT"
	ErrTypeUnauthorized  ErrorType = "UNAUTHORIZED"
	ErrTypeEmptyResponse ErrorType = "EMPTY_RESPONSE"
	ErrTypeProvider      ErrorType = "PROVIDER"
)

// AIError is the only error shape the gateway returns. Cause keeps the
// provider error for logs; it is never rendered to API clients.
type AIError struct {
	Type      ErrorType
	Code      int
	Message   string
	Model     string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error { return e.Cause }

// Retryable reports whether the user may simply try again later.
func (e *AIError) Retryable() bool {
	return e.Type == ErrTypeRateLimit
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewRateLimitError(model string, cause error) *AIError {
	return &AIError{
		Type:      ErrTypeRateLimit,
		Code:      429,
		Message:   "Rate limit exceeded. Please try again later.",
		Model:     model,
		Operation: "completion",
		Cause:     cause,
	}
}

func NewUnauthorizedError(model string, cause error) *AIError {
	return &AIError{
		Type:      ErrTypeUnauthorized,
		Code:      401,
		Message:   "Invalid API key",
		Model:     model,
		Operation: "completion",
		Cause:     cause,
	}
}

func NewEmptyResponseError(model string) *AIError {
	return &AIError{
		Type:      ErrTypeEmptyResponse,
		Code:      500,
		Message:   "No response from AI provider",
		Model:     model,
		Operation: "completion",
	}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Code: 500, Operation: operation, Message: msg, Cause: cause}
}

// TypeOf returns the gateway error type carried by err, if any.
func TypeOf(err error) (ErrorType, bool) {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Type, true
	}
	return "", false
}
