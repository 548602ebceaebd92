// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeUpstream   ErrorType = "UPSTREAM"
	ErrTypeStore      ErrorType = "STORE"
)

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    string
	UserID    string
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *ChatError {
	return &ChatError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

// NewNotFoundError covers both a missing chat and one owned by someone else.
func NewNotFoundError(operation, userID, chatID string) *ChatError {
	return &ChatError{
		Type:      ErrTypeNotFound,
		Operation: operation,
		Message:   "Chat not found",
		UserID:    userID,
		ChatID:    chatID,
	}
}

func NewUpstreamError(operation string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeUpstream, Operation: operation, Message: "Failed to get AI response", Cause: cause}
}

func NewStoreError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStore, Operation: operation, Message: msg, Cause: cause}
}

// TypeOf returns the chat error type carried by err, if any.
func TypeOf(err error) (ErrorType, bool) {
	var chatErr *ChatError
	if errors.As(err, &chatErr) {
		return chatErr.Type, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrTypeNotFound
}
