// File: internal/services/chat/types.go
package chat

import "github.com/iyunix/go-codementor/internal/domain"

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ChatWithMessages is returned by CreateChat and GetChatMessages.
type ChatWithMessages struct {
	Chat     *domain.Chat
	Messages []domain.Message
}

// Exchange is one user message and the reply it produced.
type Exchange struct {
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
}
