// File: internal/services/chat/interface.go
package chat

import (
	"context"

	"github.com/iyunix/go-codementor/internal/domain"
)

// Orchestrator is the only component that combines store access with a
// completion call. Every method is scoped to the calling user.
type Orchestrator interface {
	CreateChat(ctx context.Context, userID, firstMessage string) (*ChatWithMessages, error)
	SendMessage(ctx context.Context, userID, chatID, content string) (*Exchange, error)
	GetUserChats(ctx context.Context, userID string) ([]domain.Chat, error)
	GetChatMessages(ctx context.Context, userID, chatID string) (*ChatWithMessages, error)
	UpdateChatTitle(ctx context.Context, userID, chatID, title string) (*domain.Chat, error)
	DeleteChat(ctx context.Context, userID, chatID string) error
}
