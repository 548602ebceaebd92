package chat

import (
	"context"
	"time"

	"github.com/iyunix/go-codementor/internal/domain"
)

// ChatRepository is the chat half of the conversation store. Every
// owner-scoped lookup treats "missing" and "owned by someone else" alike.
type ChatRepository interface {
	Create(ctx context.Context, userID, title string) (*domain.Chat, error)
	FindByIDForUser(ctx context.Context, userID, chatID string) (*domain.Chat, error)
	FindActiveByUser(ctx context.Context, userID string) ([]domain.Chat, error)
	AttachMessages(ctx context.Context, chatID string, messageIDs []string, lastMessageAt time.Time) error
	UpdateTitle(ctx context.Context, userID, chatID, title string) (*domain.Chat, error)
	SoftDelete(ctx context.Context, userID, chatID string) error
}

// Logger defines the logging interface used by the repository.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
