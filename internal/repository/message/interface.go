// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/iyunix/go-codementor/internal/domain"
)

// MessageRepository is the message half of the conversation store. Messages
// are append-only: there is no update or delete.
type MessageRepository interface {
	Create(ctx context.Context, chatID string, role domain.Role, content string, tokens int) (*domain.Message, error)
	FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error)
	FindRecent(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
	FindLatest(ctx context.Context, chatID string) (*domain.Message, error)
	FindLatestByChatIDs(ctx context.Context, chatIDs []string) (map[string]*domain.Message, error)
}

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
