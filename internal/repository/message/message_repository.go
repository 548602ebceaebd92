package message

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/iyunix/go-codementor/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

// MaxRecentLimit caps FindRecent so a bad caller cannot load a whole transcript.
const MaxRecentLimit = 1000

type gormMessageRepository struct {
	db     *gorm.DB
	logger Logger
}

func NewMessageRepository(db *gorm.DB, logger Logger) MessageRepository {
	return &gormMessageRepository{db: db, logger: logger}
}

// Create persists a new message. It does not touch the parent chat; linking
// the id into the chat's sequence is a separate write.
func (r *gormMessageRepository) Create(ctx context.Context, chatID string, role domain.Role, content string, tokens int) (*domain.Message, error) {
	message := &domain.Message{
		ChatID:  chatID,
		Role:    role,
		Content: content,
		Tokens:  tokens,
	}
	if err := validateMessageInput(message); err != nil {
		r.logger.Warn("message validation failed", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		// content is never logged
		r.logger.Error("database error during message creation", "chat_id", chatID, "role", role, "error", err)
		return nil, errors.New("database error creating message")
	}

	r.logger.Debug("message created", "message_id", message.ID, "chat_id", chatID, "role", role)
	return message, nil
}

// FindByChatID returns the full transcript in creation order.
func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}

	messages := []domain.Message{}
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		r.logger.Error("database error finding messages", "chat_id", chatID, "error", err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

// FindRecent returns the newest limit messages, oldest first.
func (r *gormMessageRepository) FindRecent(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}
	if limit <= 0 || limit > MaxRecentLimit {
		return nil, fmt.Errorf("invalid limit: must be between 1 and %d", MaxRecentLimit)
	}

	var newestFirst []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&newestFirst).Error
	if err != nil {
		r.logger.Error("database error finding recent messages", "chat_id", chatID, "limit", limit, "error", err)
		return nil, errors.New("database error fetching recent messages")
	}

	messages := make([]domain.Message, len(newestFirst))
	for i, m := range newestFirst {
		messages[len(newestFirst)-1-i] = m
	}
	return messages, nil
}

// FindLatest returns the most recent message of a chat.
func (r *gormMessageRepository) FindLatest(ctx context.Context, chatID string) (*domain.Message, error) {
	messages, err := r.FindRecent(ctx, chatID, 1)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, ErrMessageNotFound
	}
	return &messages[0], nil
}

// FindLatestByChatIDs returns the most recent message of each chat in one
// query. Chats without messages have no entry.
func (r *gormMessageRepository) FindLatestByChatIDs(ctx context.Context, chatIDs []string) (map[string]*domain.Message, error) {
	latest := make(map[string]*domain.Message, len(chatIDs))
	if len(chatIDs) == 0 {
		return latest, nil
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id IN ?", chatIDs).
		Where("id = (SELECT m2.id FROM messages AS m2 WHERE m2.chat_id = messages.chat_id ORDER BY m2.created_at DESC, m2.id DESC LIMIT 1)").
		Find(&messages).Error
	if err != nil {
		r.logger.Error("database error finding latest messages", "chats", len(chatIDs), "error", err)
		return nil, errors.New("database error fetching latest messages")
	}

	for i := range messages {
		latest[messages[i].ChatID] = &messages[i]
	}
	return latest, nil
}

func validateMessageInput(message *domain.Message) error {
	if message.ChatID == "" {
		return errors.New("chat ID is required")
	}
	if !message.Role.Valid() {
		return fmt.Errorf("invalid role %q", message.Role)
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	if message.Tokens < 0 {
		return errors.New("token count cannot be negative")
	}
	return nil
}
