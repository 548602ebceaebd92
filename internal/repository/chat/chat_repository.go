// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/iyunix/go-codementor/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

const MaxTitleLength = 100

type gormChatRepository struct {
	db     *gorm.DB
	logger Logger
}

func NewChatRepository(db *gorm.DB, logger Logger) ChatRepository {
	return &gormChatRepository{db: db, logger: logger}
}

// Create stores a new active chat with an empty message sequence.
func (r *gormChatRepository) Create(ctx context.Context, userID, title string) (*domain.Chat, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if err := validateChatTitle(title); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	chat := &domain.Chat{
		UserID:     userID,
		Title:      title,
		IsActive:   true,
		MessageIDs: []string{},
	}
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		r.logger.Error("database error during chat creation", "user_id", userID, "error", err)
		return nil, errors.New("database error creating chat")
	}

	r.logger.Debug("chat created", "chat_id", chat.ID, "user_id", userID)
	return chat, nil
}

// FindByIDForUser loads an active chat owned by userID, with its message ids.
func (r *gormChatRepository) FindByIDForUser(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	if userID == "" || chatID == "" {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_active = ?", chatID, userID, true).
		First(&chat).Error
	if err != nil {
		return nil, r.handleFindError(err, "FindByIDForUser")
	}

	ids, err := r.messageIDs(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	chat.MessageIDs = ids
	return &chat, nil
}

// FindActiveByUser lists a user's active chats, most recently messaged first.
// Chats that never received a message sort last. Preview is left for the
// caller to fill.
func (r *gormChatRepository) FindActiveByUser(ctx context.Context, userID string) ([]domain.Chat, error) {
	if userID == "" {
		return nil, errors.New("invalid user ID")
	}

	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_message_at IS NULL, last_message_at DESC, created_at DESC").
		Find(&chats).Error
	if err != nil {
		r.logger.Error("database error finding chats", "user_id", userID, "error", err)
		return nil, errors.New("database error fetching chats")
	}

	if len(chats) == 0 {
		return chats, nil
	}

	chatIDs := make([]string, len(chats))
	for i := range chats {
		chatIDs[i] = chats[i].ID
	}
	var links []domain.ChatMessageLink
	err = r.db.WithContext(ctx).
		Where("chat_id IN ?", chatIDs).
		Order("seq ASC").
		Find(&links).Error
	if err != nil {
		r.logger.Error("database error loading message sequences", "user_id", userID, "chats", len(chats), "error", err)
		return nil, errors.New("database error fetching chats")
	}

	byChat := make(map[string][]string, len(chats))
	for _, link := range links {
		byChat[link.ChatID] = append(byChat[link.ChatID], link.MessageID)
	}
	for i := range chats {
		chats[i].MessageIDs = byChat[chats[i].ID]
		if chats[i].MessageIDs == nil {
			chats[i].MessageIDs = []string{}
		}
	}
	return chats, nil
}

// AttachMessages appends ids to the chat's sequence and bumps lastMessageAt
// in one transaction. Appends are inserts, so concurrent callers never
// overwrite each other's ids.
func (r *gormChatRepository) AttachMessages(ctx context.Context, chatID string, messageIDs []string, lastMessageAt time.Time) error {
	if chatID == "" {
		return errors.New("invalid chat ID")
	}
	if len(messageIDs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		links := make([]domain.ChatMessageLink, 0, len(messageIDs))
		for _, id := range messageIDs {
			if id == "" {
				return errors.New("invalid message ID in batch")
			}
			links = append(links, domain.ChatMessageLink{ChatID: chatID, MessageID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}

		result := tx.Model(&domain.Chat{}).
			Where("id = ?", chatID).
			Updates(map[string]interface{}{
				"last_message_at": lastMessageAt,
				"updated_at":      time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrChatNotFound
		}
		return nil
	})
	if errors.Is(err, ErrChatNotFound) {
		return err
	}
	if err != nil {
		r.logger.Error("database error attaching messages", "chat_id", chatID, "count", len(messageIDs), "error", err)
		return errors.New("database error attaching messages")
	}
	return nil
}

// UpdateTitle renames an active chat owned by userID.
func (r *gormChatRepository) UpdateTitle(ctx context.Context, userID, chatID, title string) (*domain.Chat, error) {
	if err := validateChatTitle(title); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if userID == "" || chatID == "" {
		return nil, ErrChatNotFound
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ? AND is_active = ?", chatID, userID, true).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.logger.Error("database error updating chat title", "chat_id", chatID, "error", result.Error)
		return nil, errors.New("database error updating chat")
	}
	if result.RowsAffected == 0 {
		return nil, ErrChatNotFound
	}

	return r.FindByIDForUser(ctx, userID, chatID)
}

// SoftDelete marks a chat inactive. Repeating it on an already inactive chat
// of the same owner succeeds.
func (r *gormChatRepository) SoftDelete(ctx context.Context, userID, chatID string) error {
	if userID == "" || chatID == "" {
		return ErrChatNotFound
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ?", chatID, userID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.logger.Error("database error deleting chat", "chat_id", chatID, "error", result.Error)
		return errors.New("database error deleting chat")
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}

	r.logger.Info("chat soft-deleted", "chat_id", chatID, "user_id", userID)
	return nil
}

func (r *gormChatRepository) messageIDs(ctx context.Context, chatID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).
		Model(&domain.ChatMessageLink{}).
		Where("chat_id = ?", chatID).
		Order("seq ASC").
		Pluck("message_id", &ids).Error
	if err != nil {
		r.logger.Error("database error loading message sequence", "chat_id", chatID, "error", err)
		return nil, errors.New("database error loading chat messages")
	}
	return ids, nil
}

func validateChatTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("title cannot exceed %d characters", MaxTitleLength)
	}
	return nil
}

// handleFindError hides database details from callers.
func (r *gormChatRepository) handleFindError(err error, operation string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChatNotFound
	}
	r.logger.Error("chat query failed", "operation", operation, "error", err)
	return errors.New("database query failed")
}
