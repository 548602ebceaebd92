// File: internal/domain/chat.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat represents a single conversation thread owned by one user.
type Chat struct {
	ID            string     `json:"id" gorm:"type:char(36);primaryKey"`
	UserID        string     `json:"userId" gorm:"type:char(36);not null;index:idx_user_active_chats,priority:1"` // immutable after creation
	Title         string     `json:"title" gorm:"type:varchar(100);not null;default:'New Chat'"`
	IsActive      bool       `json:"isActive" gorm:"not null;default:true;index:idx_user_active_chats,priority:2"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// MessageIDs is the ordered id sequence, hydrated from chat_message_links.
	MessageIDs []string `json:"messages" gorm:"-"`
	// Preview is the most recent message, only set when listing chats.
	Preview *Message `json:"preview,omitempty" gorm:"-"`
}

func (Chat) TableName() string { return "chats" }

// BeforeCreate assigns a time-ordered UUID when the caller did not set one.
func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		c.ID = id.String()
	}
	return nil
}

// ChatMessageLink is one entry of a chat's append-only message id sequence.
// Seq is assigned by the database, so concurrent appends keep write order.
type ChatMessageLink struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement"`
	ChatID    string    `gorm:"type:char(36);not null;index:idx_chat_links,priority:1"`
	MessageID string    `gorm:"type:char(36);not null;uniqueIndex"`
	CreatedAt time.Time
}

func (ChatMessageLink) TableName() string { return "chat_message_links" }
