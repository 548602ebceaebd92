// File: internal/domain/message.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the author of a message. The set is closed.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ParseRole converts a stored string back into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown message role %q", s)
	}
	return r, nil
}

// Message is one immutable turn within a chat.
type Message struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	ChatID    string    `json:"chatId" gorm:"type:char(36);not null;index:idx_chat_messages,priority:1"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;check:role IN ('user','assistant','system')"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Tokens    int       `json:"tokens" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_chat_messages,priority:2"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.ID = id.String()
	}
	return nil
}
