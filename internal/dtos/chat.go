// File: internal/dtos/chat.go
package dtos

import (
	"time"

	"github.com/iyunix/go-codementor/internal/domain"
)

// ChatMessageRequest is the body of POST /chats and POST /chats/{id}/messages.
type ChatMessageRequest struct {
	Message string `json:"message"`
}

type UpdateChatRequest struct {
	Title string `json:"title"`
}

// MessageDTO is a stored message plus its rendered HTML.
type MessageDTO struct {
	ID          string      `json:"id"`
	ChatID      string      `json:"chatId"`
	Role        domain.Role `json:"role"`
	Content     string      `json:"content"`
	ContentHTML string      `json:"contentHtml,omitempty"`
	Tokens      int         `json:"tokens"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type ChatWithMessagesResponse struct {
	Chat     *domain.Chat `json:"chat"`
	Messages []MessageDTO `json:"messages"`
}

type ExchangeResponse struct {
	UserMessage      MessageDTO `json:"userMessage"`
	AssistantMessage MessageDTO `json:"assistantMessage"`
}

// NewMessageDTO copies m; html may be empty when rendering was skipped.
func NewMessageDTO(m *domain.Message, html string) MessageDTO {
	return MessageDTO{
		ID:          m.ID,
		ChatID:      m.ChatID,
		Role:        m.Role,
		Content:     m.Content,
		ContentHTML: html,
		Tokens:      m.Tokens,
		CreatedAt:   m.CreatedAt,
	}
}
