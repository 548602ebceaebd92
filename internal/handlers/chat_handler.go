// File: internal/handlers/chat_handler.go
package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iyunix/go-codementor/internal/domain"
	"github.com/iyunix/go-codementor/internal/dtos"
	"github.com/iyunix/go-codementor/internal/middleware"
	"github.com/iyunix/go-codementor/internal/services/chat"
)

// Renderer converts message Markdown to HTML.
type Renderer interface {
	Render(source string) (string, error)
}

type ChatHandler struct {
	responder
	chats    chat.Orchestrator
	renderer Renderer
	limits   *chat.Config
}

func NewChatHandler(chats chat.Orchestrator, renderer Renderer, limits *chat.Config, logger Logger, showDetails bool) *ChatHandler {
	if limits == nil {
		limits = chat.DefaultConfig()
	}
	return &ChatHandler{
		responder: responder{logger: logger, showDetails: showDetails},
		chats:     chats,
		renderer:  renderer,
		limits:    limits,
	}
}

// CreateChat handles POST /api/chats.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	message, ok := h.readMessage(w, r)
	if !ok {
		return
	}

	result, err := h.chats.CreateChat(r.Context(), userID, message)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.success(w, http.StatusCreated, dtos.ChatWithMessagesResponse{
		Chat:     result.Chat,
		Messages: h.messageDTOs(result.Messages),
	})
}

// GetUserChats handles GET /api/chats.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	chats, err := h.chats.GetUserChats(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if chats == nil {
		chats = []domain.Chat{}
	}
	h.success(w, http.StatusOK, chats)
}

// GetChatMessages handles GET /api/chats/{chatId}.
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	chatID, ok := h.chatID(w, r)
	if !ok {
		return
	}

	result, err := h.chats.GetChatMessages(r.Context(), userID, chatID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.success(w, http.StatusOK, dtos.ChatWithMessagesResponse{
		Chat:     result.Chat,
		Messages: h.messageDTOs(result.Messages),
	})
}

// SendMessage handles POST /api/chats/{chatId}/messages.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	chatID, ok := h.chatID(w, r)
	if !ok {
		return
	}
	message, ok := h.readMessage(w, r)
	if !ok {
		return
	}

	exchange, err := h.chats.SendMessage(r.Context(), userID, chatID, message)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.success(w, http.StatusOK, dtos.ExchangeResponse{
		UserMessage:      h.messageDTO(exchange.UserMessage),
		AssistantMessage: h.messageDTO(exchange.AssistantMessage),
	})
}

// UpdateChatTitle handles PATCH /api/chats/{chatId}.
func (h *ChatHandler) UpdateChatTitle(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	chatID, ok := h.chatID(w, r)
	if !ok {
		return
	}

	var req dtos.UpdateChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		h.fail(w, http.StatusBadRequest, "Title cannot be empty")
		return
	}
	if utf8.RuneCountInString(req.Title) > h.limits.MaxTitleLength {
		h.fail(w, http.StatusBadRequest, "Title too long")
		return
	}

	updated, err := h.chats.UpdateChatTitle(r.Context(), userID, chatID, req.Title)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.success(w, http.StatusOK, updated)
}

// DeleteChat handles DELETE /api/chats/{chatId}.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	chatID, ok := h.chatID(w, r)
	if !ok {
		return
	}

	if err := h.chats.DeleteChat(r.Context(), userID, chatID); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.success(w, http.StatusOK, dtos.MessageResponse{Message: "Chat deleted successfully"})
}

func (h *ChatHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

func (h *ChatHandler) chatID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := mux.Vars(r)["chatId"]
	id, err := uuid.Parse(raw)
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid ID format")
		return "", false
	}
	return id.String(), true
}

func (h *ChatHandler) readMessage(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req dtos.ChatMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return "", false
	}
	if strings.TrimSpace(req.Message) == "" {
		h.fail(w, http.StatusBadRequest, "Message cannot be empty")
		return "", false
	}
	if utf8.RuneCountInString(req.Message) > h.limits.MaxMessageLength {
		h.fail(w, http.StatusBadRequest, "Message too long")
		return "", false
	}
	return req.Message, true
}

func (h *ChatHandler) messageDTOs(messages []domain.Message) []dtos.MessageDTO {
	out := make([]dtos.MessageDTO, 0, len(messages))
	for i := range messages {
		out = append(out, h.messageDTO(&messages[i]))
	}
	return out
}

func (h *ChatHandler) messageDTO(m *domain.Message) dtos.MessageDTO {
	if h.renderer == nil {
		return dtos.NewMessageDTO(m, "")
	}
	html, err := h.renderer.Render(m.Content)
	if err != nil {
		h.logger.Warn("markdown rendering failed", "message_id", m.ID, "error", err)
		html = ""
	}
	return dtos.NewMessageDTO(m, html)
}
