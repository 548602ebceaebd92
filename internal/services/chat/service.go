// File: internal/services/chat/service.go
package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iyunix/go-codementor/internal/domain"
	chatrepo "github.com/iyunix/go-codementor/internal/repository/chat"
	"github.com/iyunix/go-codementor/internal/repository/message"
	"github.com/iyunix/go-codementor/internal/services/ai"
)

type Service struct {
	config      *Config
	chatRepo    chatrepo.ChatRepository
	messageRepo message.MessageRepository
	gateway     ai.CompletionGateway
	logger      Logger
	now         func() time.Time
}

var _ Orchestrator = (*Service)(nil)

func NewService(
	chatRepo chatrepo.ChatRepository,
	messageRepo message.MessageRepository,
	gateway ai.CompletionGateway,
	config *Config,
	logger Logger,
) (*Service, error) {
	if chatRepo == nil {
		return nil, NewValidationError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, NewValidationError("constructor", "message repository is required")
	}
	if gateway == nil {
		return nil, NewValidationError("constructor", "completion gateway is required")
	}
	if logger == nil {
		return nil, NewValidationError("constructor", "logger is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	return &Service{
		config:      config,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		gateway:     gateway,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// CreateChat starts a conversation from its first user message. If the
// completion fails, the chat and the user message stay stored and the
// gateway error is returned as is.
func (s *Service) CreateChat(ctx context.Context, userID, firstMessage string) (*ChatWithMessages, error) {
	const op = "create_chat"
	if err := s.validateContent(op, firstMessage); err != nil {
		return nil, err
	}
	// A client disconnect must not abort the exchange halfway.
	ctx = context.WithoutCancel(ctx)

	title := DeriveTitle(strings.TrimSpace(firstMessage), s.config.TitleMaxRunes, s.config.TitleEllipsis)
	chat, err := s.chatRepo.Create(ctx, userID, title)
	if err != nil {
		return nil, NewStoreError(op, "could not create chat", err)
	}

	userMsg, err := s.messageRepo.Create(ctx, chat.ID, domain.RoleUser, firstMessage, 0)
	if err != nil {
		return nil, NewStoreError(op, "could not save message", err)
	}

	assistantMsg, err := s.complete(ctx, op, chat.ID, []ai.Turn{{Role: domain.RoleUser, Content: firstMessage}})
	if err != nil {
		return nil, err
	}

	if err := s.attach(ctx, op, chat, userMsg, assistantMsg); err != nil {
		return nil, err
	}

	s.logger.Info("chat created", "chat_id", chat.ID, "user_id", userID, "tokens", assistantMsg.Tokens)
	return &ChatWithMessages{
		Chat:     chat,
		Messages: []domain.Message{*userMsg, *assistantMsg},
	}, nil
}

// SendMessage appends a user message to an owned chat and stores the reply.
// The model sees the most recent ContextWindow stored messages, oldest first,
// followed by the new message.
func (s *Service) SendMessage(ctx context.Context, userID, chatID, content string) (*Exchange, error) {
	const op = "send_message"
	if err := s.validateContent(op, content); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	chat, err := s.ownedChat(ctx, op, userID, chatID)
	if err != nil {
		return nil, err
	}

	history, err := s.messageRepo.FindRecent(ctx, chat.ID, s.config.ContextWindow)
	if err != nil {
		return nil, NewStoreError(op, "could not load context", err)
	}

	userMsg, err := s.messageRepo.Create(ctx, chat.ID, domain.RoleUser, content, 0)
	if err != nil {
		return nil, NewStoreError(op, "could not save message", err)
	}

	assistantMsg, err := s.complete(ctx, op, chat.ID, BuildTurns(history, content))
	if err != nil {
		return nil, err
	}

	if err := s.attach(ctx, op, chat, userMsg, assistantMsg); err != nil {
		return nil, err
	}

	s.logger.Debug("message exchanged",
		"chat_id", chat.ID,
		"context_messages", len(history),
		"tokens", assistantMsg.Tokens)
	return &Exchange{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// GetUserChats lists active chats with their latest message as preview.
func (s *Service) GetUserChats(ctx context.Context, userID string) ([]domain.Chat, error) {
	const op = "get_user_chats"
	chats, err := s.chatRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, NewStoreError(op, "could not load chats", err)
	}

	chatIDs := make([]string, len(chats))
	for i := range chats {
		chatIDs[i] = chats[i].ID
	}
	latest, err := s.messageRepo.FindLatestByChatIDs(ctx, chatIDs)
	if err != nil {
		return nil, NewStoreError(op, "could not load chat previews", err)
	}
	for i := range chats {
		chats[i].Preview = latest[chats[i].ID]
	}
	return chats, nil
}

func (s *Service) GetChatMessages(ctx context.Context, userID, chatID string) (*ChatWithMessages, error) {
	const op = "get_chat_messages"
	chat, err := s.ownedChat(ctx, op, userID, chatID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByChatID(ctx, chat.ID)
	if err != nil {
		return nil, NewStoreError(op, "could not load messages", err)
	}
	return &ChatWithMessages{Chat: chat, Messages: messages}, nil
}

func (s *Service) UpdateChatTitle(ctx context.Context, userID, chatID, title string) (*domain.Chat, error) {
	const op = "update_chat_title"
	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError(op, "Title is required")
	}
	if utf8.RuneCountInString(title) > s.config.MaxTitleLength {
		return nil, NewValidationError(op, "Title too long")
	}

	chat, err := s.chatRepo.UpdateTitle(ctx, userID, chatID, title)
	if errors.Is(err, chatrepo.ErrChatNotFound) {
		return nil, NewNotFoundError(op, userID, chatID)
	}
	if err != nil {
		return nil, NewStoreError(op, "could not update chat", err)
	}
	return chat, nil
}

// DeleteChat soft-deletes an owned chat. Deleting it again succeeds.
func (s *Service) DeleteChat(ctx context.Context, userID, chatID string) error {
	const op = "delete_chat"
	err := s.chatRepo.SoftDelete(ctx, userID, chatID)
	if errors.Is(err, chatrepo.ErrChatNotFound) {
		return NewNotFoundError(op, userID, chatID)
	}
	if err != nil {
		return NewStoreError(op, "could not delete chat", err)
	}
	return nil
}

func (s *Service) validateContent(op, content string) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError(op, "Message cannot be empty")
	}
	if utf8.RuneCountInString(content) > s.config.MaxMessageLength {
		return NewValidationError(op, "Message too long")
	}
	return nil
}

func (s *Service) ownedChat(ctx context.Context, op, userID, chatID string) (*domain.Chat, error) {
	chat, err := s.chatRepo.FindByIDForUser(ctx, userID, chatID)
	if errors.Is(err, chatrepo.ErrChatNotFound) {
		return nil, NewNotFoundError(op, userID, chatID)
	}
	if err != nil {
		return nil, NewStoreError(op, "could not load chat", err)
	}
	return chat, nil
}

// complete calls the gateway and stores the reply as an assistant message.
func (s *Service) complete(ctx context.Context, op, chatID string, turns []ai.Turn) (*domain.Message, error) {
	completion, err := s.gateway.Complete(ctx, turns)
	if err != nil {
		s.logger.Warn("completion failed, user message kept", "chat_id", chatID, "operation", op, "error", err)
		var aiErr *ai.AIError
		if errors.As(err, &aiErr) {
			return nil, aiErr
		}
		return nil, NewUpstreamError(op, err)
	}
	if strings.TrimSpace(completion.Content) == "" {
		s.logger.Warn("completion had no content, user message kept", "chat_id", chatID, "operation", op)
		return nil, ai.NewEmptyResponseError("")
	}

	assistantMsg, err := s.messageRepo.Create(ctx, chatID, domain.RoleAssistant, completion.Content, completion.Tokens)
	if err != nil {
		return nil, NewStoreError(op, "could not save reply", err)
	}
	return assistantMsg, nil
}

// attach links both messages into the chat and reflects the write on chat.
func (s *Service) attach(ctx context.Context, op string, chat *domain.Chat, userMsg, assistantMsg *domain.Message) error {
	now := s.now()
	ids := []string{userMsg.ID, assistantMsg.ID}
	if err := s.chatRepo.AttachMessages(ctx, chat.ID, ids, now); err != nil {
		return NewStoreError(op, "could not update chat", err)
	}
	chat.MessageIDs = append(chat.MessageIDs, ids...)
	chat.LastMessageAt = &now
	chat.UpdatedAt = now
	return nil
}
