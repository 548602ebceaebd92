// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/iyunix/go-codementor/internal/domain"
)

// Outcome labels reported to Metrics.
const (
	OutcomeOK            = "ok"
	OutcomeRateLimited   = "rate_limited"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeEmptyResponse = "empty_response"
	OutcomeError         = "error"
)

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// OpenAIProvider is the CompletionGateway backed by an OpenAI-compatible API.
// It never retries; retry is the user's call.
type OpenAIProvider struct {
	config  *Config
	client  *openai.Client
	metrics Metrics
	logger  Logger
}

func NewOpenAIProvider(config *Config, metrics Metrics, logger Logger) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		config:  config,
		client:  openai.NewClientWithConfig(clientConfig),
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Complete prepends the persona turn, calls the provider once and
// normalizes failures into *AIError.
func (p *OpenAIProvider) Complete(ctx context.Context, turns []Turn) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: p.config.SystemPrompt,
	})
	for _, turn := range turns {
		role, err := providerRole(turn.Role)
		if err != nil {
			return nil, NewProviderError("completion", "invalid turn role", err)
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    messages,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	})
	elapsed := time.Since(start)

	if err != nil {
		aiErr := p.classify(err)
		p.observe(outcomeFor(aiErr.Type), 0, elapsed)
		p.logger.Error("completion request failed",
			"model", p.config.Model,
			"type", aiErr.Type,
			"turns", len(messages),
			"error", err)
		return nil, aiErr
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		p.observe(OutcomeEmptyResponse, resp.Usage.TotalTokens, elapsed)
		p.logger.Warn("completion returned no content", "model", p.config.Model, "choices", len(resp.Choices))
		return nil, NewEmptyResponseError(p.config.Model)
	}

	tokens := resp.Usage.TotalTokens
	if tokens < 0 {
		tokens = 0
	}
	p.observe(OutcomeOK, tokens, elapsed)
	p.logger.Debug("completion succeeded",
		"model", p.config.Model,
		"turns", len(messages),
		"tokens", tokens,
		"elapsed_ms", elapsed.Milliseconds())

	return &Completion{Content: resp.Choices[0].Message.Content, Tokens: tokens}, nil
}

// classify maps provider errors onto the gateway taxonomy by HTTP status.
func (p *OpenAIProvider) classify(err error) *AIError {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		return NewRateLimitError(p.config.Model, err)
	case http.StatusUnauthorized:
		return NewUnauthorizedError(p.config.Model, err)
	default:
		return NewProviderError("completion", "Failed to get AI response", err)
	}
}

func (p *OpenAIProvider) observe(outcome string, tokens int, elapsed time.Duration) {
	if p.metrics != nil {
		p.metrics.ObserveCompletion(outcome, tokens, elapsed)
	}
}

func outcomeFor(t ErrorType) string {
	switch t {
	case ErrTypeRateLimit:
		return OutcomeRateLimited
	case ErrTypeUnauthorized:
		return OutcomeUnauthorized
	case ErrTypeEmptyResponse:
		return OutcomeEmptyResponse
	default:
		return OutcomeError
	}
}

func providerRole(role domain.Role) (string, error) {
	switch role {
	case domain.RoleUser:
		return openai.ChatMessageRoleUser, nil
	case domain.RoleAssistant:
		return openai.ChatMessageRoleAssistant, nil
	case domain.RoleSystem:
		return openai.ChatMessageRoleSystem, nil
	}
	return "", errors.New("unknown role " + string(role))
}
