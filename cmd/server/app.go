// File: cmd/server/app.go
package main

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/iyunix/go-codementor/internal/auth"
	"github.com/iyunix/go-codementor/internal/config"
	"github.com/iyunix/go-codementor/internal/database"
	"github.com/iyunix/go-codementor/internal/handlers"
	"github.com/iyunix/go-codementor/internal/metrics"
	"github.com/iyunix/go-codementor/internal/ratelimit"
	"github.com/iyunix/go-codementor/internal/render"
	chatrepo "github.com/iyunix/go-codementor/internal/repository/chat"
	"github.com/iyunix/go-codementor/internal/repository/message"
	"github.com/iyunix/go-codementor/internal/repository/user"
	"github.com/iyunix/go-codementor/internal/services"
	"github.com/iyunix/go-codementor/internal/services/ai"
	"github.com/iyunix/go-codementor/internal/services/chat"
	"github.com/iyunix/go-codementor/internal/services/user_services"
)

// Application aggregates the long-lived pieces main has to start and stop.
type Application struct {
	Config      *config.Config
	Logger      services.Logger
	DB          *gorm.DB
	Handler     http.Handler
	AuthLimiter *ratelimit.MemoryRateLimiter
	APILimiter  *ratelimit.MemoryRateLimiter
}

func buildApplication(cfg *config.Config, logger services.Logger) (*Application, error) {
	db, err := database.Open(cfg.DatabasePath, cfg.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	appMetrics := metrics.New()

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db, logger)
	chatRepo := chatrepo.NewChatRepository(db, logger)
	messageRepo := message.NewMessageRepository(db, logger)

	// --- Services ---
	gateway, err := ai.NewOpenAIProvider(&ai.Config{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Model:        cfg.OpenAIModel,
		Temperature:  cfg.OpenAITemperature,
		MaxTokens:    cfg.OpenAIMaxTokens,
		SystemPrompt: ai.DefaultSystemPrompt,
	}, appMetrics, logger)
	if err != nil {
		database.Close(db)
		return nil, fmt.Errorf("init completion gateway: %w", err)
	}

	chatConfig := chat.DefaultConfig()
	chatConfig.ContextWindow = cfg.ChatContextWindow
	chatService, err := chat.NewService(chatRepo, messageRepo, gateway, chatConfig, logger)
	if err != nil {
		database.Close(db)
		return nil, fmt.Errorf("init chat service: %w", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTExpiresIn, cfg.JWTRefreshIn)
	authService := user_services.NewAuthService(userRepo, tokens, cfg.BcryptCost, logger)
	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	apiLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.APIConfig(cfg.IsProduction()))

	// --- HTTP ---
	showDetails := cfg.IsDevelopment()
	handler := handlers.NewRouter(handlers.RouterDeps{
		Auth:        handlers.NewAuthHandler(authService, logger, showDetails),
		Chats:       handlers.NewChatHandler(chatService, render.NewMarkdown(), chatConfig, logger, showDetails),
		Health:      handlers.NewHealthHandler(func() error { return database.Ping(db) }, cfg.Environment),
		Tokens:      authService,
		AuthLimiter: authLimiter,
		APILimiter:  apiLimiter,
		Metrics:     appMetrics.Handler(),
		HTTPMetrics: appMetrics,
		Logger:      logger,
		CORSOrigin:  cfg.CORSOrigin,
	})

	return &Application{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Handler:     handler,
		AuthLimiter: authLimiter,
		APILimiter:  apiLimiter,
	}, nil
}

// Close releases the limiter goroutines and the database handle.
func (a *Application) Close() error {
	a.AuthLimiter.Close()
	a.APILimiter.Close()
	return database.Close(a.DB)
}
