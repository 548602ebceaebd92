// File: internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-codementor/internal/middleware"
	"github.com/iyunix/go-codementor/internal/ratelimit"
)

const chatIDPattern = "{chatId}"

// RouterDeps collects everything the HTTP surface is built from.
type RouterDeps struct {
	Auth        *AuthHandler
	Chats       *ChatHandler
	Health      *HealthHandler
	Tokens      middleware.TokenValidator
	AuthLimiter *ratelimit.MemoryRateLimiter
	APILimiter  *ratelimit.MemoryRateLimiter
	Metrics     http.Handler
	HTTPMetrics middleware.HTTPMetrics
	Logger      Logger
	CORSOrigin  string
}

// NewRouter wires routes and middleware. CORS wraps the router itself so
// preflight requests are answered before route matching.
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)

	r.Use(middleware.RecoverPanic(deps.Logger))
	r.Use(middleware.LoggingMiddleware(deps.Logger, deps.HTTPMetrics))

	r.HandleFunc("/health", deps.Health.Health).Methods(http.MethodGet)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	if deps.APILimiter != nil {
		api.Use(middleware.RateLimitMiddleware(deps.APILimiter, "api", deps.Logger))
	}

	authRoutes := api.PathPrefix("/auth").Subrouter()
	limited := authRoutes.NewRoute().Subrouter()
	if deps.AuthLimiter != nil {
		limited.Use(middleware.RateLimitMiddleware(deps.AuthLimiter, "auth", deps.Logger))
		limited.Use(middleware.AuthSuccessMiddleware(deps.AuthLimiter, "auth"))
	}
	limited.HandleFunc("/signup", deps.Auth.Signup).Methods(http.MethodPost)
	limited.HandleFunc("/login", deps.Auth.Login).Methods(http.MethodPost)
	limited.HandleFunc("/refresh", deps.Auth.Refresh).Methods(http.MethodPost)

	requireAuth := middleware.NewJWTMiddleware(deps.Tokens, deps.Logger)

	profile := authRoutes.NewRoute().Subrouter()
	profile.Use(requireAuth)
	profile.HandleFunc("/profile", deps.Auth.Profile).Methods(http.MethodGet)

	chats := api.PathPrefix("/chats").Subrouter()
	chats.Use(requireAuth)
	chats.HandleFunc("", deps.Chats.GetUserChats).Methods(http.MethodGet)
	chats.HandleFunc("", deps.Chats.CreateChat).Methods(http.MethodPost)
	chats.HandleFunc("/"+chatIDPattern, deps.Chats.GetChatMessages).Methods(http.MethodGet)
	chats.HandleFunc("/"+chatIDPattern, deps.Chats.UpdateChatTitle).Methods(http.MethodPatch)
	chats.HandleFunc("/"+chatIDPattern, deps.Chats.DeleteChat).Methods(http.MethodDelete)
	chats.HandleFunc("/"+chatIDPattern+"/messages", deps.Chats.SendMessage).Methods(http.MethodPost)

	return middleware.CORS(deps.CORSOrigin)(r)
}
