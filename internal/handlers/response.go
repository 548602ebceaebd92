// File: internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iyunix/go-codementor/internal/auth"
	"github.com/iyunix/go-codementor/internal/dtos"
	"github.com/iyunix/go-codementor/internal/services/ai"
	"github.com/iyunix/go-codementor/internal/services/chat"
	"github.com/iyunix/go-codementor/internal/services/user_services"
)

const maxBodyBytes = 1 << 20

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// responder writes envelopes and maps service errors to status codes.
type responder struct {
	logger      Logger
	showDetails bool
}

func (rs responder) success(w http.ResponseWriter, status int, data interface{}) {
	dtos.WriteSuccess(w, status, data)
}

func (rs responder) fail(w http.ResponseWriter, status int, message string) {
	dtos.WriteError(w, status, message, "")
}

// handleError maps err to a status and client-safe message. Internal text only
// reaches the client as details in development.
func (rs responder) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		rs.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		rs.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	details := ""
	if rs.showDetails {
		details = err.Error()
	}
	dtos.WriteError(w, status, message, details)
}

func statusFor(err error) (int, string) {
	var aiErr *ai.AIError
	if errors.As(err, &aiErr) {
		switch aiErr.Type {
		case ai.ErrTypeRateLimit:
			return http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."
		case ai.ErrTypeEmptyResponse:
			return http.StatusInternalServerError, "No response from AI provider"
		default:
			// a rejected API key is an operator problem; users get the generic text
			return http.StatusInternalServerError, "Failed to get AI response"
		}
	}

	var chatErr *chat.ChatError
	if errors.As(err, &chatErr) {
		switch chatErr.Type {
		case chat.ErrTypeValidation:
			return http.StatusBadRequest, chatErr.Message
		case chat.ErrTypeNotFound:
			return http.StatusNotFound, "Chat not found"
		case chat.ErrTypeUpstream:
			return http.StatusInternalServerError, "Failed to get AI response"
		default:
			return http.StatusInternalServerError, "Internal server error"
		}
	}

	var validationErr *user_services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, user_services.ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, user_services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, user_services.ErrAccountDeactivated):
		return http.StatusForbidden, "Account is deactivated"
	case errors.Is(err, user_services.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "Invalid refresh token"
	case errors.Is(err, user_services.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	}

	return http.StatusInternalServerError, "Internal server error"
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// NotFound and MethodNotAllowed keep unknown routes inside the envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	dtos.WriteError(w, http.StatusNotFound, "Route "+r.URL.Path+" not found", "")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	dtos.WriteError(w, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed", "")
}
