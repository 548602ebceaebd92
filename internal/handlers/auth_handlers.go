// File: internal/handlers/auth_handlers.go
package handlers

import (
	"context"
	"net/http"

	"github.com/iyunix/go-codementor/internal/auth"
	"github.com/iyunix/go-codementor/internal/domain"
	"github.com/iyunix/go-codementor/internal/dtos"
	"github.com/iyunix/go-codementor/internal/middleware"
	"github.com/iyunix/go-codementor/internal/services/user_services"
)

// AuthService is the part of user_services.AuthService the handlers call.
type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*user_services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*user_services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	responder
	service AuthService
}

func NewAuthHandler(service AuthService, logger Logger, showDetails bool) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger, showDetails: showDetails},
		service:   service,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.success(w, http.StatusCreated, authResponse(result))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.success(w, http.StatusOK, authResponse(result))
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dtos.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		h.fail(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.success(w, http.StatusOK, dtos.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	found, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.success(w, http.StatusOK, dtos.ToUserResponse(found))
}

func authResponse(result *user_services.AuthResult) dtos.AuthResponse {
	return dtos.AuthResponse{
		User:         dtos.ToUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
}
