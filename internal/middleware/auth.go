package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iyunix/go-codementor/internal/auth"
	"github.com/iyunix/go-codementor/internal/dtos"
)

// TokenValidator resolves an access token to a user id.
type TokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

// NewJWTMiddleware requires "Authorization: Bearer <token>" and stores the
// user id in the request context.
func NewJWTMiddleware(validator TokenValidator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				dtos.WriteError(w, http.StatusUnauthorized, "No token provided", "")
				return
			}

			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[1] == "" {
				dtos.WriteError(w, http.StatusUnauthorized, "Invalid token format", "")
				return
			}

			userID, err := validator.ValidateAccessToken(parts[1])
			if err != nil {
				logger.Debug("bearer token rejected", "path", r.URL.Path, "error", err)
				message := "Invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					message = "Token expired"
				}
				dtos.WriteError(w, http.StatusUnauthorized, message, "")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
