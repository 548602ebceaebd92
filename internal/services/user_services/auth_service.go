// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iyunix/go-codementor/internal/auth"
	"github.com/iyunix/go-codementor/internal/domain"
	"github.com/iyunix/go-codementor/internal/repository/user"
)

type AuthService struct {
	userRepo   user.UserRepository
	tokens     *auth.TokenIssuer
	bcryptCost int
	logger     Logger
	now        func() time.Time
}

func NewAuthService(userRepo user.UserRepository, tokens *auth.TokenIssuer, bcryptCost int, logger Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Signup creates an active account and signs the user in.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = domain.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := validateSignupInput(email, password, name); err != nil {
		s.logger.Warn("signup validation failed", "field", err.Field)
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		s.logger.Warn("signup rejected - email already registered", "email", maskEmail(email))
		return nil, ErrEmailTaken
	}

	newUser := &domain.User{Email: email, Name: name, IsActive: true}
	if err := newUser.HashPassword(password, s.bcryptCost); err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.tokens.Generate(created.ID, created.Email)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", created.ID)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered successfully", "user_id", created.ID, "email", maskEmail(email))
	return &AuthResult{User: created, TokenPair: *pair}, nil
}

// Login checks credentials, records the login and issues tokens. Unknown
// email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &ValidationError{Field: "email", Message: "Invalid email format"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Message: "Password is required"}
	}

	found, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		s.logger.Warn("login failed - user not found", "email", maskEmail(email))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := found.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "user_id", found.ID)
		return nil, ErrInvalidCredentials
	}
	if !found.IsActive {
		s.logger.Warn("login attempt on deactivated account", "user_id", found.ID)
		return nil, ErrAccountDeactivated
	}

	loginAt := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, found.ID, loginAt); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	found.LastLogin = &loginAt

	pair, err := s.tokens.Generate(found.ID, found.Email)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", found.ID)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "user_id", found.ID)
	return &AuthResult{User: found, TokenPair: *pair}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("refresh token rejected", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	found, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || !found.IsActive {
		s.logger.Warn("refresh for missing or inactive user", "user_id", claims.UserID)
		return nil, ErrInvalidRefreshToken
	}

	return s.tokens.Generate(found.ID, found.Email)
}

// ValidateAccessToken resolves a bearer token to a user id.
func (s *AuthService) ValidateAccessToken(token string) (string, error) {
	if token == "" {
		return "", auth.ErrInvalidToken
	}
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		s.logger.Debug("JWT token validation failed", "error", err)
		return "", err
	}
	return claims.UserID, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	found, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return found, nil
}

func validateSignupInput(email, password, name string) *ValidationError {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Message: "Invalid email format"}
	}
	if len(password) < domain.PasswordMinLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	if name == "" {
		return &ValidationError{Field: "name", Message: "Name is required"}
	}
	if utf8.RuneCountInString(name) > domain.NameMaxLength {
		return &ValidationError{Field: "name", Message: "Name too long"}
	}
	return nil
}

// maskEmail keeps enough of an address to correlate log lines.
func maskEmail(email string) string {
	return email[:min(4, len(email))] + "****"
}
