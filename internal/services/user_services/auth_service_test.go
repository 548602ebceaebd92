package user_services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/iyunix/go-codementor/internal/auth"
	"github.com/iyunix/go-codementor/internal/database"
	"github.com/iyunix/go-codementor/internal/domain"
	"github.com/iyunix/go-codementor/internal/repository/user"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func newTestService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "auth.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	tokens := auth.NewTokenIssuer("access", "refresh", time.Hour, 24*time.Hour)
	return NewAuthService(user.NewGormUserRepository(db, nopLogger{}), tokens, bcrypt.MinCost, nopLogger{}), db
}

func TestSignup_CreatesUserAndTokens(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, "Ada@Example.com", "secret1", " Ada ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, "Ada", result.User.Name)
	assert.True(t, result.User.IsActive)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	userID, err := svc.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "ADA@example.com", "secret2", "Other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name, email, password, userName, field string
	}{
		{"bad email", "nope", "secret1", "Ada", "email"},
		{"short password", "a@b.co", "12345", "Ada", "password"},
		{"missing name", "a@b.co", "secret1", "  ", "name"},
		{"long name", "a@b.co", "secret1", string(make([]rune, 51)), "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.email, tt.password, tt.userName)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

// lookupCounter counts FindByID calls on top of the real repository.
type lookupCounter struct {
	user.UserRepository
	findByID int
}

func (c *lookupCounter) FindByID(ctx context.Context, id string) (*domain.User, error) {
	c.findByID++
	return c.UserRepository.FindByID(ctx, id)
}

func TestLogin_ReturnsRecordedLoginTimeWithoutReload(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)

	counter := &lookupCounter{UserRepository: user.NewGormUserRepository(db, nopLogger{})}
	svc.userRepo = counter
	loginAt := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return loginAt }

	result, err := svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, result.User.LastLogin)
	assert.True(t, loginAt.Equal(*result.User.LastLogin))
	assert.Zero(t, counter.findByID)

	stored, err := svc.Profile(ctx, result.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.True(t, loginAt.Equal(*stored.LastLogin))
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	signed, err := svc.Signup(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, result.User.ID)
	assert.NotNil(t, result.User.LastLogin)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	signed, err := svc.Signup(ctx, "gone@example.com", "secret1", "Gone")
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", signed.User.ID).Update("is_active", false).Error)

	_, err = svc.Login(ctx, "gone@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAccountDeactivated)

	_, err = svc.Refresh(ctx, signed.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	signed, err := svc.Signup(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, signed.RefreshToken)
	require.NoError(t, err)
	userID, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, userID)

	_, err = svc.Refresh(ctx, signed.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	signed, err := svc.Signup(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, signed.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)

	_, err = svc.Profile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
