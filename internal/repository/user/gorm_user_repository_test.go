package user

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iyunix/go-codementor/internal/database"
	"github.com/iyunix/go-codementor/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func newTestRepo(t *testing.T) UserRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "users.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewGormUserRepository(db, nopLogger{})
}

func newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Name: "Ada", IsActive: true}
	require.NoError(t, u.HashPassword("secret1", bcrypt.MinCost))
	return u
}

func TestCreate_NormalizesEmailAndFindsIt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser(t, "  Ada@Example.COM "))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ada@example.com", created.Email)

	byEmail, err := repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NoError(t, byID.ValidatePassword("secret1"))

	exists, err := repo.ExistsByEmail(ctx, "ada@EXAMPLE.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreate_RejectsDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser(t, "dup@example.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newUser(t, "DUP@example.com"))
	assert.Error(t, err)
}

func TestCreate_Validation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, nil)
	assert.Error(t, err)
	_, err = repo.Create(ctx, &domain.User{Email: "no-at-sign", Name: "x", Password: "h"})
	assert.Error(t, err)
	_, err = repo.Create(ctx, &domain.User{Email: "a@b.c", Name: "x"})
	assert.Error(t, err)
}

func TestFind_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, repo.TouchLastLogin(ctx, "missing", time.Now()), ErrUserNotFound)
}

func TestTouchLastLogin(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser(t, "login@example.com"))
	require.NoError(t, err)
	assert.Nil(t, created.LastLogin)

	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastLogin(ctx, created.ID, at))
	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.LastLogin)
	assert.True(t, at.Equal(*loaded.LastLogin))
}
