package chat

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iyunix/go-codementor/internal/database"
	"github.com/iyunix/go-codementor/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func newTestRepo(t *testing.T) (ChatRepository, *gorm.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "chats.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewChatRepository(db, nopLogger{}), db
}

func TestCreate_StartsActiveAndEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	chat, err := repo.Create(ctx, "user-1", "Closures in Go")
	require.NoError(t, err)
	assert.NotEmpty(t, chat.ID)
	assert.True(t, chat.IsActive)
	assert.Empty(t, chat.MessageIDs)
	assert.Nil(t, chat.LastMessageAt)

	loaded, err := repo.FindByIDForUser(ctx, "user-1", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Closures in Go", loaded.Title)
	assert.Equal(t, []string{}, loaded.MessageIDs)
}

func TestCreate_ValidatesTitle(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "user-1", "   ")
	assert.Error(t, err)
	_, err = repo.Create(ctx, "user-1", strings.Repeat("x", MaxTitleLength+1))
	assert.Error(t, err)
	_, err = repo.Create(ctx, "", "title")
	assert.Error(t, err)
}

func TestFindByIDForUser_HidesForeignAndMissingChats(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	chat, err := repo.Create(ctx, "owner", "mine")
	require.NoError(t, err)

	_, foreignErr := repo.FindByIDForUser(ctx, "intruder", chat.ID)
	_, missingErr := repo.FindByIDForUser(ctx, "intruder", "00000000-0000-7000-8000-000000000000")
	assert.ErrorIs(t, foreignErr, ErrChatNotFound)
	assert.ErrorIs(t, missingErr, ErrChatNotFound)
	assert.Equal(t, foreignErr.Error(), missingErr.Error())
}

func TestAttachMessages_AppendsInOrderAndBumpsLastMessageAt(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	chat, err := repo.Create(ctx, "user-1", "t")
	require.NoError(t, err)

	first := time.Now().Add(-time.Minute)
	require.NoError(t, repo.AttachMessages(ctx, chat.ID, []string{"m1", "m2"}, first))
	second := time.Now()
	require.NoError(t, repo.AttachMessages(ctx, chat.ID, []string{"m3", "m4"}, second))

	loaded, err := repo.FindByIDForUser(ctx, "user-1", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, loaded.MessageIDs)
	require.NotNil(t, loaded.LastMessageAt)
	assert.WithinDuration(t, second, *loaded.LastMessageAt, time.Millisecond)
	assert.False(t, loaded.UpdatedAt.Before(chat.UpdatedAt))
}

func TestAttachMessages_UnknownChat(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.AttachMessages(context.Background(), "missing", []string{"m1"}, time.Now())
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestAttachMessages_ConcurrentAppendsKeepEveryID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	chat, err := repo.Create(ctx, "user-1", "busy")
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids := []string{chat.ID[:8] + "-u" + string(rune('a'+i)), chat.ID[:8] + "-a" + string(rune('a'+i))}
			errs <- repo.AttachMessages(ctx, chat.ID, ids, time.Now())
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	loaded, err := repo.FindByIDForUser(ctx, "user-1", chat.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.MessageIDs, writers*2)

	// each writer's pair stays adjacent
	for i := 0; i < len(loaded.MessageIDs); i += 2 {
		u, a := loaded.MessageIDs[i], loaded.MessageIDs[i+1]
		assert.Equal(t, u[len(u)-1], a[len(a)-1])
	}
}

func TestFindActiveByUser_OrdersByLastMessageWithNeverMessagedLast(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	empty, err := repo.Create(ctx, "user-1", "empty")
	require.NoError(t, err)
	older, err := repo.Create(ctx, "user-1", "older")
	require.NoError(t, err)
	newer, err := repo.Create(ctx, "user-1", "newer")
	require.NoError(t, err)
	deleted, err := repo.Create(ctx, "user-1", "deleted")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "user-2", "someone else")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.AttachMessages(ctx, older.ID, []string{"o1"}, now.Add(-time.Hour)))
	require.NoError(t, repo.AttachMessages(ctx, newer.ID, []string{"n1"}, now))
	require.NoError(t, repo.SoftDelete(ctx, "user-1", deleted.ID))

	chats, err := repo.FindActiveByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, chats, 3)
	assert.Equal(t, newer.ID, chats[0].ID)
	assert.Equal(t, older.ID, chats[1].ID)
	assert.Equal(t, empty.ID, chats[2].ID)
	assert.Equal(t, []string{"n1"}, chats[0].MessageIDs)
}

func TestFindActiveByUser_GroupsMessageIDsPerChat(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, "user-1", "a")
	require.NoError(t, err)
	b, err := repo.Create(ctx, "user-1", "b")
	require.NoError(t, err)
	empty, err := repo.Create(ctx, "user-1", "empty")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.AttachMessages(ctx, a.ID, []string{"a1", "a2"}, now.Add(-time.Minute)))
	require.NoError(t, repo.AttachMessages(ctx, b.ID, []string{"b1", "b2"}, now))
	require.NoError(t, repo.AttachMessages(ctx, a.ID, []string{"a3", "a4"}, now.Add(time.Minute)))

	chats, err := repo.FindActiveByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, chats, 3)

	byID := map[string][]string{}
	for _, c := range chats {
		byID[c.ID] = c.MessageIDs
	}
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, byID[a.ID])
	assert.Equal(t, []string{"b1", "b2"}, byID[b.ID])
	assert.NotNil(t, byID[empty.ID])
	assert.Empty(t, byID[empty.ID])
}

func TestUpdateTitle(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	chat, err := repo.Create(ctx, "owner", "old")
	require.NoError(t, err)

	updated, err := repo.UpdateTitle(ctx, "owner", chat.ID, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)

	_, err = repo.UpdateTitle(ctx, "intruder", chat.ID, "hijack")
	assert.ErrorIs(t, err, ErrChatNotFound)

	_, err = repo.UpdateTitle(ctx, "owner", chat.ID, "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrChatNotFound)

	reloaded, err := repo.FindByIDForUser(ctx, "owner", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", reloaded.Title)
}

func TestSoftDelete_IdempotentForOwnerOnly(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	chat, err := repo.Create(ctx, "owner", "bye")
	require.NoError(t, err)

	assert.ErrorIs(t, repo.SoftDelete(ctx, "intruder", chat.ID), ErrChatNotFound)
	require.NoError(t, repo.SoftDelete(ctx, "owner", chat.ID))
	require.NoError(t, repo.SoftDelete(ctx, "owner", chat.ID))

	_, err = repo.FindByIDForUser(ctx, "owner", chat.ID)
	assert.ErrorIs(t, err, ErrChatNotFound)
	_, err = repo.UpdateTitle(ctx, "owner", chat.ID, "revive")
	assert.ErrorIs(t, err, ErrChatNotFound)

	// the record is retained
	var stored domain.Chat
	require.NoError(t, db.Where("id = ?", chat.ID).First(&stored).Error)
	assert.False(t, stored.IsActive)
}
