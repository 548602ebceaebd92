package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-codementor/internal/domain"
)

func TestOpen_MigratesSchema(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Ping(db))
	for _, model := range []interface{}{&domain.User{}, &domain.Chat{}, &domain.ChatMessageLink{}, &domain.Message{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestOpen_RejectsUnknownRole(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	err = db.Create(&domain.Message{ChatID: "c", Role: domain.Role("tool"), Content: "x"}).Error
	assert.Error(t, err)
}
