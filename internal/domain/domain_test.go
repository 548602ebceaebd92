package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "assistant", "system"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.True(t, r.Valid())
	}
	_, err := ParseRole("tool")
	assert.Error(t, err)
}

func TestBeforeCreate_AssignsTimeOrderedIDs(t *testing.T) {
	a, b := &Message{}, &Message{}
	require.NoError(t, a.BeforeCreate(nil))
	require.NoError(t, b.BeforeCreate(nil))
	assert.Len(t, a.ID, 36)
	assert.Less(t, a.ID, b.ID)

	preset := &Chat{ID: "fixed"}
	require.NoError(t, preset.BeforeCreate(nil))
	assert.Equal(t, "fixed", preset.ID)
}

func TestUser_Passwords(t *testing.T) {
	u := &User{}
	assert.Error(t, u.HashPassword("short", bcrypt.MinCost))

	require.NoError(t, u.HashPassword("longenough", bcrypt.MinCost))
	assert.NotEqual(t, "longenough", u.Password)
	assert.NoError(t, u.ValidatePassword("longenough"))
	assert.Error(t, u.ValidatePassword("wrong"))
}

func TestUser_IsValid(t *testing.T) {
	assert.NoError(t, (&User{Email: "a@b.c", Name: "Ada"}).IsValid())
	assert.Error(t, (&User{Email: "abc", Name: "Ada"}).IsValid())
	assert.Error(t, (&User{Email: "a@b.c", Name: "  "}).IsValid())
	assert.Error(t, (&User{Email: "a@b.c", Name: strings.Repeat("é", NameMaxLength+1)}).IsValid())
	assert.Equal(t, "a@b.c", NormalizeEmail("  A@B.C "))
}
