package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(t *testing.T, max int) (*MemoryRateLimiter, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewMemoryRateLimiter(&Config{
		WindowSize:    time.Minute,
		MaxAttempts:   max,
		CleanupPeriod: time.Hour,
		BanDuration:   5 * time.Minute,
	})
	rl.now = c.now
	t.Cleanup(rl.Close)
	return rl, c
}

func TestAllow_BansAfterLimit(t *testing.T) {
	rl, c := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		allowed, info := rl.Allow("ip")
		require.True(t, allowed)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := rl.Allow("ip")
	assert.False(t, allowed)
	assert.True(t, info.Banned)
	assert.Equal(t, 5*time.Minute, info.RetryAfter)

	c.t = c.t.Add(2 * time.Minute)
	allowed, info = rl.Allow("ip")
	assert.False(t, allowed)
	assert.Equal(t, 3*time.Minute, info.RetryAfter)

	c.t = c.t.Add(4 * time.Minute)
	allowed, _ = rl.Allow("ip")
	assert.True(t, allowed)
}

func TestAllow_WithoutBanRefusesUntilWindowEnds(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewMemoryRateLimiter(&Config{WindowSize: time.Minute, MaxAttempts: 2, CleanupPeriod: time.Hour})
	rl.now = c.now
	t.Cleanup(rl.Close)

	rl.Allow("ip")
	rl.Allow("ip")

	for i := 0; i < 3; i++ {
		c.t = c.t.Add(10 * time.Second)
		allowed, info := rl.Allow("ip")
		require.False(t, allowed, "request %d after the limit", i+1)
		assert.False(t, info.Banned)
	}
	_, info := rl.Allow("ip")
	assert.Equal(t, 30*time.Second, info.RetryAfter)

	c.t = c.t.Add(31 * time.Second)
	allowed, _ := rl.Allow("ip")
	assert.True(t, allowed)
}

func TestAPIConfig(t *testing.T) {
	assert.Equal(t, 100, APIConfig(true).MaxAttempts)
	assert.Equal(t, 1000, APIConfig(false).MaxAttempts)
	assert.Equal(t, 15*time.Minute, APIConfig(true).WindowSize)
	assert.Zero(t, APIConfig(true).BanDuration)
}

func TestAllow_WindowResets(t *testing.T) {
	rl, c := newTestLimiter(t, 2)

	rl.Allow("ip")
	rl.Allow("ip")
	c.t = c.t.Add(61 * time.Second)

	allowed, info := rl.Allow("ip")
	assert.True(t, allowed)
	assert.Equal(t, 1, info.Remaining)
}

func TestAllow_IdentifiersAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)

	allowed, _ := rl.Allow("a")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("a")
	assert.False(t, allowed)
	allowed, _ = rl.Allow("b")
	assert.True(t, allowed)
}

func TestRecordSuccess_Resets(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)

	rl.Allow("ip")
	rl.RecordSuccess("ip")
	allowed, _ := rl.Allow("ip")
	assert.True(t, allowed)
}

func TestCleanup_DropsExpiredRecords(t *testing.T) {
	rl, c := newTestLimiter(t, 5)

	rl.Allow("old")
	c.t = c.t.Add(2 * time.Minute)
	rl.Allow("fresh")
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.attempts, "old")
	assert.Contains(t, rl.attempts, "fresh")
}

func TestClose_Idempotent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	rl.Close()
	rl.Close()
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", GetClientIP(r))

	r.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.3")
	assert.Equal(t, "203.0.113.7", GetClientIP(r))
}
