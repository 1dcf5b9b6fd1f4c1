package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/screenx/screenx/internal/core"
)

func TestJoinRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := NewJoinRateLimiter(3, time.Minute)
	sid := core.SessionID("s1")

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(sid), "attempt %d should pass", i+1)
	}
	assert.False(t, rl.Allow(sid))
}

func TestJoinRateLimiterIsPerSession(t *testing.T) {
	rl := NewJoinRateLimiter(1, time.Minute)

	assert.True(t, rl.Allow(core.SessionID("a")))
	assert.False(t, rl.Allow(core.SessionID("a")))
	assert.True(t, rl.Allow(core.SessionID("b")))
}

func TestJoinRateLimiterWindowSlides(t *testing.T) {
	rl := NewJoinRateLimiter(2, 10*time.Millisecond)
	sid := core.SessionID("s1")

	assert.True(t, rl.Allow(sid))
	assert.True(t, rl.Allow(sid))
	assert.False(t, rl.Allow(sid))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.Allow(sid))
}

func TestJoinRateLimiterForget(t *testing.T) {
	rl := NewJoinRateLimiter(1, time.Minute)
	sid := core.SessionID("s1")

	assert.True(t, rl.Allow(sid))
	assert.False(t, rl.Allow(sid))

	rl.Forget(sid)
	assert.True(t, rl.Allow(sid))
}
