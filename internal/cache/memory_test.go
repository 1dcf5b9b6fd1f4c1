package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMemory returns a cache with a controllable clock and no
// background sweeper.
func newTestMemory() (*Memory, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &Memory{
		entries: make(map[string]*memoryEntry),
		now:     func() time.Time { return now },
		stop:    make(chan struct{}),
	}
	return m, &now
}

func TestMemoryGetMiss(t *testing.T) {
	m, _ := newTestMemory()
	var out string
	found, err := m.Get(context.Background(), "absent", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemorySetGetRoundTrip(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	type payload struct {
		Name   string `json:"name"`
		Locked bool   `json:"locked"`
	}
	require.NoError(t, m.Set(ctx, Key("room", "m1"), payload{Name: "standup", Locked: true}, NoExpiry))

	var out payload
	found, err := m.Get(ctx, Key("room", "m1"), &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "standup", out.Name)
	assert.True(t, out.Locked)
}

func TestMemoryExpiryBoundary(t *testing.T) {
	m, now := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", 10*time.Second))

	var out string
	*now = now.Add(10*time.Second - time.Millisecond)
	found, err := m.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, found, "just before the TTL the entry is still live")

	*now = now.Add(time.Millisecond)
	found, err = m.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found, "at age == TTL the entry must be gone even without a sweep")
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	m, now := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", 42, NoExpiry))
	*now = now.Add(365 * 24 * time.Hour)

	var out int
	found, err := m.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 42, out)
}

func TestMemorySetReschedulesExpiry(t *testing.T) {
	m, now := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "old", 5*time.Second))
	*now = now.Add(4 * time.Second)
	// Rewriting the key restarts its clock.
	require.NoError(t, m.Set(ctx, "k", "new", 5*time.Second))
	*now = now.Add(4 * time.Second)

	var out string
	found, err := m.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", out)
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", NoExpiry))
	require.NoError(t, m.Delete(ctx, "k"))
	require.NoError(t, m.Delete(ctx, "k"))

	var out string
	found, err := m.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryDeletePattern(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, Key("room", "m1"), 1, NoExpiry))
	require.NoError(t, m.Set(ctx, Key("chat", "m1"), 2, NoExpiry))
	require.NoError(t, m.Set(ctx, Key("participants", "m1"), 3, NoExpiry))
	require.NoError(t, m.Set(ctx, Key("room", "m2"), 4, NoExpiry))

	count, err := m.DeletePattern(ctx, ":m1$")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var out int
	found, err := m.Get(ctx, Key("room", "m2"), &out)
	require.NoError(t, err)
	assert.True(t, found, "unrelated meeting stays cached")
}

func TestMemoryDeletePatternBadExpression(t *testing.T) {
	m, _ := newTestMemory()
	_, err := m.DeletePattern(context.Background(), "([")
	assert.Error(t, err)
}

func TestMemorySweepEvictsExpired(t *testing.T) {
	m, now := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", 1, time.Second))
	require.NoError(t, m.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, m.Set(ctx, "c", 3, NoExpiry))

	*now = now.Add(30 * time.Second)
	assert.Equal(t, 1, m.sweep())
	assert.Equal(t, 2, m.Len())

	var out int
	found, err := m.Get(ctx, "b", &out)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemorySweepSkipsRewrittenKey(t *testing.T) {
	m, now := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "short", time.Second))
	require.NoError(t, m.Set(ctx, "k", "long", time.Hour))

	// The stale heap item from the first Set fires, but the live entry
	// has not aged out.
	*now = now.Add(2 * time.Second)
	assert.Equal(t, 0, m.sweep())

	var out string
	found, err := m.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "long", out)
}
