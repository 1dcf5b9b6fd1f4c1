package cache

import (
	"container/heap"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultSweepInterval is the backstop cadence for evicting entries
// whose expiry passed between reads.
const DefaultSweepInterval = 5 * time.Minute

type memoryEntry struct {
	data      []byte
	createdAt time.Time
	ttl       time.Duration
}

func (e *memoryEntry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.createdAt) >= e.ttl
}

// expiryItem sits in the sweep heap. A stale item (key rewritten or
// deleted since it was pushed) is recognized by comparing its deadline
// with the live entry and skipped.
type expiryItem struct {
	key      string
	deadline time.Time
}

type expiryHeap []expiryItem

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].deadline.Before(h[j].deadline) }
func (h expiryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x any)        { *h = append(*h, x.(expiryItem)) }
func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Memory is the process-local TTL cache. Expiry is enforced twice:
// at read time against the entry's age, and by a periodic sweep driven
// by a min-heap of deadlines. There are no per-key timers.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	expiry  expiryHeap

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

func NewMemory(sweepInterval time.Duration) *Memory {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	m := &Memory{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go m.sweepLoop(sweepInterval)
	return m
}

func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && e.expired(m.now()) {
		delete(m.entries, key)
		ok = false
	}
	var data []byte
	if ok {
		data = e.data
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal %q: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %q: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.entries[key] = &memoryEntry{data: data, createdAt: now, ttl: ttl}
	if ttl > 0 {
		heap.Push(&m.expiry, expiryItem{key: key, deadline: now.Add(ttl)})
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) DeletePattern(_ context.Context, pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("cache pattern %q: %w", pattern, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for key := range m.entries {
		if re.MatchString(key) {
			delete(m.entries, key)
			count++
		}
	}
	return count, nil
}

// Len reports live (unexpired) entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for _, e := range m.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if n := m.sweep(); n > 0 {
				log.Debug().Str("module", "cache.memory").Int("evicted", n).Msg("sweep")
			}
		}
	}
}

// sweep pops every deadline at or before now. Heap items for keys that
// were rewritten or deleted since push are stale; the live entry's own
// age decides whether it goes.
func (m *Memory) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	evicted := 0
	for m.expiry.Len() > 0 && !m.expiry[0].deadline.After(now) {
		item := heap.Pop(&m.expiry).(expiryItem)
		e, ok := m.entries[item.key]
		if !ok {
			continue
		}
		if e.expired(now) {
			delete(m.entries, item.key)
			evicted++
		}
	}
	return evicted
}
