// Package repo layers the TTL cache over the persistent store:
// read-through on misses, write-through on meeting updates.
package repo

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/cache"
	"github.com/screenx/screenx/internal/domain"
)

// Store is what the repository needs from the persistent layer.
// internal/storage.Mongo satisfies it; tests use a spy.
type Store interface {
	GetMeeting(ctx context.Context, id domain.MeetingID) (*domain.Meeting, error)
	CreateMeeting(ctx context.Context, meeting *domain.Meeting) error
	UpdateMeeting(ctx context.Context, id domain.MeetingID, patch domain.MeetingPatch) (*domain.Meeting, error)
	ListChat(ctx context.Context, id domain.MeetingID, limit int) ([]domain.ChatMessage, error)
	InsertChat(ctx context.Context, msg *domain.ChatMessage) error
	GetUser(ctx context.Context, id domain.UserID) (*domain.User, error)
	DistinctSenders(ctx context.Context, id domain.MeetingID) ([]string, error)
}

// TTLs holds the per-view cache lifetimes.
type TTLs struct {
	Room         time.Duration
	Chat         time.Duration
	User         time.Duration
	Participants time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Room:         5 * time.Minute,
		Chat:         60 * time.Second,
		User:         10 * time.Minute,
		Participants: 30 * time.Second,
	}
}

type Repository struct {
	store Store
	cache cache.Store
	ttl   TTLs
}

func New(store Store, c cache.Store, ttl TTLs) *Repository {
	return &Repository{store: store, cache: c, ttl: ttl}
}

// cacheGet demotes any cache failure to a miss; the cache must never
// fail the surrounding operation.
func (r *Repository) cacheGet(ctx context.Context, key string, dest any) bool {
	found, err := r.cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("module", "repo").Str("key", key).Msg("cache get degraded to miss")
		return false
	}
	return found
}

func (r *Repository) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := r.cache.Set(ctx, key, value, ttl); err != nil {
		log.Warn().Err(err).Str("module", "repo").Str("key", key).Msg("cache set failed")
	}
}

func (r *Repository) cacheDelete(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("module", "repo").Str("key", key).Msg("cache delete failed")
	}
}

// GetRoom reads through the cache; an unknown meeting is (nil, nil).
func (r *Repository) GetRoom(ctx context.Context, id domain.MeetingID) (*domain.Meeting, error) {
	key := cache.Key("room", string(id))

	var cached domain.Meeting
	if r.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	meeting, err := r.store.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting != nil {
		r.cacheSet(ctx, key, meeting, r.ttl.Room)
	}
	return meeting, nil
}

// UpdateRoom writes the store first (source of truth), then repopulates
// the cache with the post-write value so a same-process read right
// after sees the patch without another store round trip.
func (r *Repository) UpdateRoom(ctx context.Context, id domain.MeetingID, patch domain.MeetingPatch) (*domain.Meeting, error) {
	meeting, err := r.store.UpdateMeeting(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if meeting != nil {
		r.cacheSet(ctx, cache.Key("room", string(id)), meeting, r.ttl.Room)
	}
	return meeting, nil
}

// CreateRoom persists a new meeting and primes its cache entry.
func (r *Repository) CreateRoom(ctx context.Context, meeting *domain.Meeting) error {
	if err := r.store.CreateMeeting(ctx, meeting); err != nil {
		return err
	}
	r.cacheSet(ctx, cache.Key("room", string(meeting.MeetingID)), meeting, r.ttl.Room)
	return nil
}

// GetChatHistory returns at most limit messages in chronological order
// (oldest first).
func (r *Repository) GetChatHistory(ctx context.Context, id domain.MeetingID, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = domain.DefaultChatLimit
	}
	key := cache.Key("chat", string(id))

	var cached []domain.ChatMessage
	if r.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	// Store hands back the newest limit messages, newest first.
	messages, err := r.store.ListChat(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	r.cacheSet(ctx, key, messages, r.ttl.Chat)
	return messages, nil
}

// AddChatMessage appends to the store and drops the cached history, so
// the next read rebuilds it with the new message inside the limit
// window. Deliberately not a repopulate: the cached slice may already
// be at the limit.
func (r *Repository) AddChatMessage(ctx context.Context, id domain.MeetingID, sender, message string) (*domain.ChatMessage, error) {
	msg := &domain.ChatMessage{MeetingID: id, Sender: sender, Message: message}
	if err := r.store.InsertChat(ctx, msg); err != nil {
		return nil, err
	}
	r.cacheDelete(ctx, cache.Key("chat", string(id)))
	return msg, nil
}

func (r *Repository) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	key := cache.Key("user", string(id))

	var cached domain.User
	if r.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	user, err := r.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user != nil {
		r.cacheSet(ctx, key, user, r.ttl.User)
	}
	return user, nil
}

// GetParticipants is the distinct set of chat senders for the meeting.
func (r *Repository) GetParticipants(ctx context.Context, id domain.MeetingID) ([]string, error) {
	key := cache.Key("participants", string(id))

	var cached []string
	if r.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	participants, err := r.store.DistinctSenders(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cacheSet(ctx, key, participants, r.ttl.Participants)
	return participants, nil
}

// InvalidateMeeting drops every cached view of the meeting at once,
// for mutations that can stale more than one of them.
func (r *Repository) InvalidateMeeting(ctx context.Context, id domain.MeetingID) {
	r.cacheDelete(ctx, cache.Key("room", string(id)))
	r.cacheDelete(ctx, cache.Key("chat", string(id)))
	r.cacheDelete(ctx, cache.Key("participants", string(id)))
	log.Debug().Str("module", "repo").Str("meeting", string(id)).Msg("invalidated meeting caches")
}
