package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/core"
	"github.com/screenx/screenx/internal/domain"
)

type presenceEntry struct {
	MeetingID domain.MeetingID
	Session   core.MemberSession
	Cancel    context.CancelFunc
}

// Registry is the presence table: one entry per live connection with
// its display name, host flag and current room. It is the only owner
// of that ephemeral state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*presenceEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SessionID]*presenceEntry)}
}

func (r *Registry) Bind(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &presenceEntry{Session: sess, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound session")
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

// MemberOf returns the presence meta for the connection as an
// immutable snapshot; a later UpdatePresence publishes a new one.
func (r *Registry) MemberOf(sid core.SessionID) (*domain.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	return e.Session.Meta(), true
}

// UpdatePresence records the join-time identity of the connection.
// The Member is replaced, never mutated in place: rooms holding the
// previous snapshot keep reading a frozen value.
func (r *Registry) UpdatePresence(sid core.SessionID, displayName string, isHost bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return
	}
	meta := domain.NewMember(displayName, isHost)
	e.Session.SetMeta(meta)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("name", meta.DisplayName).Bool("host", isHost).Msg("updated presence")
}

func (r *Registry) SetRoom(sid core.SessionID, id domain.MeetingID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.MeetingID = id
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("meeting", string(id)).Msg("entered room")
	return true
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.MeetingID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok || e.MeetingID == "" {
		return "", false
	}
	return e.MeetingID, true
}

// ClearRoom drops the room association and reports which room it was.
// Idempotent: clearing a connection with no room is a no-op.
func (r *Registry) ClearRoom(sid core.SessionID) (domain.MeetingID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok || e.MeetingID == "" {
		return "", false
	}
	id := e.MeetingID
	e.MeetingID = ""
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("meeting", string(id)).Msg("left room")
	return id, true
}

// Unbind forgets the connection and cancels its per-session context,
// releasing it from the server context so churned connections do not
// accumulate there.
func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	e, ok := r.sessions[sid]
	delete(r.sessions, sid)
	r.mu.Unlock()
	if ok && e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}
