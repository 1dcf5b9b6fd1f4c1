package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/core"
	"github.com/screenx/screenx/internal/domain"
)

// ErrUnknownSession means the connection was never bound (or already
// unbound); nothing to coordinate.
var ErrUnknownSession = errors.New("unknown session")

// MeetingRepo is the slice of the repository the coordinator needs.
type MeetingRepo interface {
	GetRoom(ctx context.Context, id domain.MeetingID) (*domain.Meeting, error)
	UpdateRoom(ctx context.Context, id domain.MeetingID, patch domain.MeetingPatch) (*domain.Meeting, error)
}

// Coordinator owns the live meeting state of one process: presence
// registry, room directory and the repository handle. One instance is
// wired in main and passed to the adapters; no package-level state.
type Coordinator struct {
	Registry *Registry
	Rooms    core.RoomDirectory
	Repo     MeetingRepo
}

func NewCoordinator(repo MeetingRepo) *Coordinator {
	return &Coordinator{
		Registry: NewRegistry(),
		Rooms:    core.NewRoomDirectory(),
		Repo:     repo,
	}
}

// Join admits the connection to the meeting's room. The durable record
// decides admission: an unknown meeting or a locked meeting (for
// non-hosts) rejects the join before any membership is recorded.
// On success the joiner privately receives the current roster and the
// rest of the room learns about the joiner.
func (c *Coordinator) Join(ctx context.Context, sid core.SessionID, id domain.MeetingID, displayName string, isHost bool) error {
	sess, ok := c.Registry.GetSession(sid)
	if !ok {
		return ErrUnknownSession
	}

	meeting, err := c.Repo.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if meeting == nil {
		return domain.ErrMeetingNotFound
	}
	if meeting.Locked && !isHost {
		return domain.ErrMeetingLocked
	}

	// A connection belongs to at most one room.
	if prev, ok := c.Registry.RoomOf(sid); ok && prev != id {
		c.Leave(sid)
	}

	c.Registry.UpdatePresence(sid, displayName, isHost)
	c.Registry.SetRoom(sid, id)

	room := c.Rooms.GetOrCreate(id)
	room.AddMember(sid, sess)

	meta, _ := c.Registry.MemberOf(sid)
	_ = sess.Signal().TrySend(encode(peersEvent{
		Type:  EvtPeers,
		Peers: room.PeersSnapshot(sid),
	}))
	room.Broadcast(sid, encode(userJoinedEvent{
		Type:   EvtUserJoined,
		ID:     sid,
		Name:   meta.DisplayName,
		IsHost: meta.IsHost,
	}))

	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("meeting", string(id)).Bool("host", isHost).Msg("joined meeting")
	return nil
}

// Leave removes the connection from its room and tells the remaining
// members. Idempotent: leaving twice, or without ever joining, does
// nothing and broadcasts nothing.
func (c *Coordinator) Leave(sid core.SessionID) {
	id, had := c.Registry.ClearRoom(sid)
	if !had {
		return
	}
	room, ok := c.Rooms.Get(id)
	if !ok {
		return
	}
	var name string
	if meta, ok := c.Registry.MemberOf(sid); ok {
		name = meta.DisplayName
	}
	room.RemoveMember(sid)
	room.Broadcast(sid, encode(userLeftEvent{Type: EvtUserLeft, ID: sid, Name: name}))
	if room.MemberCount() == 0 {
		c.Rooms.Drop(id)
	}
}

// Disconnect is transport-close: leave, then forget the connection.
func (c *Coordinator) Disconnect(sid core.SessionID) {
	c.Leave(sid)
	c.Registry.Unbind(sid)
}
