package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/core"
	"github.com/screenx/screenx/internal/domain"
)

// Admin actions a host may issue against their own meeting.
const (
	ActionMute    = "mute"
	ActionMuteAll = "mute-all"
	ActionRemove  = "remove"
	ActionLock    = "lock"
	ActionUnlock  = "unlock"
	ActionEnd     = "end"
)

// AdminAction authorizes and executes a host-only room mutation. A
// non-host actor (or a host of a different meeting) is a silent no-op:
// no state change, no broadcast, no error back to the actor.
// Lock and unlock complete the durable write before any member sees
// the broadcast; a store failure aborts the action unbroadcast.
func (c *Coordinator) AdminAction(ctx context.Context, actor core.SessionID, id domain.MeetingID, action string, target core.SessionID) error {
	if !c.authorized(actor, id) {
		log.Warn().Str("module", "app.admin").Str("sid", string(actor)).Str("meeting", string(id)).Str("action", action).Msg("unauthorized admin action ignored")
		return nil
	}

	switch action {
	case ActionMute:
		if target == "" {
			return nil
		}
		if sess, ok := c.Registry.GetSession(target); ok {
			_ = sess.Signal().TrySend(encode(bareEvent{Type: EvtRemoteMute}))
		}

	case ActionMuteAll:
		if room, ok := c.Rooms.Get(id); ok {
			room.Broadcast("", encode(bareEvent{Type: EvtRemoteMute}))
		}

	case ActionRemove:
		if target == "" {
			return nil
		}
		if room, ok := c.Rooms.Get(id); ok {
			room.RemoveMember(target)
		}
		c.Registry.ClearRoom(target)
		if sess, ok := c.Registry.GetSession(target); ok {
			_ = sess.Signal().TrySend(encode(bareEvent{Type: EvtRemoved}))
		}

	case ActionLock:
		return c.setLocked(ctx, id, true)

	case ActionUnlock:
		return c.setLocked(ctx, id, false)

	case ActionEnd:
		room, ok := c.Rooms.Get(id)
		if !ok {
			return nil
		}
		room.Broadcast("", encode(bareEvent{Type: EvtMeetingEnded}))
		for _, sid := range room.Members() {
			room.RemoveMember(sid)
			c.Registry.ClearRoom(sid)
		}
		c.Rooms.Drop(id)
		log.Info().Str("module", "app.admin").Str("meeting", string(id)).Msg("meeting ended")

	default:
		log.Warn().Str("module", "app.admin").Str("action", action).Msg("unknown admin action")
	}
	return nil
}

func (c *Coordinator) authorized(actor core.SessionID, id domain.MeetingID) bool {
	meta, ok := c.Registry.MemberOf(actor)
	if !ok || !meta.IsHost {
		return false
	}
	room, ok := c.Registry.RoomOf(actor)
	return ok && room == id
}

// setLocked writes the durable flag first, then broadcasts, so any
// member observing the notice will also see the fresh flag on a read
// through the repository.
func (c *Coordinator) setLocked(ctx context.Context, id domain.MeetingID, locked bool) error {
	if _, err := c.Repo.UpdateRoom(ctx, id, domain.MeetingPatch{Locked: &locked}); err != nil {
		return err
	}
	evt := EvtMeetingUnlocked
	if locked {
		evt = EvtMeetingLocked
	}
	if room, ok := c.Rooms.Get(id); ok {
		room.Broadcast("", encode(bareEvent{Type: evt}))
	}
	return nil
}
