package signal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/core"
	"github.com/screenx/screenx/internal/domain"
)

func (ctl *Controller) handleJoinRoom(
	ctx context.Context,
	sid core.SessionID,
	conn *WsConn,
	data []byte,
) {
	type joinPayload struct {
		Type        string `json:"type"`
		RoomID      string `json:"roomId"`
		DisplayName string `json:"displayName"`
		IsHost      bool   `json:"isHost"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "Bad join payload")
		return
	}
	if p.RoomID == "" {
		ctl.sendError(conn, "Meeting not found")
		return
	}
	if !ctl.Limiter.Allow(sid) {
		ctl.sendError(conn, "Too many join attempts")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Msg("join-room")
	err := ctl.Coord.Join(ctx, sid, domain.MeetingID(p.RoomID), p.DisplayName, p.IsHost)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrMeetingNotFound):
		ctl.sendError(conn, "Meeting not found")
	case errors.Is(err, domain.ErrMeetingLocked):
		ctl.sendError(conn, "Meeting is locked")
	default:
		// Transient store failure: the join simply fails, the client
		// only learns it went wrong.
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join failed")
		ctl.sendError(conn, "Failed to join meeting")
	}
}

// handleLeaveRoom is an explicit leave; the connection itself stays up.
func (ctl *Controller) handleLeaveRoom(sid core.SessionID) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave-room")
	ctl.Coord.Leave(sid)
}
