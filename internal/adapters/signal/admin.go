package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/core"
	"github.com/screenx/screenx/internal/domain"
)

func (ctl *Controller) handleAdminAction(ctx context.Context, sid core.SessionID, conn *WsConn, data []byte) {
	type adminPayload struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		Action   string `json:"action"`
		TargetID string `json:"targetId"`
	}
	var p adminPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad admin payload")
		return
	}
	if p.RoomID == "" || p.Action == "" {
		return
	}
	err := ctl.Coord.AdminAction(ctx, sid, domain.MeetingID(p.RoomID), p.Action, core.SessionID(p.TargetID))
	if err != nil {
		log.Error().Err(err).
			Str("module", "signal").
			Str("action", p.Action).
			Str("meeting_id", p.RoomID).
			Msg("admin action failed")
		ctl.sendError(conn, "Failed to apply admin action")
	}
}
