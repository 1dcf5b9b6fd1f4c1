package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/core"
	"github.com/screenx/screenx/internal/domain"
)

// handleRelay forwards negotiation payloads between two endpoints. The
// data field is passed through untouched.
func (ctl *Controller) handleRelay(sid core.SessionID, data []byte) {
	type relayPayload struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad signal payload")
		return
	}
	if p.To == "" {
		return
	}
	ctl.Coord.Relay(sid, core.SessionID(p.To), p.Data)
}

func (ctl *Controller) handleChat(sid core.SessionID, data []byte) {
	type chatPayload struct {
		Type      string `json:"type"`
		RoomID    string `json:"roomId"`
		Sender    string `json:"sender"`
		Message   string `json:"message"`
		Timestamp int64  `json:"ts"`
	}
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		return
	}
	if p.RoomID == "" || p.Message == "" {
		return
	}
	ctl.Coord.Chat(sid, domain.MeetingID(p.RoomID), p.Sender, p.Message, p.Timestamp)
}

func (ctl *Controller) handlePing(conn *WsConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}
