package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/core"
)

// Wire event names. The relay and chat payloads stay opaque; only the
// envelope type is ours.
const (
	EvtPeers       = "peers"
	EvtUserJoined  = "user-joined"
	EvtUserLeft    = "user-left"
	EvtSignal      = "signal"
	EvtChatMessage = "chat-message"
	EvtError       = "error-message"

	EvtRemoteMute      = "remote-mute"
	EvtMeetingLocked   = "meeting-locked"
	EvtMeetingUnlocked = "meeting-unlocked"
	EvtMeetingEnded    = "meeting-ended"
	EvtRemoved         = "removed-from-meeting"
)

type peersEvent struct {
	Type  string         `json:"type"`
	Peers []core.PeerDTO `json:"peers"`
}

type userJoinedEvent struct {
	Type   string         `json:"type"`
	ID     core.SessionID `json:"id"`
	Name   string         `json:"name"`
	IsHost bool           `json:"isHost"`
}

type userLeftEvent struct {
	Type string         `json:"type"`
	ID   core.SessionID `json:"id"`
	Name string         `json:"name"`
}

type signalEvent struct {
	Type string          `json:"type"`
	From core.SessionID  `json:"from"`
	Data json.RawMessage `json:"data"`
}

type chatEvent struct {
	Type    string `json:"type"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
	TS      int64  `json:"ts"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type bareEvent struct {
	Type string `json:"type"`
}

func encode(v any) core.Frame {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app").Msg("event marshal")
		return nil
	}
	return b
}
