package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/core"
)

// Relay forwards an opaque negotiation payload to exactly one target
// connection, tagged with the sender. The payload is never parsed.
// Delivery is at-most-once: a missing target or a backpressured send
// drops the message silently.
func (c *Coordinator) Relay(from, to core.SessionID, data json.RawMessage) {
	target, ok := c.Registry.GetSession(to)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("from", string(from)).Str("to", string(to)).Msg("relay target gone, dropped")
		return
	}
	_ = target.Signal().TrySend(encode(signalEvent{Type: EvtSignal, From: from, Data: data}))
}
