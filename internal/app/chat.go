package app

import (
	"github.com/screenx/screenx/internal/core"
	"github.com/screenx/screenx/internal/domain"
)

// Chat fans a chat line out to everyone else in the meeting's room.
// Pure relay: durable chat history is written through the repository
// by the HTTP surface, never from this path, and the cache is not
// consulted.
func (c *Coordinator) Chat(sid core.SessionID, id domain.MeetingID, sender, message string, ts int64) {
	room, ok := c.Rooms.Get(id)
	if !ok {
		return
	}
	room.Broadcast(sid, encode(chatEvent{
		Type:    EvtChatMessage,
		Sender:  sender,
		Message: message,
		TS:      ts,
	}))
}
