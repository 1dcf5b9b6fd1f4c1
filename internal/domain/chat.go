package domain

import "time"

// DefaultChatLimit bounds how much history is ever handed to callers.
const DefaultChatLimit = 50

// ChatMessage is append-only: written once, never mutated.
type ChatMessage struct {
	MeetingID MeetingID `bson:"meetingId" json:"meetingId"`
	Sender    string    `bson:"sender,omitempty" json:"sender,omitempty"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
