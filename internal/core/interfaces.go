package core

import "github.com/screenx/screenx/internal/domain"

// Frame is a raw serialized payload delivered to a connection.
type Frame []byte

// SessionID identifies one live connection.
type SessionID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds domain.Member and its transport endpoint.
// This is what a room stores and fans out to. Meta returns an
// immutable snapshot; SetMeta publishes a replacement atomically.
type MemberSession interface {
	Meta() *domain.Member
	SetMeta(*domain.Member)
	Signal() SignalConnection
}

// PeerDTO is a read-only member view for wire payloads (no transport
// fields).
type PeerDTO struct {
	ID     SessionID `json:"id"`
	Name   string    `json:"name"`
	IsHost bool      `json:"isHost"`
}

// RoomService owns one meeting's live membership set. It never touches
// adapter-owned transport resources beyond TrySend.
type RoomService interface {
	ID() domain.MeetingID
	MemberCount() int
	Has(sid SessionID) bool
	Members() []SessionID
	PeersSnapshot(except SessionID) []PeerDTO

	AddMember(sid SessionID, ms MemberSession)
	RemoveMember(sid SessionID)
	// Broadcast fans a frame to every member except from ("" = all).
	Broadcast(from SessionID, data Frame) PublishResult
	// SendTo delivers to a single member; false when absent.
	SendTo(sid SessionID, data Frame) bool
}

// PublishResult reports delivery stats/backpressure to the coordinator.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// RoomDirectory maps meeting ids to their live rooms.
type RoomDirectory interface {
	GetOrCreate(id domain.MeetingID) RoomService
	Get(id domain.MeetingID) (RoomService, bool)
	Drop(id domain.MeetingID)
}
