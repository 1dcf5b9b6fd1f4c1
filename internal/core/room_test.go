package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/screenx/screenx/internal/domain"
)

type fakeConn struct {
	frames []Frame
	fail   bool
}

func (c *fakeConn) TrySend(f Frame) error {
	if c.fail {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

func addFake(r RoomService, sid SessionID, name string, isHost bool) *fakeConn {
	conn := &fakeConn{}
	r.AddMember(sid, NewMemberSession(domain.NewMember(name, isHost), conn))
	return conn
}

func TestBroadcastExcludesSender(t *testing.T) {
	room := NewRoomService("m1")
	a := addFake(room, "a", "Alice", true)
	b := addFake(room, "b", "Bob", false)

	res := room.Broadcast("a", Frame(`{"type":"x"}`))

	assert.Equal(t, 1, res.SentTo)
	assert.Empty(t, a.frames)
	assert.Len(t, b.frames, 1)
}

func TestBroadcastReportsDropped(t *testing.T) {
	room := NewRoomService("m1")
	addFake(room, "a", "Alice", true)
	slow := &fakeConn{fail: true}
	room.AddMember("b", NewMemberSession(domain.NewMember("Bob", false), slow))

	res := room.Broadcast("", Frame("x"))

	assert.Equal(t, 1, res.SentTo)
	assert.Equal(t, []SessionID{"b"}, res.Dropped)
}

func TestPeersSnapshotExcludesJoiner(t *testing.T) {
	room := NewRoomService("m1")
	addFake(room, "a", "Alice", true)
	addFake(room, "b", "Bob", false)
	addFake(room, "c", "Carol", false)

	peers := room.PeersSnapshot("c")

	assert.Len(t, peers, 2)
	byID := map[SessionID]PeerDTO{}
	for _, p := range peers {
		byID[p.ID] = p
	}
	assert.Equal(t, "Alice", byID["a"].Name)
	assert.True(t, byID["a"].IsHost)
	assert.Equal(t, "Bob", byID["b"].Name)
	assert.False(t, byID["b"].IsHost)
}

func TestSendToMissingMember(t *testing.T) {
	room := NewRoomService("m1")
	assert.False(t, room.SendTo("ghost", Frame("x")))
}

func TestRemoveMemberIdempotent(t *testing.T) {
	room := NewRoomService("m1")
	addFake(room, "a", "Alice", false)
	room.RemoveMember("a")
	room.RemoveMember("a")
	assert.Equal(t, 0, room.MemberCount())
}
