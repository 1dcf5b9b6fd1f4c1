package core

import (
	"sync"

	"github.com/screenx/screenx/internal/domain"
)

type directoryImpl struct {
	mu    sync.RWMutex
	rooms map[domain.MeetingID]RoomService
}

func NewRoomDirectory() RoomDirectory {
	return &directoryImpl{rooms: make(map[domain.MeetingID]RoomService)}
}

func (d *directoryImpl) GetOrCreate(id domain.MeetingID) RoomService {
	d.mu.RLock()
	room, ok := d.rooms[id]
	d.mu.RUnlock()
	if ok {
		return room
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if room, ok = d.rooms[id]; ok {
		return room
	}
	room = NewRoomService(id)
	d.rooms[id] = room
	return room
}

func (d *directoryImpl) Get(id domain.MeetingID) (RoomService, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.rooms[id]
	return room, ok
}

// Drop forgets the live room. The durable meeting record is untouched.
func (d *directoryImpl) Drop(id domain.MeetingID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.rooms, id)
}
