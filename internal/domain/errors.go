package domain

import "errors"

var (
	// ErrMeetingNotFound rejects a join before the connection is ever
	// added to a room.
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrMeetingLocked rejects non-host joins while the meeting is locked.
	ErrMeetingLocked = errors.New("meeting is locked")
)
