package domain

import "time"

type MeetingID string

// Meeting is the durable room record. It is created by the meeting
// creation flow before the coordinator ever sees it and is never
// deleted by the coordinator; ending a meeting only stops live
// coordination.
type Meeting struct {
	MeetingID          MeetingID  `bson:"meetingId" json:"meetingId"`
	HostUserID         string     `bson:"hostUserId,omitempty" json:"hostUserId,omitempty"`
	Password           string     `bson:"password,omitempty" json:"-"`
	Locked             bool       `bson:"locked" json:"locked"`
	Summary            string     `bson:"summary,omitempty" json:"summary,omitempty"`
	SummaryGeneratedAt *time.Time `bson:"summaryGeneratedAt,omitempty" json:"summaryGeneratedAt,omitempty"`
	Participants       []string   `bson:"participants,omitempty" json:"participants,omitempty"`
	CreatedAt          time.Time  `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt          time.Time  `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// MeetingPatch is a partial update applied through the repository's
// write path. Nil fields are left untouched.
type MeetingPatch struct {
	Locked             *bool
	Summary            *string
	SummaryGeneratedAt *time.Time
	Participants       []string
}
