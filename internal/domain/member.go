package domain

// Member represents a connection's participation meta for a meeting.
// No transport or lifecycle logic here.
type Member struct {
	DisplayName string
	IsHost      bool
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(displayName string, isHost bool) *Member {
	return &Member{DisplayName: NormalizeDisplayName(displayName), IsHost: isHost}
}
