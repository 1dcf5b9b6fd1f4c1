// Package domain contains entity without logic, just meta-data
package domain

const (
	MaxDisplayNameLen  = 64
	DefaultDisplayName = "Guest"
)

type UserID string

type User struct {
	ID    UserID `bson:"_id,omitempty" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// NormalizeDisplayName substitutes the guest fallback and clamps
// oversized names instead of rejecting a join outright.
func NormalizeDisplayName(name string) string {
	if name == "" {
		return DefaultDisplayName
	}
	if len(name) > MaxDisplayNameLen {
		return name[:MaxDisplayNameLen]
	}
	return name
}
