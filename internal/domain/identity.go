package domain

import "github.com/google/uuid"

// Role of an authenticated account.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Identity is the owner key under which all per-user records are stored.
// It is either a durable per-browser guest id or an authenticated account.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email,omitempty"`
	Role  Role      `json:"role,omitempty"`
	Guest bool      `json:"guest"`
}

// NewGuest returns a fresh guest identity.
func NewGuest() Identity {
	return Identity{ID: uuid.New(), Guest: true}
}

// Key is the text form used as owner key in every store.
func (i Identity) Key() string {
	return i.ID.String()
}

// IsAdmin reports whether the identity carries the admin capability.
// Guests never do, regardless of any presented role.
func (i Identity) IsAdmin() bool {
	return !i.Guest && i.Role == RoleAdmin
}
