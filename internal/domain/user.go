package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. The role column carries the admin
// capability; call sites check Identity.IsAdmin, never the email.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}

// Identity returns the owner identity for this account.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}
