package usecase

import (
	"github.com/google/uuid"

	"cv-smart/internal/domain"
)

// TokenParser validates a session token and returns the authenticated
// identity it carries.
type TokenParser interface {
	Parse(token string) (domain.Identity, error)
}

// IdentityResolver determines the active identity for a request: a durable
// per-browser guest id, upgraded to the authenticated account when a valid
// token is presented.
type IdentityResolver struct {
	tokens TokenParser
}

func NewIdentityResolver(tokens TokenParser) *IdentityResolver {
	return &IdentityResolver{tokens: tokens}
}

// Resolve returns the active identity. A valid token always wins; otherwise
// the presented guest id is reused, and a fresh one is issued only when none
// was presented. There are no error conditions: a bad token degrades to the
// guest identity.
func (r *IdentityResolver) Resolve(guestID, token string) domain.Identity {
	if token != "" {
		if identity, err := r.tokens.Parse(token); err == nil {
			return identity
		}
	}

	if guestID != "" {
		if id, err := uuid.Parse(guestID); err == nil {
			return domain.Identity{ID: id, Guest: true}
		}
	}

	return domain.NewGuest()
}
