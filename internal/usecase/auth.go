package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

// UserStore is the account repository surface.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// MemberRegistrar records the member row alongside account creation.
type MemberRegistrar interface {
	Upsert(ctx context.Context, m domain.MemberRecord) error
}

// OwnerReassigner re-keys guest-owned records to a new account. All stores
// holding per-owner data implement it.
type OwnerReassigner interface {
	ReassignOwner(ctx context.Context, fromKey, toKey string) error
}

// TokenIssuer signs session tokens for authenticated identities.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
}

// Auth handles registration and login. On registration any work the user did
// as a guest is adopted: records stored under the guest key are re-keyed to
// the new account.
type Auth struct {
	users       UserStore
	members     MemberRegistrar
	tokens      TokenIssuer
	reassigners []OwnerReassigner
	adminEmail  string
	logger      *logger.Logger
}

func NewAuth(users UserStore, members MemberRegistrar, tokens TokenIssuer, adminEmail string, log *logger.Logger, reassigners ...OwnerReassigner) *Auth {
	return &Auth{
		users:       users,
		members:     members,
		tokens:      tokens,
		adminEmail:  adminEmail,
		logger:      log,
		reassigners: reassigners,
	}
}

// AuthResult is the outcome of a successful sign-up or sign-in.
type AuthResult struct {
	Identity domain.Identity `json:"identity"`
	Token    string          `json:"token"`
}

// SignUp creates an account, records the member row and adopts any
// guest-owned records. fullName falls back to the email local part.
func (a *Auth) SignUp(ctx context.Context, email, password, fullName string, guest domain.Identity) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, domain.ErrValidationFailed
	}

	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = strings.SplitN(email, "@", 2)[0]
	}
	role := domain.RoleMember
	if a.adminEmail != "" && email == strings.ToLower(a.adminEmail) {
		role = domain.RoleAdmin
	}

	user, err := a.users.Create(ctx, domain.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to create account: %w", err)
	}

	if err := a.members.Upsert(ctx, domain.MemberRecord{
		UserID:    user.ID.String(),
		Email:     user.Email,
		Name:      user.FullName,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		a.logger.Warn("signup: member record upsert failed", "user_id", user.ID, "error", err)
	}

	a.adoptGuestRecords(ctx, guest, user.Identity())

	tok, err := a.tokens.Issue(user.Identity())
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return AuthResult{Identity: user.Identity(), Token: tok}, nil
}

// SignIn verifies credentials. Unknown email and wrong password are the same
// error to the caller.
func (a *Auth) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return AuthResult{}, domain.ErrBadCredentials
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return AuthResult{}, domain.ErrBadCredentials
	}

	tok, err := a.tokens.Issue(user.Identity())
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return AuthResult{Identity: user.Identity(), Token: tok}, nil
}

// CurrentUser loads the account behind an authenticated identity.
func (a *Auth) CurrentUser(ctx context.Context, identity domain.Identity) (domain.User, error) {
	if identity.Guest {
		return domain.User{}, domain.ErrForbidden
	}
	return a.users.GetByID(ctx, identity.ID)
}

// adoptGuestRecords re-keys everything the guest produced to the account.
// This runs only at sign-up; signing in to an existing account does not
// absorb guest data. Failures are logged, the account itself is fine.
func (a *Auth) adoptGuestRecords(ctx context.Context, guest, account domain.Identity) {
	if !guest.Guest {
		return
	}
	from, to := guest.Key(), account.Key()
	for _, r := range a.reassigners {
		if err := r.ReassignOwner(ctx, from, to); err != nil {
			a.logger.Warn("signup: guest record adoption failed", "from", from, "to", to, "error", err)
		}
	}
}
