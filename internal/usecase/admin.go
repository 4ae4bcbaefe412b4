package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

// MemberStore is the slice of the member repository admin operations need.
type MemberStore interface {
	ListWithPayments(ctx context.Context) ([]domain.MemberWithPayment, error)
	Count(ctx context.Context, since *time.Time) (int64, error)
	Recent(ctx context.Context, limit int) ([]domain.MemberRecord, error)
	DeleteByID(ctx context.Context, id int64) error
}

// PaymentAdmin is the payment repository surface for moderation.
type PaymentAdmin interface {
	SetApproval(ctx context.Context, ownerKey string, approved bool) error
	Reset(ctx context.Context, ownerKey string) error
	SumPaidRevenue(ctx context.Context, since *time.Time) (float64, error)
	DeleteByOwner(ctx context.Context, ownerKey string) error
}

// CVAdmin is the cv repository surface for moderation.
type CVAdmin interface {
	Count(ctx context.Context, since *time.Time) (int64, error)
	DeleteByOwner(ctx context.Context, ownerKey string) error
}

// DocumentAdmin lists and removes a member's archived uploads.
type DocumentAdmin interface {
	ListPaths(ctx context.Context, ownerKey string) ([]string, error)
	DeleteByOwner(ctx context.Context, ownerKey string) error
}

// OwnerAggregator collects every record stored under one owner key for the
// member detail view.
type OwnerAggregator func(ctx context.Context, ownerKey string) (map[string]interface{}, error)

// Admin implements the moderation surface. Every method requires an
// administrator identity and returns ErrForbidden otherwise; the transport
// layer enforces the same check, this one is the backstop.
type Admin struct {
	members   MemberStore
	payments  PaymentAdmin
	cvs       CVAdmin
	docs      DocumentAdmin
	store     ObjectStore
	sessions  *SessionManager
	aggregate OwnerAggregator
	logger    *logger.Logger
}

func NewAdmin(members MemberStore, payments PaymentAdmin, cvs CVAdmin, docs DocumentAdmin, store ObjectStore, sessions *SessionManager, aggregate OwnerAggregator, log *logger.Logger) *Admin {
	return &Admin{
		members:   members,
		payments:  payments,
		cvs:       cvs,
		docs:      docs,
		store:     store,
		sessions:  sessions,
		aggregate: aggregate,
		logger:    log,
	}
}

func (a *Admin) requireAdmin(identity domain.Identity) error {
	if !identity.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

const recentMembersLimit = 5

// Stats recomputes the dashboard aggregates for the requested range. The
// three counters and the recent list are independent queries, so they run
// concurrently.
func (a *Admin) Stats(ctx context.Context, identity domain.Identity, rng domain.StatsRange) (domain.AdminStats, error) {
	if err := a.requireAdmin(identity); err != nil {
		return domain.AdminStats{}, err
	}

	var since *time.Time
	if rng == domain.StatsRange30Days {
		t := time.Now().UTC().AddDate(0, 0, -30)
		since = &t
	}

	var stats domain.AdminStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := a.members.Count(gctx, since)
		stats.Members = n
		return err
	})
	g.Go(func() error {
		n, err := a.cvs.Count(gctx, since)
		stats.CVs = n
		return err
	})
	g.Go(func() error {
		sum, err := a.payments.SumPaidRevenue(gctx, since)
		stats.Revenue = sum
		return err
	})
	g.Go(func() error {
		recent, err := a.members.Recent(gctx, recentMembersLimit)
		stats.RecentMembers = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AdminStats{}, fmt.Errorf("failed to compute admin stats: %w", err)
	}
	if stats.RecentMembers == nil {
		stats.RecentMembers = []domain.MemberRecord{}
	}
	return stats, nil
}

// Members lists all members with their payment state, optionally filtered by
// a case-insensitive substring match on name or email.
func (a *Admin) Members(ctx context.Context, identity domain.Identity, search string) ([]domain.MemberWithPayment, error) {
	if err := a.requireAdmin(identity); err != nil {
		return nil, err
	}

	all, err := a.members.ListWithPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return all, nil
	}
	filtered := make([]domain.MemberWithPayment, 0, len(all))
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Name), search) || strings.Contains(strings.ToLower(m.Email), search) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// MemberDetail returns everything stored under one owner key.
func (a *Admin) MemberDetail(ctx context.Context, identity domain.Identity, ownerKey string) (map[string]interface{}, error) {
	if err := a.requireAdmin(identity); err != nil {
		return nil, err
	}
	detail, err := a.aggregate(ctx, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate member data: %w", err)
	}
	return detail, nil
}

// SetApproval sets the manual approval flag for a member. It only ever
// touches the flag; the gateway-reported status is not admin territory.
// Setting the current value again is a no-op, not an error.
func (a *Admin) SetApproval(ctx context.Context, identity domain.Identity, ownerKey string, approved bool) error {
	if err := a.requireAdmin(identity); err != nil {
		return err
	}
	if err := a.payments.SetApproval(ctx, ownerKey, approved); err != nil {
		return fmt.Errorf("failed to set approval: %w", err)
	}
	return nil
}

// ResetPayment puts a member's payment record back to pending/unapproved.
func (a *Admin) ResetPayment(ctx context.Context, identity domain.Identity, ownerKey string) error {
	if err := a.requireAdmin(identity); err != nil {
		return err
	}
	if err := a.payments.Reset(ctx, ownerKey); err != nil {
		return fmt.Errorf("failed to reset payment: %w", err)
	}
	return nil
}

// DeleteMemberComplete removes a member and everything keyed to them, in
// order: archived documents, CV data, payment record, then the member row.
// Failures in the dependent-data steps are logged and the cascade continues;
// only the final member delete is load-bearing.
func (a *Admin) DeleteMemberComplete(ctx context.Context, identity domain.Identity, memberID int64, ownerKey string) error {
	if err := a.requireAdmin(identity); err != nil {
		return err
	}

	paths, err := a.docs.ListPaths(ctx, ownerKey)
	if err != nil {
		a.logger.Warn("cascade delete: listing documents failed", "owner", ownerKey, "error", err)
	}
	for _, p := range paths {
		if err := a.store.Delete(ctx, p); err != nil {
			a.logger.Warn("cascade delete: object removal failed", "owner", ownerKey, "key", p, "error", err)
		}
	}
	if err := a.docs.DeleteByOwner(ctx, ownerKey); err != nil {
		a.logger.Warn("cascade delete: document records removal failed", "owner", ownerKey, "error", err)
	}
	if err := a.cvs.DeleteByOwner(ctx, ownerKey); err != nil {
		a.logger.Warn("cascade delete: cv removal failed", "owner", ownerKey, "error", err)
	}
	if err := a.payments.DeleteByOwner(ctx, ownerKey); err != nil {
		a.logger.Warn("cascade delete: payment removal failed", "owner", ownerKey, "error", err)
	}

	if err := a.members.DeleteByID(ctx, memberID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCascadeDeleteFailed, err)
	}

	a.sessions.Forget(ownerKey)
	return nil
}
