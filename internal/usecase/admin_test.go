package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

type fakeMemberStore struct {
	list    []domain.MemberWithPayment
	listErr error

	count    int64
	countErr error

	recent []domain.MemberRecord

	deletedIDs []int64
	deleteErr  error
}

func (f *fakeMemberStore) ListWithPayments(context.Context) ([]domain.MemberWithPayment, error) {
	return f.list, f.listErr
}

func (f *fakeMemberStore) Count(context.Context, *time.Time) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeMemberStore) Recent(context.Context, int) ([]domain.MemberRecord, error) {
	return f.recent, nil
}

func (f *fakeMemberStore) DeleteByID(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakePaymentAdmin struct {
	records map[string]domain.PaymentRecord
	resets  []string
	revenue float64
	deleted []string

	approvalErr error
	deleteErr   error
}

func newFakePaymentAdmin() *fakePaymentAdmin {
	return &fakePaymentAdmin{records: map[string]domain.PaymentRecord{}}
}

// SetApproval mirrors the repository upsert: the approval flag changes, the
// gateway-owned status column does not, and a missing row starts out pending.
func (f *fakePaymentAdmin) SetApproval(_ context.Context, ownerKey string, approved bool) error {
	if f.approvalErr != nil {
		return f.approvalErr
	}
	rec, ok := f.records[ownerKey]
	if !ok {
		rec = domain.PaymentRecord{UserID: ownerKey, Status: domain.PaymentStatusPending}
	}
	rec.AdminApproved = approved
	f.records[ownerKey] = rec
	return nil
}

func (f *fakePaymentAdmin) Reset(_ context.Context, ownerKey string) error {
	f.resets = append(f.resets, ownerKey)
	return nil
}

func (f *fakePaymentAdmin) SumPaidRevenue(context.Context, *time.Time) (float64, error) {
	return f.revenue, nil
}

func (f *fakePaymentAdmin) DeleteByOwner(_ context.Context, ownerKey string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ownerKey)
	return nil
}

type fakeCVAdmin struct {
	count   int64
	deleted []string

	deleteErr error
}

func (f *fakeCVAdmin) Count(context.Context, *time.Time) (int64, error) { return f.count, nil }

func (f *fakeCVAdmin) DeleteByOwner(_ context.Context, ownerKey string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ownerKey)
	return nil
}

type fakeDocumentAdmin struct {
	paths   []string
	deleted []string

	listErr error
}

func (f *fakeDocumentAdmin) ListPaths(context.Context, string) ([]string, error) {
	return f.paths, f.listErr
}

func (f *fakeDocumentAdmin) DeleteByOwner(_ context.Context, ownerKey string) error {
	f.deleted = append(f.deleted, ownerKey)
	return nil
}

func adminIdentity() domain.Identity {
	return domain.Identity{ID: domain.NewGuest().ID, Email: "admin@example.com", Role: domain.RoleAdmin}
}

func noAggregate(context.Context, string) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func newTestAdmin(members *fakeMemberStore, payments *fakePaymentAdmin, cvs *fakeCVAdmin, docs *fakeDocumentAdmin, store *fakeObjectStore) *Admin {
	sessions := NewSessionManager(newFakeCVStore(), logger.NewDiscard())
	return NewAdmin(members, payments, cvs, docs, store, sessions, noAggregate, logger.NewDiscard())
}

func TestAdminStats(t *testing.T) {
	t.Run("aggregates members, cvs and revenue", func(t *testing.T) {
		members := &fakeMemberStore{count: 12, recent: []domain.MemberRecord{{ID: 1, Name: "Maria"}}}
		payments := newFakePaymentAdmin()
		payments.revenue = 350.5
		admin := newTestAdmin(members, payments, &fakeCVAdmin{count: 7}, &fakeDocumentAdmin{}, newFakeObjectStore())

		stats, err := admin.Stats(context.Background(), adminIdentity(), domain.StatsRangeAll)

		require.NoError(t, err)
		assert.Equal(t, int64(12), stats.Members)
		assert.Equal(t, int64(7), stats.CVs)
		assert.Equal(t, 350.5, stats.Revenue)
		require.Len(t, stats.RecentMembers, 1)
	})

	t.Run("any failing query fails the whole read", func(t *testing.T) {
		members := &fakeMemberStore{countErr: errBoom}
		admin := newTestAdmin(members, newFakePaymentAdmin(), &fakeCVAdmin{}, &fakeDocumentAdmin{}, newFakeObjectStore())

		_, err := admin.Stats(context.Background(), adminIdentity(), domain.StatsRange30Days)

		assert.Error(t, err)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		admin := newTestAdmin(&fakeMemberStore{}, newFakePaymentAdmin(), &fakeCVAdmin{}, &fakeDocumentAdmin{}, newFakeObjectStore())

		_, err := admin.Stats(context.Background(), domain.NewGuest(), domain.StatsRangeAll)

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAdminMembers(t *testing.T) {
	members := &fakeMemberStore{list: []domain.MemberWithPayment{
		{MemberRecord: domain.MemberRecord{ID: 1, Name: "Maria Santos", Email: "maria@example.com"}},
		{MemberRecord: domain.MemberRecord{ID: 2, Name: "João Lopes", Email: "joao@example.com"}, PaymentStatus: domain.PaymentStatusPaid},
	}}
	admin := newTestAdmin(members, newFakePaymentAdmin(), &fakeCVAdmin{}, &fakeDocumentAdmin{}, newFakeObjectStore())

	t.Run("empty search returns everyone", func(t *testing.T) {
		got, err := admin.Members(context.Background(), adminIdentity(), "")

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("search matches name and email, case-insensitive", func(t *testing.T) {
		got, err := admin.Members(context.Background(), adminIdentity(), "MARIA")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)

		got, err = admin.Members(context.Background(), adminIdentity(), "joao@")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
	})

	t.Run("no match returns empty, not nil", func(t *testing.T) {
		got, err := admin.Members(context.Background(), adminIdentity(), "zzz")

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestAdminSetApproval(t *testing.T) {
	payments := newFakePaymentAdmin()
	admin := newTestAdmin(&fakeMemberStore{}, payments, &fakeCVAdmin{}, &fakeDocumentAdmin{}, newFakeObjectStore())

	require.NoError(t, admin.SetApproval(context.Background(), adminIdentity(), "owner-1", true))
	assert.True(t, payments.records["owner-1"].AdminApproved)
	assert.Equal(t, domain.PaymentStatusPending, payments.records["owner-1"].Status)

	// setting the same value again is a no-op, not an error
	require.NoError(t, admin.SetApproval(context.Background(), adminIdentity(), "owner-1", true))

	require.NoError(t, admin.SetApproval(context.Background(), adminIdentity(), "owner-1", false))
	assert.False(t, payments.records["owner-1"].AdminApproved)

	// toggling approval never touches the gateway-owned status
	payments.records["owner-2"] = domain.PaymentRecord{UserID: "owner-2", Status: domain.PaymentStatusPaid, Amount: 5000}
	require.NoError(t, admin.SetApproval(context.Background(), adminIdentity(), "owner-2", true))
	assert.Equal(t, domain.PaymentStatusPaid, payments.records["owner-2"].Status)
	assert.Equal(t, float64(5000), payments.records["owner-2"].Amount)
	require.NoError(t, admin.SetApproval(context.Background(), adminIdentity(), "owner-2", false))
	assert.Equal(t, domain.PaymentStatusPaid, payments.records["owner-2"].Status)

	assert.ErrorIs(t, admin.SetApproval(context.Background(), domain.NewGuest(), "owner-1", true), domain.ErrForbidden)
}

func TestAdminDeleteMemberComplete(t *testing.T) {
	t.Run("removes objects, records and the member", func(t *testing.T) {
		members := &fakeMemberStore{}
		payments := newFakePaymentAdmin()
		cvs := &fakeCVAdmin{}
		docs := &fakeDocumentAdmin{paths: []string{"documents/owner-1/a.jpg", "documents/owner-1/b.jpg"}}
		store := newFakeObjectStore()
		admin := newTestAdmin(members, payments, cvs, docs, store)

		err := admin.DeleteMemberComplete(context.Background(), adminIdentity(), 42, "owner-1")

		require.NoError(t, err)
		assert.Equal(t, []string{"documents/owner-1/a.jpg", "documents/owner-1/b.jpg"}, store.deleted)
		assert.Equal(t, []string{"owner-1"}, docs.deleted)
		assert.Equal(t, []string{"owner-1"}, cvs.deleted)
		assert.Equal(t, []string{"owner-1"}, payments.deleted)
		assert.Equal(t, []int64{42}, members.deletedIDs)
	})

	t.Run("dependent-data failures do not stop the cascade", func(t *testing.T) {
		members := &fakeMemberStore{}
		payments := newFakePaymentAdmin()
		payments.deleteErr = errBoom
		cvs := &fakeCVAdmin{deleteErr: errBoom}
		docs := &fakeDocumentAdmin{listErr: errBoom}
		admin := newTestAdmin(members, payments, cvs, docs, newFakeObjectStore())

		err := admin.DeleteMemberComplete(context.Background(), adminIdentity(), 42, "owner-1")

		require.NoError(t, err)
		assert.Equal(t, []int64{42}, members.deletedIDs)
	})

	t.Run("member delete failure is load-bearing", func(t *testing.T) {
		members := &fakeMemberStore{deleteErr: errBoom}
		admin := newTestAdmin(members, newFakePaymentAdmin(), &fakeCVAdmin{}, &fakeDocumentAdmin{}, newFakeObjectStore())

		err := admin.DeleteMemberComplete(context.Background(), adminIdentity(), 42, "owner-1")

		assert.ErrorIs(t, err, domain.ErrCascadeDeleteFailed)
	})
}
