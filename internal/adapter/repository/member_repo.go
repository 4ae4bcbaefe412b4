package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"cv-smart/internal/domain"
)

type MemberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepo(pool *pgxpool.Pool) *MemberRepo {
	return &MemberRepo{pool: pool}
}

// Upsert registers a member after account creation. Repeated signups for the
// same account refresh the profile row instead of duplicating it.
func (r *MemberRepo) Upsert(ctx context.Context, m domain.MemberRecord) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO members (user_id, email, name, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name`,
		m.UserID, m.Email, m.Name, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}

// ListWithPayments returns all members joined with their payment state,
// newest first. Members without a payment row show as pending/unapproved.
func (r *MemberRepo) ListWithPayments(ctx context.Context) ([]domain.MemberWithPayment, error) {
	rows, err := r.pool.Query(ctx, `SELECT m.id, m.user_id, m.email, m.name, m.created_at,
			coalesce(p.status, 'pending'), coalesce(p.admin_approved, false)
		FROM members m
		LEFT JOIN payments p ON p.user_id = m.user_id
		ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	out := []domain.MemberWithPayment{}
	for rows.Next() {
		var m domain.MemberWithPayment
		if err := rows.Scan(&m.ID, &m.UserID, &m.Email, &m.Name, &m.CreatedAt, &m.PaymentStatus, &m.AdminApproved); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	return out, nil
}

func (r *MemberRepo) Count(ctx context.Context, since *time.Time) (int64, error) {
	var n int64
	var err error
	if since != nil {
		err = r.pool.QueryRow(ctx, `SELECT count(*) FROM members WHERE created_at >= $1`, *since).Scan(&n)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT count(*) FROM members`).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// Recent returns the newest members for the dashboard view.
func (r *MemberRepo) Recent(ctx context.Context, limit int) ([]domain.MemberRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, email, name, created_at FROM members ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent members: %w", err)
	}
	defer rows.Close()

	out := []domain.MemberRecord{}
	for rows.Next() {
		var m domain.MemberRecord
		if err := rows.Scan(&m.ID, &m.UserID, &m.Email, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	return out, nil
}

// DeleteByID removes the member row itself. It is the final step of the
// cascade and the only one whose failure is surfaced to the admin.
func (r *MemberRepo) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
