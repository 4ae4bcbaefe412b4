package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"cv-smart/internal/domain"
)

// PaymentRepo reads and mutates payment records. The gateway webhook writes
// the status column; the admin surface writes only admin_approved. Both
// upsert by owner, so races resolve last-write-wins per column.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

func (r *PaymentRepo) Get(ctx context.Context, ownerKey string) (domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	err := r.pool.QueryRow(ctx, `SELECT user_id, status, admin_approved, amount, updated_at FROM payments WHERE user_id = $1`,
		ownerKey).Scan(&p.UserID, &p.Status, &p.AdminApproved, &p.Amount, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PaymentRecord{}, domain.ErrNotFound
		}
		return domain.PaymentRecord{}, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// SetApproval upserts the admin approval flag without touching the
// gateway-owned status column.
func (r *PaymentRepo) SetApproval(ctx context.Context, ownerKey string, approved bool) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO payments (user_id, admin_approved, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET admin_approved = EXCLUDED.admin_approved, updated_at = EXCLUDED.updated_at`,
		ownerKey, approved, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set approval: %w", err)
	}
	return nil
}

// Reset returns a record to its unpaid state. Used for recurring charges.
func (r *PaymentRepo) Reset(ctx context.Context, ownerKey string) error {
	_, err := r.pool.Exec(ctx, `UPDATE payments SET status = $2, admin_approved = false, amount = 0, updated_at = $3 WHERE user_id = $1`,
		ownerKey, domain.PaymentStatusPending, time.Now())
	if err != nil {
		return fmt.Errorf("failed to reset payment: %w", err)
	}
	return nil
}

// SumPaidRevenue totals the amount of paid records, optionally windowed.
func (r *PaymentRepo) SumPaidRevenue(ctx context.Context, since *time.Time) (float64, error) {
	var total float64
	var err error
	if since != nil {
		err = r.pool.QueryRow(ctx, `SELECT coalesce(sum(amount), 0) FROM payments WHERE status = $1 AND updated_at >= $2`,
			domain.PaymentStatusPaid, *since).Scan(&total)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT coalesce(sum(amount), 0) FROM payments WHERE status = $1`,
			domain.PaymentStatusPaid).Scan(&total)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

func (r *PaymentRepo) DeleteByOwner(ctx context.Context, ownerKey string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE user_id = $1`, ownerKey); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ReassignOwner(ctx context.Context, fromKey, toKey string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE payments SET user_id = $2 WHERE user_id = $1
		AND NOT EXISTS (SELECT 1 FROM payments WHERE user_id = $2)`, fromKey, toKey); err != nil {
		return fmt.Errorf("failed to reassign payment owner: %w", err)
	}
	return nil
}
