package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"cv-smart/internal/domain"
)

// CVRepo stores exactly one CVData per owner identity. Saving always
// overwrites the prior record for that owner.
type CVRepo struct {
	pool *pgxpool.Pool
}

func NewCVRepo(pool *pgxpool.Pool) *CVRepo {
	return &CVRepo{pool: pool}
}

func (r *CVRepo) Save(ctx context.Context, ownerKey string, cv domain.CVData) error {
	personal, err := json.Marshal(cv.Personal)
	if err != nil {
		return fmt.Errorf("failed to marshal personal info: %w", err)
	}
	pt, err := json.Marshal(cv.PT)
	if err != nil {
		return fmt.Errorf("failed to marshal pt content: %w", err)
	}
	en, err := json.Marshal(cv.EN)
	if err != nil {
		return fmt.Errorf("failed to marshal en content: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO user_cvs (id, user_id, personal, pt, en, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id) DO UPDATE SET personal = EXCLUDED.personal, pt = EXCLUDED.pt, en = EXCLUDED.en, updated_at = EXCLUDED.updated_at`,
		uuid.New(), ownerKey, personal, pt, en, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert cv: %w", err)
	}
	return nil
}

func (r *CVRepo) Get(ctx context.Context, ownerKey string) (domain.CVData, error) {
	var cv domain.CVData
	var personalRaw, ptRaw, enRaw []byte
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, personal, pt, en, updated_at FROM user_cvs WHERE user_id = $1`,
		ownerKey).Scan(&cv.ID, &cv.UserID, &personalRaw, &ptRaw, &enRaw, &cv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CVData{}, domain.ErrNotFound
		}
		return domain.CVData{}, fmt.Errorf("failed to get cv: %w", err)
	}

	if err := json.Unmarshal(personalRaw, &cv.Personal); err != nil {
		return domain.CVData{}, fmt.Errorf("failed to unmarshal personal info: %w", err)
	}
	if err := json.Unmarshal(ptRaw, &cv.PT); err != nil {
		return domain.CVData{}, fmt.Errorf("failed to unmarshal pt content: %w", err)
	}
	if err := json.Unmarshal(enRaw, &cv.EN); err != nil {
		return domain.CVData{}, fmt.Errorf("failed to unmarshal en content: %w", err)
	}
	return cv, nil
}

func (r *CVRepo) Count(ctx context.Context, since *time.Time) (int64, error) {
	var n int64
	var err error
	if since != nil {
		err = r.pool.QueryRow(ctx, `SELECT count(*) FROM user_cvs WHERE updated_at >= $1`, *since).Scan(&n)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT count(*) FROM user_cvs`).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count cvs: %w", err)
	}
	return n, nil
}

func (r *CVRepo) DeleteByOwner(ctx context.Context, ownerKey string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_cvs WHERE user_id = $1`, ownerKey); err != nil {
		return fmt.Errorf("failed to delete cv: %w", err)
	}
	return nil
}

// ReassignOwner re-keys a guest's record to a freshly registered account.
func (r *CVRepo) ReassignOwner(ctx context.Context, fromKey, toKey string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE user_cvs SET user_id = $2 WHERE user_id = $1
		AND NOT EXISTS (SELECT 1 FROM user_cvs WHERE user_id = $2)`, fromKey, toKey); err != nil {
		return fmt.Errorf("failed to reassign cv owner: %w", err)
	}
	return nil
}
