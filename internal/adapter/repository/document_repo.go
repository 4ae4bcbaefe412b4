package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"cv-smart/internal/domain"
)

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

func (r *DocumentRepo) Insert(ctx context.Context, d domain.DocumentRecord) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO documents (id, user_id, file_path, file_bucket, file_type, category, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.ID, d.UserID, d.FilePath, d.FileBucket, d.FileType, d.Category, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// ListPaths returns the object keys of every document a member uploaded, so
// a cascade delete can also clear object storage.
func (r *DocumentRepo) ListPaths(ctx context.Context, ownerKey string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT file_path FROM documents WHERE user_id = $1`, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list document paths: %w", err)
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan document path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read document paths: %w", err)
	}
	return paths, nil
}

func (r *DocumentRepo) DeleteByOwner(ctx context.Context, ownerKey string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE user_id = $1`, ownerKey); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

func (r *DocumentRepo) ReassignOwner(ctx context.Context, fromKey, toKey string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE documents SET user_id = $2 WHERE user_id = $1`, fromKey, toKey); err != nil {
		return fmt.Errorf("failed to reassign document owner: %w", err)
	}
	return nil
}
