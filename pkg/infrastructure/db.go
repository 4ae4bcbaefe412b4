package infrastructure

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"cv-smart/database"
)

// NewPool applies migrations and opens the connection pool.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if err := database.Migrate(ctx, dsn); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}
	return pool, nil
}
