package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4/pgxpool"
)

// AggregateResult holds the combined per-owner records for the admin member
// detail view.
type AggregateResult map[string]interface{}

// queryJSON runs a SQL that returns a single json value and unmarshals it.
func queryJSON(ctx context.Context, pool *pgxpool.Pool, sql string, args ...interface{}) (interface{}, error) {
	var raw []byte
	err := pool.QueryRow(ctx, sql, args...).Scan(&raw)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AggregateForOwner collects everything stored under one owner key: account,
// member row, cv, payment and archived documents. It is intentionally
// best-effort: a failing section is skipped and the function returns
// whatever it could fetch.
func AggregateForOwner(ctx context.Context, pool *pgxpool.Pool, ownerKey string) (AggregateResult, error) {
	res := AggregateResult{}

	if v, err := queryJSON(ctx, pool, `SELECT to_jsonb(u) - 'password_hash' FROM users u WHERE u.id::text=$1 LIMIT 1`, ownerKey); err == nil {
		res["user"] = v
	}
	if v, err := queryJSON(ctx, pool, `SELECT coalesce(json_agg(row_to_json(m)), '[]') FROM members m WHERE m.user_id=$1`, ownerKey); err == nil {
		res["members"] = v
	}
	if v, err := queryJSON(ctx, pool, `SELECT coalesce(json_agg(row_to_json(c)), '[]') FROM user_cvs c WHERE c.user_id=$1`, ownerKey); err == nil {
		res["cvs"] = v
	}
	if v, err := queryJSON(ctx, pool, `SELECT coalesce(json_agg(row_to_json(p)), '[]') FROM payments p WHERE p.user_id=$1`, ownerKey); err == nil {
		res["payments"] = v
	}
	if v, err := queryJSON(ctx, pool, `SELECT coalesce(json_agg(row_to_json(d)), '[]') FROM documents d WHERE d.user_id=$1`, ownerKey); err == nil {
		res["documents"] = v
	}

	return res, nil
}
