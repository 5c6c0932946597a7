package tokenstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the part of pgxpool.Pool the Postgres backend needs. pgxmock
// pools satisfy it as well.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresKV stores entries in the portal_kv table created by the portal
// migrations.
type PostgresKV struct {
	pool PgxPool
	ttl  time.Duration
}

// NewPostgresKV wraps pool. A zero ttl keeps entries until deleted.
func NewPostgresKV(pool PgxPool, ttl time.Duration) *PostgresKV {
	return &PostgresKV{pool: pool, ttl: ttl}
}

func (p *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `
        SELECT value FROM portal_kv
        WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`

	var value string
	if err := p.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresKV) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO portal_kv (key, value, expires_at, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (key) DO UPDATE
        SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()`

	var expiresAt *time.Time
	if p.ttl > 0 {
		at := time.Now().Add(p.ttl).UTC()
		expiresAt = &at
	}
	_, err := p.pool.Exec(ctx, query, key, value, expiresAt)
	return err
}

func (p *PostgresKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const query = `DELETE FROM portal_kv WHERE key = ANY($1)`
	_, err := p.pool.Exec(ctx, query, keys)
	return err
}

func (p *PostgresKV) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
