package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by a single kv table in Postgres.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects using the DB_* environment variables and ensures the
// kv table exists.
func NewPostgres(ctx context.Context) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key     TEXT PRIMARY KEY,
			value   JSONB NOT NULL,
			version BIGINT NOT NULL DEFAULT 1
		)`)
	if err != nil {
		return fmt.Errorf("store: ensure kv table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, int64, bool, error) {
	var data []byte
	var version int64
	err := p.pool.QueryRow(ctx,
		`SELECT value, version FROM kv WHERE key = $1`, key).
		Scan(&data, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("store: get %q: %w", key, err)
	}
	return data, version, true, nil
}

func (p *Postgres) Put(ctx context.Context, key string, data []byte, expectedVersion int64) error {
	if expectedVersion == 0 {
		ct, err := p.pool.Exec(ctx,
			`INSERT INTO kv (key, value, version) VALUES ($1, $2, 1)
			 ON CONFLICT (key) DO NOTHING`, key, data)
		if err != nil {
			return fmt.Errorf("store: insert %q: %w", key, err)
		}
		if ct.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	ct, err := p.pool.Exec(ctx,
		`UPDATE kv SET value = $2, version = version + 1
		 WHERE key = $1 AND version = $3`, key, data, expectedVersion)
	if err != nil {
		return fmt.Errorf("store: update %q: %w", key, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}
