package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/soccermanager/go/internal/sqlutil"
)

const createSessionTable = `
CREATE TABLE IF NOT EXISTS client_session (
	profile TEXT NOT NULL,
	key     TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (profile, key)
)`

// PostgresStorage shares one session across machines through a postgres table
type PostgresStorage struct {
	pool    *pgxpool.Pool
	profile string
}

// NewPostgresStorage connects to dsn and makes sure the session table exists
func NewPostgresStorage(ctx context.Context, dsn, profile string) (*PostgresStorage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if _, err := pool.Exec(ctx, createSessionTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create session table: %w", err)
	}

	if profile == "" {
		profile = "default"
	}
	return &PostgresStorage{pool: pool, profile: profile}, nil
}

func (p *PostgresStorage) GetAll(ctx context.Context, keys []string) (map[string]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT key, value FROM client_session WHERE profile = $1 AND key = ANY($2)`,
		p.profile, keys)
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (p *PostgresStorage) SetAll(ctx context.Context, values map[string]string) error {
	return sqlutil.Run(ctx, p.pool, func(tx pgx.Tx) error {
		for k, v := range values {
			_, err := tx.Exec(ctx,
				`INSERT INTO client_session (profile, key, value) VALUES ($1, $2, $3)
				 ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value`,
				p.profile, k, v)
			if err != nil {
				return fmt.Errorf("upsert session %s: %w", k, err)
			}
		}
		return nil
	})
}

func (p *PostgresStorage) Delete(ctx context.Context, keys []string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM client_session WHERE profile = $1 AND key = ANY($2)`,
		p.profile, keys)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Close() {
	p.pool.Close()
}
