package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore keeps keys in the kv table (see internal/db). The upsert
// shape works on both sqlite and postgres.
type SQLStore struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k=$1`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(v), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv (k,v,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (k) DO UPDATE SET v=EXCLUDED.v, updated_at=EXCLUDED.updated_at`,
		key, string(value), time.Now().Unix())
	return err
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k=$1`, key)
	return err
}
