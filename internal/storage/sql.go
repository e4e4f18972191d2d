package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore keeps values in the kv_store table created by db.Open. The same
// statements run on sqlite and postgres.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT kv_value FROM kv_store WHERE kv_key=$1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_store (kv_key,kv_value,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (kv_key) DO UPDATE SET kv_value=EXCLUDED.kv_value, updated_at=EXCLUDED.updated_at`,
		key, value, time.Now().Unix())
	return err
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE kv_key=$1`, key)
	return err
}

func (s *SQLStore) Close() error { return s.db.Close() }
