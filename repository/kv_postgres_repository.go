package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ordrz-storefront/db"
)

// KVPostgresRepository stores session values in the storefront_kv table:
//
//	CREATE TABLE storefront_kv (
//	  scope      TEXT NOT NULL,
//	  name       TEXT NOT NULL,
//	  value      TEXT NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	  PRIMARY KEY (scope, name)
//	);
type KVPostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewKVPostgresRepository creates a new KVPostgresRepository; a nil conn uses db.DB
func NewKVPostgresRepository(conn *sql.DB, logger *zap.Logger) *KVPostgresRepository {
	if conn == nil {
		conn = db.DB
	}
	return &KVPostgresRepository{db: conn, logger: logger}
}

// Ensure KVPostgresRepository implements KeyValueRepositoryInterface
var _ KeyValueRepositoryInterface = (*KVPostgresRepository)(nil)

// Get returns the value stored under name, or ErrNotFound
func (r *KVPostgresRepository) Get(ctx context.Context, scope, name string) (string, error) {
	query := `
		SELECT value
		FROM storefront_kv
		WHERE scope = $1 AND name = $2
	`

	var value string
	err := r.db.QueryRowContext(ctx, query, scope, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		r.logger.Error("❌ KV Get failed", zap.String("name", name), zap.Error(err))
		return "", fmt.Errorf("failed to get %s: %w", name, err)
	}
	return value, nil
}

// Set upserts value under name
func (r *KVPostgresRepository) Set(ctx context.Context, scope, name, value string) error {
	query := `
		INSERT INTO storefront_kv (scope, name, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (scope, name)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, scope, name, value); err != nil {
		r.logger.Error("❌ KV Set failed", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("failed to set %s: %w", name, err)
	}
	return nil
}

// Delete removes name
func (r *KVPostgresRepository) Delete(ctx context.Context, scope, name string) error {
	query := `DELETE FROM storefront_kv WHERE scope = $1 AND name = $2`

	if _, err := r.db.ExecContext(ctx, query, scope, name); err != nil {
		r.logger.Error("❌ KV Delete failed", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
