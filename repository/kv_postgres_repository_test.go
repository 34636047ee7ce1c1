package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPostgresRepo(t *testing.T) (*KVPostgresRepository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewKVPostgresRepository(conn, zap.NewNop()), mock
}

func TestKVPostgres_Get(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT value FROM storefront_kv WHERE scope = $1 AND name = $2")

	t.Run("found", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(query).
			WithArgs("sess-1", "branch_id").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("18"))

		value, err := repo.Get(ctx, "sess-1", "branch_id")
		require.NoError(t, err)
		assert.Equal(t, "18", value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(query).
			WithArgs("sess-1", "branch_id").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, "sess-1", "branch_id")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("db_error", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(query).
			WithArgs("sess-1", "branch_id").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.Get(ctx, "sess-1", "branch_id")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestKVPostgres_Set(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO storefront_kv (scope, name, value, updated_at)")).
		WithArgs("sess-1", "order_type", "pickup").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Set(context.Background(), "sess-1", "order_type", "pickup")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVPostgres_Delete(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM storefront_kv WHERE scope = $1 AND name = $2")).
		WithArgs("sess-1", "cart").
		WillReturnError(errors.New("boom"))

	err := repo.Delete(context.Background(), "sess-1", "cart")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
