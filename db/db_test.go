package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS storefront_kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(context.Background(), conn))

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS storefront_kv")).
		WillReturnError(errors.New("permission denied"))
	assert.Error(t, EnsureSchema(context.Background(), conn))

	assert.NoError(t, mock.ExpectationsWereMet())
}
