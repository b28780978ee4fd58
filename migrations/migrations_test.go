package migrations

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAppliesSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS categories .+ CREATE TABLE IF NOT EXISTS stock_movements`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Run(context.Background(), sqlx.NewDb(db, "pgx")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunReportsFailingFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnError(errors.New("permission denied"))

	err = Run(context.Background(), sqlx.NewDb(db, "pgx"))
	assert.ErrorContains(t, err, "001_init.sql")
}

func TestSchemaNamesUniqueConstraints(t *testing.T) {
	schema, err := files.ReadFile("001_init.sql")
	require.NoError(t, err)

	for _, name := range []string{
		"categories_store_id_slug_key",
		"products_store_id_slug_key",
		"products_store_id_sku_key",
		"stock_movements_chain_check",
	} {
		assert.Contains(t, string(schema), name)
	}
}
