package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/database/postgres"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *postgres.Connection) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "falha ao criar o banco mockado")

	return db, mock, postgres.FromDB(db)
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
