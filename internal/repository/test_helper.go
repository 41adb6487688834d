package repository

import (
	"path/filepath"
	"testing"

	"github.com/nimasrn/transaction-eda/pkg/pg"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *pg.DB {
	gdb, err := pg.CreateSQLite(filepath.Join(t.TempDir(), "ledger.db"), false)
	require.NoError(t, err)
	require.NoError(t, pg.MigrateGorm(gdb, pg.DialectSqlite))

	db := pg.Wrap(gdb)
	t.Cleanup(func() { db.Close() })
	return db
}
