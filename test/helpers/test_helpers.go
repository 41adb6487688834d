package helpers

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/transaction-eda/internal/generator"
	"github.com/nimasrn/transaction-eda/internal/model"
	"github.com/nimasrn/transaction-eda/pkg/pg"
	"github.com/nimasrn/transaction-eda/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// SetupTestDB opens a migrated SQLite ledger in the test's temp dir.
func SetupTestDB(t *testing.T) *pg.DB {
	gdb, err := pg.CreateSQLite(filepath.Join(t.TempDir(), "report_runs.db"), false)
	require.NoError(t, err)
	require.NoError(t, pg.MigrateGorm(gdb, pg.DialectSqlite))

	db := pg.Wrap(gdb)
	t.Cleanup(func() { db.Close() })
	return db
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	adapter, err := redis.NewRedisAdapter(t.Name(), "test:", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return mr, adapter
}

// WriteTransactions writes txs as a Parquet file in dir and returns its path.
func WriteTransactions(t *testing.T, dir string, txs []model.Transaction) string {
	path := filepath.Join(dir, "transactions.parquet")
	require.NoError(t, generator.WriteFile(path, txs))
	return path
}

func Ptr[T any](v T) *T {
	return &v
}
