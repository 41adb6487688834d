package query

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/transaction-eda/internal/table"
	"github.com/nimasrn/transaction-eda/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) QueryNamed(ctx context.Context, name, sqlText string) (*table.Table, error) {
	args := m.Called(ctx, name, sqlText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*table.Table), args.Error(1)
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name()+"-"+mr.Addr(), "eda:", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })
	return mr, adapter
}

func sourceFile(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "source.parquet")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))
	return path
}

func resultTable(t *testing.T) *table.Table {
	tbl, err := table.New(
		table.NewNumericColumn("total_revenue", []float64{1.5, 2.5}, nil),
		table.NewCategoricalColumn("store_location", []string{"London", ""}, []bool{true, false}),
		table.NewTemporalColumn("sale_date", []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), {}}, []bool{true, false}),
	)
	require.NoError(t, err)
	return tbl
}

func TestCachedEngine_HitSkipsEngine(t *testing.T) {
	mr, store := setupTestRedis(t)
	next := new(MockQuerier)
	ctx := context.Background()
	src := sourceFile(t)
	want := resultTable(t)

	next.On("QueryNamed", ctx, "daily", "SELECT 1").Return(want, nil).Once()

	cached := NewCachedEngine(next, store, src, time.Minute)

	first, err := cached.QueryNamed(ctx, "daily", "SELECT 1")
	require.NoError(t, err)
	assert.Same(t, want, first)
	assert.Len(t, mr.Keys(), 1)

	second, err := cached.QueryNamed(ctx, "daily", "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, want.Columns[0].Floats, second.Columns[0].Floats)
	assert.Equal(t, want.Columns[1].Valid, second.Columns[1].Valid)
	assert.Equal(t, table.KindTemporal, second.Columns[2].Kind)
	assert.True(t, want.Columns[2].Times[0].Equal(second.Columns[2].Times[0]))

	next.AssertExpectations(t)
}

func TestCachedEngine_SourceChangeInvalidates(t *testing.T) {
	_, store := setupTestRedis(t)
	next := new(MockQuerier)
	ctx := context.Background()
	src := sourceFile(t)

	next.On("QueryNamed", ctx, "daily", "SELECT 1").Return(resultTable(t), nil).Twice()

	cached := NewCachedEngine(next, store, src, time.Minute)
	_, err := cached.QueryNamed(ctx, "daily", "SELECT 1")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("regenerated"), 0o600))

	_, err = cached.QueryNamed(ctx, "daily", "SELECT 1")
	require.NoError(t, err)

	next.AssertExpectations(t)
}

func TestCachedEngine_ErrorsAreNotCached(t *testing.T) {
	mr, store := setupTestRedis(t)
	next := new(MockQuerier)
	ctx := context.Background()
	boom := errors.New("parser error")

	next.On("QueryNamed", ctx, "bad", "SELEC").Return(nil, boom)

	cached := NewCachedEngine(next, store, sourceFile(t), time.Minute)
	_, err := cached.QueryNamed(ctx, "bad", "SELEC")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mr.Keys())
}

func TestCachedEngine_RedisDownFallsBack(t *testing.T) {
	mr, store := setupTestRedis(t)
	next := new(MockQuerier)
	ctx := context.Background()
	want := resultTable(t)

	next.On("QueryNamed", ctx, "daily", "SELECT 1").Return(want, nil)

	cached := NewCachedEngine(next, store, sourceFile(t), time.Minute)
	mr.Close()

	got, err := cached.QueryNamed(ctx, "daily", "SELECT 1")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestCachedEngine_MissingSourceBypassesCache(t *testing.T) {
	mr, store := setupTestRedis(t)
	next := new(MockQuerier)
	ctx := context.Background()

	next.On("QueryNamed", ctx, "daily", "SELECT 1").Return(resultTable(t), nil)

	cached := NewCachedEngine(next, store, filepath.Join(t.TempDir(), "gone.parquet"), 0)
	_, err := cached.QueryNamed(ctx, "daily", "SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, mr.Keys())
}
