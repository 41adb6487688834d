package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/transaction-eda/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(name, status string, startedAt time.Time) *model.ReportRun {
	finished := startedAt.Add(2 * time.Second)
	return &model.ReportRun{
		ReportName:  name,
		Source:      "large_transactions.parquet",
		Rows:        10,
		Columns:     4,
		Charts:      3,
		SummaryPath: "eda_report_duckdb/" + name + "_summary.txt",
		Status:      status,
		StartedAt:   startedAt,
		FinishedAt:  &finished,
	}
}

func TestReportRunRepository_Create(t *testing.T) {
	repo := NewReportRunRepository(setupTestDB(t))
	ctx := context.Background()

	t.Run("assigns an id", func(t *testing.T) {
		created, err := repo.Create(ctx, newRun("duckdb_daily_sales", model.RunStatusCompleted, time.Now().UTC()))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "duckdb_daily_sales", created.ReportName)
		assert.Equal(t, 3, created.Charts)
	})

	t.Run("keeps a caller id", func(t *testing.T) {
		run := newRun("duckdb_daily_sales", model.RunStatusCompleted, time.Now().UTC())
		run.ID = uuid.New()
		created, err := repo.Create(ctx, run)
		require.NoError(t, err)
		assert.Equal(t, run.ID, created.ID)
	})

	t.Run("failed run keeps error text", func(t *testing.T) {
		run := newRun("duckdb_category_performance", model.RunStatusFailed, time.Now().UTC())
		run.Error = "Parser Error: syntax error"
		_, err := repo.Create(ctx, run)
		require.NoError(t, err)

		got, err := repo.Latest(ctx, "duckdb_category_performance")
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusFailed, got.Status)
		assert.Equal(t, "Parser Error: syntax error", got.Error)
	})
}

func TestReportRunRepository_List(t *testing.T) {
	repo := NewReportRunRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		_, err := repo.Create(ctx, newRun("duckdb_daily_sales", model.RunStatusCompleted, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newRun("duckdb_daily_sales", model.RunStatusFailed, base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRun("duckdb_category_performance", model.RunStatusCompleted, base))
	require.NoError(t, err)

	t.Run("filter by name", func(t *testing.T) {
		name := "duckdb_daily_sales"
		runs, total, err := repo.List(ctx, model.ReportRunFilter{ReportName: &name})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, runs, 5)
		assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	})

	t.Run("filter by status", func(t *testing.T) {
		status := model.RunStatusCompleted
		runs, total, err := repo.List(ctx, model.ReportRunFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, r := range runs {
			assert.Equal(t, model.RunStatusCompleted, r.Status)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		runs, total, err := repo.List(ctx, model.ReportRunFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)
		assert.Len(t, runs, 2)
	})
}

func TestReportRunRepository_Latest(t *testing.T) {
	repo := NewReportRunRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	_, err := repo.Latest(ctx, "duckdb_daily_sales")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Create(ctx, newRun("duckdb_daily_sales", model.RunStatusCompleted, base))
	require.NoError(t, err)
	newest, err := repo.Create(ctx, newRun("duckdb_daily_sales", model.RunStatusCompleted, base.Add(time.Hour)))
	require.NoError(t, err)

	got, err := repo.Latest(ctx, "duckdb_daily_sales")
	require.NoError(t, err)
	assert.Equal(t, newest.ID, got.ID)
	assert.True(t, got.StartedAt.Equal(base.Add(time.Hour)))
	require.NotNil(t, got.FinishedAt)
}
