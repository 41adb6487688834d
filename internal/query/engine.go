// Package query runs analytical SQL directly against Parquet files with an
// embedded, in-memory DuckDB and returns the results as tables.
package query

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/nimasrn/transaction-eda/internal/table"
	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/nimasrn/transaction-eda/pkg/prom"
	"github.com/pkg/errors"
)

var ErrSourceNotFound = errors.New("data file not found")

// CheckSource fails with ErrSourceNotFound when path does not exist.
func CheckSource(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(ErrSourceNotFound, path)
		}
		return errors.Wrapf(err, "stat %s", path)
	}
	return nil
}

// Engine owns one in-memory DuckDB database for the lifetime of a run.
type Engine struct {
	db *sql.DB
}

func Open(ctx context.Context) (*Engine, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(err, "open duckdb")
	}
	// a single connection keeps every statement on the same in-memory catalog
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping duckdb")
	}
	return &Engine{db: db}, nil
}

// Query executes sqlText and materialises the full result.
func (e *Engine) Query(ctx context.Context, sqlText string) (*table.Table, error) {
	return e.query(ctx, "adhoc", sqlText)
}

// QueryNamed is Query with a label for the duration metric.
func (e *Engine) QueryNamed(ctx context.Context, name, sqlText string) (*table.Table, error) {
	return e.query(ctx, name, sqlText)
}

func (e *Engine) query(ctx context.Context, name, sqlText string) (*table.Table, error) {
	logger.Info("executing query with DuckDB", "query", name)
	start := time.Now()

	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", name)
	}
	defer rows.Close()

	t, err := table.FromRows(rows)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	elapsed := time.Since(start)
	prom.AddQueryDuration(elapsed.Seconds(), name)
	r, c := t.Shape()
	logger.Info("data loaded successfully", "query", name, "rows", r, "columns", c, "duration", elapsed)
	return t, nil
}

func (e *Engine) Close() error {
	return e.db.Close()
}
