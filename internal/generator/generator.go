// Package generator writes the synthetic transactions dataset as a Parquet
// file. Generation is skipped when the target already exists.
package generator

import (
	"context"
	"os"
	"time"

	"github.com/nimasrn/transaction-eda/internal/model"
	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/nimasrn/transaction-eda/pkg/prom"
	"github.com/pkg/errors"
)

const DefaultBatchSize = 100_000

// UnknownRows is reported for a skipped file whose row count cannot be read.
const UnknownRows int64 = -1

type Options struct {
	Path      string
	Rows      int
	BatchSize int
	// Seed fixes the random source; zero seeds from the clock.
	Seed int64
	// Now anchors the transaction_date range; defaults to time.Now.
	Now func() time.Time
	// Progress, if set, is called after each batch with the rows written so far.
	Progress func(written, total int)
}

type Result struct {
	Path     string
	Rows     int64
	Skipped  bool
	Duration time.Duration
}

func Generate(ctx context.Context, opts Options) (*Result, error) {
	if opts.Path == "" {
		return nil, errors.New("generator: empty output path")
	}
	if opts.Rows < 0 {
		return nil, errors.Errorf("generator: negative row count %d", opts.Rows)
	}
	start := time.Now()

	if _, err := os.Stat(opts.Path); err == nil {
		rows, err := CountRows(opts.Path)
		if err != nil {
			logger.Warn("existing data file is not readable as parquet", "path", opts.Path, "error", err)
			rows = UnknownRows
		}
		return &Result{Path: opts.Path, Rows: rows, Skipped: true, Duration: time.Since(start)}, nil
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", opts.Path)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	tmp := opts.Path + ".tmp"
	w, err := NewWriter(tmp)
	if err != nil {
		os.Remove(tmp)
		return nil, err
	}
	if err := fill(ctx, w, newSampler(seed, now()), opts.Rows, batchSize, opts.Progress); err != nil {
		w.Close()
		os.Remove(tmp)
		return nil, err
	}
	if err := w.Close(); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	if err := os.Rename(tmp, opts.Path); err != nil {
		os.Remove(tmp)
		return nil, errors.Wrapf(err, "rename %s", tmp)
	}

	return &Result{Path: opts.Path, Rows: w.Rows(), Duration: time.Since(start)}, nil
}

func fill(ctx context.Context, w *Writer, s *sampler, rows, batchSize int, progress func(int, int)) error {
	batch := make([]model.Transaction, 0, min(batchSize, rows))
	for id := 0; id < rows; {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch = batch[:0]
		for ; id < rows && len(batch) < batchSize; id++ {
			batch = append(batch, s.next(int64(id)))
		}
		if err := w.Write(batch); err != nil {
			return err
		}
		prom.AddGeneratedRows(float64(len(batch)))
		if progress != nil {
			progress(id, rows)
		}
	}
	return nil
}
