// Package report turns an analysis table into a plain-text summary and a set
// of PNG charts written under one output directory.
package report

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/nimasrn/transaction-eda/internal/table"
	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/nimasrn/transaction-eda/pkg/prom"
	"github.com/pkg/errors"
)

const DefaultTopCategories = 20

// Chart kinds, also used as the metric label.
const (
	ChartMissingValues     = "missing_values"
	ChartNumeric           = "univariate_numeric"
	ChartCategorical       = "univariate_categorical"
	ChartCorrelationMatrix = "correlation_matrix"
)

type Options struct {
	OutputDir string
	// TopCategories caps the bars of a categorical count plot.
	TopCategories int
}

type Chart struct {
	Kind   string `json:"kind"`
	Column string `json:"column,omitempty"`
	Path   string `json:"path"`
}

type Result struct {
	Name        string        `json:"name"`
	SummaryPath string        `json:"summary_path"`
	Charts      []Chart       `json:"charts"`
	Duration    time.Duration `json:"duration"`
}

type Reporter struct {
	opts Options
}

func New(opts Options) *Reporter {
	if opts.TopCategories <= 0 {
		opts.TopCategories = DefaultTopCategories
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Reporter{opts: opts}
}

func (r *Reporter) OutputDir() string {
	return r.opts.OutputDir
}

// Generate writes the summary and every applicable chart for t. The first
// failing chart aborts the report.
func (r *Reporter) Generate(ctx context.Context, t *table.Table, name string) (*Result, error) {
	logger.Info("generating EDA report", "report", name)
	start := time.Now()

	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", r.opts.OutputDir)
	}

	res := &Result{Name: name, SummaryPath: r.path(name, "summary.txt")}
	if err := writeSummary(res.SummaryPath, t, name); err != nil {
		return nil, err
	}

	add := func(kind, column, path string, render func(string) error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := render(path); err != nil {
			return errors.Wrapf(err, "render %s chart %s", kind, filepath.Base(path))
		}
		prom.IncChartRendered(kind)
		res.Charts = append(res.Charts, Chart{Kind: kind, Column: column, Path: path})
		return nil
	}

	if missing := withNulls(t); len(missing) > 0 {
		err := add(ChartMissingValues, "", r.path(name, "missing_values.png"), func(p string) error {
			return missingValuesChart(p, missing)
		})
		if err != nil {
			return nil, err
		}
	}

	var plotted []*table.Column
	for _, c := range t.Numeric() {
		if c.NonNull() == 0 {
			continue
		}
		err := add(ChartNumeric, c.Name, r.path(name, "univariate_"+c.Name+".png"), func(p string) error {
			return numericChart(p, c)
		})
		if err != nil {
			return nil, err
		}
		plotted = append(plotted, c)
	}

	for _, c := range t.Categorical() {
		if c.NonNull() == 0 {
			continue
		}
		err := add(ChartCategorical, c.Name, r.path(name, "univariate_"+c.Name+".png"), func(p string) error {
			return countChart(p, c, r.opts.TopCategories)
		})
		if err != nil {
			return nil, err
		}
	}

	if len(plotted) > 1 {
		err := add(ChartCorrelationMatrix, "", r.path(name, "correlation_matrix.png"), func(p string) error {
			return correlationChart(p, plotted)
		})
		if err != nil {
			return nil, err
		}
	}

	res.Duration = time.Since(start)
	logger.Info("EDA report complete", "report", name, "charts", len(res.Charts), "dir", r.opts.OutputDir)
	return res, nil
}

func (r *Reporter) path(name, suffix string) string {
	return filepath.Join(r.opts.OutputDir, name+"_"+suffix)
}

func withNulls(t *table.Table) []*table.Column {
	var out []*table.Column
	for _, c := range t.Columns {
		if c.Nulls() > 0 {
			out = append(out, c)
		}
	}
	return out
}
