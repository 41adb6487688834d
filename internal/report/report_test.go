package report

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nimasrn/transaction-eda/internal/table"
	"github.com/nimasrn/transaction-eda/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func kinds(charts []Chart) map[string]int {
	out := map[string]int{}
	for _, c := range charts {
		out[c.Kind]++
	}
	return out
}

func assertPNG(t *testing.T, path string) {
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(b), 8)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(b[:8]), path)
}

func TestGenerate_OneNumericOneCategorical(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := New(Options{OutputDir: dir})

	res, err := r.Generate(context.Background(), fixtures.OneNumericOneCategorical(), "simple")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "simple_summary.txt"), res.SummaryPath)
	require.Len(t, res.Charts, 2)
	assert.Equal(t, map[string]int{ChartNumeric: 1, ChartCategorical: 1}, kinds(res.Charts))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"simple_summary.txt",
		"simple_univariate_amount.png",
		"simple_univariate_store_location.png",
	}, names)

	for _, c := range res.Charts {
		assertPNG(t, c.Path)
	}

	summary := readFile(t, res.SummaryPath)
	assert.Contains(t, summary, "--- EDA Report for: simple ---")
	assert.Contains(t, summary, "Shape of the dataset: (5, 2)")
	assert.Contains(t, summary, "2. Descriptive Statistics (Numerical)")
	assert.Contains(t, summary, "3. Descriptive Statistics (Categorical)")
	assert.NotContains(t, summary, noCategorical)
	assert.NotContains(t, summary, "n/a")
}

func TestGenerate_MissingValuesChart(t *testing.T) {
	dir := t.TempDir()
	r := New(Options{OutputDir: dir})

	res, err := r.Generate(context.Background(), fixtures.WithNulls(), "nulls")
	require.NoError(t, err)

	k := kinds(res.Charts)
	assert.Equal(t, 1, k[ChartMissingValues])
	assert.Equal(t, 2, k[ChartNumeric])
	assert.Equal(t, 1, k[ChartCategorical])
	assert.Equal(t, 1, k[ChartCorrelationMatrix])

	assertPNG(t, filepath.Join(dir, "nulls_missing_values.png"))
	assertPNG(t, filepath.Join(dir, "nulls_correlation_matrix.png"))
}

func TestGenerate_NoCategoricalColumns(t *testing.T) {
	tbl, err := table.New(
		table.NewNumericColumn("total_revenue", []float64{10, 20, 30}, nil),
		table.NewNumericColumn("number_of_orders", []float64{1, 3, 2}, nil),
	)
	require.NoError(t, err)

	res, err := New(Options{OutputDir: t.TempDir()}).Generate(context.Background(), tbl, "daily")
	require.NoError(t, err)

	summary := readFile(t, res.SummaryPath)
	assert.Contains(t, summary, noCategorical)
	assert.Equal(t, 1, kinds(res.Charts)[ChartCorrelationMatrix])
}

func TestGenerate_EmptyTable(t *testing.T) {
	dir := t.TempDir()

	res, err := New(Options{OutputDir: dir}).Generate(context.Background(), fixtures.Empty(), "empty")
	require.NoError(t, err)

	assert.Empty(t, res.Charts)
	summary := readFile(t, res.SummaryPath)
	assert.Contains(t, summary, "Shape of the dataset: (0, 3)")
	assert.Contains(t, summary, "n/a")
	assert.Contains(t, summary, "insufficient data")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerate_SingleRow(t *testing.T) {
	tbl, err := table.New(
		table.NewNumericColumn("a", []float64{4}, nil),
		table.NewNumericColumn("b", []float64{2}, nil),
		table.NewBooleanColumn("flag", []bool{true}, nil),
	)
	require.NoError(t, err)

	res, err := New(Options{OutputDir: t.TempDir()}).Generate(context.Background(), tbl, "one")
	require.NoError(t, err)

	k := kinds(res.Charts)
	assert.Equal(t, 2, k[ChartNumeric])
	assert.Equal(t, 1, k[ChartCategorical])
	assert.Equal(t, 1, k[ChartCorrelationMatrix])

	summary := readFile(t, res.SummaryPath)
	assert.Contains(t, summary, "a (1 non-null)")
	assert.Contains(t, summary, "True")
}

func TestGenerate_AllNullColumnIsNotPlotted(t *testing.T) {
	tbl, err := table.New(
		table.NewNumericColumn("x", []float64{1, 2, 3}, nil),
		table.NewNumericColumn("ghost", []float64{0, 0, 0}, []bool{false, false, false}),
	)
	require.NoError(t, err)

	res, err := New(Options{OutputDir: t.TempDir()}).Generate(context.Background(), tbl, "ghost")
	require.NoError(t, err)

	k := kinds(res.Charts)
	assert.Equal(t, 1, k[ChartMissingValues])
	assert.Equal(t, 1, k[ChartNumeric])
	assert.Zero(t, k[ChartCorrelationMatrix])
}

func TestGenerate_TopCategories(t *testing.T) {
	labels := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		labels = append(labels, "c"+strings.Repeat("x", i))
	}
	tbl, err := table.New(table.NewCategoricalColumn("wide", labels, nil))
	require.NoError(t, err)

	res, err := New(Options{OutputDir: t.TempDir(), TopCategories: 5}).Generate(context.Background(), tbl, "wide")
	require.NoError(t, err)
	require.Len(t, res.Charts, 1)
	assertPNG(t, res.Charts[0].Path)
}

func TestGenerate_InfiniteValuesFailRendering(t *testing.T) {
	tbl, err := table.New(
		table.NewNumericColumn("x", []float64{1, math.Inf(1), 3}, nil),
	)
	require.NoError(t, err)

	_, err = New(Options{OutputDir: t.TempDir()}).Generate(context.Background(), tbl, "inf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infinite")
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{OutputDir: t.TempDir()}).Generate(ctx, fixtures.OneNumericOneCategorical(), "cancelled")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBinCount(t *testing.T) {
	assert.Equal(t, 1, binCount(0))
	assert.Equal(t, 1, binCount(1))
	assert.Equal(t, 2, binCount(2))
	assert.Equal(t, 11, binCount(1000))
	assert.Equal(t, maxBins, binCount(1<<60))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "n/a", formatCorr(math.NaN()))
	assert.Equal(t, "-0.50", formatCorr(-0.5))
	assert.Equal(t, "n/a", formatStat(math.NaN()))
	assert.Equal(t, "1.500000", formatStat(1.5))
}
