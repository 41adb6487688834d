package stats

import (
	"math"
	"testing"

	"github.com/nimasrn/transaction-eda/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeNumeric(t *testing.T) {
	c := table.NewNumericColumn("quantity", []float64{4, 1, 3, 2, 0}, []bool{true, true, true, true, false})

	s := DescribeNumeric(c)

	assert.Equal(t, "quantity", s.Column)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 1.2909944, s.Std, 1e-6)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q25, 1e-9)
	assert.InDelta(t, 2.5, s.Q50, 1e-9)
	assert.InDelta(t, 3.25, s.Q75, 1e-9)
	assert.Equal(t, 4.0, s.Max)
	assert.True(t, s.Sufficient())
}

func TestDescribeNumeric_InsufficientData(t *testing.T) {
	t.Run("no values", func(t *testing.T) {
		s := DescribeNumeric(table.NewNumericColumn("empty", nil, nil))
		assert.Zero(t, s.Count)
		assert.True(t, math.IsNaN(s.Mean))
		assert.True(t, math.IsNaN(s.Max))
		assert.False(t, s.Sufficient())
	})

	t.Run("single value", func(t *testing.T) {
		s := DescribeNumeric(table.NewNumericColumn("one", []float64{7}, nil))
		assert.Equal(t, 1, s.Count)
		assert.Equal(t, 7.0, s.Mean)
		assert.Equal(t, 7.0, s.Q75)
		assert.True(t, math.IsNaN(s.Std))
		assert.False(t, s.Sufficient())
	})
}

func TestQuantile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	assert.Equal(t, 10.0, Quantile(sorted, 0))
	assert.Equal(t, 40.0, Quantile(sorted, 1))
	assert.InDelta(t, 25.0, Quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 17.5, Quantile(sorted, 0.25), 1e-9)
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestDescribeCategorical(t *testing.T) {
	c := table.NewCategoricalColumn("store",
		[]string{"London", "Tokyo", "Tokyo", "", "London", "Online", "Tokyo"},
		[]bool{true, true, true, false, true, true, true})

	s := DescribeCategorical(c)

	assert.Equal(t, 6, s.Count)
	assert.Equal(t, 3, s.Unique)
	assert.Equal(t, "Tokyo", s.Top)
	assert.Equal(t, 3, s.Freq)
}

func TestValueCounts(t *testing.T) {
	counts := ValueCounts([]string{"b", "a", "a", "c", "b", "d"})

	require.Len(t, counts, 4)
	assert.Equal(t, []ValueCount{{"b", 2}, {"a", 2}, {"c", 1}, {"d", 1}}, counts)
	assert.Len(t, Top(counts, 2), 2)
	assert.Len(t, Top(counts, 20), 4)
	assert.Empty(t, ValueCounts(nil))
}

func TestCorrelation(t *testing.T) {
	x := table.NewNumericColumn("x", []float64{1, 2, 3, 4}, nil)
	y := table.NewNumericColumn("y", []float64{2, 4, 6, 8}, nil)
	z := table.NewNumericColumn("z", []float64{8, 6, 4, 0}, []bool{true, true, true, false})
	flat := table.NewNumericColumn("flat", []float64{5, 5, 5, 5}, nil)

	m := Correlation([]*table.Column{x, y, z, flat})

	assert.Equal(t, []string{"x", "y", "z", "flat"}, m.Columns)
	assert.Equal(t, 1.0, m.Values[0][0])
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-9)
	assert.InDelta(t, -1.0, m.Values[0][2], 1e-9)
	assert.Equal(t, m.Values[0][2], m.Values[2][0])
	assert.True(t, math.IsNaN(m.Values[0][3]))
	assert.True(t, math.IsNaN(m.Values[3][3]))
}

func TestKDE(t *testing.T) {
	density, bw, ok := KDE([]float64{1, 2, 2, 3, 4})
	require.True(t, ok)
	assert.Greater(t, bw, 0.0)
	assert.Greater(t, density(2), density(10))

	// integrates to roughly one
	area := 0.0
	for x := -10.0; x <= 15; x += 0.01 {
		area += density(x) * 0.01
	}
	assert.InDelta(t, 1.0, area, 0.01)

	_, _, ok = KDE([]float64{3, 3, 3})
	assert.False(t, ok)
	_, _, ok = KDE([]float64{3})
	assert.False(t, ok)
}
