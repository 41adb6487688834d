// Package stats computes the descriptive statistics printed in EDA summaries.
//
// Undefined results (statistics of zero values, the spread of a single value,
// correlations without variance) are NaN rather than errors; callers print
// them as "n/a".
package stats

import (
	"math"
	"sort"

	"github.com/nimasrn/transaction-eda/internal/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// Sufficient reports whether every statistic is defined.
func (s NumericSummary) Sufficient() bool {
	return s.Count >= 2
}

func DescribeNumeric(c *table.Column) NumericSummary {
	values := c.Values()
	s := NumericSummary{Column: c.Name, Count: len(values)}
	nan := math.NaN()
	s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
	if len(values) == 0 {
		return s
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = Quantile(sorted, 0.25)
	s.Q50 = Quantile(sorted, 0.50)
	s.Q75 = Quantile(sorted, 0.75)
	return s
}

// Quantile interpolates linearly between the closest ranks of sorted
// (Hyndman-Fan type 7).
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

type CategoricalSummary struct {
	Column string
	Count  int
	Unique int
	Top    string
	Freq   int
}

func DescribeCategorical(c *table.Column) CategoricalSummary {
	labels := c.Labels()
	s := CategoricalSummary{Column: c.Name, Count: len(labels)}
	counts := ValueCounts(labels)
	s.Unique = len(counts)
	if len(counts) > 0 {
		s.Top = counts[0].Value
		s.Freq = counts[0].Count
	}
	return s
}

type ValueCount struct {
	Value string
	Count int
}

// ValueCounts orders labels by frequency, most frequent first. Ties keep the
// order of first appearance.
func ValueCounts(labels []string) []ValueCount {
	index := make(map[string]int)
	var out []ValueCount
	for _, l := range labels {
		if i, ok := index[l]; ok {
			out[i].Count++
			continue
		}
		index[l] = len(out)
		out = append(out, ValueCount{Value: l, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Top returns at most n entries of counts.
func Top(counts []ValueCount, n int) []ValueCount {
	if n >= 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}
