package stats

import (
	"math"

	"github.com/nimasrn/transaction-eda/internal/table"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Correlation computes pairwise Pearson coefficients, using only rows where
// both columns are non-null. Pairs with fewer than two such rows or without
// variance are NaN.
func Correlation(cols []*table.Column) CorrMatrix {
	m := CorrMatrix{Columns: make([]string, len(cols)), Values: make([][]float64, len(cols))}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pearson(cols[i], cols[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pearson(a, b *table.Column) float64 {
	var xs, ys []float64
	for k := 0; k < a.Len(); k++ {
		if a.Valid[k] && b.Valid[k] {
			xs = append(xs, a.Floats[k])
			ys = append(ys, b.Floats[k])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

// KDE returns a Gaussian kernel density estimate of values using Scott's rule
// for the bandwidth. ok is false when the density is undefined (fewer than two
// values or zero spread).
func KDE(values []float64) (density func(x float64) float64, bandwidth float64, ok bool) {
	n := len(values)
	if n < 2 {
		return nil, 0, false
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, 0, false
	}
	bandwidth = sd * math.Pow(float64(n), -1.0/5.0)
	kernel := distuv.Normal{Mu: 0, Sigma: 1}
	pts := make([]float64, n)
	copy(pts, values)
	density = func(x float64) float64 {
		sum := 0.0
		for _, v := range pts {
			sum += kernel.Prob((x - v) / bandwidth)
		}
		return sum / (float64(n) * bandwidth)
	}
	return density, bandwidth, true
}
