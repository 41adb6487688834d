package generator

import (
	"math/rand"
	"time"

	"github.com/nimasrn/transaction-eda/internal/model"
	"github.com/shopspring/decimal"
)

// weightedChoice draws from a fixed vocabulary using cumulative weights.
type weightedChoice struct {
	values     []string
	cumulative []float64
}

func newWeightedChoice(ws []model.WeightedValue) *weightedChoice {
	c := &weightedChoice{
		values:     make([]string, len(ws)),
		cumulative: make([]float64, len(ws)),
	}
	total := 0.0
	for _, w := range ws {
		total += w.Weight
	}
	acc := 0.0
	for i, w := range ws {
		acc += w.Weight / total
		c.values[i] = w.Value
		c.cumulative[i] = acc
	}
	// guard against float drift so the last bucket always catches u close to 1
	c.cumulative[len(c.cumulative)-1] = 1
	return c
}

func (c *weightedChoice) pick(u float64) string {
	for i, edge := range c.cumulative {
		if u < edge {
			return c.values[i]
		}
	}
	return c.values[len(c.values)-1]
}

// sampler produces transactions. It is not safe for concurrent use.
type sampler struct {
	rng        *rand.Rand
	stores     *weightedChoice
	categories *weightedChoice
	from       time.Time
	span       int64
}

func newSampler(seed int64, now time.Time) *sampler {
	from := decadeStart(now)
	return &sampler{
		rng:        rand.New(rand.NewSource(seed)),
		stores:     newWeightedChoice(model.StoreLocations),
		categories: newWeightedChoice(model.ProductCategories),
		from:       from,
		span:       now.Sub(from).Microseconds(),
	}
}

// decadeStart is midnight of January 1st of the decade containing t, in UTC.
func decadeStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year()-t.Year()%10, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func (s *sampler) intBetween(min, max int64) int64 {
	return min + s.rng.Int63n(max-min)
}

func (s *sampler) price() float64 {
	raw := model.PriceMin + s.rng.Float64()*(model.PriceMax-model.PriceMin)
	return decimal.NewFromFloat(raw).Round(2).InexactFloat64()
}

func (s *sampler) timestamp() time.Time {
	if s.span <= 0 {
		return s.from
	}
	return s.from.Add(time.Duration(s.rng.Int63n(s.span)) * time.Microsecond)
}

func (s *sampler) next(id int64) model.Transaction {
	return model.Transaction{
		TransactionID:   id,
		ProductID:       s.intBetween(model.ProductIDMin, model.ProductIDMax),
		CustomerID:      s.intBetween(model.CustomerIDMin, model.CustomerIDMax),
		TransactionDate: s.timestamp(),
		Quantity:        s.intBetween(model.QuantityMin, model.QuantityMax),
		PricePerItem:    s.price(),
		StoreLocation:   s.stores.pick(s.rng.Float64()),
		ProductCategory: s.categories.pick(s.rng.Float64()),
	}
}
