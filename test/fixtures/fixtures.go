package fixtures

import (
	"time"

	"github.com/nimasrn/transaction-eda/internal/model"
	"github.com/nimasrn/transaction-eda/internal/table"
)

var (
	Day1 = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	Day2 = time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
)

// ThreeTransactions spans two dates: two sales on Day1, one on Day2.
func ThreeTransactions() []model.Transaction {
	return []model.Transaction{
		NewTestTransaction(0, Day1.Add(9*time.Hour), 2, 10.50, "London", "Books"),
		NewTestTransaction(1, Day1.Add(17*time.Hour+30*time.Minute), 1, 99.99, "Online", "Electronics"),
		NewTestTransaction(2, Day2.Add(12*time.Hour), 3, 5.50, "London", "Books"),
	}
}

// Expected daily_sales rows for ThreeTransactions.
var (
	Day1Revenue = 2*10.50 + 1*99.99
	Day2Revenue = 3 * 5.50
)

func NewTestTransaction(id int64, at time.Time, quantity int64, price float64, store, category string) model.Transaction {
	return model.Transaction{
		TransactionID:   id,
		ProductID:       model.ProductIDMin + id,
		CustomerID:      model.CustomerIDMin + id,
		TransactionDate: at,
		Quantity:        quantity,
		PricePerItem:    price,
		StoreLocation:   store,
		ProductCategory: category,
	}
}

// OneNumericOneCategorical has one numeric and one categorical column and no
// nulls.
func OneNumericOneCategorical() *table.Table {
	t, err := table.New(
		table.NewNumericColumn("amount", []float64{12.5, 7, 3.25, 19, 7}, nil),
		table.NewCategoricalColumn("store_location", []string{"London", "Tokyo", "London", "Online", "London"}, nil),
	)
	if err != nil {
		panic(err)
	}
	return t
}

// WithNulls has a null in a numeric and in a categorical column.
func WithNulls() *table.Table {
	t, err := table.New(
		table.NewNumericColumn("revenue", []float64{10, 0, 30, 40}, []bool{true, false, true, true}),
		table.NewNumericColumn("orders", []float64{1, 2, 3, 5}, nil),
		table.NewCategoricalColumn("store_location", []string{"London", "", "Tokyo", "London"}, []bool{true, false, true, true}),
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Empty has zero rows and three columns of different kinds.
func Empty() *table.Table {
	t, err := table.New(
		table.NewTemporalColumn("sale_date", []time.Time{}, []bool{}),
		table.NewNumericColumn("total_revenue", []float64{}, []bool{}),
		table.NewCategoricalColumn("store_location", []string{}, []bool{}),
	)
	if err != nil {
		panic(err)
	}
	return t
}
