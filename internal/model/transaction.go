package model

import "time"

// Transaction is one synthetic sale as stored in the Parquet dataset.
type Transaction struct {
	TransactionID   int64     `json:"transaction_id"`
	ProductID       int64     `json:"product_id"`
	CustomerID      int64     `json:"customer_id"`
	TransactionDate time.Time `json:"transaction_date"`
	Quantity        int64     `json:"quantity"`
	PricePerItem    float64   `json:"price_per_item"`
	StoreLocation   string    `json:"store_location"`
	ProductCategory string    `json:"product_category"`
}

// Column names of the dataset, in file order.
const (
	ColTransactionID   = "transaction_id"
	ColProductID       = "product_id"
	ColCustomerID      = "customer_id"
	ColTransactionDate = "transaction_date"
	ColQuantity        = "quantity"
	ColPricePerItem    = "price_per_item"
	ColStoreLocation   = "store_location"
	ColProductCategory = "product_category"
)

// Field ranges. Upper bounds of the integer ranges are exclusive; the price
// range is inclusive after rounding to cents.
const (
	ProductIDMin  = 1000
	ProductIDMax  = 2000
	CustomerIDMin = 10000
	CustomerIDMax = 20000
	QuantityMin   = 1
	QuantityMax   = 6
	PriceMin      = 5.50
	PriceMax      = 500.99
)

type WeightedValue struct {
	Value  string
	Weight float64
}

var StoreLocations = []WeightedValue{
	{Value: "New York", Weight: 0.3},
	{Value: "London", Weight: 0.2},
	{Value: "Online", Weight: 0.3},
	{Value: "Tokyo", Weight: 0.1},
	{Value: "Sydney", Weight: 0.1},
}

var ProductCategories = []WeightedValue{
	{Value: "Electronics", Weight: 0.25},
	{Value: "Apparel", Weight: 0.25},
	{Value: "Groceries", Weight: 0.2},
	{Value: "Books", Weight: 0.15},
	{Value: "Home Goods", Weight: 0.15},
}

// Values returns the vocabulary without weights.
func Values(ws []WeightedValue) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Value
	}
	return out
}
