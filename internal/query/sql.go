package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nimasrn/transaction-eda/internal/model"
)

const (
	ReportDailySales          = "duckdb_daily_sales"
	ReportCategoryPerformance = "duckdb_category_performance"
	ReportRawSample           = "duckdb_raw_sample"
)

const DefaultSamplePercent = 0.01

// Literal quotes path as a SQL string literal, the form DuckDB accepts as a
// table reference for Parquet files.
func Literal(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

func DailySalesSQL(path string) string {
	return fmt.Sprintf(`
		SELECT
			CAST(transaction_date AS DATE) AS sale_date,
			SUM(quantity * price_per_item) AS total_revenue,
			COUNT(DISTINCT transaction_id) AS number_of_orders,
			AVG(quantity * price_per_item) AS average_order_value
		FROM %s
		GROUP BY sale_date
		ORDER BY sale_date;
	`, Literal(path))
}

func CategoryPerformanceSQL(path string) string {
	return fmt.Sprintf(`
		SELECT
			product_category,
			store_location,
			COUNT(*) AS transactions_count,
			SUM(quantity) AS total_items_sold,
			ROUND(AVG(price_per_item), 2) AS avg_item_price
		FROM %s
		GROUP BY product_category, store_location
		ORDER BY product_category, store_location;
	`, Literal(path))
}

// RawSampleSQL samples roughly percent of the rows.
func RawSampleSQL(path string, percent float64) string {
	if percent <= 0 {
		percent = DefaultSamplePercent
	}
	return fmt.Sprintf(`SELECT * FROM %s USING SAMPLE %s PERCENT (bernoulli);`,
		Literal(path), strconv.FormatFloat(percent, 'f', -1, 64))
}

// Reports is the report plan for one data file: daily sales and category
// performance, plus the raw sample when includeSample is set.
func Reports(path string, includeSample bool, samplePercent float64) []model.ReportSpec {
	specs := []model.ReportSpec{
		{Name: ReportDailySales, SQL: DailySalesSQL(path)},
		{Name: ReportCategoryPerformance, SQL: CategoryPerformanceSQL(path)},
	}
	if includeSample {
		specs = append(specs, model.ReportSpec{Name: ReportRawSample, SQL: RawSampleSQL(path, samplePercent)})
	}
	return specs
}
