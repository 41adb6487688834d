package generator

import (
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/nimasrn/transaction-eda/internal/model"
	"github.com/pkg/errors"
)

// Pool is the Go memory allocator used by Arrow.
var Pool = memory.NewGoAllocator()

// timestampType has no zone so the file stores a plain TIMESTAMP rather than
// an instant adjusted to UTC.
var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond}

// Schema defines the layout of the transactions file.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: model.ColTransactionID, Type: arrow.PrimitiveTypes.Int64},
	{Name: model.ColProductID, Type: arrow.PrimitiveTypes.Int64},
	{Name: model.ColCustomerID, Type: arrow.PrimitiveTypes.Int64},
	{Name: model.ColTransactionDate, Type: timestampType},
	{Name: model.ColQuantity, Type: arrow.PrimitiveTypes.Int64},
	{Name: model.ColPricePerItem, Type: arrow.PrimitiveTypes.Float64},
	{Name: model.ColStoreLocation, Type: arrow.BinaryTypes.String},
	{Name: model.ColProductCategory, Type: arrow.BinaryTypes.String},
}, nil)

// Writer appends batches of transactions to a Parquet file, one row group per
// batch.
type Writer struct {
	f       *os.File
	fw      *pqarrow.FileWriter
	builder *array.RecordBuilder
	rows    int64
}

func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	fw, err := pqarrow.NewFileWriter(Schema, f, props, pqarrow.DefaultWriterProps())
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "open parquet writer")
	}
	return &Writer{
		f:       f,
		fw:      fw,
		builder: array.NewRecordBuilder(Pool, Schema),
	}, nil
}

func (w *Writer) Write(txs []model.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	ids := w.builder.Field(0).(*array.Int64Builder)
	products := w.builder.Field(1).(*array.Int64Builder)
	customers := w.builder.Field(2).(*array.Int64Builder)
	dates := w.builder.Field(3).(*array.TimestampBuilder)
	quantities := w.builder.Field(4).(*array.Int64Builder)
	prices := w.builder.Field(5).(*array.Float64Builder)
	stores := w.builder.Field(6).(*array.StringBuilder)
	categories := w.builder.Field(7).(*array.StringBuilder)

	for _, tx := range txs {
		ids.Append(tx.TransactionID)
		products.Append(tx.ProductID)
		customers.Append(tx.CustomerID)
		dates.Append(arrow.Timestamp(tx.TransactionDate.UnixMicro()))
		quantities.Append(tx.Quantity)
		prices.Append(tx.PricePerItem)
		stores.Append(tx.StoreLocation)
		categories.Append(tx.ProductCategory)
	}

	rec := w.builder.NewRecord()
	defer rec.Release()
	if err := w.fw.Write(rec); err != nil {
		return errors.Wrap(err, "write record batch")
	}
	w.rows += int64(len(txs))
	return nil
}

func (w *Writer) Rows() int64 {
	return w.rows
}

// Close writes the footer and closes the file.
func (w *Writer) Close() error {
	w.builder.Release()
	err := w.fw.Close()
	// no-op when the parquet writer already closed its sink
	_ = w.f.Close()
	if err != nil {
		return errors.Wrap(err, "close parquet writer")
	}
	return nil
}

// WriteFile writes txs to path in a single row group.
func WriteFile(path string, txs []model.Transaction) error {
	w, err := NewWriter(path)
	if err != nil {
		return err
	}
	if err := w.Write(txs); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// CountRows reads the row count from the Parquet footer.
func CountRows(path string) (int64, error) {
	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return 0, errors.Wrapf(err, "open %s", path)
	}
	defer rdr.Close()
	return rdr.NumRows(), nil
}
