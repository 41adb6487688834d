// Package table holds query results as named, typed columns. Each column's
// kind is fixed when the table is built so later stages never inspect values
// to decide how to treat a column.
package table

import (
	"database/sql"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

type Table struct {
	Columns []*Column `json:"columns"`
}

// New checks that all columns have the same length.
func New(cols ...*Column) (*Table, error) {
	for _, c := range cols {
		if c.Len() != cols[0].Len() {
			return nil, errors.Errorf("column %q has %d rows, expected %d", c.Name, c.Len(), cols[0].Len())
		}
		if err := c.check(); err != nil {
			return nil, err
		}
	}
	return &Table{Columns: cols}, nil
}

func (c *Column) check() error {
	var n int
	switch c.Kind {
	case KindNumeric:
		n = len(c.Floats)
	case KindCategorical, KindBoolean:
		n = len(c.Strings)
	case KindTemporal:
		n = len(c.Times)
	default:
		return errors.Errorf("column %q: unknown kind %d", c.Name, c.Kind)
	}
	if n != len(c.Valid) {
		return errors.Errorf("column %q: %d values for %d validity flags", c.Name, n, len(c.Valid))
	}
	return nil
}

func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) {
	return t.Rows(), len(t.Columns)
}

func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (t *Table) Numeric() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// Categorical returns categorical and boolean columns.
func (t *Table) Categorical() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.IsCategorical() {
			out = append(out, c)
		}
	}
	return out
}

// FromRows drains rows into a Table. Column kinds come from the driver's
// type names, read once before the first row.
func FromRows(rows *sql.Rows) (*Table, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, "column types")
	}
	cols := make([]*Column, len(types))
	for i, ct := range types {
		cols[i] = &Column{Name: ct.Name(), DBType: ct.DatabaseTypeName(), Kind: KindOf(ct.DatabaseTypeName())}
	}

	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		for i, c := range cols {
			if err := c.append(dest[i]); err != nil {
				return nil, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rows")
	}
	return New(cols...)
}

func (c *Column) append(v any) error {
	if v == nil {
		c.Valid = append(c.Valid, false)
		switch c.Kind {
		case KindNumeric:
			c.Floats = append(c.Floats, 0)
		case KindTemporal:
			c.Times = append(c.Times, time.Time{})
		default:
			c.Strings = append(c.Strings, "")
		}
		return nil
	}

	switch c.Kind {
	case KindNumeric:
		f, err := toFloat(v)
		if err != nil {
			return errors.Wrapf(err, "column %q", c.Name)
		}
		c.Floats = append(c.Floats, f)
	case KindTemporal:
		ts, ok := v.(time.Time)
		if !ok {
			return errors.Errorf("column %q: unexpected %T for %s", c.Name, v, c.DBType)
		}
		c.Times = append(c.Times, ts)
	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return errors.Errorf("column %q: unexpected %T for %s", c.Name, v, c.DBType)
		}
		c.Strings = append(c.Strings, boolLabel(b))
	default:
		c.Strings = append(c.Strings, toLabel(v))
	}
	c.Valid = append(c.Valid, true)
	return nil
}

// floater covers driver decimal types that expose a float conversion.
type floater interface {
	Float64() float64
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		return f, nil
	case floater:
		return x.Float64(), nil
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	case string:
		return strconv.ParseFloat(x, 64)
	}
	return 0, errors.Errorf("unsupported numeric value %T", v)
}

func toLabel(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
