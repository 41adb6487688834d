package table

import (
	"strconv"
	"strings"
	"time"
)

// Kind tags how a column is treated by the report.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
	KindBoolean
	KindTemporal
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindBoolean:
		return "boolean"
	case KindTemporal:
		return "temporal"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// KindOf maps an engine type name (DuckDB spelling) to a column kind. Unknown
// names are categorical.
func KindOf(dbType string) Kind {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	switch {
	case t == "BOOLEAN" || t == "BOOL":
		return KindBoolean
	case strings.HasPrefix(t, "DECIMAL"), strings.HasPrefix(t, "NUMERIC"):
		return KindNumeric
	case strings.HasPrefix(t, "TIMESTAMP"), t == "DATE", t == "TIME", t == "TIMETZ", t == "INTERVAL":
		return KindTemporal
	}
	switch t {
	case "TINYINT", "SMALLINT", "INTEGER", "INT", "BIGINT", "HUGEINT",
		"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT", "UHUGEINT",
		"FLOAT", "REAL", "DOUBLE":
		return KindNumeric
	}
	return KindCategorical
}

// Column is a tagged variant: exactly one of Floats, Strings or Times holds
// the values, chosen by Kind. Boolean columns store "True"/"False" labels.
// Valid[i] is false for nulls; the value slot of a null is zero.
type Column struct {
	Name    string      `json:"name"`
	DBType  string      `json:"db_type"`
	Kind    Kind        `json:"kind"`
	Floats  []float64   `json:"floats,omitempty"`
	Strings []string    `json:"strings,omitempty"`
	Times   []time.Time `json:"times,omitempty"`
	Valid   []bool      `json:"valid"`
}

func (c *Column) Len() int {
	return len(c.Valid)
}

func (c *Column) NonNull() int {
	n := 0
	for _, ok := range c.Valid {
		if ok {
			n++
		}
	}
	return n
}

func (c *Column) Nulls() int {
	return c.Len() - c.NonNull()
}

// IsCategorical reports whether the report treats c as categorical.
func (c *Column) IsCategorical() bool {
	return c.Kind == KindCategorical || c.Kind == KindBoolean
}

// Values returns the non-null numeric values in row order.
func (c *Column) Values() []float64 {
	out := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if c.Valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// Labels returns the non-null categorical labels in row order.
func (c *Column) Labels() []string {
	out := make([]string, 0, len(c.Strings))
	for i, v := range c.Strings {
		if c.Valid[i] {
			out = append(out, v)
		}
	}
	return out
}

func allValid(n int, valid []bool) []bool {
	if valid != nil {
		return valid
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

// NewNumericColumn builds a numeric column. A nil valid mask means no nulls.
func NewNumericColumn(name string, values []float64, valid []bool) *Column {
	return &Column{Name: name, DBType: "DOUBLE", Kind: KindNumeric, Floats: values, Valid: allValid(len(values), valid)}
}

func NewCategoricalColumn(name string, values []string, valid []bool) *Column {
	return &Column{Name: name, DBType: "VARCHAR", Kind: KindCategorical, Strings: values, Valid: allValid(len(values), valid)}
}

func NewBooleanColumn(name string, values []bool, valid []bool) *Column {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = boolLabel(v)
	}
	return &Column{Name: name, DBType: "BOOLEAN", Kind: KindBoolean, Strings: labels, Valid: allValid(len(values), valid)}
}

func NewTemporalColumn(name string, values []time.Time, valid []bool) *Column {
	return &Column{Name: name, DBType: "TIMESTAMP", Kind: KindTemporal, Times: values, Valid: allValid(len(values), valid)}
}

func boolLabel(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
