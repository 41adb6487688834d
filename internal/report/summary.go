package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nimasrn/transaction-eda/internal/stats"
	"github.com/nimasrn/transaction-eda/internal/table"
	"github.com/pkg/errors"
)

const noCategorical = "No categorical columns found in this dataset."

func writeSummary(path string, t *table.Table, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	w := bufio.NewWriter(f)
	renderSummary(w, t, name)
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}

func renderSummary(w *bufio.Writer, t *table.Table, name string) {
	rows, cols := t.Shape()
	fmt.Fprintf(w, "--- EDA Report for: %s ---\n\n", name)
	fmt.Fprintf(w, "1. Basic Information\n")
	fmt.Fprintf(w, "Shape of the dataset: (%d, %d)\n\n", rows, cols)

	fmt.Fprintf(w, "Data Types and Non-Null Values:\n")
	fmt.Fprintf(w, "RangeIndex: %d entries\n", rows)
	fmt.Fprintf(w, "Data columns (total %d columns):\n", cols)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " #\tColumn\tNon-Null Count\tDtype\tKind")
	fmt.Fprintln(tw, "---\t------\t--------------\t-----\t----")
	for i, c := range t.Columns {
		fmt.Fprintf(tw, " %d\t%s\t%d non-null\t%s\t%s\n", i, c.Name, c.NonNull(), strings.ToLower(c.DBType), c.Kind)
	}
	tw.Flush()
	fmt.Fprintln(w)

	fmt.Fprintf(w, "2. Descriptive Statistics (Numerical)\n")
	var insufficient []string
	numeric := t.Numeric()
	if len(numeric) == 0 {
		fmt.Fprintf(w, "No numerical columns found in this dataset.\n\n")
	} else {
		summaries := make([]stats.NumericSummary, len(numeric))
		for i, c := range numeric {
			summaries[i] = stats.DescribeNumeric(c)
			if !summaries[i].Sufficient() {
				insufficient = append(insufficient, fmt.Sprintf("%s (%d non-null)", c.Name, summaries[i].Count))
			}
		}
		writeNumericTable(w, summaries)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "3. Descriptive Statistics (Categorical)\n")
	fmt.Fprintf(w, "---------------------------------------\n")
	categorical := t.Categorical()
	if len(categorical) == 0 {
		fmt.Fprintf(w, "%s\n\n", noCategorical)
	} else {
		summaries := make([]stats.CategoricalSummary, len(categorical))
		for i, c := range categorical {
			summaries[i] = stats.DescribeCategorical(c)
		}
		writeCategoricalTable(w, summaries)
		fmt.Fprintln(w)
	}

	if len(insufficient) > 0 {
		fmt.Fprintf(w, "Note: insufficient data for some statistics (shown as n/a): %s\n", strings.Join(insufficient, ", "))
	}
}

func writeNumericTable(w *bufio.Writer, s []stats.NumericSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := make([]string, len(s))
	for i := range s {
		header[i] = s[i].Column
	}
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(header, "\t"))

	row := func(label string, get func(stats.NumericSummary) string) {
		cells := make([]string, len(s))
		for i := range s {
			cells[i] = get(s[i])
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", label, strings.Join(cells, "\t"))
	}
	row("count", func(x stats.NumericSummary) string { return strconv.Itoa(x.Count) })
	row("mean", func(x stats.NumericSummary) string { return formatStat(x.Mean) })
	row("std", func(x stats.NumericSummary) string { return formatStat(x.Std) })
	row("min", func(x stats.NumericSummary) string { return formatStat(x.Min) })
	row("25%", func(x stats.NumericSummary) string { return formatStat(x.Q25) })
	row("50%", func(x stats.NumericSummary) string { return formatStat(x.Q50) })
	row("75%", func(x stats.NumericSummary) string { return formatStat(x.Q75) })
	row("max", func(x stats.NumericSummary) string { return formatStat(x.Max) })
	tw.Flush()
}

func writeCategoricalTable(w *bufio.Writer, s []stats.CategoricalSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := make([]string, len(s))
	for i := range s {
		header[i] = s[i].Column
	}
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(header, "\t"))

	row := func(label string, get func(stats.CategoricalSummary) string) {
		cells := make([]string, len(s))
		for i := range s {
			cells[i] = get(s[i])
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", label, strings.Join(cells, "\t"))
	}
	row("count", func(x stats.CategoricalSummary) string { return strconv.Itoa(x.Count) })
	row("unique", func(x stats.CategoricalSummary) string { return strconv.Itoa(x.Unique) })
	row("top", func(x stats.CategoricalSummary) string {
		if x.Count == 0 {
			return "n/a"
		}
		return x.Top
	})
	row("freq", func(x stats.CategoricalSummary) string {
		if x.Count == 0 {
			return "n/a"
		}
		return strconv.Itoa(x.Freq)
	})
	tw.Flush()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
