package report

import (
	"image/color"
	"math"
	"os"
	"strconv"

	"github.com/nimasrn/transaction-eda/internal/stats"
	"github.com/nimasrn/transaction-eda/internal/table"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	barColor = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	kdeColor = color.RGBA{R: 221, G: 132, B: 82, A: 255}
	nanColor = color.Gray{Y: 200}
)

const maxBins = 50

func missingValuesChart(path string, cols []*table.Column) error {
	p := plot.New()
	p.Title.Text = "Missing Values Count per Column"
	p.Y.Label.Text = "missing"

	values := make(plotter.Values, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		values[i] = float64(c.Nulls())
		names[i] = c.Name
	}
	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	p.Y.Min = 0

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

// numericChart draws a histogram with a density overlay next to a
// horizontal boxplot of the same values.
func numericChart(path string, c *table.Column) error {
	values := plotter.Values(c.Values())

	hist := plot.New()
	hist.Title.Text = "Histogram of " + c.Name
	hist.X.Label.Text = c.Name
	hist.Y.Label.Text = "Count"
	h, err := plotter.NewHist(values, binCount(len(values)))
	if err != nil {
		return err
	}
	h.FillColor = barColor
	hist.Add(h)
	if density, _, ok := stats.KDE(values); ok {
		lo, hi := floats.Min(values), floats.Max(values)
		scale := float64(len(values)) * h.Width
		kde := plotter.NewFunction(func(x float64) float64 { return density(x) * scale })
		kde.XMin, kde.XMax = lo, hi
		kde.Samples = 200
		kde.Color = kdeColor
		kde.Width = vg.Points(2)
		hist.Add(kde)
	}

	box := plot.New()
	box.Title.Text = "Boxplot of " + c.Name
	box.X.Label.Text = c.Name
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, values)
	if err != nil {
		return err
	}
	b.Horizontal = true
	b.FillColor = barColor
	box.Add(b)
	box.HideY()

	return saveGrid(path, 14*vg.Inch, 5*vg.Inch, [][]*plot.Plot{{hist, box}})
}

// countChart draws the top values of c as horizontal bars, most frequent on
// top.
func countChart(path string, c *table.Column, top int) error {
	counts := stats.Top(stats.ValueCounts(c.Labels()), top)

	p := plot.New()
	p.Title.Text = "Count Plot of " + c.Name + " (Top " + strconv.Itoa(top) + ")"
	p.X.Label.Text = "count"

	n := len(counts)
	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, vc := range counts {
		values[n-1-i] = float64(vc.Count)
		names[n-1-i] = vc.Value
	}
	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(names...)
	p.X.Min = 0

	return p.Save(12*vg.Inch, 7*vg.Inch, path)
}

// corrGrid lays the matrix out with row 0 at the top.
type corrGrid struct {
	m stats.CorrMatrix
}

func (g corrGrid) Dims() (int, int) {
	return len(g.m.Columns), len(g.m.Columns)
}

func (g corrGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return g.m.Values[n-1-r][c]
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

func correlationChart(path string, cols []*table.Column) error {
	m := stats.Correlation(cols)
	n := len(m.Columns)

	p := plot.New()
	p.Title.Text = "Correlation Matrix"

	pal := moreland.SmoothBlueRed()
	pal.SetMin(-1)
	pal.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m}, pal.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = nanColor
	p.Add(hm)

	cells := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n*n),
		Labels: make([]string, 0, n*n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			cells.Labels = append(cells.Labels, formatCorr(m.Values[i][j]))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(labels)

	rows := make([]string, n)
	for i, name := range m.Columns {
		rows[n-1-i] = name
	}
	p.NominalX(m.Columns...)
	p.NominalY(rows...)

	return p.Save(12*vg.Inch, 10*vg.Inch, path)
}

func formatCorr(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// binCount is Sturges' rule capped at maxBins.
func binCount(n int) int {
	if n < 2 {
		return 1
	}
	return min(maxBins, int(math.Ceil(math.Log2(float64(n))))+1)
}

func saveGrid(path string, w, h vg.Length, plots [][]*plot.Plot) error {
	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 10,
		PadY:      vg.Millimeter * 10,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i, p := range plots[j] {
			p.Draw(canvases[j][i])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}
