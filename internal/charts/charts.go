// Package charts renders the six analysis charts from precomputed aggregates.
// Nothing here feeds back into the analysis.
package charts

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/KaramelBytes/salescope/internal/analysis"
	"github.com/KaramelBytes/salescope/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options controls where and how charts are written.
type Options struct {
	Dir    string
	Format string // png|svg|pdf
	Bins   int
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns reasonable defaults for chart rendering.
func DefaultOptions() Options {
	return Options{Dir: "charts", Format: "png", Bins: 30, Width: 16 * vg.Centimeter, Height: 12 * vg.Centimeter}
}

// Chart file stems, in rendering order.
const (
	TotalDistribution  = "01_total_distribution"
	CustomerTypes      = "02_customer_type_frequency"
	DailySalesTrend    = "03_daily_sales_trend"
	PriceVsQuantity    = "04_unit_price_vs_quantity"
	GrossIncomeByLine  = "05_gross_income_by_product_line"
	CorrelationHeatmap = "06_correlation_matrix"
)

var barColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// Render writes all six charts and returns their paths in order.
func Render(s *analysis.Summary, opt Options) ([]string, error) {
	if opt.Bins <= 0 {
		opt.Bins = 30
	}
	if opt.Format == "" {
		opt.Format = "png"
	}
	if opt.Width <= 0 || opt.Height <= 0 {
		d := DefaultOptions()
		opt.Width, opt.Height = d.Width, d.Height
	}
	if err := utils.EnsureDir(opt.Dir); err != nil {
		return nil, fmt.Errorf("create charts dir: %w", err)
	}

	steps := []struct {
		stem  string
		build func(*analysis.Summary, Options) (*plot.Plot, error)
	}{
		{TotalDistribution, Histogram},
		{CustomerTypes, CustomerTypeBars},
		{DailySalesTrend, DailyLine},
		{PriceVsQuantity, Scatter},
		{GrossIncomeByLine, BoxByProductLine},
	}
	var paths []string
	for _, st := range steps {
		p, err := st.build(s, opt)
		if err != nil {
			return paths, fmt.Errorf("%s: %w", st.stem, err)
		}
		path := utils.OutputPath(opt.Dir, st.stem, opt.Format)
		if err := p.Save(opt.Width, opt.Height, path); err != nil {
			return paths, fmt.Errorf("save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	path := utils.OutputPath(opt.Dir, CorrelationHeatmap, opt.Format)
	if err := SaveHeatmap(s.Corr, opt, path); err != nil {
		return paths, fmt.Errorf("%s: %w", CorrelationHeatmap, err)
	}
	return append(paths, path), nil
}

// Histogram plots the distribution of total value.
func Histogram(s *analysis.Summary, opt Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution of Total Sales"
	p.X.Label.Text = "Total Sales"
	p.Y.Label.Text = "Frequency"
	h, err := plotter.NewHist(plotter.Values(s.Totals), opt.Bins)
	if err != nil {
		return nil, err
	}
	h.FillColor = barColor
	p.Add(h)
	return p, nil
}

// CustomerTypeBars plots the row count per customer type, most frequent first.
func CustomerTypeBars(s *analysis.Summary, _ Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Customer Type Frequency"
	p.Y.Label.Text = "Count"
	groups := byCountDesc(s.CustomerTypes)
	vals := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, c := range groups {
		vals[i] = float64(c.Count)
		names[i] = c.Key
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(40))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// byCountDesc returns a copy sorted by descending count; equal counts keep their order.
func byCountDesc(groups []analysis.GroupCount) []analysis.GroupCount {
	out := append([]analysis.GroupCount(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// DailyLine plots the daily total series against date.
func DailyLine(s *analysis.Summary, _ Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Daily Sales Trend"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Total Sales"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	rotate(&p.X)
	xys := make(plotter.XYs, len(s.Daily))
	for i, d := range s.Daily {
		xys[i].X = float64(d.Date.Unix())
		xys[i].Y = d.Total.InexactFloat64()
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = barColor
	p.Add(line)
	return p, nil
}

// Scatter plots unit price against quantity, one point per row.
func Scatter(s *analysis.Summary, _ Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Unit Price vs Quantity"
	p.X.Label.Text = "Unit price"
	p.Y.Label.Text = "Quantity"
	xys := make(plotter.XYs, len(s.UnitPrices))
	for i := range s.UnitPrices {
		xys[i].X = s.UnitPrices[i]
		xys[i].Y = s.Quantities[i]
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = barColor
	sc.GlyphStyle.Radius = vg.Points(2)
	p.Add(sc)
	return p, nil
}

// BoxByProductLine plots the gross income distribution of every product line.
func BoxByProductLine(s *analysis.Summary, _ Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Gross Income by Product Line"
	p.Y.Label.Text = "gross income"
	names := make([]string, len(s.GrossIncome))
	for i, g := range s.GrossIncome {
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(g.Values))
		if err != nil {
			return nil, fmt.Errorf("box %q: %w", g.Key, err)
		}
		p.Add(box)
		names[i] = g.Key
	}
	p.NominalX(names...)
	rotate(&p.X)
	return p, nil
}

// rotate tilts tick labels by 45 degrees so long category names stay legible.
func rotate(a *plot.Axis) {
	a.Tick.Label.Rotation = math.Pi / 4
	a.Tick.Label.XAlign = draw.XRight
	a.Tick.Label.YAlign = draw.YCenter
}
