package charts

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/KaramelBytes/salescope/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// corrGrid adapts a CorrMatrix to plotter.GridXYZ.
// Matrix row 0 is drawn at the top.
type corrGrid struct{ m analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(len(g.m.Columns) - 1 - r) }

func colorMap() palette.ColorMap {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	return cm
}

// Heatmap builds the correlation heat map with column names as tick labels.
func Heatmap(m analysis.CorrMatrix) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Correlation Matrix"
	hm := plotter.NewHeatMap(corrGrid{m}, colorMap().Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	n := len(m.Columns)
	xt := make([]plot.Tick, n)
	yt := make([]plot.Tick, n)
	for i, c := range m.Columns {
		xt[i] = plot.Tick{Value: float64(i), Label: c}
		yt[i] = plot.Tick{Value: float64(n - 1 - i), Label: c}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	rotate(&p.X)
	return p
}

// ColorBar builds the vertical scale shown next to the heat map.
func ColorBar() *plot.Plot {
	p := plot.New()
	p.Add(&plotter.ColorBar{ColorMap: colorMap(), Vertical: true})
	p.HideX()
	p.Y.Padding = 0
	return p
}

// SaveHeatmap draws the heat map and its color bar side by side into path.
func SaveHeatmap(m analysis.CorrMatrix, opt Options, path string) error {
	format := strings.TrimPrefix(strings.ToLower(opt.Format), ".")
	cw, err := draw.NewFormattedCanvas(opt.Width, opt.Height, format)
	if err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	dc := draw.New(cw)
	barW := opt.Width / 6
	Heatmap(m).Draw(draw.Crop(dc, 0, -barW, 0, 0))
	ColorBar().Draw(draw.Crop(dc, opt.Width-barW+vg.Points(6), 0, vg.Points(40), -vg.Points(20)))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := cw.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
