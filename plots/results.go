/*
Copyright © 2026 the FloodViz authors.
This file is part of FloodViz.

FloodViz is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FloodViz is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FloodViz.  If not, see <http://www.gnu.org/licenses/>.
*/

package plots

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/evacsim/floodviz"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// seriesColors cycles over the scenario line colors.
var seriesColors = []color.NRGBA{
	{31, 119, 180, 255},
	{255, 127, 14, 255},
	{44, 160, 44, 255},
	{214, 39, 40, 255},
	{148, 103, 189, 255},
}

func seriesColor(i int) color.NRGBA { return seriesColors[i%len(seriesColors)] }

// bandColor is the series color at band transparency.
func bandColor(i int) color.NRGBA {
	c := seriesColor(i)
	c.A = 50
	return c
}

// ErrorColumns selects the per-location error columns of an aggregated
// stats table: names containing "error" but neither "total" nor "std".
func ErrorColumns(t *floodviz.Table) []string {
	var out []string
	for _, name := range t.Names() {
		l := strings.ToLower(name)
		if strings.Contains(l, "error") && !strings.Contains(l, "total") &&
			!strings.Contains(l, "std") {
			out = append(out, name)
		}
	}
	return out
}

// HeatMapOptions configures ErrorMatrix.
type HeatMapOptions struct {
	Dir        string
	Subtitle   string
	Normalize  bool // scale all cells by the global maximum
	ShowValues bool // print each cell's value at 2 decimals
}

// errorGrid adapts the transposed error matrix (rows = locations,
// columns = days) to the heat-map plotter.
type errorGrid struct {
	data [][]float64 // [location][day]
}

func (g errorGrid) Dims() (c, r int) {
	if len(g.data) == 0 {
		return 0, 0
	}
	return len(g.data[0]), len(g.data)
}
func (g errorGrid) Z(c, r int) float64 { return g.data[r][c] }
func (g errorGrid) X(c int) float64    { return float64(c) }
func (g errorGrid) Y(r int) float64    { return float64(r) }

// ErrorMatrix renders a heatmap of the per-location error columns of an
// aggregated stats table, transposed so each row is a location and each
// column a simulation day. With Normalize set, cells are scaled by the
// global maximum. The output file name is derived from the options (see
// FilePath with base name "error_heatmap").
func ErrorMatrix(t *floodviz.Table, dayticks []string, opts HeatMapOptions) error {
	cols := ErrorColumns(t)
	if len(cols) == 0 {
		return fmt.Errorf("plots: table has no error columns")
	}

	data := make([][]float64, len(cols))
	labels := make([]string, len(cols))
	maxVal := math.Inf(-1)
	for i, name := range cols {
		v, err := t.Floats(name)
		if err != nil {
			return err
		}
		data[i] = v
		labels[i] = strings.ReplaceAll(name, " error", "")
		for _, x := range v {
			maxVal = math.Max(maxVal, x)
		}
	}
	if opts.Normalize && maxVal != 0 {
		for _, row := range data {
			for i := range row {
				row[i] /= maxVal
			}
		}
		maxVal = 1
	}

	grid := errorGrid{data: data}

	cm := moreland.ExtendedBlackBody()
	cm.SetMin(0)
	if maxVal <= 0 {
		maxVal = 1
	}
	cm.SetMax(maxVal)

	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Add(plotter.NewHeatMap(grid, cm.Palette(255)))

	title := "Average Error Heatmap for Camps and Temples Over Time"
	if opts.Subtitle != "" {
		title += " - " + opts.Subtitle
	}
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Location"

	p.X.Tick.Marker = labelTicks(dayticks, 1)
	p.X.Tick.Label.Rotation = -math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XLeft
	p.X.Tick.Label.YAlign = draw.YTop
	p.Y.Tick.Marker = labelTicks(labels, 1)

	if opts.ShowValues {
		if err := addCellLabels(p, grid); err != nil {
			return err
		}
	}

	legendLabel := "Error Magnitude"
	if opts.Normalize {
		legendLabel = "Normalized Error Magnitude"
	}

	const legendHeight = 1 * vg.Inch
	c := newCanvas(16*vg.Inch/2, 8*vg.Inch/2+legendHeight)
	p.Draw(draw.Crop(c, 0, 0, legendHeight, 0))

	l, err := plot.New()
	if err != nil {
		return err
	}
	l.Add(&plotter.ColorBar{ColorMap: cm})
	l.HideY()
	l.X.Padding = 0
	l.X.Label.Text = legendLabel
	l.Draw(draw.Crop(c, vg.Inch, -vg.Inch, 0, legendHeight-c.Max.Y+c.Min.Y))

	path := FilePath(opts.Dir, "error_heatmap", opts.Normalize, opts.ShowValues, opts.Subtitle)
	return savePNG(c, path)
}

// addCellLabels prints each grid value at the cell center.
func addCellLabels(p *plot.Plot, grid errorGrid) error {
	nc, nr := grid.Dims()
	var xyl plotter.XYLabels
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			xyl.Labels = append(xyl.Labels, fmt.Sprintf("%.2f", grid.Z(c, r)))
		}
	}
	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return err
	}
	p.Add(labels)
	return nil
}

// labelTicks places one labeled tick per entry, at integer positions,
// thinning to every step-th label.
func labelTicks(labels []string, step int) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i)}
		if i%step == 0 {
			ticks[i].Label = l
		}
	}
	return plot.ConstantTicks(ticks)
}

// Series is one mean line with an optional standard-deviation band.
type Series struct {
	Label string
	Mean  []float64
	Std   []float64 // nil for no band
}

// TimeSeriesOptions configures DisplacementOverTime.
type TimeSeriesOptions struct {
	Dir       string
	Name      string // output name suffix; empty means the series count
	Normalize bool   // scale each series by its own maximum
}

// DisplacementOverTime plots the average number of displaced individuals
// per day, one line per series, each with a translucent ±std band.
// Output is <dir>/displacement_over_time_<name|count>.png.
func DisplacementOverTime(series []Series, dayticks []string, opts TimeSeriesOptions) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Average Displaced Individuals"
	if opts.Normalize {
		p.Y.Label.Text = "Average normalized Displaced Individuals"
	}
	p.X.Tick.Marker = labelTicks(dayticks, 1)
	p.X.Tick.Label.Rotation = -math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XLeft
	p.X.Tick.Label.YAlign = draw.YTop

	for i, s := range series {
		mean := s.Mean
		std := s.Std
		if opts.Normalize {
			if m := stats.StatsMax(mean); m != 0 {
				mean = scaleSlice(mean, 1/m)
				if std != nil {
					std = scaleSlice(std, 1/m)
				}
			}
		}
		if std != nil {
			band, err := plotter.NewPolygon(bandXYs(mean, std, math.Inf(-1)))
			if err != nil {
				return err
			}
			band.Color = bandColor(i)
			band.LineStyle.Width = 0
			p.Add(band)
		}
		line, err := plotter.NewLine(sliceXYs(mean))
		if err != nil {
			return err
		}
		line.Color = seriesColor(i)
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%d", len(series))
	}
	c := newCanvas(figWidth, figHeight)
	p.Draw(c)
	return savePNG(c, filepath.Join(opts.Dir, "displacement_over_time_"+name+".png"))
}

// sliceXYs pairs each value with its index.
func sliceXYs(v []float64) plotter.XYs {
	xys := make(plotter.XYs, len(v))
	for i, y := range v {
		xys[i] = plotter.XY{X: float64(i), Y: y}
	}
	return xys
}

// bandXYs builds the closed mean±std band polygon: the upper curve
// followed by the lower curve reversed. Lower values are clamped to
// floor (use -Inf for no clamping) so bands stay valid on log axes.
func bandXYs(mean, std []float64, floor float64) plotter.XYs {
	n := len(mean)
	xys := make(plotter.XYs, 0, 2*n)
	for i := 0; i < n; i++ {
		xys = append(xys, plotter.XY{X: float64(i), Y: mean[i] + std[i]})
	}
	for i := n - 1; i >= 0; i-- {
		lo := math.Max(mean[i]-std[i], floor)
		xys = append(xys, plotter.XY{X: float64(i), Y: lo})
	}
	return xys
}

func scaleSlice(v []float64, k float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * k
	}
	return out
}

// GridOptions configures CampGrid.
type GridOptions struct {
	Dir    string
	Panels int  // number of camps or temples; zero means 8
	Camps  bool // true for camps, false for temples
}

// CampGrid renders a 2-row panel grid, one panel per camp (or temple),
// with one mean line and ±std band per scenario, on a log-scaled Y axis.
// Panel i reads columns "Camp_<i+1> sim" and "Camp_<i+1> sim (std)"
// (or Temple_). Output is <dir>/camp_over_time_<camps>.png.
func CampGrid(tables []*floodviz.Table, labels []string, dayticks []string, opts GridOptions) error {
	nPanels := opts.Panels
	if nPanels <= 0 {
		nPanels = 8
	}
	prefix := "Temple"
	if opts.Camps {
		prefix = "Camp"
	}

	const rows = 2
	cols := (nPanels + rows - 1) / rows

	c := newCanvas(20*vg.Inch/2, 10*vg.Inch/2)
	// Margins for the shared axis labels.
	grid := draw.Crop(c, 0.5*vg.Inch, 0, 0.5*vg.Inch, 0)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: 2 * vg.Millimeter, PadY: 2 * vg.Millimeter,
	}

	for i := 0; i < nPanels; i++ {
		p, err := plot.New()
		if err != nil {
			return err
		}
		p.Title.Text = fmt.Sprintf("%s %d", prefix, i+1)
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
		p.Y.Min = 0.1
		p.Y.Max = 3000
		p.X.Tick.Marker = labelTicks(dayticks, 4)
		p.X.Tick.Label.Rotation = -math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XLeft
		p.X.Tick.Label.YAlign = draw.YTop

		meanCol := fmt.Sprintf("%s_%d sim", prefix, i+1)
		stdCol := meanCol + floodviz.StdSuffix
		for j, t := range tables {
			mean, err := t.Floats(meanCol)
			if err != nil {
				return err
			}
			std, err := t.Floats(stdCol)
			if err != nil {
				return err
			}
			// Clamp the band above zero for the log axis.
			band, err := plotter.NewPolygon(bandXYs(mean, std, p.Y.Min))
			if err != nil {
				return err
			}
			band.Color = bandColor(j)
			band.LineStyle.Width = 0
			p.Add(band)

			line, err := plotter.NewLine(sliceXYs(clampSlice(mean, p.Y.Min)))
			if err != nil {
				return err
			}
			line.Color = seriesColor(j)
			p.Add(line)
			p.Legend.Add(labels[j], line)
		}
		p.Draw(tiles.At(grid, i%cols, i/cols))
	}

	// Shared axis labels.
	ts := textStyle(vg.Points(13))
	ts.XAlign = -0.5
	ts.YAlign = 0
	c.FillText(ts, vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: c.Min.Y + 2*vg.Points(1)}, "Days")
	tsY := ts
	tsY.Rotation = math.Pi / 2
	tsY.YAlign = -1
	c.FillText(tsY, vg.Point{X: c.Min.X + 2*vg.Points(1), Y: (c.Min.Y + c.Max.Y) / 2},
		"Average Amount of Displaced Individuals at a given location")

	path := filepath.Join(opts.Dir, fmt.Sprintf("camp_over_time_%v.png", opts.Camps))
	return savePNG(c, path)
}

func clampSlice(v []float64, lo float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Max(x, lo)
	}
	return out
}
