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

	"github.com/evacsim/floodviz"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// WaterLevelOptions configures WaterLevelPlot.
type WaterLevelOptions struct {
	Dir string

	// DangerLevel is the official gauge danger mark in cm, drawn as a
	// dashed horizontal line.
	DangerLevel int

	// Classes is the number of classification levels; it sets the
	// classification axis range.
	Classes int

	Title string
}

// WaterLevelPlot renders the gauge readings and their classification as
// two stacked panels sharing the day axis: the raw water level with the
// danger mark on top, the discretized classification below. Output is
// <dir>/water_level_plot.png.
func WaterLevelPlot(t *floodviz.Table, opts WaterLevelOptions) error {
	for _, col := range []string{floodviz.DayColumn, floodviz.WaterLevelColumn,
		floodviz.ClassificationColumn} {
		if !t.HasColumn(col) {
			return fmt.Errorf("plots: water-level table lacks column %q", col)
		}
	}
	days, err := t.Column(floodviz.DayColumn)
	if err != nil {
		return err
	}
	level, err := t.Floats(floodviz.WaterLevelColumn)
	if err != nil {
		return err
	}
	class, err := t.Floats(floodviz.ClassificationColumn)
	if err != nil {
		return err
	}

	dayStep := 1
	if len(days) > 15 {
		dayStep = 2
	}

	// Top panel: raw gauge readings and the danger mark.
	top, err := plot.New()
	if err != nil {
		return err
	}
	top.Title.Text = opts.Title
	top.Y.Label.Text = "Water Level (cm)"
	top.X.Tick.Marker = labelTicks(days, dayStep)
	top.X.Tick.Label.Rotation = -math.Pi / 4
	top.X.Tick.Label.XAlign = draw.XLeft
	top.X.Tick.Label.YAlign = draw.YTop

	levelLine, err := plotter.NewLine(sliceXYs(level))
	if err != nil {
		return err
	}
	levelLine.Color = color.NRGBA{0, 0, 255, 255}
	top.Add(levelLine)
	top.Legend.Add("Water Level (cm)", levelLine)

	danger := make([]float64, len(level))
	for i := range danger {
		danger[i] = float64(opts.DangerLevel)
	}
	dangerLine, err := plotter.NewLine(sliceXYs(danger))
	if err != nil {
		return err
	}
	dangerLine.Color = color.NRGBA{0, 0, 0, 255}
	dangerLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	top.Add(dangerLine)
	top.Legend.Add(fmt.Sprintf("Danger Level (%d cm)", opts.DangerLevel), dangerLine)
	top.Legend.Top = true

	// Bottom panel: classification on an integer axis.
	bottom, err := plot.New()
	if err != nil {
		return err
	}
	bottom.X.Label.Text = "Date"
	bottom.Y.Label.Text = "Water Level Classification"
	bottom.Y.Min = -1
	bottom.Y.Max = float64(opts.Classes + 1)
	bottom.Y.Tick.Marker = integerTicks{}
	bottom.X.Tick.Marker = labelTicks(days, dayStep)
	bottom.X.Tick.Label.Rotation = -math.Pi / 4
	bottom.X.Tick.Label.XAlign = draw.XLeft
	bottom.X.Tick.Label.YAlign = draw.YTop

	classLine, err := plotter.NewLine(sliceXYs(class))
	if err != nil {
		return err
	}
	classLine.Color = color.NRGBA{255, 0, 0, 255}
	classLine.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	bottom.Add(classLine)
	bottom.Legend.Add("Water Level Classification", classLine)
	bottom.Legend.Top = true

	c := newCanvas(figWidth, figHeight*3/2)
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: 3 * vg.Millimeter}
	top.Draw(tiles.At(c, 0, 0))
	bottom.Draw(tiles.At(c, 0, 1))

	return savePNG(c, filepath.Join(opts.Dir, "water_level_plot.png"))
}

// integerTicks labels every integer value in the axis range.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for v := math.Ceil(min); v <= max; v++ {
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return ticks
}
