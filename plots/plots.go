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

// Package plots renders the static figures derived from aggregated
// simulation output: point and route maps on an OSM basemap, error
// heatmaps, displacement time series with error bands, and the gauge
// water-level chart. Nothing here feeds back into the data model; every
// function rasterizes its inputs to a PNG file.
package plots

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/evacsim/floodviz"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure defaults shared by all plots.
const (
	// FigDPI is the raster resolution of saved figures.
	FigDPI = 300

	// DefaultFont is used for all figure text.
	DefaultFont = "Helvetica"
)

var (
	figWidth  = 10 * vg.Inch
	figHeight = 5 * vg.Inch
)

// KindColors maps a location kind to its marker color.
var KindColors = map[string]color.NRGBA{
	floodviz.KindFloodZone: {0, 0, 255, 255},
	floodviz.KindTown:      {255, 0, 0, 255},
	floodviz.KindCamp:      {0, 128, 0, 255},
	floodviz.KindTemple:    {128, 0, 128, 255},
}

// kindOrder fixes the legend ordering.
var kindOrder = []string{floodviz.KindFloodZone, floodviz.KindTown,
	floodviz.KindCamp, floodviz.KindTemple}

// LocationColor returns the marker color for a location. Locations whose
// name contains "temple" are displayed as temples regardless of their
// registry kind; the informal shelters at temples were surveyed as camps.
func LocationColor(l floodviz.Location) color.NRGBA {
	if floodviz.NameMatchesKind(l.Name, floodviz.KindTemple) {
		return KindColors[floodviz.KindTemple]
	}
	if c, ok := KindColors[l.Kind]; ok {
		return c
	}
	return color.NRGBA{0, 0, 0, 255}
}

// FilePath assembles the output path of a parameterized figure:
// base name, then "_normalized" and "_show_values" when set, then the
// lower-cased subtitle with spaces replaced by underscores.
func FilePath(dir, name string, normalize, showValues bool, subtitle string) string {
	parts := []string{name}
	if normalize {
		parts = append(parts, "normalized")
	}
	if showValues {
		parts = append(parts, "show_values")
	}
	if subtitle != "" {
		parts = append(parts, strings.ReplaceAll(strings.ToLower(subtitle), " ", "_"))
	}
	return filepath.Join(dir, strings.Join(parts, "_")+".png")
}

// DayTickLabels returns the x-axis labels of the simulation period,
// "8 Sep" through "30 Sep".
func DayTickLabels() []string {
	var out []string
	for i := 8; i <= 30; i++ {
		out = append(out, fmt.Sprintf("%d Sep", i))
	}
	return out
}

// makeFont panics on failure; the font names used here are compiled into
// the plotting library.
func makeFont(size vg.Length) vg.Font {
	font, err := vg.MakeFont(DefaultFont, size)
	if err != nil {
		panic(err)
	}
	return font
}

// newCanvas creates a raster canvas of the given size at FigDPI.
func newCanvas(w, h vg.Length) draw.Canvas {
	return draw.New(vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(FigDPI)))
}

// savePNG writes a raster canvas to path.
func savePNG(c draw.Canvas, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plots: creating %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c.Canvas.(*vgimg.Canvas)}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("plots: writing %s: %w", path, err)
	}
	return f.Close()
}

// textStyle builds the default figure text style at the given size.
func textStyle(size vg.Length) draw.TextStyle {
	return draw.TextStyle{Color: color.Black, Font: makeFont(size)}
}

func init() {
	plot.DefaultFont = DefaultFont
}
