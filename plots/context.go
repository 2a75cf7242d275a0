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
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ContextMapOptions configures the two-panel regional context figure.
type ContextMapOptions struct {
	// Dir is the directory the figure is written into.
	Dir string

	// Basemap supplies the background tiles of the township panel. Nil
	// or a Basemap with an empty Server renders on a plain background.
	Basemap *Basemap

	// Width is the figure width; zero means 10 inches.
	Width vg.Length

	// Boundaries is a GeoJSON feature collection of country polygons
	// for the regional panel.
	Boundaries string

	// Townships is an administrative-boundary polygon shapefile; the
	// row at TownshipRow is outlined in the detail panel. Zero selects
	// the Taungoo row of the Myanmar MIMU admin-3 file.
	Townships   string
	TownshipRow int

	// Center is marked on both panels and carries Label next to it.
	// The zero point means the Taungoo town center.
	Center geom.Point
	Label  string

	// RegionBounds is the lon/lat window of the regional panel. The
	// zero bounds mean Myanmar and its neighbors.
	RegionBounds geom.Bounds
}

func (o ContextMapOptions) width() vg.Length {
	if o.Width > 0 {
		return o.Width
	}
	return figWidth
}

func (o ContextMapOptions) townshipRow() int {
	if o.TownshipRow > 0 {
		return o.TownshipRow
	}
	return 54
}

func (o ContextMapOptions) center() geom.Point {
	if o.Center != (geom.Point{}) {
		return o.Center
	}
	return geom.Point{X: 96.4302635, Y: 18.9436415}
}

func (o ContextMapOptions) label() string {
	if o.Label != "" {
		return o.Label
	}
	return "Taungoo"
}

func (o ContextMapOptions) regionBounds() geom.Bounds {
	if o.RegionBounds != (geom.Bounds{}) {
		return o.RegionBounds
	}
	return geom.Bounds{
		Min: geom.Point{X: 88, Y: 6},
		Max: geom.Point{X: 102, Y: 30},
	}
}

// ContextMap renders the regional context figure: a lon/lat panel of the
// surrounding countries with the study country highlighted, next to a
// basemap detail panel outlining the study township. Output is
// <dir>/context_map.png.
func ContextMap(ctx context.Context, opts ContextMapOptions) error {
	countries, err := readBoundaries(opts.Boundaries)
	if err != nil {
		return fmt.Errorf("plots: reading country boundaries: %w", err)
	}
	township, err := readTownship(opts.Townships, opts.townshipRow())
	if err != nil {
		return fmt.Errorf("plots: reading townships: %w", err)
	}

	width := opts.width()
	titleStrip := 0.5 * vg.Inch
	height := vg.Length(float64(width) * 0.66)
	c := newCanvas(width, height+titleStrip)
	fillBackground(c)

	figArea := draw.Crop(c, 0, 0, 0, -titleStrip)
	tiles := draw.Tiles{
		Rows: 1, Cols: 2,
		PadX: vg.Points(10), PadLeft: vg.Points(4), PadRight: vg.Points(4),
		PadTop: vg.Points(4), PadBottom: vg.Points(4),
	}
	if err := drawRegionPanel(tiles.At(figArea, 0, 0), countries, opts); err != nil {
		return err
	}
	if err := drawTownshipPanel(ctx, tiles.At(figArea, 1, 0), township, opts); err != nil {
		return err
	}

	ts := textStyle(vg.Points(14))
	ts.XAlign = -0.5
	ts.YAlign = -0.5
	c.FillText(ts, vg.Point{
		X: (c.Min.X + c.Max.X) / 2,
		Y: c.Max.Y - titleStrip/2,
	}, "Myanmar Regional Context and Taungoo Township Detail")

	return savePNG(c, filepath.Join(opts.Dir, "context_map.png"))
}

// drawRegionPanel draws the country polygons in plain lon/lat
// coordinates, the highlighted country in blue over the gray neighbors.
func drawRegionPanel(dc draw.Canvas, countries []boundaryFeature, opts ContextMapOptions) error {
	rb := opts.regionBounds()
	m := carto.NewCanvas(rb.Max.Y, rb.Min.Y, rb.Max.X, rb.Min.X, dc)

	for _, f := range countries {
		fill := color.NRGBA{211, 211, 211, 255}
		edge := draw.LineStyle{Color: color.NRGBA{0, 0, 0, 255}, Width: vg.Points(0.5)}
		if highlightCountry(f.name) {
			fill = color.NRGBA{173, 216, 230, 255}
			edge.Width = vg.Points(1)
		}
		if err := m.DrawVector(f.geom, fill, edge, draw.GlyphStyle{}); err != nil {
			return err
		}
	}

	drawCenterMark(m, opts.center(), opts.label(), 4*vg.Points(1))
	drawDegreeScaleBar(m, rb, 200, false)
	return nil
}

// drawTownshipPanel outlines the township over basemap tiles in web
// mercator. The lon/lat window is the township bounds buffered 0.05
// degrees sideways and 0.25 degrees vertically.
func drawTownshipPanel(ctx context.Context, dc draw.Canvas, township geom.Geom, opts ContextMapOptions) error {
	tr, err := webMercator()
	if err != nil {
		return err
	}

	tb := township.Bounds()
	lo, err := geom.Point{X: tb.Min.X - 0.05, Y: tb.Min.Y - 0.25}.Transform(tr)
	if err != nil {
		return err
	}
	hi, err := geom.Point{X: tb.Max.X + 0.05, Y: tb.Max.Y + 0.25}.Transform(tr)
	if err != nil {
		return err
	}
	bounds := geom.Bounds{Min: lo.(geom.Point), Max: hi.(geom.Point)}

	img, imgBounds, err := opts.Basemap.Image(ctx, bounds, 1024)
	if err != nil {
		return err
	}
	if img != nil {
		bounds = imgBounds
	}

	m := carto.NewCanvas(bounds.Max.Y, bounds.Min.Y, bounds.Max.X, bounds.Min.X, dc)
	if img != nil {
		m.DrawImage(vg.Rectangle{
			Min: m.Coordinates(bounds.Min),
			Max: m.Coordinates(bounds.Max),
		}, img)
	}

	tm, err := township.Transform(tr)
	if err != nil {
		return fmt.Errorf("plots: projecting township: %v", err)
	}
	outline := draw.LineStyle{Color: color.NRGBA{0, 0, 0, 210}, Width: vg.Points(2)}
	// Transparent fill keeps the tiles visible inside the outline.
	if err := m.DrawVector(tm, color.NRGBA{}, outline, draw.GlyphStyle{}); err != nil {
		return err
	}

	center, err := opts.center().Transform(tr)
	if err != nil {
		return err
	}
	drawCenterMark(m, center.(geom.Point), opts.label(), 5*vg.Points(1))
	drawScaleBar(m, bounds)
	return nil
}

// boundaryFeature is one named country polygon of the boundaries file.
type boundaryFeature struct {
	name string
	geom geom.Geom
}

// nameKeys are the property keys country names hide under across the
// common administrative-boundary exports.
var nameKeys = []string{"name", "NAME", "country", "COUNTRY", "NAME_EN", "admin"}

// readBoundaries decodes a GeoJSON feature collection of country
// polygons. Features without geometry are skipped.
func readBoundaries(path string) ([]boundaryFeature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fc struct {
		Features []struct {
			Geometry   *geojson.Geometry      `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return nil, err
	}

	out := make([]boundaryFeature, 0, len(fc.Features))
	for _, ft := range fc.Features {
		if ft.Geometry == nil {
			continue
		}
		g, err := geojson.FromGeoJSON(ft.Geometry)
		if err != nil {
			return nil, err
		}
		var name string
		for _, k := range nameKeys {
			if v, ok := ft.Properties[k].(string); ok {
				name = v
				break
			}
		}
		out = append(out, boundaryFeature{name: name, geom: g})
	}
	return out, nil
}

func highlightCountry(name string) bool {
	l := strings.ToLower(name)
	return strings.Contains(l, "myanmar") || strings.Contains(l, "burma")
}

// readTownship returns the geometry of the given shapefile row.
func readTownship(path string, row int) (geom.Geom, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	for i := 0; ; i++ {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		if i == row {
			return g, nil
		}
	}
	if err := d.Error(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("plots: %s has no row %d", path, row)
}

// drawCenterMark draws a red marker with a bold label up and to the
// right of it.
func drawCenterMark(m *carto.Canvas, p geom.Point, label string, r vg.Length) {
	g := draw.GlyphStyle{
		Color:  color.NRGBA{255, 0, 0, 255},
		Radius: r,
		Shape:  draw.CircleGlyph{},
	}
	pos := m.Coordinates(p)
	m.DrawGlyph(g, pos)

	font, err := vg.MakeFont("Helvetica-Bold", vg.Points(10))
	if err != nil {
		panic(err)
	}
	ts := draw.TextStyle{Color: color.NRGBA{0, 0, 0, 255}, Font: font}
	m.FillText(ts, vg.Point{X: pos.X + 6*vg.Points(1), Y: pos.Y + 6*vg.Points(1)}, label)
}

// drawDegreeScaleBar draws a fixed-length scale bar on a lon/lat map,
// taking one degree of latitude as 111 km.
func drawDegreeScaleBar(m *carto.Canvas, bounds geom.Bounds, km float64, lowerRight bool) {
	length := km / 111
	x0 := bounds.Min.X + (bounds.Max.X-bounds.Min.X)*0.05
	if lowerRight {
		x0 = bounds.Max.X - (bounds.Max.X-bounds.Min.X)*0.3
	}
	y0 := bounds.Min.Y + (bounds.Max.Y-bounds.Min.Y)*0.1
	p0 := m.Coordinates(geom.Point{X: x0, Y: y0})
	p1 := m.Coordinates(geom.Point{X: x0 + length, Y: y0})

	m.Push()
	m.SetColor(color.NRGBA{0, 0, 0, 255})
	m.SetLineWidth(vg.Points(1.5))
	var bar vg.Path
	bar.Move(p0)
	bar.Line(p1)
	m.Stroke(bar)
	capLen := 3 * vg.Points(1)
	for _, p := range []vg.Point{p0, p1} {
		var tick vg.Path
		tick.Move(vg.Point{X: p.X, Y: p.Y - capLen})
		tick.Line(vg.Point{X: p.X, Y: p.Y + capLen})
		m.Stroke(tick)
	}
	m.Pop()

	ts := textStyle(vg.Points(8))
	ts.XAlign = -0.5
	ts.YAlign = 0.2
	m.FillText(ts, vg.Point{X: (p0.X + p1.X) / 2, Y: p0.Y + 4*vg.Points(1)},
		fmt.Sprintf("%.0f km", km))
}
