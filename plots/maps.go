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
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"github.com/evacsim/floodviz"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// MapOptions configures the map figures.
type MapOptions struct {
	// Dir is the directory figures are written into.
	Dir string

	// Basemap supplies the background tiles. Nil or a Basemap with an
	// empty Server renders on a plain background.
	Basemap *Basemap

	// Width is the figure width; zero means 10 inches.
	Width vg.Length
}

func (o MapOptions) width() vg.Length {
	if o.Width > 0 {
		return o.Width
	}
	return figWidth
}

// RouteMap renders the evacuation route network on a basemap: edges as
// black lines, locations as kind-colored points, with a legend, scale bar
// and title. Output is <dir>/route_plot.png.
func RouteMap(ctx context.Context, reg *floodviz.Registry, edges []floodviz.Edge, opts MapOptions) error {
	return renderMap(ctx, reg, edges, false,
		"Fleeing Routes around the Sittaung River, Taungoo Township Myanmar",
		filepath.Join(opts.Dir, "route_plot.png"), opts)
}

// LocationsMap renders the registry locations with name labels on a
// basemap. Output is <dir>/locations_map.png.
func LocationsMap(ctx context.Context, reg *floodviz.Registry, opts MapOptions) error {
	return renderMap(ctx, reg, nil, true,
		"Locations around the Sittaung River, Taungoo Township Myanmar",
		filepath.Join(opts.Dir, "locations_map.png"), opts)
}

func renderMap(ctx context.Context, reg *floodviz.Registry, edges []floodviz.Edge,
	labels bool, title, path string, opts MapOptions) error {

	tr, err := webMercator()
	if err != nil {
		return err
	}

	locs := reg.Locations()
	if len(locs) == 0 {
		return fmt.Errorf("plots: registry is empty")
	}
	pts := make([]geom.Point, len(locs))
	for i, l := range locs {
		g, err := l.Point().Transform(tr)
		if err != nil {
			return fmt.Errorf("plots: projecting %s: %v", l.Name, err)
		}
		pts[i] = g.(geom.Point)
	}
	lines := make([]geom.LineString, len(edges))
	for i, e := range edges {
		g, err := e.Line.Transform(tr)
		if err != nil {
			return fmt.Errorf("plots: projecting route %s-%s: %v", e.From, e.To, err)
		}
		lines[i] = g.(geom.LineString)
	}

	bounds := pointBounds(pts)
	bounds = padBounds(bounds, 0.25)

	img, imgBounds, err := opts.Basemap.Image(ctx, bounds, 1024)
	if err != nil {
		return err
	}
	if img != nil {
		bounds = imgBounds
	}

	width := opts.width()
	aspect := (bounds.Max.Y - bounds.Min.Y) / (bounds.Max.X - bounds.Min.X)
	mapHeight := vg.Length(float64(width) * aspect)
	titleStrip := 0.5 * vg.Inch
	c := newCanvas(width, mapHeight+titleStrip)

	fillBackground(c)

	mapArea := draw.Crop(c, 0, 0, 0, -titleStrip)
	m := carto.NewCanvas(bounds.Max.Y, bounds.Min.Y, bounds.Max.X, bounds.Min.X, mapArea)
	if img != nil {
		m.DrawImage(vg.Rectangle{
			Min: m.Coordinates(bounds.Min),
			Max: m.Coordinates(bounds.Max),
		}, img)
	}

	edgeStyle := draw.LineStyle{Color: color.NRGBA{0, 0, 0, 255}, Width: vg.Points(1)}
	for _, l := range lines {
		if err := m.DrawVector(l, color.NRGBA{}, edgeStyle, draw.GlyphStyle{}); err != nil {
			return err
		}
	}

	marker := draw.GlyphStyle{Radius: 3 * vg.Points(1), Shape: draw.CircleGlyph{}}
	for i, l := range locs {
		fill := LocationColor(l)
		marker.Color = fill
		if err := m.DrawVector(pts[i], fill, draw.LineStyle{}, marker); err != nil {
			return err
		}
	}

	if labels {
		drawLabels(m, locs, pts)
	}
	drawKindLegend(m, reg)
	drawScaleBar(m, bounds)

	ts := textStyle(vg.Points(14))
	ts.XAlign = -0.5
	ts.YAlign = -0.5
	c.FillText(ts, vg.Point{
		X: (c.Min.X + c.Max.X) / 2,
		Y: c.Max.Y - titleStrip/2,
	}, title)

	return savePNG(c, path)
}

// fillBackground paints the canvas white so figures without a basemap
// stay readable.
func fillBackground(c draw.Canvas) {
	c.SetColor(color.White)
	var bg vg.Path
	bg.Move(vg.Point{X: c.Min.X, Y: c.Min.Y})
	bg.Line(vg.Point{X: c.Max.X, Y: c.Min.Y})
	bg.Line(vg.Point{X: c.Max.X, Y: c.Max.Y})
	bg.Line(vg.Point{X: c.Min.X, Y: c.Max.Y})
	bg.Close()
	c.Fill(bg)
}

func pointBounds(pts []geom.Point) geom.Bounds {
	b := geom.Bounds{
		Min: geom.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: geom.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range pts {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

func padBounds(b geom.Bounds, frac float64) geom.Bounds {
	dx := (b.Max.X - b.Min.X) * frac
	dy := (b.Max.Y - b.Min.Y) * frac
	// Degenerate extents (a single location) still get a visible window.
	if dx == 0 {
		dx = 500
	}
	if dy == 0 {
		dy = 500
	}
	return geom.Bounds{
		Min: geom.Point{X: b.Min.X - dx, Y: b.Min.Y - dy},
		Max: geom.Point{X: b.Max.X + dx, Y: b.Max.Y + dy},
	}
}

// drawLabels writes each location name next to its marker, nudged
// alternately above and below so neighboring labels collide less. The
// white text is stroked with a dark halo to stay readable on any tile.
func drawLabels(m *carto.Canvas, locs []floodviz.Location, pts []geom.Point) {
	font, err := vg.MakeFont("Helvetica-Bold", vg.Points(8))
	if err != nil {
		panic(err)
	}
	halo := draw.TextStyle{Color: color.NRGBA{0, 0, 0, 255}, Font: font, XAlign: -0.5, YAlign: -0.5}
	face := draw.TextStyle{Color: color.NRGBA{255, 255, 255, 255}, Font: font, XAlign: -0.5, YAlign: -0.5}

	for i, l := range locs {
		p := m.Coordinates(pts[i])
		nudge := 9 * vg.Points(1)
		if i%2 == 1 {
			nudge = -nudge
		}
		p.Y += nudge
		d := 0.6 * vg.Points(1)
		for _, off := range []vg.Point{{X: -d}, {X: d}, {Y: -d}, {Y: d}} {
			m.FillText(halo, vg.Point{X: p.X + off.X, Y: p.Y + off.Y}, l.Name)
		}
		m.FillText(face, p, l.Name)
	}
}

// drawKindLegend draws a marker-and-label row per location kind in the
// top-right corner, with the number of locations of that kind.
func drawKindLegend(m *carto.Canvas, reg *floodviz.Registry) {
	counts := make(map[string]int)
	for _, l := range reg.Locations() {
		if floodviz.NameMatchesKind(l.Name, floodviz.KindTemple) {
			counts[floodviz.KindTemple]++
			continue
		}
		counts[l.Kind]++
	}

	ts := textStyle(vg.Points(9))
	ts.XAlign = 0
	ts.YAlign = -0.5

	rowH := 14 * vg.Points(1)
	boxW := 1.7 * vg.Inch
	boxH := rowH*vg.Length(len(kindOrder)+1) + 6*vg.Points(1)
	right := m.Max.X - 4*vg.Points(1)
	top := m.Max.Y - 4*vg.Points(1)

	// Legend background.
	m.Push()
	m.SetColor(color.NRGBA{255, 255, 255, 230})
	var box vg.Path
	box.Move(vg.Point{X: right - boxW, Y: top - boxH})
	box.Line(vg.Point{X: right, Y: top - boxH})
	box.Line(vg.Point{X: right, Y: top})
	box.Line(vg.Point{X: right - boxW, Y: top})
	box.Close()
	m.Fill(box)
	m.Pop()

	titleTS := ts
	titleTS.Font, _ = vg.MakeFont("Helvetica-Bold", vg.Points(9))
	m.FillText(titleTS, vg.Point{X: right - boxW + 6*vg.Points(1), Y: top - rowH/2 - 3*vg.Points(1)},
		"Location Type")

	g := draw.GlyphStyle{Radius: 3.5 * vg.Points(1), Shape: draw.CircleGlyph{}}
	for i, kind := range kindOrder {
		y := top - rowH*vg.Length(i+1) - rowH/2 - 3*vg.Points(1)
		g.Color = KindColors[kind]
		m.DrawGlyph(g, vg.Point{X: right - boxW + 10*vg.Points(1), Y: y})
		m.FillText(ts, vg.Point{X: right - boxW + 18*vg.Points(1), Y: y},
			fmt.Sprintf("%s (%d)", kind, counts[kind]))
	}
}

// drawScaleBar draws a ground-distance scale bar in the bottom-left
// corner. Web mercator inflates distances by 1/cos(latitude), so the bar
// length is corrected at the map's central latitude.
func drawScaleBar(m *carto.Canvas, bounds geom.Bounds) {
	midY := (bounds.Min.Y + bounds.Max.Y) / 2
	lat := 2*math.Atan(math.Exp(midY/6378137)) - math.Pi/2
	metersPerMapUnit := math.Cos(lat)

	// Aim for a bar about a fifth of the map width, rounded to a
	// 1-2-5 step.
	target := (bounds.Max.X - bounds.Min.X) * metersPerMapUnit / 5
	barMeters := roundToStep(target)
	barMapUnits := barMeters / metersPerMapUnit

	x0 := bounds.Min.X + (bounds.Max.X-bounds.Min.X)*0.05
	y0 := bounds.Min.Y + (bounds.Max.Y-bounds.Min.Y)*0.05
	p0 := m.Coordinates(geom.Point{X: x0, Y: y0})
	p1 := m.Coordinates(geom.Point{X: x0 + barMapUnits, Y: y0})

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

	label := fmt.Sprintf("%.0f m", barMeters)
	if barMeters >= 1000 {
		label = fmt.Sprintf("%.0f km", barMeters/1000)
	}
	ts := textStyle(vg.Points(8))
	ts.XAlign = -0.5
	ts.YAlign = 0.2
	m.FillText(ts, vg.Point{X: (p0.X + p1.X) / 2, Y: p0.Y + 4*vg.Points(1)}, label)
}

// roundToStep rounds down to the nearest 1-2-5 step.
func roundToStep(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	switch {
	case v >= 5*mag:
		return 5 * mag
	case v >= 2*mag:
		return 2 * mag
	default:
		return mag
	}
}
