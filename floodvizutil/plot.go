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

package floodvizutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evacsim/floodviz"
	"github.com/evacsim/floodviz/plots"
)

// MapsSpec holds the inputs of the map figures.
type MapsSpec struct {
	// DataDir is the simulator configuration directory holding
	// input_csv/locations.csv and input_csv/routes.csv.
	DataDir    string
	FigureDir  string
	TileServer string
	Workers    int

	// Boundaries (a country-polygon GeoJSON file) and Townships (an
	// administrative-boundary shapefile) feed the regional context map;
	// it is skipped when they are empty.
	Boundaries  string
	Townships   string
	TownshipRow int
}

// PlotMaps renders the evacuation route map, the labeled location map
// and, when the boundary inputs are given, the regional context map.
func PlotMaps(ctx context.Context, spec MapsSpec) error {
	reg, err := floodviz.ReadLocations(spec.DataDir)
	if err != nil {
		return err
	}
	routes, err := floodviz.ReadRoutes(spec.DataDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(spec.FigureDir, 0755); err != nil {
		return err
	}
	basemap := &plots.Basemap{Server: spec.TileServer, Workers: spec.Workers}
	opts := plots.MapOptions{Dir: spec.FigureDir, Basemap: basemap}
	if err := plots.RouteMap(ctx, reg, floodviz.Edges(reg, routes), opts); err != nil {
		return err
	}
	if err := plots.LocationsMap(ctx, reg, opts); err != nil {
		return err
	}

	if spec.Boundaries == "" && spec.Townships == "" {
		return nil
	}
	if spec.Boundaries == "" || spec.Townships == "" {
		return fmt.Errorf("floodviz: the context map needs both boundaries and townships")
	}
	return plots.ContextMap(ctx, plots.ContextMapOptions{
		Dir:         spec.FigureDir,
		Basemap:     basemap,
		Boundaries:  spec.Boundaries,
		Townships:   spec.Townships,
		TownshipRow: spec.TownshipRow,
	})
}

// ResultsSpec holds the inputs of the aggregated-results figures.
type ResultsSpec struct {
	ResultsDir string
	FigureDir  string
	Scenarios  []string

	// SeriesColumn is the aggregated column plotted over time, one
	// series per scenario.
	SeriesColumn string

	Normalize  bool
	ShowValues bool
	Subtitle   string

	// Camps selects camp panels for the per-location grid; false
	// selects temple panels. Panels zero counts the matching columns
	// of the first scenario.
	Camps  bool
	Panels int
}

// PlotResults renders the error heatmap of each scenario, the
// displacement-over-time comparison across scenarios, and the
// per-camp (or per-temple) panel grid.
func PlotResults(spec ResultsSpec) error {
	if len(spec.Scenarios) == 0 {
		return fmt.Errorf("floodviz: no scenarios to plot")
	}
	if err := os.MkdirAll(spec.FigureDir, 0755); err != nil {
		return err
	}
	dayticks := plots.DayTickLabels()

	tables := make([]*floodviz.Table, len(spec.Scenarios))
	series := make([]plots.Series, len(spec.Scenarios))
	for i, sc := range spec.Scenarios {
		t, err := floodviz.ReadTable(filepath.Join(spec.ResultsDir, sc+".csv"))
		if err != nil {
			return err
		}
		tables[i] = t

		subtitle := spec.Subtitle
		if subtitle == "" && len(spec.Scenarios) > 1 {
			subtitle = sc
		}
		err = plots.ErrorMatrix(t, dayticks, plots.HeatMapOptions{
			Dir:        spec.FigureDir,
			Subtitle:   subtitle,
			Normalize:  spec.Normalize,
			ShowValues: spec.ShowValues,
		})
		if err != nil {
			return err
		}

		mean, err := t.Floats(spec.SeriesColumn)
		if err != nil {
			return err
		}
		std, err := t.Floats(spec.SeriesColumn + floodviz.StdSuffix)
		if err != nil {
			std = nil // no band without a std column
		}
		series[i] = plots.Series{Label: sc, Mean: mean, Std: std}
	}

	err := plots.DisplacementOverTime(series, dayticks, plots.TimeSeriesOptions{
		Dir:       spec.FigureDir,
		Normalize: spec.Normalize,
	})
	if err != nil {
		return err
	}

	panels := spec.Panels
	if panels <= 0 {
		panels = countPanels(tables[0], spec.Camps)
	}
	return plots.CampGrid(tables, spec.Scenarios, dayticks, plots.GridOptions{
		Dir:    spec.FigureDir,
		Panels: panels,
		Camps:  spec.Camps,
	})
}

// countPanels counts consecutive "Camp_<i> sim" (or "Temple_<i> sim")
// columns starting at i=1.
func countPanels(t *floodviz.Table, camps bool) int {
	prefix := "Camp"
	if !camps {
		prefix = "Temple"
	}
	n := 0
	for t.HasColumn(fmt.Sprintf("%s_%d sim", prefix, n+1)) {
		n++
	}
	return n
}

// PlotWater renders the gauge readings, danger level and water level
// classification of the gauge-station table.
func PlotWater(waterPath, figDir string, dangerLevel, waterMin, waterMax, classes int, title string) error {
	water, err := floodviz.ReadWaterLevels(waterPath)
	if err != nil {
		return err
	}
	if !water.HasColumn(floodviz.ClassificationColumn) {
		if err := floodviz.ClassifyTable(water, waterMin, waterMax, classes); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(figDir, 0755); err != nil {
		return err
	}
	return plots.WaterLevelPlot(water, plots.WaterLevelOptions{
		Dir:         figDir,
		DangerLevel: dangerLevel,
		Classes:     classes,
		Title:       title,
	})
}
