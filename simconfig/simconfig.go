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

// Package simconfig derives the input configuration files consumed by the
// external displacement simulator from the location registry, the gauge
// water-level classification series and a small set of scalar parameters.
// Every derivation is a pure function of its inputs; each call overwrites
// the previous output file.
package simconfig

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/evacsim/floodviz"
)

// Simulation period milestones used in the source-data templates.
const (
	StartDate        = "2024-09-08"
	DisplacementDate = "2024-09-14"
	EndDate          = "2024-09-30"
)

// Params are the scalar inputs of the source-data derivation.
type Params struct {
	// Region and Country are stamped on every location row.
	Region  string
	Country string

	// Population is the total population of the flood zones.
	Population int

	// Displacement is the total number of people displaced to camps
	// and temples.
	Displacement int

	// FractionDisplacedCamp is the share of the displaced that go to
	// camps; the remainder goes to temples.
	FractionDisplacedCamp float64

	// FractionStaysInCamp is the share of arrivals still present at the
	// end of the simulation period.
	FractionStaysInCamp float64

	// FloodDisplacement, if true, also seeds the flood-zone locations
	// with outflowing population.
	FloodDisplacement bool

	// RegistrationDay is the September day-of-month on which the
	// displacement total is registered in refugees.csv.
	RegistrationDay int
}

// DefaultParams returns the parameter set of the baseline scenario.
func DefaultParams() Params {
	return Params{
		Region:                "Toungoo",
		Country:               "Myanmar",
		Population:            15567,
		Displacement:          5000,
		FractionDisplacedCamp: 0.93,
		FractionStaysInCamp:   1.0,
		RegistrationDay:       14,
	}
}

// LocationTable builds the simulator-ready location file from a survey
// table holding #name, latitude and longitude columns (run
// floodviz.AppendCoords first if the survey still carries a WKT column).
// The location_type of each row is derived from its name; rows are
// ordered by name; conflict_period and population are left for the
// simulator to fill in.
func LocationTable(survey *floodviz.Table, region, country string) (*floodviz.Table, error) {
	reg, err := floodviz.RegistryFromTable(survey)
	if err != nil {
		return nil, fmt.Errorf("simconfig: building location table: %w", err)
	}
	locs := reg.SortedByName()

	n := len(locs)
	name := make([]string, n)
	regionCol := make([]string, n)
	countryCol := make([]string, n)
	lat := make([]string, n)
	lon := make([]string, n)
	kind := make([]string, n)
	empty := make([]string, n)
	for i, l := range locs {
		name[i] = l.Name
		regionCol[i] = region
		countryCol[i] = country
		lat[i] = strconv.FormatFloat(l.Latitude, 'f', -1, 64)
		lon[i] = strconv.FormatFloat(l.Longitude, 'f', -1, 64)
		kind[i] = floodviz.KindFromName(l.Name)
	}

	out := floodviz.NewTable()
	out.AddColumn("#name", name)
	out.AddColumn("region", regionCol)
	out.AddColumn("country", countryCol)
	out.AddColumn("latitude", lat)
	out.AddColumn("longitude", lon)
	out.AddColumn("location_type", kind)
	out.AddColumn("conflict_period", empty)
	out.AddColumn("population", empty)
	return out, nil
}

// AdjustFloodLevel derives the effective classification level at a
// location from the river-gauge level. Temples sit on high ground and are
// never flooded; camps are placed two classification levels above the
// river and towns one; everything else takes the gauge level directly.
func AdjustFloodLevel(name string, level int) int {
	switch {
	case floodviz.NameMatchesKind(name, floodviz.KindTemple):
		return 0
	case floodviz.NameMatchesKind(name, floodviz.KindCamp):
		return max(0, level-2)
	case floodviz.NameMatchesKind(name, floodviz.KindTown):
		return max(0, level-1)
	default:
		return level
	}
}

// FloodLevelTable builds the per-location flood-level table from the
// daily classification series. The #Day column counts days from zero;
// each location column holds its adjusted level series.
func FloodLevelTable(reg *floodviz.Registry, levels []int) *floodviz.Table {
	out := floodviz.NewTable()
	days := make([]string, len(levels))
	for i := range levels {
		days[i] = strconv.Itoa(i)
	}
	out.AddColumn("#Day", days)
	for _, name := range reg.Names() {
		col := make([]string, len(levels))
		for i, v := range levels {
			col[i] = strconv.Itoa(AdjustFloodLevel(name, v))
		}
		out.AddColumn(name, col)
	}
	return out
}

// WriteFloodLevel derives the flood-level table from a classified
// water-level table and writes it to <dir>/input_csv/flood_level.csv.
func WriteFloodLevel(dir string, water *floodviz.Table, reg *floodviz.Registry) error {
	if !water.HasColumn(floodviz.DateColumn) {
		return fmt.Errorf("simconfig: water-level table lacks %q column", floodviz.DateColumn)
	}
	levels, err := floodviz.Classifications(water)
	if err != nil {
		return fmt.Errorf("simconfig: water-level table: %w", err)
	}
	t := FloodLevelTable(reg, levels)
	if err := os.MkdirAll(filepath.Join(dir, "input_csv"), 0755); err != nil {
		return err
	}
	return t.WriteCSV(filepath.Join(dir, "input_csv", "flood_level.csv"))
}

// FloodAwarenessTable builds the demographics table that assigns every
// location the same awareness distribution.
func FloodAwarenessTable(reg *floodviz.Registry, awareness []float64) *floodviz.Table {
	col := make([]string, len(awareness))
	for i, v := range awareness {
		col[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	out := floodviz.NewTable()
	out.AddColumn("floodawareness", col)
	for _, name := range reg.Names() {
		c := make([]string, len(col))
		copy(c, col)
		out.AddColumn(name, c)
	}
	return out
}

// WriteFloodAwareness writes the awareness table to
// <dir>/input_csv/demographics_floodawareness.csv.
func WriteFloodAwareness(dir string, reg *floodviz.Registry, awareness []float64) error {
	t := FloodAwarenessTable(reg, awareness)
	if err := os.MkdirAll(filepath.Join(dir, "input_csv"), 0755); err != nil {
		return err
	}
	return t.WriteCSV(filepath.Join(dir, "input_csv", "demographics_floodawareness.csv"))
}

// A Split is the per-location displacement allotment derived from the
// scenario totals.
type Split struct {
	// Camp and Temple are the arrivals per camp and per temple location.
	Camp   int
	Temple int
	// FloodZonePopulation is the initial population per flood zone.
	FloodZonePopulation int
}

// SplitDisplacement divides the scenario totals evenly over the camp,
// temple and flood-zone locations of the registry, truncating toward
// zero. A registry without any location of one of those kinds panics;
// the registry is a precondition here, not user input.
func SplitDisplacement(reg *floodviz.Registry, p Params) Split {
	nCamps := len(reg.OfKind(floodviz.KindCamp))
	nTemples := len(reg.OfKind(floodviz.KindTemple))
	nZones := len(reg.OfKind(floodviz.KindFloodZone))
	if nCamps == 0 || nTemples == 0 || nZones == 0 {
		panic(fmt.Sprintf("simconfig: splitting displacement over %d camps, %d temples, %d flood zones",
			nCamps, nTemples, nZones))
	}

	s := Split{
		Camp:                int(float64(p.Displacement) * p.FractionDisplacedCamp / float64(nCamps)),
		Temple:              int(float64(p.Displacement) * (1 - p.FractionDisplacedCamp) / float64(nTemples)),
		FloodZonePopulation: p.Population / nZones,
	}
	log.Printf("displacement to camps: %d, floodzone population: %d", s.Camp, s.FloodZonePopulation)
	return s
}

// sourceDataTemplate builds the three-milestone displacement series for
// one location.
func sourceDataTemplate(name string, s Split, p Params) *floodviz.Table {
	d0, d1, d2 := 0, 0, 0
	switch {
	case floodviz.NameMatchesKind(name, floodviz.KindCamp):
		d1 = s.Camp
		d2 = int(float64(s.Camp) * p.FractionStaysInCamp)
	case floodviz.NameMatchesKind(name, floodviz.KindTemple):
		d1 = s.Temple
		d2 = int(float64(s.Temple) * p.FractionStaysInCamp)
	case floodviz.NameMatchesKind(name, floodviz.KindFloodZone) && p.FloodDisplacement:
		d0 = s.FloodZonePopulation
		d1 = int(float64(s.FloodZonePopulation) * 0.4)
		d2 = int(float64(s.FloodZonePopulation) * 0.1)
	}

	t := floodviz.NewTable()
	t.AddColumn("#Day", []string{StartDate, DisplacementDate, EndDate})
	t.AddColumn("Displacement", []string{
		strconv.Itoa(d0), strconv.Itoa(d1), strconv.Itoa(d2),
	})
	return t
}

// WriteSourceData writes one headerless <dir>/source_data/<name>.csv
// displacement series per registry location, plus the refugees.csv
// registration file.
func WriteSourceData(dir string, reg *floodviz.Registry, p Params) error {
	if err := os.MkdirAll(filepath.Join(dir, "source_data"), 0755); err != nil {
		return err
	}
	s := SplitDisplacement(reg, p)
	for _, name := range reg.Names() {
		t := sourceDataTemplate(name, s, p)
		path := filepath.Join(dir, "source_data", name+".csv")
		if err := t.WriteCSVNoHeader(path); err != nil {
			return err
		}
	}
	return writeRefugees(dir, p.RegistrationDay, p.Displacement)
}

// writeRefugees writes the single-row registration file the simulator
// validates arrivals against.
func writeRefugees(dir string, day, refugees int) error {
	t := floodviz.NewTable()
	t.AddColumn("Date", []string{fmt.Sprintf("2024-09-%02d", day)})
	t.AddColumn("Refugee_numbers", []string{strconv.Itoa(refugees)})
	return t.WriteCSV(filepath.Join(dir, "source_data", "refugees.csv"))
}

// WriteDataLayout writes <dir>/source_data/data_layout.csv, mapping each
// location to its source-data file.
func WriteDataLayout(dir string, reg *floodviz.Registry) error {
	names := reg.Names()
	files := make([]string, len(names))
	for i, name := range names {
		files[i] = name + ".csv"
	}
	t := floodviz.NewTable()
	t.AddColumn("total", names)
	t.AddColumn("refugees.csv", files)
	if err := os.MkdirAll(filepath.Join(dir, "source_data"), 0755); err != nil {
		return err
	}
	return t.WriteCSV(filepath.Join(dir, "source_data", "data_layout.csv"))
}
