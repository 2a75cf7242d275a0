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
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/evacsim/floodviz"
	"github.com/evacsim/floodviz/simconfig"
	"github.com/spf13/viper"
)

// scenarioFile mirrors the TOML scenario parameter file. Field names
// match the command-line flags.
type scenarioFile struct {
	Region            string  `toml:"region"`
	Country           string  `toml:"country"`
	Population        int     `toml:"population"`
	Displacement      int     `toml:"displacement"`
	FractionCamp      float64 `toml:"fraction_camp"`
	FractionStays     float64 `toml:"fraction_stays"`
	FloodDisplacement bool    `toml:"flood_displacement"`
	RegistrationDay   int     `toml:"registration_day"`
}

// scenarioParams assembles the simulation scenario parameters from the
// configuration, overlaying the TOML scenario file (if one is named)
// over the flag values.
func scenarioParams(cfg *viper.Viper) (simconfig.Params, error) {
	p := simconfig.Params{
		Region:                cfg.GetString("region"),
		Country:               cfg.GetString("country"),
		Population:            cfg.GetInt("population"),
		Displacement:          cfg.GetInt("displacement"),
		FractionDisplacedCamp: cfg.GetFloat64("fraction_camp"),
		FractionStaysInCamp:   cfg.GetFloat64("fraction_stays"),
		FloodDisplacement:     cfg.GetBool("flood_displacement"),
		RegistrationDay:       cfg.GetInt("registration_day"),
	}
	path := os.ExpandEnv(cfg.GetString("scenario_file"))
	if path == "" {
		return p, nil
	}
	s := scenarioFile{
		Region:            p.Region,
		Country:           p.Country,
		Population:        p.Population,
		Displacement:      p.Displacement,
		FractionCamp:      p.FractionDisplacedCamp,
		FractionStays:     p.FractionStaysInCamp,
		FloodDisplacement: p.FloodDisplacement,
		RegistrationDay:   p.RegistrationDay,
	}
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return p, fmt.Errorf("floodviz: reading scenario file %s: %v", path, err)
	}
	p.Region = s.Region
	p.Country = s.Country
	p.Population = s.Population
	p.Displacement = s.Displacement
	p.FractionDisplacedCamp = s.FractionCamp
	p.FractionStaysInCamp = s.FractionStays
	p.FloodDisplacement = s.FloodDisplacement
	p.RegistrationDay = s.RegistrationDay
	return p, nil
}

// GenConfigSpec holds the inputs of simulator config generation.
type GenConfigSpec struct {
	Dir    string // configuration directory to write into
	Survey string // raw location survey CSV
	Water  string // gauge-station water-level CSV

	Params    simconfig.Params
	Awareness float64

	// Classification parameters for the raw gauge readings.
	WaterMin, WaterMax, Classes int

	// Snapshot copies the finished directory to <Dir>_copy<i>.
	Snapshot bool
}

// GenConfig derives and writes the full simulator configuration
// directory: the location registry, the flood-level table, the
// flood-awareness demographics, the per-location source data files and
// the data layout.
func GenConfig(spec GenConfigSpec) error {
	survey, err := floodviz.ReadTable(spec.Survey)
	if err != nil {
		return err
	}
	if survey.HasColumn("WKT") {
		if err := floodviz.AppendCoords(survey); err != nil {
			return err
		}
	}
	locs, err := simconfig.LocationTable(survey, spec.Params.Region, spec.Params.Country)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(spec.Dir, "input_csv"), 0755); err != nil {
		return err
	}
	if err := locs.WriteCSV(filepath.Join(spec.Dir, "input_csv", "locations.csv")); err != nil {
		return err
	}
	reg, err := floodviz.RegistryFromTable(locs)
	if err != nil {
		return err
	}

	water, err := floodviz.ReadWaterLevels(spec.Water)
	if err != nil {
		return err
	}
	if !water.HasColumn(floodviz.ClassificationColumn) {
		if err := floodviz.ClassifyTable(water, spec.WaterMin, spec.WaterMax, spec.Classes); err != nil {
			return err
		}
	}
	if err := simconfig.WriteFloodLevel(spec.Dir, water, reg); err != nil {
		return err
	}

	if err := simconfig.WriteFloodAwareness(spec.Dir, reg, []float64{spec.Awareness}); err != nil {
		return err
	}
	if err := simconfig.WriteSourceData(spec.Dir, reg, spec.Params); err != nil {
		return err
	}
	if err := simconfig.WriteDataLayout(spec.Dir, reg); err != nil {
		return err
	}

	if spec.Snapshot {
		snap, err := simconfig.Snapshot(spec.Dir)
		if err != nil {
			return err
		}
		fmt.Printf("Saved settings snapshot to %s.\n", snap)
	}
	fmt.Printf("Wrote configuration for %d locations to %s.\n", reg.Len(), spec.Dir)
	return nil
}
