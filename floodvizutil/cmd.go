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

// Package floodvizutil holds the command-line interface of FloodViz.
package floodvizutil

import (
	"fmt"
	"os"

	"github.com/evacsim/floodviz"
	"github.com/evacsim/floodviz/plots"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to FloodViz.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "results_dir",
			usage: `
              results_dir is the directory holding the per-run simulation
              output files (<scenario>_<i>.csv) and, after aggregation,
              the combined <scenario>.csv files.`,
			defaultVal: "simulation_results",
			flagsets:   []*pflag.FlagSet{statsCmd.Flags(), plotResultsCmd.Flags()},
		},
		{
			name: "runs",
			usage: `
              runs is the number of simulation runs per scenario
              to aggregate.`,
			shorthand:  "n",
			defaultVal: floodviz.DefaultRuns,
			flagsets:   []*pflag.FlagSet{statsCmd.Flags()},
		},
		{
			name: "decimals",
			usage: `
              decimals is the number of decimal places the aggregated
              means and standard deviations are rounded to.`,
			defaultVal: floodviz.DefaultDecimals,
			flagsets:   []*pflag.FlagSet{statsCmd.Flags()},
		},
		{
			name: "scenarios",
			usage: `
              scenarios lists the scenario names to process; each scenario
              <s> reads run files <results_dir>/<s>_<i>.csv.`,
			defaultVal: floodviz.Scenarios,
			flagsets:   []*pflag.FlagSet{statsCmd.Flags(), plotResultsCmd.Flags()},
		},
		{
			name: "config_dir",
			usage: `
              config_dir is the simulator configuration directory that
              genconfig writes input_csv/ and source_data/ into.`,
			defaultVal: "config_files",
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "survey",
			usage: `
              survey is the raw location survey CSV, with a #name column
              and either latitude/longitude columns or a WKT point column.`,
			defaultVal: "locations.csv",
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "water",
			usage: `
              water is the gauge-station water-level CSV.`,
			defaultVal: "water_levels.csv",
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags(), plotWaterCmd.Flags()},
		},
		{
			name: "scenario_file",
			usage: `
              scenario_file is an optional TOML file holding the scenario
              parameters (displacement, population, fractions); values in
              it override the corresponding command-line flags.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "displacement",
			usage: `
              displacement is the total number of displaced people
              distributed over camps and temples.`,
			defaultVal: 5000,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "population",
			usage: `
              population is the total flood-zone population, used when
              flood_displacement is enabled.`,
			defaultVal: 15567,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "fraction_camp",
			usage: `
              fraction_camp is the share of the displaced that go to camps;
              the remainder goes to temples.`,
			defaultVal: 0.93,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "fraction_stays",
			usage: `
              fraction_stays is the share of camp arrivals still present at
              the end of the simulation period.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "flood_displacement",
			usage: `
              flood_displacement also seeds the flood-zone locations with
              outflowing population.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "registration_day",
			usage: `
              registration_day is the September day-of-month on which the
              displacement total is registered in refugees.csv.`,
			defaultVal: 14,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "region",
			usage: `
              region is stamped on every location row.`,
			defaultVal: "Toungoo",
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "country",
			usage: `
              country is stamped on every location row.`,
			defaultVal: "Myanmar",
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "awareness",
			usage: `
              awareness is the flood-awareness fraction assigned to every
              location in demographics_floodawareness.csv.`,
			defaultVal: 0.3,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "water_min",
			usage: `
              water_min is the gauge reading (cm) below which the water
              level classification is 0.`,
			defaultVal: 600,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags(), plotWaterCmd.Flags()},
		},
		{
			name: "water_max",
			usage: `
              water_max is the gauge reading (cm) classified as the highest
              class.`,
			defaultVal: 900,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags(), plotWaterCmd.Flags()},
		},
		{
			name: "classes",
			usage: `
              classes is the number of water level classification classes.`,
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags(), plotWaterCmd.Flags()},
		},
		{
			name: "snapshot",
			usage: `
              snapshot copies the finished configuration directory to the
              first free sibling <config_dir>_copy<i>.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{genconfigCmd.Flags()},
		},
		{
			name: "figure_dir",
			usage: `
              figure_dir is the directory figures are written into.`,
			defaultVal: "figures",
			flagsets:   []*pflag.FlagSet{plotCmd.PersistentFlags()},
		},
		{
			name: "data_dir",
			usage: `
              data_dir is the simulator configuration directory holding
              input_csv/locations.csv and input_csv/routes.csv.`,
			defaultVal: "config_files",
			flagsets:   []*pflag.FlagSet{plotMapsCmd.Flags()},
		},
		{
			name: "tile_server",
			usage: `
              tile_server is the basemap tile URL template with {z}, {x}
              and {y} placeholders. An empty string renders figures on a
              plain background without network access.`,
			defaultVal: plots.DefaultTileServer,
			flagsets:   []*pflag.FlagSet{plotMapsCmd.Flags()},
		},
		{
			name: "boundaries",
			usage: `
              boundaries is a GeoJSON feature collection of country
              polygons for the regional context map. The context map is
              skipped when boundaries and townships are empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotMapsCmd.Flags()},
		},
		{
			name: "townships",
			usage: `
              townships is an administrative-boundary polygon shapefile;
              the row at township_row is outlined in the context map's
              detail panel.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotMapsCmd.Flags()},
		},
		{
			name: "township_row",
			usage: `
              township_row is the shapefile row of the detail township.
              Zero selects the Taungoo row of the Myanmar MIMU admin-3
              file.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{plotMapsCmd.Flags()},
		},
		{
			name: "normalize",
			usage: `
              normalize scales the heatmap by its global maximum and each
              displacement series by its own maximum.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{plotResultsCmd.Flags()},
		},
		{
			name: "show_values",
			usage: `
              show_values prints each heatmap cell's value at two decimals.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{plotResultsCmd.Flags()},
		},
		{
			name: "subtitle",
			usage: `
              subtitle is appended to the heatmap title and, lower-cased
              with spaces replaced by underscores, to its file name.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotResultsCmd.Flags()},
		},
		{
			name: "series_column",
			usage: `
              series_column is the aggregated column plotted in the
              displacement-over-time figure.`,
			defaultVal: "refugees in camps (simulation)",
			flagsets:   []*pflag.FlagSet{plotResultsCmd.Flags()},
		},
		{
			name: "camps",
			usage: `
              camps selects camp panels for the per-location grid; false
              selects temple panels.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{plotResultsCmd.Flags()},
		},
		{
			name: "panels",
			usage: `
              panels is the number of camp (or temple) panels in the grid
              figure. Zero counts the Camp_<i> sim (or Temple_<i> sim)
              columns of the first scenario.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{plotResultsCmd.Flags()},
		},
		{
			name: "danger_level",
			usage: `
              danger_level is the official gauge danger mark in cm.`,
			defaultVal: 600,
			flagsets:   []*pflag.FlagSet{plotWaterCmd.Flags()},
		},
		{
			name: "title",
			usage: `
              title is the water level figure title.`,
			defaultVal: "Water Level of the Sittaung River at Taungoo",
			flagsets:   []*pflag.FlagSet{plotWaterCmd.Flags()},
		},
		{
			name: "start",
			usage: `
              start is the first forecast date to download (YYYY-MM-DD).`,
			defaultVal: "2024-09-08",
			flagsets:   []*pflag.FlagSet{downloadCmd.Flags()},
		},
		{
			name: "end",
			usage: `
              end is the last forecast date to download (YYYY-MM-DD),
              inclusive.`,
			defaultVal: "2024-09-30",
			flagsets:   []*pflag.FlagSet{downloadCmd.Flags()},
		},
		{
			name: "pages",
			usage: `
              pages lists the forecast bulletin page numbers to download
              for each date.`,
			defaultVal: []int{1, 2},
			flagsets:   []*pflag.FlagSet{downloadCmd.Flags()},
		},
		{
			name: "download_dir",
			usage: `
              download_dir is the directory downloaded forecast images are
              saved into.`,
			defaultVal: "forecasts",
			flagsets:   []*pflag.FlagSet{downloadCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers bounds the number of simultaneous downloads.`,
			defaultVal: 4,
			flagsets:   []*pflag.FlagSet{downloadCmd.Flags(), plotMapsCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("FLOODVIZ")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(statsCmd)
	Root.AddCommand(genconfigCmd)
	Root.AddCommand(plotCmd)
	plotCmd.AddCommand(plotMapsCmd)
	plotCmd.AddCommand(plotResultsCmd)
	plotCmd.AddCommand(plotWaterCmd)
	Root.AddCommand(downloadCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("floodviz: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "floodviz",
	Short: "Visualization suite for flood-evacuation simulations.",
	Long: `FloodViz aggregates agent-based flood-evacuation simulation output,
derives the configuration files the simulator consumes, and renders maps and
result figures for the Sittaung River flood scenario.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'FLOODVIZ_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of FloodViz.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("FloodViz v%s\n", floodviz.Version)
	},
	DisableAutoGenTag: true,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate simulation runs.",
	Long: `stats computes the per-day mean and standard deviation of every numeric
column across the run files of each scenario and writes the combined table
next to them as <results_dir>/<scenario>.csv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Stats(
			os.ExpandEnv(Cfg.GetString("results_dir")),
			Cfg.GetStringSlice("scenarios"),
			Cfg.GetInt("runs"),
			Cfg.GetInt("decimals"),
		)
	},
	DisableAutoGenTag: true,
}

var genconfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: "Generate simulator configuration files.",
	Long: `genconfig derives the full simulator configuration directory from the
location survey and the gauge-station water levels: the location registry,
the per-day flood levels, the flood-awareness demographics, the per-location
source data and the data layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := scenarioParams(Cfg)
		if err != nil {
			return err
		}
		return GenConfig(GenConfigSpec{
			Dir:       os.ExpandEnv(Cfg.GetString("config_dir")),
			Survey:    os.ExpandEnv(Cfg.GetString("survey")),
			Water:     os.ExpandEnv(Cfg.GetString("water")),
			Params:    p,
			Awareness: Cfg.GetFloat64("awareness"),
			WaterMin:  Cfg.GetInt("water_min"),
			WaterMax:  Cfg.GetInt("water_max"),
			Classes:   Cfg.GetInt("classes"),
			Snapshot:  Cfg.GetBool("snapshot"),
		})
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render figures.",
	Long: `plot renders the FloodViz figure sets. Use the subcommands specified
below to choose a figure set.`,
	DisableAutoGenTag: true,
}

var plotMapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "Render the route and location maps.",
	Long: `maps renders the evacuation route map and the labeled location map on
an OpenStreetMap basemap, plus the regional context map when the boundary
inputs are given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return PlotMaps(cmd.Context(), MapsSpec{
			DataDir:     os.ExpandEnv(Cfg.GetString("data_dir")),
			FigureDir:   os.ExpandEnv(Cfg.GetString("figure_dir")),
			TileServer:  Cfg.GetString("tile_server"),
			Workers:     Cfg.GetInt("workers"),
			Boundaries:  os.ExpandEnv(Cfg.GetString("boundaries")),
			Townships:   os.ExpandEnv(Cfg.GetString("townships")),
			TownshipRow: Cfg.GetInt("township_row"),
		})
	},
	DisableAutoGenTag: true,
}

var plotResultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Render the aggregated-results figures.",
	Long: `results renders the error heatmap per scenario, the displacement-over-
time comparison of all scenarios, and the per-camp (or per-temple) panel
grid, from the aggregated <results_dir>/<scenario>.csv tables that the
stats command writes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return PlotResults(ResultsSpec{
			ResultsDir:   os.ExpandEnv(Cfg.GetString("results_dir")),
			FigureDir:    os.ExpandEnv(Cfg.GetString("figure_dir")),
			Scenarios:    Cfg.GetStringSlice("scenarios"),
			SeriesColumn: Cfg.GetString("series_column"),
			Normalize:    Cfg.GetBool("normalize"),
			ShowValues:   Cfg.GetBool("show_values"),
			Subtitle:     Cfg.GetString("subtitle"),
			Camps:        Cfg.GetBool("camps"),
			Panels:       Cfg.GetInt("panels"),
		})
	},
	DisableAutoGenTag: true,
}

var plotWaterCmd = &cobra.Command{
	Use:   "water",
	Short: "Render the water level figure.",
	Long: `water renders the gauge readings, the danger level and the water level
classification of the gauge-station table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return PlotWater(
			os.ExpandEnv(Cfg.GetString("water")),
			os.ExpandEnv(Cfg.GetString("figure_dir")),
			Cfg.GetInt("danger_level"),
			Cfg.GetInt("water_min"),
			Cfg.GetInt("water_max"),
			Cfg.GetInt("classes"),
			Cfg.GetString("title"),
		)
	},
	DisableAutoGenTag: true,
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download forecast images.",
	Long: `download fetches the daily water-level forecast images published by the
Department of Meteorology and Hydrology for every date in [start, end] and
every requested page, trying the known publication URLs in order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := cast.ToIntSliceE(Cfg.Get("pages"))
		if err != nil {
			return fmt.Errorf("floodviz: reading download 'pages': %v", err)
		}
		return Download(
			cmd.Context(),
			Cfg.GetString("start"),
			Cfg.GetString("end"),
			pages,
			os.ExpandEnv(Cfg.GetString("download_dir")),
			Cfg.GetInt("workers"),
		)
	},
	DisableAutoGenTag: true,
}
