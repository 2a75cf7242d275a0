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

package floodviz

import (
	"fmt"
	"log"
	"math"
)

// DefaultRuns is the number of stochastic runs of each scenario the
// simulation campaign performs.
const DefaultRuns = 30

// DefaultDecimals is the rounding precision for aggregated statistics.
const DefaultDecimals = 2

// StdSuffix is appended to a column name to form the name of its
// standard-deviation column in aggregated output.
const StdSuffix = " (std)"

// Scenarios is the standard scenario set of the simulation campaign.
var Scenarios = []string{"5000", "12000", "lesshubs", "lessshelter"}

// Aggregate computes per-row mean and standard deviation of all numeric
// columns across the run files {stem}_1.csv … {stem}_n.csv, which must
// share a single schema. The result keeps the first run's non-numeric
// identifier columns unchanged, followed by one mean column per numeric
// column (under the original name) and one standard-deviation column per
// numeric column (suffixed " (std)"), all rounded to the given number of
// decimal places. Row order follows the first file; rows are aligned
// across runs by position, never joined on a key.
//
// The combined table is written to {stem}.csv and returned. A missing run
// file or a column-set mismatch is returned as an error; there is no
// partial output.
func Aggregate(stem string, n, decimals int) (*Table, error) {
	if n < 1 {
		return nil, fmt.Errorf("floodviz: aggregating %s: need at least 1 run, got %d", stem, n)
	}

	first, err := ReadTable(fmt.Sprintf("%s_1.csv", stem))
	if err != nil {
		return nil, err
	}
	numeric, nonNumeric := first.SplitNumeric()

	nRows := first.Len()
	sum := make(map[string][]float64, len(numeric))
	sumSq := make(map[string][]float64, len(numeric))
	for _, name := range numeric {
		sum[name] = make([]float64, nRows)
		sumSq[name] = make([]float64, nRows)
	}

	accumulate := func(t *Table) error {
		for _, name := range numeric {
			v, err := t.Floats(name)
			if err != nil {
				return err
			}
			if len(v) != nRows {
				return fmt.Errorf("floodviz: aggregating %s: column %q has %d rows, want %d",
					stem, name, len(v), nRows)
			}
			s, sq := sum[name], sumSq[name]
			for i, x := range v {
				s[i] += x
				sq[i] += x * x
			}
		}
		return nil
	}

	if err := accumulate(first); err != nil {
		return nil, err
	}
	for i := 2; i <= n; i++ {
		t, err := ReadTable(fmt.Sprintf("%s_%d.csv", stem, i))
		if err != nil {
			return nil, err
		}
		if err := accumulate(t); err != nil {
			return nil, err
		}
	}

	out := NewTable()
	for _, name := range nonNumeric {
		c, err := first.Column(name)
		if err != nil {
			return nil, err
		}
		out.AddColumn(name, c)
	}
	fn := float64(n)
	for _, name := range numeric {
		mean := make([]string, nRows)
		for i, s := range sum[name] {
			mean[i] = FormatFloat(s/fn, decimals)
		}
		out.AddColumn(name, mean)
	}
	for _, name := range numeric {
		std := make([]string, nRows)
		for i := range std {
			m := sum[name][i] / fn
			// Floating-point rounding can push a near-zero variance
			// slightly negative; clamp before the square root.
			variance := math.Max(0, sumSq[name][i]/fn-m*m)
			std[i] = FormatFloat(math.Sqrt(variance), decimals)
		}
		out.AddColumn(name+StdSuffix, std)
	}

	if err := out.WriteCSV(stem + ".csv"); err != nil {
		return nil, err
	}
	return out, nil
}

// AggregateScenarios runs Aggregate for each named scenario under dir
// (e.g. dir "simulation_results/" and scenario "5000" aggregate
// simulation_results/5000_1.csv…). The returned map is keyed by scenario
// name.
func AggregateScenarios(dir string, scenarios []string, n, decimals int) (map[string]*Table, error) {
	out := make(map[string]*Table, len(scenarios))
	for _, sc := range scenarios {
		t, err := Aggregate(dir+sc, n, decimals)
		if err != nil {
			return nil, err
		}
		log.Printf("aggregated scenario %s: %d rows, %d columns", sc, t.Len(), len(t.Names()))
		out[sc] = t
	}
	return out, nil
}
