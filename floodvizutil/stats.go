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
	"path/filepath"

	"github.com/evacsim/floodviz"
)

// Stats aggregates the run files of every scenario under dir and writes
// the combined tables next to them.
func Stats(dir string, scenarios []string, runs, decimals int) error {
	tables, err := floodviz.AggregateScenarios(
		filepath.Clean(dir)+string(filepath.Separator), scenarios, runs, decimals)
	if err != nil {
		return err
	}
	fmt.Printf("Aggregated %d scenarios over %d runs each.\n", len(tables), runs)
	return nil
}
