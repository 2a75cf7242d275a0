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
	"math"
)

// Column names of the gauge-station water-level table.
const (
	DayColumn            = "Day"
	DateColumn           = "Date"
	WaterLevelColumn     = "Water level at (12:30) hr (cm)"
	ClassificationColumn = "Water Level Classification"
)

// ClassifyWaterLevel buckets a raw gauge reading (cm) into one of
// classes+1 integer classification levels. Readings below minLevel are
// class 0; the range [minLevel, maxLevel] is divided linearly and the
// result rounded to the nearest class, halves to the even class.
func ClassifyWaterLevel(level, minLevel, maxLevel, classes int) int {
	if level < minLevel {
		return 0
	}
	return int(math.RoundToEven(float64(level-minLevel) / float64(maxLevel-minLevel) * float64(classes)))
}

// ReadWaterLevels reads a gauge-station table and verifies that the
// columns the downstream derivations depend on are present.
func ReadWaterLevels(path string) (*Table, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{DayColumn, WaterLevelColumn} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("floodviz: %s lacks required column %q", path, col)
		}
	}
	return t, nil
}

// ClassifyTable adds (or replaces) the classification column of a
// water-level table, bucketing the gauge readings into classes+1 levels.
func ClassifyTable(t *Table, minLevel, maxLevel, classes int) error {
	levels, err := t.Floats(WaterLevelColumn)
	if err != nil {
		return err
	}
	class := make([]string, len(levels))
	for i, v := range levels {
		class[i] = fmt.Sprintf("%d", ClassifyWaterLevel(int(v), minLevel, maxLevel, classes))
	}
	t.AddColumn(ClassificationColumn, class)
	return nil
}

// Classifications returns the classification column of a water-level
// table as integers.
func Classifications(t *Table) ([]int, error) {
	v, err := t.Floats(ClassificationColumn)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out, nil
}
