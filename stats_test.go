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
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeRuns(t *testing.T, dir, stem string, runs []string) string {
	t.Helper()
	for i, contents := range runs {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.csv", stem, i+1))
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, stem)
}

func TestAggregateMean(t *testing.T) {
	dir := t.TempDir()
	stem := writeRuns(t, dir, "camp", []string{
		"Date,Camp_1 sim\n2024-09-08,1\n",
		"Date,Camp_1 sim\n2024-09-08,2\n",
		"Date,Camp_1 sim\n2024-09-08,3\n",
	})

	out, err := Aggregate(stem, 3, DefaultDecimals)
	if err != nil {
		t.Fatal(err)
	}

	wantNames := []string{"Date", "Camp_1 sim", "Camp_1 sim (std)"}
	if !reflect.DeepEqual(out.Names(), wantNames) {
		t.Errorf("columns = %v, want %v", out.Names(), wantNames)
	}
	mean, err := out.Column("Camp_1 sim")
	if err != nil {
		t.Fatal(err)
	}
	if mean[0] != "2" {
		t.Errorf("mean = %q, want 2", mean[0])
	}

	// The combined file must land next to the run files.
	if _, err := os.Stat(stem + ".csv"); err != nil {
		t.Errorf("combined file not written: %v", err)
	}
}

func TestAggregateConstantStd(t *testing.T) {
	dir := t.TempDir()
	row := "Date,Camp_1 sim,Camp_2 sim\n2024-09-08,7,11\n2024-09-09,7,11\n"
	stem := writeRuns(t, dir, "const", []string{row, row, row, row})

	out, err := Aggregate(stem, 4, DefaultDecimals)
	if err != nil {
		t.Fatal(err)
	}
	for _, col := range []string{"Camp_1 sim (std)", "Camp_2 sim (std)"} {
		std, err := out.Column(col)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range std {
			if v != "0" {
				t.Errorf("%s row %d = %q, want 0", col, i, v)
			}
		}
	}
}

// Identical runs of large values can produce a slightly negative computed
// variance from floating-point rounding; the result must be clamped to 0,
// never NaN.
func TestAggregateVarianceClamp(t *testing.T) {
	dir := t.TempDir()
	row := "Date,level\n2024-09-08,0.1\n2024-09-09,0.7\n"
	stem := writeRuns(t, dir, "clamp", []string{row, row, row})

	out, err := Aggregate(stem, 3, DefaultDecimals)
	if err != nil {
		t.Fatal(err)
	}
	std, err := out.Column("level" + StdSuffix)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range std {
		if strings.Contains(v, "NaN") {
			t.Fatalf("row %d: std is NaN", i)
		}
		if v != "0" {
			t.Errorf("row %d: std = %q, want 0", i, v)
		}
	}
}

func TestAggregateIdentifierColumns(t *testing.T) {
	dir := t.TempDir()
	stem := writeRuns(t, dir, "mixed", []string{
		"Date,label,n\n2024-09-08,a,1\n2024-09-09,b,2\n",
		"Date,label,n\n2024-09-08,XX,3\n2024-09-09,YY,4\n",
	})

	out, err := Aggregate(stem, 2, DefaultDecimals)
	if err != nil {
		t.Fatal(err)
	}
	// Identifier columns come from the first run, in original order,
	// ahead of the computed columns.
	wantNames := []string{"Date", "label", "n", "n (std)"}
	if !reflect.DeepEqual(out.Names(), wantNames) {
		t.Fatalf("columns = %v, want %v", out.Names(), wantNames)
	}
	labels, _ := out.Column("label")
	if !reflect.DeepEqual(labels, []string{"a", "b"}) {
		t.Errorf("labels = %v, want first run's values", labels)
	}
	mean, _ := out.Column("n")
	if !reflect.DeepEqual(mean, []string{"2", "3"}) {
		t.Errorf("mean = %v, want [2 3]", mean)
	}
}

func TestAggregateRounding(t *testing.T) {
	dir := t.TempDir()
	stem := writeRuns(t, dir, "round", []string{
		"Date,n\nd,1\n",
		"Date,n\nd,2\n",
		"Date,n\nd,2\n",
	})
	out, err := Aggregate(stem, 3, DefaultDecimals)
	if err != nil {
		t.Fatal(err)
	}
	mean, _ := out.Column("n")
	if mean[0] != "1.67" {
		t.Errorf("mean = %q, want 1.67", mean[0])
	}
}

func TestAggregateMissingRun(t *testing.T) {
	dir := t.TempDir()
	stem := writeRuns(t, dir, "short", []string{"Date,n\nd,1\n"})
	if _, err := Aggregate(stem, 2, DefaultDecimals); err == nil {
		t.Fatal("expected error for missing run file")
	}
}

func TestAggregateShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	stem := writeRuns(t, dir, "shape", []string{
		"Date,n\nd,1\ne,2\n",
		"Date,n\nd,1\n",
	})
	if _, err := Aggregate(stem, 2, DefaultDecimals); err == nil {
		t.Fatal("expected error for row-count mismatch")
	}
}
