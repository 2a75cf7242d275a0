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
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// A Table is a set of named columns read from a CSV file. All cells are
// stored as strings; a column is considered numeric if every non-empty
// cell in it parses as a float.
type Table struct {
	names []string
	cols  map[string][]string
}

// NewTable creates an empty table with no columns.
func NewTable() *Table {
	return &Table{cols: make(map[string][]string)}
}

// ReadTable reads the CSV file at path, treating the first record
// as the header row.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("floodviz: opening table: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("floodviz: reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("floodviz: %s is empty", path)
	}
	return tableFromRecords(records[0], records[1:]), nil
}

// ReadHeaderlessTable reads a CSV file that has no header row, assigning
// the given column names.
func ReadHeaderlessTable(path string, names []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("floodviz: opening table: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = len(names)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("floodviz: reading %s: %w", path, err)
	}
	return tableFromRecords(names, records), nil
}

func tableFromRecords(header []string, rows [][]string) *Table {
	t := NewTable()
	for j, name := range header {
		col := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				col[i] = row[j]
			}
		}
		t.AddColumn(name, col)
	}
	return t
}

// Names returns the column names in file order.
func (t *Table) Names() []string { return t.names }

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.names) == 0 {
		return 0
	}
	return len(t.cols[t.names[0]])
}

// Column returns the cells of the named column, or an error if the
// column doesn't exist.
func (t *Table) Column(name string) ([]string, error) {
	c, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("floodviz: table has no column %q", name)
	}
	return c, nil
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// AddColumn appends a column to the table. An existing column with the
// same name is replaced in place.
func (t *Table) AddColumn(name string, cells []string) {
	if _, ok := t.cols[name]; !ok {
		t.names = append(t.names, name)
	}
	t.cols[name] = cells
}

// DropColumn removes the named column if present.
func (t *Table) DropColumn(name string) {
	if _, ok := t.cols[name]; !ok {
		return
	}
	delete(t.cols, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
}

// Floats parses the named column as float64 values. Empty cells
// parse as zero.
func (t *Table) Floats(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	v := make([]float64, len(c))
	for i, s := range c {
		if s == "" {
			continue
		}
		v[i], err = strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("floodviz: column %q row %d: %w", name, i, err)
		}
	}
	return v, nil
}

// IsNumeric reports whether every non-empty cell of the named column
// parses as a float. A column of only empty cells is not numeric.
func (t *Table) IsNumeric(name string) bool {
	c, ok := t.cols[name]
	if !ok {
		return false
	}
	any := false
	for _, s := range c {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return false
		}
		any = true
	}
	return any
}

// SplitNumeric partitions the column names into numeric and non-numeric
// sets, each preserving the original column order.
func (t *Table) SplitNumeric() (numeric, nonNumeric []string) {
	for _, name := range t.names {
		if t.IsNumeric(name) {
			numeric = append(numeric, name)
		} else {
			nonNumeric = append(nonNumeric, name)
		}
	}
	return
}

// WriteCSV writes the table to path, header row first.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("floodviz: creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.names); err != nil {
		f.Close()
		return err
	}
	if err := t.writeRows(w); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("floodviz: writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSVNoHeader writes the table rows to path without a header row.
func (t *Table) WriteCSVNoHeader(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("floodviz: creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := t.writeRows(w); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("floodviz: writing %s: %w", path, err)
	}
	return f.Close()
}

func (t *Table) writeRows(w *csv.Writer) error {
	row := make([]string, len(t.names))
	for i := 0; i < t.Len(); i++ {
		for j, name := range t.names {
			row[j] = t.cols[name][i]
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// FormatFloat formats v rounded to the given number of decimal places,
// dropping trailing zeros so that integral values round-trip without a
// decimal point.
func FormatFloat(v float64, decimals int) string {
	pow := math.Pow(10, float64(decimals))
	v = math.Round(v*pow) / pow
	if v == 0 { // avoid "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
