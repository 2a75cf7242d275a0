package floodviz

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.csv")
	data := "Date,Camp_1 sim,label\n2024-09-08,12,a\n2024-09-09,15,b\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	tab, err := ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := tab.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	numeric, nonNumeric := tab.SplitNumeric()
	if !reflect.DeepEqual(numeric, []string{"Camp_1 sim"}) {
		t.Errorf("numeric = %v", numeric)
	}
	if !reflect.DeepEqual(nonNumeric, []string{"Date", "label"}) {
		t.Errorf("nonNumeric = %v", nonNumeric)
	}
	v, err := tab.Floats("Camp_1 sim")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v, []float64{12, 15}) {
		t.Errorf("Floats = %v", v)
	}
}

func TestReadTableMissing(t *testing.T) {
	if _, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tab := NewTable()
	tab.AddColumn("#name", []string{"Camp_1", "Town_1"})
	tab.AddColumn("n", []string{"3", "4"})
	path := filepath.Join(dir, "out.csv")
	if err := tab.WriteCSV(path); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Names(), tab.Names()) {
		t.Errorf("names = %v, want %v", got.Names(), tab.Names())
	}
	c, _ := got.Column("#name")
	if !reflect.DeepEqual(c, []string{"Camp_1", "Town_1"}) {
		t.Errorf("#name = %v", c)
	}
}

func TestDropColumn(t *testing.T) {
	tab := NewTable()
	tab.AddColumn("WKT", []string{"POINT (96.4 18.9)"})
	tab.AddColumn("name", []string{"Camp_1"})
	tab.DropColumn("WKT")
	if tab.HasColumn("WKT") {
		t.Error("WKT still present after drop")
	}
	if !reflect.DeepEqual(tab.Names(), []string{"name"}) {
		t.Errorf("names = %v", tab.Names())
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     string
	}{
		{2.0, 2, "2"},
		{1.666666, 2, "1.67"},
		{0.0, 2, "0"},
		{-0.0001, 2, "0"},
		{12.5, 0, "13"},
	}
	for _, test := range tests {
		if got := FormatFloat(test.v, test.decimals); got != test.want {
			t.Errorf("FormatFloat(%v, %d) = %q, want %q",
				test.v, test.decimals, got, test.want)
		}
	}
}
