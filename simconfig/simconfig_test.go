package simconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/evacsim/floodviz"
)

func testRegistry() *floodviz.Registry {
	return floodviz.NewRegistry([]floodviz.Location{
		{Name: "Camp_1", Latitude: 18.91, Longitude: 96.44},
		{Name: "Camp_2", Latitude: 18.95, Longitude: 96.47},
		{Name: "Temple_1", Latitude: 18.93, Longitude: 96.42},
		{Name: "Town_1", Latitude: 18.94, Longitude: 96.43},
		{Name: "Flood_Zone_1", Latitude: 18.92, Longitude: 96.45},
		{Name: "Flood_Zone_2", Latitude: 18.90, Longitude: 96.46},
	})
}

func TestAdjustFloodLevel(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  int
	}{
		{"Temple_1", 4, 0},
		{"Temple_1", 0, 0},
		{"Camp_3", 4, 2},
		{"Camp_3", 1, 0}, // floored at zero
		{"Town_1", 4, 3},
		{"Town_1", 0, 0},
		{"Flood_Zone_1", 4, 4},
		{"Gauge_Station", 3, 3},
	}
	for _, test := range tests {
		if got := AdjustFloodLevel(test.name, test.level); got != test.want {
			t.Errorf("AdjustFloodLevel(%q, %d) = %d, want %d",
				test.name, test.level, got, test.want)
		}
	}
}

func TestFloodLevelTable(t *testing.T) {
	reg := testRegistry()
	levels := []int{0, 2, 4}
	tab := FloodLevelTable(reg, levels)

	days, err := tab.Column("#Day")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(days, []string{"0", "1", "2"}) {
		t.Errorf("#Day = %v", days)
	}
	wantCols := map[string][]string{
		"Camp_1":       {"0", "0", "2"},
		"Temple_1":     {"0", "0", "0"},
		"Town_1":       {"0", "1", "3"},
		"Flood_Zone_1": {"0", "2", "4"},
	}
	for name, want := range wantCols {
		got, err := tab.Column(name)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}

func TestSplitDisplacement(t *testing.T) {
	p := DefaultParams()
	s := SplitDisplacement(testRegistry(), p)

	// floor(5000 * 0.93 / 2)
	if s.Camp != 2325 {
		t.Errorf("Camp = %d, want 2325", s.Camp)
	}
	// floor(5000 * 0.07 / 1)
	if s.Temple != 350 {
		t.Errorf("Temple = %d, want 350", s.Temple)
	}
	// floor(15567 / 2)
	if s.FloodZonePopulation != 7783 {
		t.Errorf("FloodZonePopulation = %d, want 7783", s.FloodZonePopulation)
	}
}

func TestSplitDisplacementNoCamps(t *testing.T) {
	reg := floodviz.NewRegistry([]floodviz.Location{
		{Name: "Temple_1", Latitude: 18.93, Longitude: 96.42},
		{Name: "Flood_Zone_1", Latitude: 18.92, Longitude: 96.45},
	})
	defer func() {
		if recover() == nil {
			t.Error("SplitDisplacement did not panic for a registry without camps")
		}
	}()
	SplitDisplacement(reg, DefaultParams())
}

func TestWriteSourceData(t *testing.T) {
	dir := t.TempDir()
	reg := testRegistry()
	p := DefaultParams()
	if err := WriteSourceData(dir, reg, p); err != nil {
		t.Fatal(err)
	}

	read := func(name string) [][]string {
		t.Helper()
		b, err := os.ReadFile(filepath.Join(dir, "source_data", name))
		if err != nil {
			t.Fatal(err)
		}
		var rows [][]string
		for _, line := range splitLines(string(b)) {
			rows = append(rows, splitComma(line))
		}
		return rows
	}

	camp := read("Camp_1.csv")
	want := [][]string{
		{"2024-09-08", "0"},
		{"2024-09-14", "2325"},
		{"2024-09-30", "2325"},
	}
	if !reflect.DeepEqual(camp, want) {
		t.Errorf("Camp_1.csv = %v, want %v", camp, want)
	}

	temple := read("Temple_1.csv")
	if temple[1][1] != "350" {
		t.Errorf("Temple_1 displacement = %q, want 350", temple[1][1])
	}

	// Flood displacement disabled: zones stay all-zero.
	zone := read("Flood_Zone_1.csv")
	for i, row := range zone {
		if row[1] != "0" {
			t.Errorf("Flood_Zone_1 row %d = %q, want 0", i, row[1])
		}
	}

	// Towns get the all-zero template.
	town := read("Town_1.csv")
	for i, row := range town {
		if row[1] != "0" {
			t.Errorf("Town_1 row %d = %q, want 0", i, row[1])
		}
	}

	refugees := read("refugees.csv")
	if refugees[0][0] != "Date" || refugees[1][0] != "2024-09-14" || refugees[1][1] != "5000" {
		t.Errorf("refugees.csv = %v", refugees)
	}
}

func TestWriteSourceDataFloodDisplacement(t *testing.T) {
	dir := t.TempDir()
	p := DefaultParams()
	p.FloodDisplacement = true
	if err := WriteSourceData(dir, testRegistry(), p); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "source_data", "Flood_Zone_1.csv"))
	if err != nil {
		t.Fatal(err)
	}
	rows := splitLines(string(b))
	want := []string{
		"2024-09-08,7783",
		"2024-09-14,3113", // floor(7783 * 0.4)
		"2024-09-30,778",  // floor(7783 * 0.1)
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Flood_Zone_1.csv = %v, want %v", rows, want)
	}
}

func TestLocationTable(t *testing.T) {
	survey := floodviz.NewTable()
	survey.AddColumn("WKT", []string{"POINT (96.47 18.95)", "POINT (96.44 18.91)"})
	survey.AddColumn("#name", []string{"Town_1", "Camp_12"})
	if err := floodviz.AppendCoords(survey); err != nil {
		t.Fatal(err)
	}

	tab, err := LocationTable(survey, "Toungoo", "Myanmar")
	if err != nil {
		t.Fatal(err)
	}
	names, _ := tab.Column("#name")
	if !reflect.DeepEqual(names, []string{"Camp_12", "Town_1"}) {
		t.Errorf("names not sorted: %v", names)
	}
	kinds, _ := tab.Column("location_type")
	if !reflect.DeepEqual(kinds, []string{"camp", "town"}) {
		t.Errorf("location_type = %v", kinds)
	}
	region, _ := tab.Column("region")
	if region[0] != "Toungoo" {
		t.Errorf("region = %q", region[0])
	}
	wantHeader := []string{"#name", "region", "country", "latitude", "longitude",
		"location_type", "conflict_period", "population"}
	if !reflect.DeepEqual(tab.Names(), wantHeader) {
		t.Errorf("header = %v", tab.Names())
	}
}

func TestWriteDataLayout(t *testing.T) {
	dir := t.TempDir()
	if err := WriteDataLayout(dir, testRegistry()); err != nil {
		t.Fatal(err)
	}
	tab, err := floodviz.ReadTable(filepath.Join(dir, "source_data", "data_layout.csv"))
	if err != nil {
		t.Fatal(err)
	}
	total, _ := tab.Column("total")
	files, _ := tab.Column("refugees.csv")
	if total[0] != "Camp_1" || files[0] != "Camp_1.csv" {
		t.Errorf("first row = %q, %q", total[0], files[0])
	}
	if len(total) != 6 {
		t.Errorf("got %d rows, want 6", len(total))
	}
}

func TestFloodAwarenessTable(t *testing.T) {
	tab := FloodAwarenessTable(testRegistry(), []float64{0.3, 0.5, 0.2})
	if got := len(tab.Names()); got != 7 {
		t.Fatalf("got %d columns, want 7", got)
	}
	for _, name := range tab.Names() {
		col, _ := tab.Column(name)
		if !reflect.DeepEqual(col, []string{"0.3", "0.5", "0.2"}) {
			t.Errorf("%s = %v", name, col)
		}
	}
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "toungoo")
	if err := os.MkdirAll(filepath.Join(cfg, "input_csv"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg, "input_csv", "locations.csv"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	first, err := Snapshot(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if first != cfg+"_copy1" {
		t.Errorf("first snapshot at %q", first)
	}
	if _, err := os.Stat(filepath.Join(first, "input_csv", "locations.csv")); err != nil {
		t.Errorf("copied file missing: %v", err)
	}

	second, err := Snapshot(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if second != cfg+"_copy2" {
		t.Errorf("second snapshot at %q", second)
	}
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitComma(s string) []string {
	return strings.Split(s, ",")
}
