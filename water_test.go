package floodviz

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestClassifyWaterLevel(t *testing.T) {
	const (
		minLevel = 400
		maxLevel = 800
		classes  = 4
	)
	tests := []struct {
		level int
		want  int
	}{
		{399, 0}, // below the minimum
		{400, 0},
		{450, 0}, // 0.5 rounds to the even class
		{500, 1},
		{550, 2}, // 1.5 rounds up to 2
		{600, 2},
		{650, 2}, // 2.5 rounds down to 2
		{750, 4}, // 3.5 rounds up to 4
		{800, 4},
		{900, 5}, // above the maximum extrapolates
	}
	for _, test := range tests {
		if got := ClassifyWaterLevel(test.level, minLevel, maxLevel, classes); got != test.want {
			t.Errorf("ClassifyWaterLevel(%d) = %d, want %d", test.level, got, test.want)
		}
	}
}

func TestClassifyTable(t *testing.T) {
	data := "Day," + WaterLevelColumn + "\n2024-09-08,400\n2024-09-09,600\n2024-09-10,390\n"
	dir := t.TempDir()
	path := filepath.Join(dir, "water.csv")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	tab, err := ReadWaterLevels(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := ClassifyTable(tab, 400, 800, 4); err != nil {
		t.Fatal(err)
	}
	got, err := Classifications(tab)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{0, 2, 0}) {
		t.Errorf("classifications = %v, want [0 2 0]", got)
	}
}

func TestReadWaterLevelsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "water.csv")
	if err := os.WriteFile(path, []byte("Day,other\nx,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadWaterLevels(path); err == nil {
		t.Fatal("expected error for missing water-level column")
	}
}
