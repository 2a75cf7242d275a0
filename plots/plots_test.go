package plots

import (
	"image/color"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/evacsim/floodviz"
)

func TestFilePath(t *testing.T) {
	tests := []struct {
		normalize, showValues bool
		subtitle              string
		want                  string
	}{
		{false, false, "", "error_heatmap.png"},
		{true, false, "", "error_heatmap_normalized.png"},
		{false, true, "", "error_heatmap_show_values.png"},
		{true, true, "Less Hubs", "error_heatmap_normalized_show_values_less_hubs.png"},
		{false, false, "12000 Displaced", "error_heatmap_12000_displaced.png"},
	}
	for _, test := range tests {
		got := FilePath("plots", "error_heatmap", test.normalize, test.showValues, test.subtitle)
		if got != filepath.Join("plots", test.want) {
			t.Errorf("FilePath(%v, %v, %q) = %q, want %q",
				test.normalize, test.showValues, test.subtitle, got, test.want)
		}
	}
}

func TestLocationColor(t *testing.T) {
	camp := floodviz.Location{Name: "Camp_1", Kind: floodviz.KindCamp}
	if got := LocationColor(camp); got != KindColors[floodviz.KindCamp] {
		t.Errorf("camp color = %v", got)
	}
	// A camp at a temple is displayed as a temple.
	templeCamp := floodviz.Location{Name: "Temple_2", Kind: floodviz.KindCamp}
	if got := LocationColor(templeCamp); got != KindColors[floodviz.KindTemple] {
		t.Errorf("temple-named camp color = %v, want temple color", got)
	}
	unknown := floodviz.Location{Name: "Gauge", Kind: "gauge"}
	if got := LocationColor(unknown); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("unknown kind color = %v, want black", got)
	}
}

func TestDayTickLabels(t *testing.T) {
	labels := DayTickLabels()
	if len(labels) != 23 {
		t.Fatalf("got %d labels, want 23", len(labels))
	}
	if labels[0] != "8 Sep" || labels[22] != "30 Sep" {
		t.Errorf("labels = %q … %q", labels[0], labels[22])
	}
}

func TestErrorColumns(t *testing.T) {
	tab := floodviz.NewTable()
	for _, name := range []string{
		"Date",
		"Camp_1 error",
		"Camp_1 error (std)",
		"Total error",
		"Temple_1 error",
		"Camp_1 sim",
	} {
		tab.AddColumn(name, []string{"1"})
	}
	got := ErrorColumns(tab)
	want := []string{"Camp_1 error", "Temple_1 error"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ErrorColumns = %v, want %v", got, want)
	}
}

func TestBandXYs(t *testing.T) {
	mean := []float64{2, 3}
	std := []float64{1, 5}
	xys := bandXYs(mean, std, 0.1)
	if len(xys) != 4 {
		t.Fatalf("got %d points, want 4", len(xys))
	}
	// Upper curve first.
	if xys[0].Y != 3 || xys[1].Y != 8 {
		t.Errorf("upper = %v, %v", xys[0], xys[1])
	}
	// Lower curve reversed, clamped at the floor.
	if xys[2].X != 1 || xys[2].Y != 0.1 {
		t.Errorf("clamped lower = %v, want (1, 0.1)", xys[2])
	}
	if xys[3].Y != 1 {
		t.Errorf("lower end = %v, want 1", xys[3])
	}
}
