package plots

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

const testBoundaries = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"name":"Myanmar"},"geometry":
 {"type":"Polygon","coordinates":[[[92,10],[101,10],[101,28],[92,28],[92,10]]]}},
{"type":"Feature","properties":{"admin":"Thailand"},"geometry":
 {"type":"Polygon","coordinates":[[[98,6],[105,6],[105,20],[98,20],[98,6]]]}},
{"type":"Feature","properties":{"name":"NoGeometry"},"geometry":null}
]}`

func writeTownships(t *testing.T, path string) {
	t.Helper()
	type row struct {
		geom.Polygon
		Name string
	}
	enc, err := shp.NewEncoder(path, row{})
	if err != nil {
		t.Fatal(err)
	}
	rows := []row{
		{Polygon: geom.Polygon{{
			{X: 95.0, Y: 17.0}, {X: 95.5, Y: 17.0}, {X: 95.5, Y: 17.8}, {X: 95.0, Y: 17.8},
		}}, Name: "Elsewhere"},
		{Polygon: geom.Polygon{{
			{X: 96.2, Y: 18.4}, {X: 96.7, Y: 18.4}, {X: 96.7, Y: 19.3}, {X: 96.2, Y: 19.3},
		}}, Name: "Taungoo"},
	}
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatal(err)
		}
	}
	enc.Close()
}

func TestContextMap(t *testing.T) {
	dir := t.TempDir()
	boundaries := filepath.Join(dir, "countries.geojson")
	if err := os.WriteFile(boundaries, []byte(testBoundaries), 0644); err != nil {
		t.Fatal(err)
	}
	townships := filepath.Join(dir, "adm3.shp")
	writeTownships(t, townships)

	// No basemap server configured: plain background, no network.
	err := ContextMap(context.Background(), ContextMapOptions{
		Dir:         dir,
		Boundaries:  boundaries,
		Townships:   townships,
		TownshipRow: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	mustExist(t, filepath.Join(dir, "context_map.png"))
}

func TestContextMapMissingRow(t *testing.T) {
	dir := t.TempDir()
	boundaries := filepath.Join(dir, "countries.geojson")
	if err := os.WriteFile(boundaries, []byte(testBoundaries), 0644); err != nil {
		t.Fatal(err)
	}
	townships := filepath.Join(dir, "adm3.shp")
	writeTownships(t, townships)

	err := ContextMap(context.Background(), ContextMapOptions{
		Dir:         dir,
		Boundaries:  boundaries,
		Townships:   townships,
		TownshipRow: 7,
	})
	if err == nil {
		t.Fatal("expected error for a township row past the end of the shapefile")
	}
}

func TestReadBoundaries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countries.geojson")
	if err := os.WriteFile(path, []byte(testBoundaries), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := readBoundaries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d features, want 2 (null geometry skipped)", len(got))
	}
	if got[0].name != "Myanmar" || got[1].name != "Thailand" {
		t.Errorf("names = %q, %q", got[0].name, got[1].name)
	}
	if !highlightCountry(got[0].name) || highlightCountry(got[1].name) {
		t.Error("highlight should select Myanmar only")
	}
}
