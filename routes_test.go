package floodviz

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEdgesDropUnknownEndpoints(t *testing.T) {
	r, _ := testRegistry(t)
	routes := []Route{
		{From: "Camp_1", To: "Town_1", DistanceKM: 2.5},
		{From: "Camp_1", To: "Ghost_Town", DistanceKM: 1.0},
		{From: "Nowhere", To: "Camp_2", DistanceKM: 3.0},
		{From: "Temple_1", To: "Flood_Zone_1", DistanceKM: 0.8},
	}
	edges := Edges(r, routes)
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	if edges[0].From != "Camp_1" || edges[0].To != "Town_1" {
		t.Errorf("edge 0 = %s-%s", edges[0].From, edges[0].To)
	}
	if len(edges[0].Line) != 2 {
		t.Fatalf("edge 0 line has %d points", len(edges[0].Line))
	}
	if edges[0].Line[0].X != 96.44 || edges[0].Line[0].Y != 18.91 {
		t.Errorf("edge 0 start = %v", edges[0].Line[0])
	}
}

func TestReadRoutes(t *testing.T) {
	_, dir := testRegistry(t)
	data := "Camp_1,Town_1,2.5\nTemple_1,Flood_Zone_1,0.8\n"
	if err := os.WriteFile(filepath.Join(dir, "input_csv", "routes.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	routes, err := ReadRoutes(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	if routes[0].DistanceKM != 2.5 {
		t.Errorf("distance = %v, want 2.5", routes[0].DistanceKM)
	}
}
