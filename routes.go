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
	"log"
	"path/filepath"

	"github.com/ctessum/geom"
)

// A Route is one undirected road segment between two named locations.
type Route struct {
	From, To   string
	DistanceKM float64
}

// ReadRoutes reads <dir>/input_csv/routes.csv. The file has no header;
// its columns are the two endpoint names and the distance in km.
func ReadRoutes(dir string) ([]Route, error) {
	t, err := ReadHeaderlessTable(filepath.Join(dir, "input_csv", "routes.csv"),
		[]string{"location_1", "location_2", "distance (km)"})
	if err != nil {
		return nil, err
	}
	from, err := t.Column("location_1")
	if err != nil {
		return nil, err
	}
	to, err := t.Column("location_2")
	if err != nil {
		return nil, err
	}
	dist, err := t.Floats("distance (km)")
	if err != nil {
		return nil, err
	}
	routes := make([]Route, len(from))
	for i := range from {
		routes[i] = Route{From: from[i], To: to[i], DistanceKM: dist[i]}
	}
	return routes, nil
}

// An Edge is a route whose both endpoints resolved in the registry,
// with a longitude/latitude line geometry.
type Edge struct {
	Route
	Line geom.LineString
}

// Edges resolves routes against the registry. A route referencing a
// location that is not in the registry is dropped rather than reported
// as an error.
func Edges(r *Registry, routes []Route) []Edge {
	edges := make([]Edge, 0, len(routes))
	for _, rt := range routes {
		a, ok := r.Lookup(rt.From)
		if !ok {
			log.Printf("dropping route %s-%s: %s not in registry", rt.From, rt.To, rt.From)
			continue
		}
		b, ok := r.Lookup(rt.To)
		if !ok {
			log.Printf("dropping route %s-%s: %s not in registry", rt.From, rt.To, rt.To)
			continue
		}
		edges = append(edges, Edge{
			Route: rt,
			Line:  geom.LineString{a.Point(), b.Point()},
		})
	}
	return edges
}
