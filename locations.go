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
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
)

// Location kinds appearing in the registry.
const (
	KindFloodZone = "flood_zone"
	KindTown      = "town"
	KindCamp      = "camp"
	KindTemple    = "temple"
)

// A Location is one named place in the registry.
type Location struct {
	Name      string
	Region    string
	Country   string
	Latitude  float64
	Longitude float64
	// Kind is the location_type field, e.g. "camp" or "flood_zone".
	Kind string
	// ConflictPeriod and Population are carried through from the
	// registry file; the simulator interprets them.
	ConflictPeriod string
	Population     string
}

// Point returns the location's coordinates as a longitude/latitude point.
func (l Location) Point() geom.Point {
	return geom.Point{X: l.Longitude, Y: l.Latitude}
}

// NameMatchesKind reports whether the location name refers to the given
// kind. This is a substring match on the lower-cased name, so e.g.
// "Camp_3" matches "camp".
func NameMatchesKind(name, kind string) bool {
	return strings.Contains(strings.ToLower(name), kind)
}

var trailingIndex = regexp.MustCompile(`_\d+$`)

// KindFromName derives a location_type from a registry name by stripping
// a trailing "_<digits>" suffix and lower-casing, so "Camp_12" becomes
// "camp" and "Flood_Zone_3" becomes "flood_zone".
func KindFromName(name string) string {
	return trailingIndex.ReplaceAllString(strings.ToLower(name), "")
}

// A Registry is the master table of named places.
type Registry struct {
	locs  []Location
	index map[string]int
}

// NewRegistry builds a registry from a list of locations. Later
// duplicates of a name shadow earlier ones in lookups.
func NewRegistry(locs []Location) *Registry {
	r := &Registry{locs: locs, index: make(map[string]int, len(locs))}
	for i, l := range locs {
		r.index[l.Name] = i
	}
	return r
}

// ReadLocations reads the location registry from
// <dir>/input_csv/locations.csv.
func ReadLocations(dir string) (*Registry, error) {
	t, err := ReadTable(filepath.Join(dir, "input_csv", "locations.csv"))
	if err != nil {
		return nil, err
	}
	return RegistryFromTable(t)
}

// RegistryFromTable converts a locations table to a Registry. The table
// must have #name, latitude and longitude columns; region, country,
// location_type, conflict_period and population are optional. A missing
// location_type is derived from the name.
func RegistryFromTable(t *Table) (*Registry, error) {
	names, err := t.Column("#name")
	if err != nil {
		return nil, fmt.Errorf("floodviz: location registry: %w", err)
	}
	lat, err := t.Floats("latitude")
	if err != nil {
		return nil, fmt.Errorf("floodviz: location registry: %w", err)
	}
	lon, err := t.Floats("longitude")
	if err != nil {
		return nil, fmt.Errorf("floodviz: location registry: %w", err)
	}
	opt := func(col string) []string {
		if t.HasColumn(col) {
			c, _ := t.Column(col)
			return c
		}
		return nil
	}
	region := opt("region")
	country := opt("country")
	kind := opt("location_type")
	period := opt("conflict_period")
	pop := opt("population")
	cell := func(c []string, i int) string {
		if i < len(c) {
			return c[i]
		}
		return ""
	}

	locs := make([]Location, len(names))
	for i, name := range names {
		locs[i] = Location{
			Name:           name,
			Region:         cell(region, i),
			Country:        cell(country, i),
			Latitude:       lat[i],
			Longitude:      lon[i],
			Kind:           cell(kind, i),
			ConflictPeriod: cell(period, i),
			Population:     cell(pop, i),
		}
		if locs[i].Kind == "" {
			locs[i].Kind = KindFromName(name)
		}
	}
	return NewRegistry(locs), nil
}

// Locations returns all locations in registry order.
func (r *Registry) Locations() []Location { return r.locs }

// Len returns the number of locations in the registry.
func (r *Registry) Len() int { return len(r.locs) }

// Lookup returns the named location.
func (r *Registry) Lookup(name string) (Location, bool) {
	i, ok := r.index[name]
	if !ok {
		return Location{}, false
	}
	return r.locs[i], true
}

// Names returns all location names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.locs))
	for i, l := range r.locs {
		names[i] = l.Name
	}
	return names
}

// OfKind returns the locations whose name matches the given kind
// (see NameMatchesKind).
func (r *Registry) OfKind(kind string) []Location {
	var out []Location
	for _, l := range r.locs {
		if NameMatchesKind(l.Name, kind) {
			out = append(out, l)
		}
	}
	return out
}

// SortedByName returns a copy of the registry's locations ordered by name.
func (r *Registry) SortedByName() []Location {
	out := make([]Location, len(r.locs))
	copy(out, r.locs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var wktNumber = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// ParseWKTPoint extracts the two coordinates from a WKT point string such
// as "POINT (96.43 18.94)". The first number is taken as longitude and
// the second as latitude, matching the survey export convention.
func ParseWKTPoint(s string) (lon, lat float64, err error) {
	m := wktNumber.FindAllString(s, -1)
	if len(m) < 2 {
		return 0, 0, fmt.Errorf("floodviz: cannot parse WKT point %q", s)
	}
	lon, err = strconv.ParseFloat(m[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("floodviz: WKT point %q: %w", s, err)
	}
	lat, err = strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("floodviz: WKT point %q: %w", s, err)
	}
	return lon, lat, nil
}

// AppendCoords replaces a survey table's WKT column with longitude and
// latitude columns extracted from it.
func AppendCoords(t *Table) error {
	wkt, err := t.Column("WKT")
	if err != nil {
		return err
	}
	lon := make([]string, len(wkt))
	lat := make([]string, len(wkt))
	for i, s := range wkt {
		x, y, err := ParseWKTPoint(s)
		if err != nil {
			return err
		}
		lon[i] = strconv.FormatFloat(x, 'f', -1, 64)
		lat[i] = strconv.FormatFloat(y, 'f', -1, 64)
	}
	t.DropColumn("WKT")
	t.AddColumn("longitude", lon)
	t.AddColumn("latitude", lat)
	return nil
}
