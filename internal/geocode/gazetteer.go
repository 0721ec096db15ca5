package geocode

import (
	"context"
	"strings"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

// minPrefixQuery is the shortest query matched as a fragment of a place name.
const minPrefixQuery = 3

// Place is a named coordinate in a Gazetteer.
type Place struct {
	Name       string
	Coordinate domain.Coordinate
}

// Gazetteer is an in-memory place table. Lookups try an exact name, then the
// longest place name found inside the query, then the first place name that
// contains the query.
type Gazetteer struct {
	places []Place
	exact  map[string]domain.Coordinate
}

// NewGazetteer builds a Gazetteer. Names are normalized; earlier entries win
// partial matches.
func NewGazetteer(places []Place) *Gazetteer {
	g := &Gazetteer{
		places: make([]Place, 0, len(places)),
		exact:  make(map[string]domain.Coordinate, len(places)),
	}
	for _, p := range places {
		p.Name = Normalize(p.Name)
		if _, dup := g.exact[p.Name]; dup {
			continue
		}
		g.places = append(g.places, p)
		g.exact[p.Name] = p.Coordinate
	}
	return g
}

// Geocode implements Geocoder. It never returns an error.
func (g *Gazetteer) Geocode(_ context.Context, query string) (domain.Coordinate, bool, error) {
	query = Normalize(query)
	if query == "" {
		return domain.Coordinate{}, false, nil
	}
	if c, ok := g.exact[query]; ok {
		return c, true, nil
	}
	best := -1
	for i, p := range g.places {
		if strings.Contains(query, p.Name) && (best < 0 || len(p.Name) > len(g.places[best].Name)) {
			best = i
		}
	}
	if best >= 0 {
		return g.places[best].Coordinate, true, nil
	}
	if len(query) < minPrefixQuery {
		return domain.Coordinate{}, false, nil
	}
	for _, p := range g.places {
		if strings.Contains(p.Name, query) {
			return p.Coordinate, true, nil
		}
	}
	return domain.Coordinate{}, false, nil
}

// DefaultPlaces covers the terminals, cities, and highway landmarks that show up
// on West Coast, Texas, and Midwest lanes.
var DefaultPlaces = []Place{
	{"terminal", domain.Coordinate{Lat: 34.0522, Lng: -118.2437}},
	{"los angeles terminal", domain.Coordinate{Lat: 34.0522, Lng: -118.2437}},
	{"san francisco terminal", domain.Coordinate{Lat: 37.7749, Lng: -122.4194}},
	{"houston terminal", domain.Coordinate{Lat: 29.7604, Lng: -95.3698}},
	{"dallas terminal", domain.Coordinate{Lat: 32.7767, Lng: -96.7970}},
	{"chicago terminal", domain.Coordinate{Lat: 41.8781, Lng: -87.6298}},

	{"los angeles", domain.Coordinate{Lat: 34.0522, Lng: -118.2437}},
	{"san francisco", domain.Coordinate{Lat: 37.7749, Lng: -122.4194}},
	{"sacramento", domain.Coordinate{Lat: 38.5816, Lng: -121.4944}},
	{"bakersfield", domain.Coordinate{Lat: 35.3733, Lng: -119.0187}},
	{"fresno", domain.Coordinate{Lat: 36.7378, Lng: -119.7871}},
	{"santa clarita", domain.Coordinate{Lat: 34.3917, Lng: -118.5426}},
	{"houston", domain.Coordinate{Lat: 29.7604, Lng: -95.3698}},
	{"dallas", domain.Coordinate{Lat: 32.7767, Lng: -96.7970}},
	{"austin", domain.Coordinate{Lat: 30.2672, Lng: -97.7431}},
	{"san antonio", domain.Coordinate{Lat: 29.4241, Lng: -98.4936}},
	{"chicago", domain.Coordinate{Lat: 41.8781, Lng: -87.6298}},
	{"st. louis", domain.Coordinate{Lat: 38.6270, Lng: -90.1994}},
	{"springfield", domain.Coordinate{Lat: 39.7817, Lng: -89.6501}},
	{"joliet", domain.Coordinate{Lat: 41.5250, Lng: -88.0817}},

	{"i-5 north", domain.Coordinate{Lat: 35.3733, Lng: -119.0187}},
	{"i-10 west", domain.Coordinate{Lat: 30.2672, Lng: -97.7431}},
	{"i-45 north", domain.Coordinate{Lat: 30.6280, Lng: -96.3344}},
	{"i-55 south", domain.Coordinate{Lat: 39.8045, Lng: -89.6440}},
	{"i-40 east", domain.Coordinate{Lat: 35.2087, Lng: -89.9711}},
	{"route 66", domain.Coordinate{Lat: 35.5182, Lng: -97.4409}},
	{"highway 101", domain.Coordinate{Lat: 36.5946, Lng: -121.8812}},
	{"rest stop", domain.Coordinate{Lat: 35.5, Lng: -119.5}},
	{"fuel stop", domain.Coordinate{Lat: 36.0, Lng: -120.0}},
	{"truck stop", domain.Coordinate{Lat: 36.5, Lng: -120.5}},

	{"warehouse", domain.Coordinate{Lat: 34.0500, Lng: -118.2500}},
	{"distribution center", domain.Coordinate{Lat: 34.0000, Lng: -118.3000}},
	{"loading dock", domain.Coordinate{Lat: 34.1000, Lng: -118.2000}},
	{"delivery point", domain.Coordinate{Lat: 37.7500, Lng: -122.4000}},
}
