// Package geocode turns free-text locations into coordinates.
//
// A Resolver first accepts literal "lat, lng" input, then asks each configured
// Geocoder in turn. A location nobody recognises is a miss (ok == false), not an
// error; errors are reserved for lookups that could not be completed.
package geocode

import (
	"context"
	"fmt"
	"strings"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
)

// Geocoder resolves a normalized place name to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.Coordinate, bool, error)
}

// Resolver combines coordinate-string parsing with an ordered chain of geocoders.
type Resolver struct {
	chain []Geocoder
}

// NewResolver returns a Resolver that consults the geocoders in order.
func NewResolver(chain ...Geocoder) *Resolver {
	return &Resolver{chain: chain}
}

// Resolve returns the coordinate for text, which may be a place name or a
// literal "lat, lng" pair. Blank input and unknown places return ok == false.
func (r *Resolver) Resolve(ctx context.Context, text string) (domain.Coordinate, bool, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Coordinate{}, false, nil
	}
	if c, ok := geo.ParseCoordinates(text); ok {
		return c, true, nil
	}

	query := Normalize(text)
	for _, g := range r.chain {
		c, ok, err := g.Geocode(ctx, query)
		if err != nil {
			return domain.Coordinate{}, false, fmt.Errorf("geocode.Resolver.Resolve: %w", err)
		}
		if ok {
			return c, true, nil
		}
	}
	return domain.Coordinate{}, false, nil
}

// Normalize lowercases, trims, and collapses internal whitespace so that
// equivalent inputs share a gazetteer and cache key.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
