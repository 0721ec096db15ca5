package geocode

import (
	"context"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

// stubGeocoder is a func-field Geocoder that records the queries it sees.
type stubGeocoder struct {
	GeocodeFn func(ctx context.Context, query string) (domain.Coordinate, bool, error)
	queries   []string
}

var _ Geocoder = (*stubGeocoder)(nil)

func (s *stubGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinate, bool, error) {
	s.queries = append(s.queries, query)
	return s.GeocodeFn(ctx, query)
}

func hit(c domain.Coordinate) func(context.Context, string) (domain.Coordinate, bool, error) {
	return func(context.Context, string) (domain.Coordinate, bool, error) { return c, true, nil }
}

func miss(context.Context, string) (domain.Coordinate, bool, error) {
	return domain.Coordinate{}, false, nil
}
