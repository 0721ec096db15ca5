package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
)

// Distance units accepted by GPSService.Distance.
const (
	UnitMiles      = "miles"
	UnitKilometers = "kilometers"
)

// GPSService exposes geocoding and great-circle distance helpers.
type GPSService struct {
	resolver LocationResolver
}

// NewGPSService constructs a GPSService. A nil resolver only understands
// literal "lat, lng" input.
func NewGPSService(resolver LocationResolver) *GPSService {
	return &GPSService{resolver: resolver}
}

// maxBatchGeocode caps the number of locations in one BatchGeocode call.
const maxBatchGeocode = 50

// GeocodeResult is the outcome of resolving one location in a batch.
// Err is set when the lookup itself failed.
type GeocodeResult struct {
	Location   string
	Coordinate domain.Coordinate
	Found      bool
	Err        error
}

// Geocode resolves free text to a coordinate. ok == false means no match.
func (s *GPSService) Geocode(ctx context.Context, location string) (domain.Coordinate, bool, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.Coordinate{}, false, fmt.Errorf("service.GPSService.Geocode: %w: location is required", domain.ErrValidation)
	}
	if s.resolver == nil {
		c, ok := geo.ParseCoordinates(location)
		return c, ok, nil
	}
	return s.resolver.Resolve(ctx, location)
}

// BatchGeocode resolves each location in order. A failed lookup is reported
// on its own result and does not stop the batch.
func (s *GPSService) BatchGeocode(ctx context.Context, locations []string) ([]GeocodeResult, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("service.GPSService.BatchGeocode: %w: locations are required", domain.ErrValidation)
	}
	if len(locations) > maxBatchGeocode {
		return nil, fmt.Errorf("service.GPSService.BatchGeocode: %w: at most %d locations per request", domain.ErrValidation, maxBatchGeocode)
	}

	results := make([]GeocodeResult, len(locations))
	for i, loc := range locations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, ok, err := s.Geocode(ctx, loc)
		results[i] = GeocodeResult{Location: loc, Coordinate: c, Found: ok, Err: err}
	}
	return results, nil
}

// Distance returns the distance between a and b in unit, rounded to one decimal.
// An empty unit means miles.
func (s *GPSService) Distance(a, b domain.Coordinate, unit string) (float64, string, error) {
	unit, perMile, err := parseUnit(unit)
	if err != nil {
		return 0, "", fmt.Errorf("service.GPSService.Distance: %w", err)
	}
	if !geo.Valid(a) || !geo.Valid(b) {
		return 0, "", fmt.Errorf("service.GPSService.Distance: %w: coordinates out of range", domain.ErrValidation)
	}
	return geo.RoundTenth(geo.HaversineMiles(a, b) * perMile), unit, nil
}

// RouteDistance returns per-leg and total distances in unit along an ordered
// list of waypoints.
func (s *GPSService) RouteDistance(waypoints []domain.Coordinate, unit string) ([]geo.PathLeg, float64, string, error) {
	unit, perMile, err := parseUnit(unit)
	if err != nil {
		return nil, 0, "", fmt.Errorf("service.GPSService.RouteDistance: %w", err)
	}
	if len(waypoints) < 2 {
		return nil, 0, "", fmt.Errorf("service.GPSService.RouteDistance: %w: at least two waypoints are required", domain.ErrValidation)
	}
	for i, w := range waypoints {
		if !geo.Valid(w) {
			return nil, 0, "", fmt.Errorf("service.GPSService.RouteDistance: %w: waypoint %d out of range", domain.ErrValidation, i)
		}
	}
	legs, total := geo.PathDistance(waypoints, perMile)
	return legs, total, unit, nil
}

func parseUnit(unit string) (string, float64, error) {
	switch unit {
	case "", UnitMiles:
		return UnitMiles, 1, nil
	case UnitKilometers:
		return UnitKilometers, geo.KilometersPerMile, nil
	}
	return "", 0, fmt.Errorf("%w: unit must be %q or %q", domain.ErrValidation, UnitMiles, UnitKilometers)
}
