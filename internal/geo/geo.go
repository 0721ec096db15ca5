// Package geo provides great-circle distance and coordinate helpers.
//
// Distances use the Haversine formula on a spherical Earth and ignore road
// topology. Inputs are assumed to be within legal lat/lng ranges; callers that
// accept coordinates from users check them with Valid first.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

const (
	// EarthRadiusMiles is the mean Earth radius used for all distances.
	EarthRadiusMiles = 3959.0

	// KilometersPerMile converts statute miles to kilometers.
	KilometersPerMile = 1.609344

	// GeohashPrecision is the geohash length used for route fixes (~150m cells).
	GeohashPrecision = 7
)

// HaversineMiles returns the great-circle distance between a and b in miles.
// The result is not rounded; use RoundTenth at presentation time.
//
//	a = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlng/2)
//	c = 2·atan2(√a, √(1−a))
//	d = R·c
func HaversineMiles(a, b domain.Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

// MilesToKilometers converts a distance in miles to kilometers.
func MilesToKilometers(miles float64) float64 {
	return miles * KilometersPerMile
}

// RoundTenth rounds v to one decimal place, halves away from zero.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// Valid reports whether c lies within [-90,90] latitude and [-180,180] longitude.
func Valid(c domain.Coordinate) bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// ParseCoordinates parses a literal "lat, lng" string.
// It returns false when the input does not split into exactly two numbers
// or when either number is out of range.
func ParseCoordinates(s string) (domain.Coordinate, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Coordinate{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Coordinate{}, false
	}
	c := domain.Coordinate{Lat: lat, Lng: lng}
	if math.IsNaN(lat) || math.IsNaN(lng) || !Valid(c) {
		return domain.Coordinate{}, false
	}
	return c, true
}

// FormatCoordinate renders c as "lat, lng" with four decimal places.
func FormatCoordinate(c domain.Coordinate) string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}

// Geohash encodes c at GeohashPrecision. Fixes that share a hash are close
// enough to be drawn as one marker.
func Geohash(c domain.Coordinate) string {
	return geohash.EncodeWithPrecision(c.Lat, c.Lng, GeohashPrecision)
}

// PathLeg is the distance between two consecutive waypoints.
type PathLeg struct {
	From     domain.Coordinate
	To       domain.Coordinate
	Distance float64 // rounded to one decimal place
}

// PathDistance measures a waypoint path in miles scaled by unitsPerMile
// (1 for miles, KilometersPerMile for kilometers). Each leg is rounded for
// display while the total is summed from raw distances and rounded once.
func PathDistance(waypoints []domain.Coordinate, unitsPerMile float64) ([]PathLeg, float64) {
	legs := make([]PathLeg, 0, max(len(waypoints)-1, 0))
	var total float64
	for i := 1; i < len(waypoints); i++ {
		d := HaversineMiles(waypoints[i-1], waypoints[i]) * unitsPerMile
		total += d
		legs = append(legs, PathLeg{From: waypoints[i-1], To: waypoints[i], Distance: RoundTenth(d)})
	}
	return legs, RoundTenth(total)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
