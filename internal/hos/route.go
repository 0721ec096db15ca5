package hos

import (
	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
)

// ReconstructRoute infers driving legs from the located segments of a day.
//
// Logs only record a fix at each status change, so the best available estimate
// of a drive is the straight line from the previous fix, whatever its status, to
// the fix of the driving segment. Every located segment becomes the origin for
// the next driving one.
//
// Leg distances are rounded for display. The total is summed from the raw
// distances and rounded once.
func ReconstructRoute(segments []domain.DutySegment) domain.RouteSummary {
	route := domain.RouteSummary{Legs: []domain.DrivingLeg{}}

	var (
		last     *domain.DutySegment
		rawMiles float64
	)
	for i := range segments {
		s := &segments[i]
		if !s.Located() {
			continue
		}
		route.TotalLocations++

		if s.Status == domain.Driving {
			route.DrivingLocations++
			if last != nil {
				d := geo.HaversineMiles(*last.Coordinate, *s.Coordinate)
				rawMiles += d
				route.Legs = append(route.Legs, domain.DrivingLeg{
					Start:         *last.Coordinate,
					End:           *s.Coordinate,
					StartStatus:   last.Status,
					EndStatus:     domain.Driving,
					StartLocation: last.Location,
					EndLocation:   s.Location,
					DistanceMiles: geo.RoundTenth(d),
				})
			}
		}
		last = s
	}

	route.TotalDistanceMiles = geo.RoundTenth(rawMiles)
	return route
}
