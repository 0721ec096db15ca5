package domain

import "github.com/google/uuid"

// DrivingLeg is one inferred driving distance between two consecutive known fixes,
// ending at a driving segment. DistanceMiles is rounded to one decimal place.
type DrivingLeg struct {
	Start         Coordinate `json:"start"`
	End           Coordinate `json:"end"`
	StartStatus   DutyStatus `json:"start_status"`
	EndStatus     DutyStatus `json:"end_status"`
	StartLocation string     `json:"start_location,omitempty"`
	EndLocation   string     `json:"end_location,omitempty"`
	DistanceMiles float64    `json:"distance_miles"`
}

// RouteSummary is the reconstructed route of one timeline.
// An empty Legs slice with zero TotalDistanceMiles means "no route data".
type RouteSummary struct {
	Legs               []DrivingLeg `json:"legs"`
	TotalDistanceMiles float64      `json:"total_distance_miles"`
	TotalLocations     int          `json:"total_locations"`
	DrivingLocations   int          `json:"driving_locations"`
}

// RouteFix is one located segment as plotted on a route map.
// Index is the segment's position in the log.
type RouteFix struct {
	Index      int
	Status     DutyStatus
	Location   string
	Coordinate Coordinate
	Geohash    string
}

// LogRoute is the route view of a single daily log.
type LogRoute struct {
	LogID   uuid.UUID
	Summary RouteSummary
	Fixes   []RouteFix
}
