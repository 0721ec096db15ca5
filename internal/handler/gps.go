package handler

import (
	"errors"
	"net/http"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
)

// GeocodeRequest is the body of POST /gps/geocode.
type GeocodeRequest struct {
	Location string `json:"location"`
}

// GeocodeResponse is a resolved location.
type GeocodeResponse struct {
	Location         string            `json:"location"`
	Coordinates      domain.Coordinate `json:"coordinates"`
	FormattedAddress string            `json:"formatted_address"`
}

// BatchGeocodeRequest is the body of POST /gps/batch-geocode.
type BatchGeocodeRequest struct {
	Locations []string `json:"locations"`
}

// BatchGeocodeResult is the outcome for one location in a batch.
// Status is "found", "not_found", or "error".
type BatchGeocodeResult struct {
	Location    string             `json:"location"`
	Coordinates *domain.Coordinate `json:"coordinates,omitempty"`
	Status      string             `json:"status"`
	Error       string             `json:"error,omitempty"`
}

// BatchGeocodeResponse is the body returned by POST /gps/batch-geocode.
type BatchGeocodeResponse struct {
	Results      []BatchGeocodeResult `json:"results"`
	SuccessCount int                  `json:"success_count"`
	FailureCount int                  `json:"failure_count"`
}

// DistanceRequest is the body of POST /gps/calculate-distance.
type DistanceRequest struct {
	Origin      *domain.Coordinate `json:"origin"`
	Destination *domain.Coordinate `json:"destination"`
	Unit        string             `json:"unit"`
}

// DistanceResponse is the great-circle distance between two points.
type DistanceResponse struct {
	Distance    float64           `json:"distance"`
	Unit        string            `json:"unit"`
	Origin      domain.Coordinate `json:"origin"`
	Destination domain.Coordinate `json:"destination"`
}

// RouteDistanceRequest is the body of POST /gps/calculate-route-distance.
type RouteDistanceRequest struct {
	Waypoints []domain.Coordinate `json:"waypoints"`
	Unit      string              `json:"unit"`
}

// RouteDistanceLeg is the distance between two consecutive waypoints.
type RouteDistanceLeg struct {
	From     domain.Coordinate `json:"from"`
	To       domain.Coordinate `json:"to"`
	Distance float64           `json:"distance"`
}

// RouteDistanceResponse is the measured waypoint path.
type RouteDistanceResponse struct {
	TotalDistance float64            `json:"total_distance"`
	Unit          string             `json:"unit"`
	Segments      []RouteDistanceLeg `json:"segments"`
	WaypointCount int                `json:"waypoint_count"`
}

// Geocode handles POST /gps/geocode. An unknown location is a 404.
func (s *Server) Geocode(w http.ResponseWriter, r *http.Request) {
	var body GeocodeRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	c, found, err := s.gps.Geocode(r.Context(), body.Location)
	if err != nil {
		respondError(w, r, err, "location")
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, notFoundBody("location not found"))
		return
	}
	writeJSON(w, http.StatusOK, GeocodeResponse{
		Location:         body.Location,
		Coordinates:      c,
		FormattedAddress: geo.FormatCoordinate(c),
	})
}

// BatchGeocode handles POST /gps/batch-geocode.
func (s *Server) BatchGeocode(w http.ResponseWriter, r *http.Request) {
	var body BatchGeocodeRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	results, err := s.gps.BatchGeocode(r.Context(), body.Locations)
	if err != nil {
		respondError(w, r, err, "location")
		return
	}

	resp := BatchGeocodeResponse{Results: make([]BatchGeocodeResult, len(results))}
	for i, res := range results {
		out := BatchGeocodeResult{Location: res.Location}
		switch {
		case res.Err != nil:
			out.Status = "error"
			out.Error = "geocoding failed"
			if errors.Is(res.Err, domain.ErrValidation) {
				out.Error = unwrapMessage(res.Err, domain.ErrValidation)
			}
			resp.FailureCount++
		case !res.Found:
			out.Status = "not_found"
			resp.FailureCount++
		default:
			c := res.Coordinate
			out.Status = "found"
			out.Coordinates = &c
			resp.SuccessCount++
		}
		resp.Results[i] = out
	}
	writeJSON(w, http.StatusOK, resp)
}

// CalculateDistance handles POST /gps/calculate-distance.
// unit is "miles" (default) or "kilometers".
func (s *Server) CalculateDistance(w http.ResponseWriter, r *http.Request) {
	var body DistanceRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Origin == nil || body.Destination == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("origin and destination are required"))
		return
	}

	d, unit, err := s.gps.Distance(*body.Origin, *body.Destination, body.Unit)
	if err != nil {
		respondError(w, r, err, "distance")
		return
	}
	writeJSON(w, http.StatusOK, DistanceResponse{
		Distance:    d,
		Unit:        unit,
		Origin:      *body.Origin,
		Destination: *body.Destination,
	})
}

// CalculateRouteDistance handles POST /gps/calculate-route-distance.
func (s *Server) CalculateRouteDistance(w http.ResponseWriter, r *http.Request) {
	var body RouteDistanceRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	legs, total, unit, err := s.gps.RouteDistance(body.Waypoints, body.Unit)
	if err != nil {
		respondError(w, r, err, "route")
		return
	}

	segments := make([]RouteDistanceLeg, len(legs))
	for i, l := range legs {
		segments[i] = RouteDistanceLeg{From: l.From, To: l.To, Distance: l.Distance}
	}
	writeJSON(w, http.StatusOK, RouteDistanceResponse{
		TotalDistance: total,
		Unit:          unit,
		Segments:      segments,
		WaypointCount: len(body.Waypoints),
	})
}
