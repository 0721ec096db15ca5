package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
	"github.com/fleetlog/hos-logbook/internal/hos"
)

// RouteFix is one located segment on the route map.
type RouteFix struct {
	Index       int               `json:"index"`
	Status      domain.DutyStatus `json:"status"`
	Location    string            `json:"location,omitempty"`
	Coordinates domain.Coordinate `json:"coordinates"`
	Formatted   string            `json:"formatted"`
	Geohash     string            `json:"geohash"`
}

// LogRoute is the body of GET /logs/{id}/route.
type LogRoute struct {
	LogId openapi_types.UUID `json:"log_id"`
	domain.RouteSummary
	Fixes []RouteFix `json:"fixes"`
}

// GridRow is one status line of the log grid.
type GridRow struct {
	Status    domain.DutyStatus `json:"status"`
	Label     string            `json:"label"`
	Slots     []bool            `json:"slots"`
	Hours     float64           `json:"hours"`
	Formatted string            `json:"formatted"`
}

// GridBar is one segment drawn across the grid, as fractions of the day.
type GridBar struct {
	Status   domain.DutyStatus `json:"status"`
	Offset   float64           `json:"offset"`
	Width    float64           `json:"width"`
	Location string            `json:"location,omitempty"`
}

// LogGrid is the body of GET /logs/{id}/grid.
type LogGrid struct {
	LogId       openapi_types.UUID  `json:"log_id"`
	SlotMinutes int                 `json:"slot_minutes"`
	Rows        []GridRow           `json:"rows"`
	Bars        []GridBar           `json:"bars"`
	Hours       domain.HoursSummary `json:"hours"`
}

// GetLogRoute handles GET /logs/{id}/route.
func (s *Server) GetLogRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	route, err := s.logs.Route(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "log")
		return
	}

	fixes := make([]RouteFix, len(route.Fixes))
	for i, f := range route.Fixes {
		fixes[i] = RouteFix{
			Index:       f.Index,
			Status:      f.Status,
			Location:    f.Location,
			Coordinates: f.Coordinate,
			Formatted:   geo.FormatCoordinate(f.Coordinate),
			Geohash:     f.Geohash,
		}
	}
	writeJSON(w, http.StatusOK, LogRoute{LogId: route.LogID, RouteSummary: route.Summary, Fixes: fixes})
}

// GetLogGrid handles GET /logs/{id}/grid.
func (s *Server) GetLogGrid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	chart, err := s.logs.Chart(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "log")
		return
	}

	rows := make([]GridRow, 0, len(domain.DutyStatuses))
	for _, st := range domain.DutyStatuses {
		h := hoursFor(chart.Hours, st)
		rows = append(rows, GridRow{
			Status:    st,
			Label:     st.Label(),
			Slots:     chart.Grid.Row(st),
			Hours:     h,
			Formatted: hos.FormatDuration(h),
		})
	}
	bars := make([]GridBar, len(chart.Bars))
	for i, b := range chart.Bars {
		bars[i] = GridBar{Status: b.Status, Offset: b.Offset, Width: b.Width, Location: b.Location}
	}

	writeJSON(w, http.StatusOK, LogGrid{
		LogId:       id,
		SlotMinutes: hos.SlotMinutes,
		Rows:        rows,
		Bars:        bars,
		Hours:       chart.Hours,
	})
}
