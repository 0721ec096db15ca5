package handler

import (
	"net/http"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
)

// Stats is the body of the dashboard and per-driver statistics endpoints.
type Stats struct {
	TotalLogs      int     `json:"total_logs"`
	TotalDrivers   int     `json:"total_drivers"`
	CompliantLogs  int     `json:"compliant_logs"`
	ViolationLogs  int     `json:"violation_logs"`
	ComplianceRate float64 `json:"compliance_rate"` // percent, one decimal
	DrivingHours   float64 `json:"driving_hours"`
	RouteMiles     float64 `json:"route_miles"`
}

// GetDashboardStats handles GET /dashboard/stats.
func (s *Server) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.logs.DashboardStats(r.Context())
	if err != nil {
		respondError(w, r, err, "stats")
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(stats))
}

// GetDriverStats handles GET /drivers/{id}/stats.
func (s *Server) GetDriverStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	stats, err := s.logs.DriverStats(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "driver")
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(stats))
}

func statsToResponse(st domain.LogStats) Stats {
	out := Stats{
		TotalLogs:     st.TotalLogs,
		TotalDrivers:  st.TotalDrivers,
		CompliantLogs: st.CompliantLogs,
		ViolationLogs: st.ViolationLogs,
		DrivingHours:  st.DrivingHours,
		RouteMiles:    st.RouteMiles,
	}
	if st.TotalLogs > 0 {
		out.ComplianceRate = geo.RoundTenth(100 * float64(st.CompliantLogs) / float64(st.TotalLogs))
	}
	return out
}
