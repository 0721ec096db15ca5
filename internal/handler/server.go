// Package handler implements the HTTP API of the HOS logbook.
// All handlers are methods on Server; Routes mounts them on a chi router.
// Methods are split into resource files (driver.go, log.go, gps.go, ...) but
// share the Server struct and its service dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
	"github.com/fleetlog/hos-logbook/internal/hos"
	"github.com/fleetlog/hos-logbook/internal/service"
	"github.com/fleetlog/hos-logbook/spec"
)

// APIPrefix is the path every resource route is mounted under.
const APIPrefix = "/api/v1"

// DriverServicer defines the driver operations the handlers depend on.
// Interfaces live here, in the consumer, so tests can inject mocks.
type DriverServicer interface {
	Create(ctx context.Context, d domain.Driver) (domain.Driver, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	ListPaged(ctx context.Context, search string, p domain.PaginationParams) ([]domain.Driver, int64, error)
	Update(ctx context.Context, d domain.Driver) (domain.Driver, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LogServicer defines the daily log operations the handlers depend on.
type LogServicer interface {
	Create(ctx context.Context, log domain.DailyLog, autoGeocode bool) (domain.LogView, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.LogView, error)
	ListPaged(ctx context.Context, f domain.LogFilter, p domain.PaginationParams) ([]domain.LogView, int64, error)
	Update(ctx context.Context, log domain.DailyLog, autoGeocode bool) (domain.LogView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Route(ctx context.Context, id uuid.UUID) (domain.LogRoute, error)
	Chart(ctx context.Context, id uuid.UUID) (hos.Chart, error)
	CheckCompliance(ctx context.Context, segments []domain.DutySegment) (domain.HoursSummary, domain.ComplianceResult, error)
	DashboardStats(ctx context.Context) (domain.LogStats, error)
	DriverStats(ctx context.Context, driverID uuid.UUID) (domain.LogStats, error)
}

// GPSServicer defines the geocoding and distance operations.
type GPSServicer interface {
	Geocode(ctx context.Context, location string) (domain.Coordinate, bool, error)
	BatchGeocode(ctx context.Context, locations []string) ([]service.GeocodeResult, error)
	Distance(a, b domain.Coordinate, unit string) (float64, string, error)
	RouteDistance(waypoints []domain.Coordinate, unit string) ([]geo.PathLeg, float64, string, error)
}

// ExportServicer defines the export operation.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the services behind every endpoint.
// A nil service leaves its routes unmounted.
type Server struct {
	drivers DriverServicer
	logs    LogServicer
	gps     GPSServicer
	export  ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(drivers DriverServicer, logs LogServicer, gps GPSServicer, export ExportServicer) *Server {
	return &Server{drivers: drivers, logs: logs, gps: gps, export: export}
}

// Routes returns the router for the whole API: /healthz and /openapi.yaml at
// the root and every resource under APIPrefix. Trailing slashes are ignored.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.StripSlashes)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	r.Route(APIPrefix, func(r chi.Router) {
		if s.drivers != nil {
			r.Route("/drivers", func(r chi.Router) {
				r.Get("/", s.ListDrivers)
				r.Post("/", s.CreateDriver)
				r.Get("/{id}", s.GetDriver)
				r.Put("/{id}", s.UpdateDriver)
				r.Delete("/{id}", s.DeleteDriver)
				if s.logs != nil {
					r.Get("/{id}/stats", s.GetDriverStats)
				}
			})
		}
		if s.logs != nil {
			r.Get("/dashboard/stats", s.GetDashboardStats)
			r.Route("/logs", func(r chi.Router) {
				r.Get("/", s.ListLogs)
				r.Post("/", s.CreateLog)
				r.Post("/compliance-check", s.CheckCompliance)
				r.Get("/{id}", s.GetLog)
				r.Put("/{id}", s.UpdateLog)
				r.Delete("/{id}", s.DeleteLog)
				r.Get("/{id}/route", s.GetLogRoute)
				r.Get("/{id}/grid", s.GetLogGrid)
			})
		}
		if s.gps != nil {
			r.Route("/gps", func(r chi.Router) {
				r.Post("/geocode", s.Geocode)
				r.Post("/batch-geocode", s.BatchGeocode)
				r.Post("/calculate-distance", s.CalculateDistance)
				r.Post("/calculate-route-distance", s.CalculateRouteDistance)
			})
		}
		if s.export != nil {
			r.Get("/export", s.GetExport)
		}
	})
	return r
}
