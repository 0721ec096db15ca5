package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
	"github.com/fleetlog/hos-logbook/internal/hos"
	"github.com/fleetlog/hos-logbook/internal/repo"
)

// LocationResolver turns free-text locations into coordinates.
// ok == false is a miss; errors are reserved for failed lookups.
type LocationResolver interface {
	Resolve(ctx context.Context, text string) (domain.Coordinate, bool, error)
}

// LogService implements business logic for daily logs.
// Every read derives hours and compliance from the stored segments.
type LogService struct {
	logs     repo.LogRepo
	drivers  repo.DriverRepo
	resolver LocationResolver
}

// NewLogService constructs a LogService. resolver may be nil, in which case
// auto-geocoding is a no-op.
func NewLogService(logs repo.LogRepo, drivers repo.DriverRepo, resolver LocationResolver) *LogService {
	return &LogService{logs: logs, drivers: drivers, resolver: resolver}
}

// Create validates and persists a new daily log. With autoGeocode set, segments
// that have location text but no coordinates are resolved first.
func (s *LogService) Create(ctx context.Context, log domain.DailyLog, autoGeocode bool) (domain.LogView, error) {
	log, err := s.prepare(ctx, log, autoGeocode)
	if err != nil {
		return domain.LogView{}, fmt.Errorf("service.LogService.Create: %w", err)
	}
	created, err := s.logs.Create(ctx, log)
	if err != nil {
		return domain.LogView{}, err
	}
	return View(created), nil
}

// GetByID returns a log with its derived hours and compliance.
func (s *LogService) GetByID(ctx context.Context, id uuid.UUID) (domain.LogView, error) {
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return domain.LogView{}, err
	}
	return View(log), nil
}

// ListPaged returns one page of logs matching f and the total match count.
// Filtering on compliance happens here, after hours are derived.
func (s *LogService) ListPaged(ctx context.Context, f domain.LogFilter, p domain.PaginationParams) ([]domain.LogView, int64, error) {
	if f.Compliant == nil {
		logs, total, err := s.logs.ListPaged(ctx, f, p)
		if err != nil {
			return nil, 0, err
		}
		return views(logs), total, nil
	}

	logs, err := s.logs.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]domain.LogView, 0, len(logs))
	for _, l := range logs {
		v := View(l)
		if v.Compliance.IsCompliant == *f.Compliant {
			matched = append(matched, v)
		}
	}

	total := int64(len(matched))
	start := min(p.Offset(), len(matched))
	end := min(start+p.Limit, len(matched))
	return matched[start:end], total, nil
}

// Update validates and overwrites an existing log, replacing its segments.
func (s *LogService) Update(ctx context.Context, log domain.DailyLog, autoGeocode bool) (domain.LogView, error) {
	log, err := s.prepare(ctx, log, autoGeocode)
	if err != nil {
		return domain.LogView{}, fmt.Errorf("service.LogService.Update: %w", err)
	}
	updated, err := s.logs.Update(ctx, log)
	if err != nil {
		return domain.LogView{}, err
	}
	return View(updated), nil
}

// Delete removes a log.
func (s *LogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.logs.Delete(ctx, id)
}

// Route reconstructs the driving route of a stored log and lists its GPS fixes.
func (s *LogService) Route(ctx context.Context, id uuid.UUID) (domain.LogRoute, error) {
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return domain.LogRoute{}, err
	}

	fixes := []domain.RouteFix{}
	for i, seg := range log.Segments {
		if !seg.Located() {
			continue
		}
		fixes = append(fixes, domain.RouteFix{
			Index:      i,
			Status:     seg.Status,
			Location:   seg.Location,
			Coordinate: *seg.Coordinate,
			Geohash:    geo.Geohash(*seg.Coordinate),
		})
	}

	return domain.LogRoute{
		LogID:   log.ID,
		Summary: hos.ReconstructRoute(log.Segments),
		Fixes:   fixes,
	}, nil
}

// Chart projects a stored log onto the quarter-hour log grid.
func (s *LogService) Chart(ctx context.Context, id uuid.UUID) (hos.Chart, error) {
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return hos.Chart{}, err
	}
	tl, err := hos.NewTimeline(log.Segments)
	if err != nil {
		// Segments were validated on write; a failure here means bad stored data.
		return hos.Chart{}, fmt.Errorf("service.LogService.Chart: stored log %s: %v", id, err)
	}
	return tl.Chart(), nil
}

// CheckCompliance evaluates segments without storing anything.
func (s *LogService) CheckCompliance(_ context.Context, segments []domain.DutySegment) (domain.HoursSummary, domain.ComplianceResult, error) {
	tl, err := hos.NewTimeline(segments)
	if err != nil {
		return domain.HoursSummary{}, domain.ComplianceResult{}, fmt.Errorf("service.LogService.CheckCompliance: %w", err)
	}
	return tl.Hours(), tl.Compliance(), nil
}

// DashboardStats summarises every log in the system.
func (s *LogService) DashboardStats(ctx context.Context) (domain.LogStats, error) {
	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return domain.LogStats{}, err
	}
	logs, err := s.logs.List(ctx, domain.LogFilter{})
	if err != nil {
		return domain.LogStats{}, err
	}
	stats := summarize(logs)
	stats.TotalDrivers = len(drivers)
	return stats, nil
}

// DriverStats summarises one driver's logs.
// Returns domain.ErrNotFound if the driver does not exist.
func (s *LogService) DriverStats(ctx context.Context, driverID uuid.UUID) (domain.LogStats, error) {
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return domain.LogStats{}, err
	}
	logs, err := s.logs.List(ctx, domain.LogFilter{DriverID: &driverID})
	if err != nil {
		return domain.LogStats{}, err
	}
	stats := summarize(logs)
	stats.TotalDrivers = 1
	return stats, nil
}

// View derives the hours and compliance of a stored log.
func View(log domain.DailyLog) domain.LogView {
	hours := hos.AggregateHours(log.Segments)
	return domain.LogView{
		Log:        log,
		Hours:      hours,
		Compliance: hos.EvaluateCompliance(hours),
	}
}

func views(logs []domain.DailyLog) []domain.LogView {
	out := make([]domain.LogView, len(logs))
	for i, l := range logs {
		out[i] = View(l)
	}
	return out
}

func summarize(logs []domain.DailyLog) domain.LogStats {
	var (
		stats domain.LogStats
		miles float64
	)
	for _, l := range logs {
		v := View(l)
		stats.TotalLogs++
		if v.Compliance.IsCompliant {
			stats.CompliantLogs++
		} else {
			stats.ViolationLogs++
		}
		stats.DrivingHours += v.Hours.Driving
		miles += hos.ReconstructRoute(l.Segments).TotalDistanceMiles
	}
	stats.DrivingHours = geo.RoundTenth(stats.DrivingHours)
	stats.RouteMiles = geo.RoundTenth(miles)
	return stats
}

// prepare normalizes and validates a log before it is written.
func (s *LogService) prepare(ctx context.Context, log domain.DailyLog, autoGeocode bool) (domain.DailyLog, error) {
	if log.DriverID == uuid.Nil {
		return domain.DailyLog{}, fmt.Errorf("%w: driver_id is required", domain.ErrValidation)
	}
	if log.Date.IsZero() {
		return domain.DailyLog{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if log.TotalMilesToday < 0 || log.TotalMilesYesterday < 0 {
		return domain.DailyLog{}, fmt.Errorf("%w: mileage cannot be negative", domain.ErrValidation)
	}

	if _, err := s.drivers.GetByID(ctx, log.DriverID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DailyLog{}, fmt.Errorf("%w: driver %s does not exist", domain.ErrValidation, log.DriverID)
		}
		return domain.DailyLog{}, err
	}

	tl, err := hos.NewTimeline(log.Segments)
	if err != nil {
		return domain.DailyLog{}, err
	}
	segments := tl.Segments()
	for i := range segments {
		segments[i].Location = strings.TrimSpace(segments[i].Location)
		if c := segments[i].Coordinate; c != nil && !geo.Valid(*c) {
			return domain.DailyLog{}, fmt.Errorf("%w: segment %d: coordinates out of range", domain.ErrValidation, i)
		}
	}
	if autoGeocode {
		s.geocodeSegments(ctx, segments)
	}

	y, m, d := log.Date.Date()
	log.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	log.Remarks = strings.TrimSpace(log.Remarks)
	log.ShippingDocuments = strings.TrimSpace(log.ShippingDocuments)
	log.CoDriverName = strings.TrimSpace(log.CoDriverName)
	log.VehicleNumbers = strings.TrimSpace(log.VehicleNumbers)
	log.Segments = segments
	return log, nil
}

// geocodeSegments fills in coordinates for segments that only have location
// text. Misses stay unlocated; lookup failures are logged and skipped.
func (s *LogService) geocodeSegments(ctx context.Context, segments []domain.DutySegment) {
	if s.resolver == nil {
		return
	}
	for i := range segments {
		seg := &segments[i]
		if seg.Located() || seg.Location == "" {
			continue
		}
		c, ok, err := s.resolver.Resolve(ctx, seg.Location)
		if err != nil {
			slog.WarnContext(ctx, "auto-geocode failed", "segment", i, "location", seg.Location, "error", err)
			continue
		}
		if !ok {
			slog.DebugContext(ctx, "auto-geocode miss", "segment", i, "location", seg.Location)
			continue
		}
		seg.Coordinate = &c
	}
}
