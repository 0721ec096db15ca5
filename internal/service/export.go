package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/hos"
	"github.com/fleetlog/hos-logbook/internal/repo"
)

// ExportService assembles a flat export of every driver, log, and duty segment.
type ExportService struct {
	drivers repo.DriverRepo
	logs    repo.LogRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(drivers repo.DriverRepo, logs repo.LogRepo) *ExportService {
	return &ExportService{drivers: drivers, logs: logs}
}

// Export returns one ExportRow per duty segment, grouped by driver in name
// order and then by log date. Logs with no segments contribute one row with
// empty segment fields; drivers with no logs contribute nothing.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: drivers: %w", err)
	}
	logs, err := s.logs.List(ctx, domain.LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: logs: %w", err)
	}

	byDriver := make(map[uuid.UUID][]domain.DailyLog, len(drivers))
	for _, l := range logs {
		byDriver[l.DriverID] = append(byDriver[l.DriverID], l)
	}

	rows := []domain.ExportRow{}
	for _, d := range drivers {
		driverLogs := byDriver[d.ID]
		// Repo order is newest first; the export reads oldest first.
		for i := len(driverLogs) - 1; i >= 0; i-- {
			rows = append(rows, logRows(d, driverLogs[i])...)
		}
	}
	return rows, nil
}

func logRows(d domain.Driver, l domain.DailyLog) []domain.ExportRow {
	base := domain.ExportRow{
		DriverID:      d.ID.String(),
		DriverName:    d.Name,
		LicenseNumber: d.LicenseNumber,
		LogID:         l.ID.String(),
		LogDate:       l.Date.Format("2006-01-02"),
	}
	if len(l.Segments) == 0 {
		return []domain.ExportRow{base}
	}

	rows := make([]domain.ExportRow, 0, len(l.Segments))
	for _, seg := range l.Segments {
		r := base
		r.Status = seg.Status.String()
		r.StartTime = clock(seg.StartHour, seg.StartMinute)
		r.EndTime = clock(seg.EndHour, seg.EndMinute)
		r.Hours = hos.SegmentDuration(seg)
		r.Location = seg.Location
		if seg.Coordinate != nil {
			lat, lng := seg.Coordinate.Lat, seg.Coordinate.Lng
			r.Lat, r.Lng = &lat, &lng
		}
		rows = append(rows, r)
	}
	return rows
}

func clock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}
