package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

// csvHeaders is the first row of every CSV export.
var csvHeaders = []string{
	"driver_id", "driver_name", "license_number", "log_id", "log_date",
	"status", "start_time", "end_time", "hours", "location", "lat", "lng",
}

// ExportRow is one duty segment in the JSON export.
// Segment fields are omitted for logs without segments.
type ExportRow struct {
	DriverId      openapi_types.UUID `json:"driver_id"`
	DriverName    string             `json:"driver_name"`
	LicenseNumber string             `json:"license_number"`
	LogId         openapi_types.UUID `json:"log_id"`
	LogDate       string             `json:"log_date"`
	Status        *string            `json:"status,omitempty"`
	StartTime     *string            `json:"start_time,omitempty"`
	EndTime       *string            `json:"end_time,omitempty"`
	Hours         *float64           `json:"hours,omitempty"`
	Location      *string            `json:"location,omitempty"`
	Lat           *float64           `json:"lat,omitempty"`
	Lng           *float64           `json:"lng,omitempty"`
}

// GetExport handles GET /export.
// It returns every duty segment of every log as a flat table.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := queryParam(r, "format", &format); err != nil || (format != nil && *format != "csv" && *format != "json") {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(`format must be "csv" or "json"`))
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		respondError(w, r, err, "export")
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV. The buffer is filled before the status is
// written so a partial table is never sent.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer writes never fail.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="hos-logs.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func domainRowToResponse(r domain.ExportRow) ExportRow {
	driverID, _ := uuid.Parse(r.DriverID)
	logID, _ := uuid.Parse(r.LogID)
	row := ExportRow{
		DriverId:      driverID,
		DriverName:    r.DriverName,
		LicenseNumber: r.LicenseNumber,
		LogId:         logID,
		LogDate:       r.LogDate,
		Lat:           r.Lat,
		Lng:           r.Lng,
	}
	if r.Status != "" {
		hours := r.Hours
		row.Status = &r.Status
		row.StartTime = &r.StartTime
		row.EndTime = &r.EndTime
		row.Hours = &hours
	}
	if r.Location != "" {
		row.Location = &r.Location
	}
	return row
}

// domainRowToCSVRecord flattens a row; empty segment fields become empty cells.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	var hours string
	if r.Status != "" {
		hours = strconv.FormatFloat(r.Hours, 'f', -1, 64)
	}
	return []string{
		r.DriverID,
		r.DriverName,
		r.LicenseNumber,
		r.LogID,
		r.LogDate,
		r.Status,
		r.StartTime,
		r.EndTime,
		hours,
		r.Location,
		formatOptionalFloat(r.Lat),
		formatOptionalFloat(r.Lng),
	}
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
