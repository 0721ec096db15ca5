package domain

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per duty segment, with driver and log
// fields repeated for every segment of that log. Logs with no segments yield
// one row with zero values for all segment fields.
type ExportRow struct {
	// Driver and log fields, repeated for every segment of the log.
	DriverID      string
	DriverName    string
	LicenseNumber string
	LogID         string
	LogDate       string // "2006-01-02" formatted date

	// Segment fields, zero values when the log has no segments.
	Status    string
	StartTime string // "15:04"
	EndTime   string
	Hours     float64
	Location  string
	Lat       *float64
	Lng       *float64
}
