package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyLog is one driver's record of duty status for a single calendar day.
// Segments keep the order the driver entered them in.
type DailyLog struct {
	ID                  uuid.UUID
	DriverID            uuid.UUID
	Date                time.Time // calendar date, time-of-day is zero
	Segments            []DutySegment
	Remarks             string
	ShippingDocuments   string
	CoDriverName        string
	VehicleNumbers      string
	TotalMilesToday     float64
	TotalMilesYesterday float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// LogView is a DailyLog together with the values derived from its segments.
// Hours and Compliance are recomputed on every read.
type LogView struct {
	Log        DailyLog
	Hours      HoursSummary
	Compliance ComplianceResult
}

// LogFilter narrows a daily log listing. Nil fields do not filter.
// StartDate and EndDate are inclusive.
type LogFilter struct {
	DriverID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Compliant *bool
}

// LogStats summarises a set of daily logs for the dashboard.
type LogStats struct {
	TotalLogs     int
	TotalDrivers  int
	CompliantLogs int
	ViolationLogs int
	DrivingHours  float64
	RouteMiles    float64
}
