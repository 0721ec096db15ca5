// Package hos is the Hours-of-Service timeline and compliance engine.
//
// Everything here is a pure function over immutable values: a day of duty
// segments goes in, a derived summary comes out. Nothing blocks or keeps state
// between calls, so concurrent use needs no synchronisation.
package hos

import (
	"fmt"
	"math"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// Duration returns the elapsed hours from start to end on a 24-hour clock.
// An end earlier than the start wraps past midnight. An end equal to the start
// is zero hours, not a full day.
func Duration(startHour, startMinute, endHour, endMinute int) float64 {
	start := startHour*minutesPerHour + startMinute
	end := endHour*minutesPerHour + endMinute
	if end < start {
		end += minutesPerDay
	}
	return float64(end-start) / minutesPerHour
}

// SegmentDuration is Duration applied to a segment's clock fields.
func SegmentDuration(s domain.DutySegment) float64 {
	return Duration(s.StartHour, s.StartMinute, s.EndHour, s.EndMinute)
}

// IsValidSegment reports whether the segment's clock fields are in range and
// its duration is strictly positive.
func IsValidSegment(s domain.DutySegment) bool {
	return segmentProblem(s) == ""
}

// segmentProblem returns a description of the first rule s breaks, or "".
func segmentProblem(s domain.DutySegment) string {
	switch {
	case s.StartHour < 0 || s.StartHour > 24:
		return fmt.Sprintf("start hour %d out of range", s.StartHour)
	case s.EndHour < 0 || s.EndHour > 24:
		return fmt.Sprintf("end hour %d out of range", s.EndHour)
	case s.StartMinute < 0 || s.StartMinute > 59:
		return fmt.Sprintf("start minute %d out of range", s.StartMinute)
	case s.EndMinute < 0 || s.EndMinute > 59:
		return fmt.Sprintf("end minute %d out of range", s.EndMinute)
	case SegmentDuration(s) <= 0:
		return "duration must be positive"
	}
	return ""
}

// FormatDuration renders hours as "Xh Ym", e.g. 7.5 → "7h 30m".
func FormatDuration(hours float64) string {
	h := math.Floor(hours)
	m := math.Round((hours - h) * minutesPerHour)
	return fmt.Sprintf("%dh %dm", int(h), int(m))
}
