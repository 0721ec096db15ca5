// Package domain contains the core data types for the HOS logbook.
// It is imported by every other internal package (hos, geo, repo, service, handler)
// and depends on nothing inside the module.
package domain

import "fmt"

// DutyStatus is one of the four Hours-of-Service duty states.
// The zero value is not a valid status; it marks an unset field.
type DutyStatus uint8

const (
	OffDuty DutyStatus = iota + 1
	Sleeper
	Driving
	OnDuty
)

// DutyStatuses lists every status in log-grid row order.
var DutyStatuses = [...]DutyStatus{OffDuty, Sleeper, Driving, OnDuty}

// String returns the wire name of the status ("off-duty", "sleeper", ...).
func (s DutyStatus) String() string {
	switch s {
	case OffDuty:
		return "off-duty"
	case Sleeper:
		return "sleeper"
	case Driving:
		return "driving"
	case OnDuty:
		return "on-duty"
	}
	return fmt.Sprintf("DutyStatus(%d)", uint8(s))
}

// Label returns the human-readable row label used on paper log grids.
func (s DutyStatus) Label() string {
	switch s {
	case OffDuty:
		return "Off Duty"
	case Sleeper:
		return "Sleeper Berth"
	case Driving:
		return "Driving"
	case OnDuty:
		return "On-Duty (Not Driving)"
	}
	return s.String()
}

// Valid reports whether s is one of the four defined statuses.
func (s DutyStatus) Valid() bool {
	return s >= OffDuty && s <= OnDuty
}

// Index returns the zero-based grid row of s. Only meaningful when s.Valid().
func (s DutyStatus) Index() int {
	return int(s) - 1
}

// ParseDutyStatus converts a wire name into a DutyStatus.
// Returns ErrValidation for anything other than the four known names.
func ParseDutyStatus(v string) (DutyStatus, error) {
	for _, s := range DutyStatuses {
		if s.String() == v {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown duty status %q", ErrValidation, v)
}

// MarshalText implements encoding.TextMarshaler so statuses encode as their wire names.
func (s DutyStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: invalid duty status %d", ErrValidation, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *DutyStatus) UnmarshalText(b []byte) error {
	v, err := ParseDutyStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Coordinate is a WGS-84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DutySegment is one interval of a driver's day.
// End times may wrap past midnight; EndHour 24 means end of day.
type DutySegment struct {
	Status      DutyStatus  `json:"status"`
	StartHour   int         `json:"start_hour"`
	StartMinute int         `json:"start_minute"`
	EndHour     int         `json:"end_hour"`
	EndMinute   int         `json:"end_minute"`
	Location    string      `json:"location,omitempty"`
	Coordinate  *Coordinate `json:"coordinates,omitempty"`
}

// Located reports whether the segment carries a GPS fix.
func (s DutySegment) Located() bool {
	return s.Coordinate != nil
}
