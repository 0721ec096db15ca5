package hos

import (
	"fmt"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

// Single-day HOS limits, in hours.
const (
	MaxDrivingHours      = 11
	MaxOnDutyWindowHours = 14
	MinRestHours         = 10
)

// EvaluateCompliance applies the 11-hour driving, 14-hour window and 10-hour rest
// rules to h. Every rule is checked; violations are listed in that order.
func EvaluateCompliance(h domain.HoursSummary) domain.ComplianceResult {
	violations := []string{}

	if h.Driving > MaxDrivingHours {
		violations = append(violations,
			fmt.Sprintf("Driving time (%.1fh) exceeds %d-hour limit", h.Driving, MaxDrivingHours))
	}

	window := h.OnDuty + h.Driving
	if window > MaxOnDutyWindowHours {
		violations = append(violations,
			fmt.Sprintf("On-duty time (%.1fh) exceeds %d-hour window", window, MaxOnDutyWindowHours))
	}

	rest := h.OffDuty + h.Sleeper
	if rest < MinRestHours {
		violations = append(violations,
			fmt.Sprintf("Rest time (%.1fh) is less than required %d hours", rest, MinRestHours))
	}

	return domain.ComplianceResult{
		IsCompliant: len(violations) == 0,
		Violations:  violations,
	}
}
