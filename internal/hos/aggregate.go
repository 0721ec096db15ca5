package hos

import "github.com/fleetlog/hos-logbook/internal/domain"

// AggregateHours sums segment durations into the four duty buckets.
// Overlapping segments each contribute in full; gaps contribute nothing.
// Total is always domain.HoursInDay regardless of the bucket sum.
func AggregateHours(segments []domain.DutySegment) domain.HoursSummary {
	h := domain.HoursSummary{Total: domain.HoursInDay}
	for _, s := range segments {
		d := SegmentDuration(s)
		switch s.Status {
		case domain.OffDuty:
			h.OffDuty += d
		case domain.Sleeper:
			h.Sleeper += d
		case domain.Driving:
			h.Driving += d
		case domain.OnDuty:
			h.OnDuty += d
		}
	}
	return h
}
