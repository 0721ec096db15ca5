package hos

import (
	"fmt"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

// SegmentError reports the first invalid segment passed to NewTimeline.
// It unwraps to domain.ErrValidation.
type SegmentError struct {
	Index  int
	Reason string
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("%s: segment %d: %s", domain.ErrValidation, e.Index, e.Reason)
}

func (e *SegmentError) Unwrap() error {
	return domain.ErrValidation
}

// Timeline is a validated, ordered day of duty segments.
// Order is the caller's; segments may overlap or leave gaps.
type Timeline struct {
	segments []domain.DutySegment
}

// NewTimeline validates every segment and returns a Timeline holding a copy of them.
// The first invalid segment is reported as a *SegmentError; nothing is clamped or dropped.
func NewTimeline(segments []domain.DutySegment) (Timeline, error) {
	for i, s := range segments {
		if !s.Status.Valid() {
			return Timeline{}, &SegmentError{Index: i, Reason: "unknown duty status"}
		}
		if p := segmentProblem(s); p != "" {
			return Timeline{}, &SegmentError{Index: i, Reason: p}
		}
	}
	return Timeline{segments: cloneSegments(segments)}, nil
}

// Segments returns a copy of the timeline's segments in order.
func (t Timeline) Segments() []domain.DutySegment {
	return cloneSegments(t.segments)
}

// Len returns the number of segments.
func (t Timeline) Len() int {
	return len(t.segments)
}

// Hours aggregates the timeline into per-status totals.
func (t Timeline) Hours() domain.HoursSummary {
	return AggregateHours(t.segments)
}

// Compliance evaluates the timeline's hours against the daily HOS rules.
func (t Timeline) Compliance() domain.ComplianceResult {
	return EvaluateCompliance(t.Hours())
}

// Route reconstructs the driving legs between the timeline's located segments.
func (t Timeline) Route() domain.RouteSummary {
	return ReconstructRoute(t.segments)
}

// cloneSegments deep-copies segments, including coordinate pointers,
// so callers can never reach the timeline's storage.
func cloneSegments(in []domain.DutySegment) []domain.DutySegment {
	out := make([]domain.DutySegment, len(in))
	for i, s := range in {
		if s.Coordinate != nil {
			c := *s.Coordinate
			s.Coordinate = &c
		}
		out[i] = s
	}
	return out
}
