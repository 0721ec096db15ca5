package hos

import "github.com/fleetlog/hos-logbook/internal/domain"

// Quarter-hour resolution of the paper log grid.
const (
	SlotMinutes = 15
	SlotsPerDay = minutesPerDay / SlotMinutes
)

// Grid is the log-sheet projection of a timeline: one row per duty status,
// one cell per quarter hour. Rows follow domain.DutyStatuses order.
type Grid [len(domain.DutyStatuses)][SlotsPerDay]bool

// Grid projects the timeline onto quarter-hour cells. A cell is active when its
// start minute falls inside a segment on the circular day, so a segment that
// crosses midnight marks both the late-evening and the early-morning cells.
func (t Timeline) Grid() Grid {
	var g Grid
	for _, s := range t.segments {
		start, end := segmentSpan(s)
		row := s.Status.Index()
		for slot := 0; slot < SlotsPerDay; slot++ {
			m := slot * SlotMinutes
			if (m >= start && m < end) || (m+minutesPerDay >= start && m+minutesPerDay < end) {
				g[row][slot] = true
			}
		}
	}
	return g
}

// Row returns the cells for one status.
func (g Grid) Row(status domain.DutyStatus) []bool {
	if !status.Valid() {
		return nil
	}
	row := g[status.Index()]
	return row[:]
}

// Active reports whether status is marked in the given slot.
func (g Grid) Active(status domain.DutyStatus, slot int) bool {
	if !status.Valid() || slot < 0 || slot >= SlotsPerDay {
		return false
	}
	return g[status.Index()][slot]
}

// Bar is one segment drawn as a horizontal bar on the log grid.
// Offset and Width are fractions of the day; a bar that crosses midnight
// has Offset+Width greater than 1.
type Bar struct {
	Status   domain.DutyStatus
	Offset   float64
	Width    float64
	Location string
}

// Bars returns one bar per segment, in timeline order.
func (t Timeline) Bars() []Bar {
	bars := make([]Bar, 0, len(t.segments))
	for _, s := range t.segments {
		start, end := segmentSpan(s)
		bars = append(bars, Bar{
			Status:   s.Status,
			Offset:   float64(start%minutesPerDay) / minutesPerDay,
			Width:    float64(end-start) / minutesPerDay,
			Location: s.Location,
		})
	}
	return bars
}

// segmentSpan returns the segment's start and end in minutes since midnight,
// with end moved into the next day when the segment wraps.
func segmentSpan(s domain.DutySegment) (start, end int) {
	start = s.StartHour*minutesPerHour + s.StartMinute
	end = s.EndHour*minutesPerHour + s.EndMinute
	if end < start {
		end += minutesPerDay
	}
	return start, end
}

// Chart is everything needed to draw a timeline on a paper-style log sheet.
type Chart struct {
	Grid  Grid
	Bars  []Bar
	Hours domain.HoursSummary
}

// Chart returns the grid and bars of the timeline along with its hours.
func (t Timeline) Chart() Chart {
	return Chart{Grid: t.Grid(), Bars: t.Bars(), Hours: t.Hours()}
}
