package hos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/hos"
)

func located(status domain.DutyStatus, sh, eh int, name string, lat, lng float64) domain.DutySegment {
	return domain.DutySegment{
		Status:     status,
		StartHour:  sh,
		EndHour:    eh,
		Location:   name,
		Coordinate: &domain.Coordinate{Lat: lat, Lng: lng},
	}
}

func TestReconstructRoute_NoLocatedSegments(t *testing.T) {
	for _, segs := range [][]domain.DutySegment{
		nil,
		{seg(domain.Driving, 6, 0, 12, 0), seg(domain.OnDuty, 12, 0, 13, 0)},
	} {
		got := hos.ReconstructRoute(segs)

		assert.NotNil(t, got.Legs)
		assert.Empty(t, got.Legs)
		assert.Zero(t, got.TotalDistanceMiles)
		assert.Zero(t, got.TotalLocations)
	}
}

func TestReconstructRoute_SingleLocatedSegment(t *testing.T) {
	got := hos.ReconstructRoute([]domain.DutySegment{
		seg(domain.OffDuty, 0, 0, 6, 0),
		located(domain.Driving, 6, 12, "Fresno", 36.74, -119.79),
	})

	assert.Empty(t, got.Legs)
	assert.Zero(t, got.TotalDistanceMiles)
	assert.Equal(t, 1, got.TotalLocations)
	assert.Equal(t, 1, got.DrivingLocations)
}

func TestReconstructRoute_AnyStatusIsALegOrigin(t *testing.T) {
	got := hos.ReconstructRoute([]domain.DutySegment{
		located(domain.OnDuty, 6, 7, "Terminal", 34.0522, -118.2437),
		located(domain.Driving, 7, 10, "Bakersfield", 35.3733, -119.0187),
		located(domain.OffDuty, 10, 11, "Rest stop", 35.5, -119.5),
		located(domain.Driving, 11, 14, "Fresno", 36.7378, -119.7871),
	})

	require.Len(t, got.Legs, 2)
	assert.Equal(t, domain.OnDuty, got.Legs[0].StartStatus)
	assert.Equal(t, domain.Driving, got.Legs[0].EndStatus)
	assert.Equal(t, "Terminal", got.Legs[0].StartLocation)
	assert.Equal(t, "Bakersfield", got.Legs[0].EndLocation)
	assert.Equal(t, 101.3, got.Legs[0].DistanceMiles)

	assert.Equal(t, domain.OffDuty, got.Legs[1].StartStatus)
	assert.Equal(t, domain.Coordinate{Lat: 35.5, Lng: -119.5}, got.Legs[1].Start)
	assert.Equal(t, "Rest stop", got.Legs[1].StartLocation)

	assert.Equal(t, 4, got.TotalLocations)
	assert.Equal(t, 2, got.DrivingLocations)
}

func TestReconstructRoute_NonDrivingSegmentsEmitNoLegs(t *testing.T) {
	got := hos.ReconstructRoute([]domain.DutySegment{
		located(domain.OnDuty, 6, 7, "A", 34, -118),
		located(domain.OffDuty, 7, 8, "B", 35, -119),
		located(domain.Sleeper, 8, 9, "C", 36, -120),
	})

	assert.Empty(t, got.Legs)
	assert.Zero(t, got.TotalDistanceMiles)
	assert.Equal(t, 3, got.TotalLocations)
}

func TestReconstructRoute_ConsecutiveDrivingSegments(t *testing.T) {
	got := hos.ReconstructRoute([]domain.DutySegment{
		located(domain.Driving, 6, 7, "", 0, 0),
		located(domain.Driving, 7, 8, "", 0, 0.015),
		located(domain.Driving, 8, 9, "", 0, 0.03),
	})

	require.Len(t, got.Legs, 2)
	assert.Equal(t, domain.Driving, got.Legs[1].StartStatus)
	// Legs round to 1.0 each; the total is rounded from the raw 2.07 mi.
	assert.Equal(t, 1.0, got.Legs[0].DistanceMiles)
	assert.Equal(t, 1.0, got.Legs[1].DistanceMiles)
	assert.Equal(t, 2.1, got.TotalDistanceMiles)
}

func TestReconstructRoute_UnlocatedSegmentsAreSkipped(t *testing.T) {
	got := hos.ReconstructRoute([]domain.DutySegment{
		located(domain.OnDuty, 6, 7, "Terminal", 34.0522, -118.2437),
		seg(domain.Driving, 7, 0, 9, 0),
		seg(domain.OffDuty, 9, 0, 10, 0),
		located(domain.Driving, 10, 12, "Bakersfield", 35.3733, -119.0187),
	})

	require.Len(t, got.Legs, 1)
	assert.Equal(t, domain.OnDuty, got.Legs[0].StartStatus)
	assert.Equal(t, 101.3, got.TotalDistanceMiles)
}

func TestReconstructRoute_DoesNotMutateInput(t *testing.T) {
	in := []domain.DutySegment{
		located(domain.OnDuty, 6, 7, "A", 34, -118),
		located(domain.Driving, 7, 8, "B", 35, -119),
	}
	before := *in[0].Coordinate

	hos.ReconstructRoute(in)

	assert.Equal(t, before, *in[0].Coordinate)
	assert.Equal(t, domain.OnDuty, in[0].Status)
}
