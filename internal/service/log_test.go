package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
	"github.com/fleetlog/hos-logbook/internal/hos"
	"github.com/fleetlog/hos-logbook/internal/repo"
	"github.com/fleetlog/hos-logbook/internal/service"
)

// mockLogRepo is a hand-written test double for repo.LogRepo.
type mockLogRepo struct {
	create    func(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.DailyLog, error)
	list      func(ctx context.Context, f domain.LogFilter) ([]domain.DailyLog, error)
	listPaged func(ctx context.Context, f domain.LogFilter, p domain.PaginationParams) ([]domain.DailyLog, int64, error)
	update    func(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockLogRepo) Create(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error) {
	return m.create(ctx, log)
}
func (m *mockLogRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DailyLog, error) {
	return m.getByID(ctx, id)
}
func (m *mockLogRepo) List(ctx context.Context, f domain.LogFilter) ([]domain.DailyLog, error) {
	return m.list(ctx, f)
}
func (m *mockLogRepo) ListPaged(ctx context.Context, f domain.LogFilter, p domain.PaginationParams) ([]domain.DailyLog, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockLogRepo) Update(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error) {
	return m.update(ctx, log)
}
func (m *mockLogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.LogRepo = (*mockLogRepo)(nil)

// mockResolver answers from a fixed table; "boom" fails the lookup.
type mockResolver struct {
	places map[string]domain.Coordinate
	calls  []string
}

func (m *mockResolver) Resolve(_ context.Context, text string) (domain.Coordinate, bool, error) {
	m.calls = append(m.calls, text)
	if text == "boom" {
		return domain.Coordinate{}, false, errors.New("geocoder unavailable")
	}
	c, ok := m.places[text]
	return c, ok, nil
}

var _ service.LocationResolver = (*mockResolver)(nil)

// ---- helpers ---------------------------------------------------------------

var (
	terminal    = domain.Coordinate{Lat: 34.0522, Lng: -118.2437}
	bakersfield = domain.Coordinate{Lat: 35.3733, Lng: -119.0187}
)

func span(status domain.DutyStatus, sh, eh int) domain.DutySegment {
	return domain.DutySegment{Status: status, StartHour: sh, EndHour: eh}
}

func at(s domain.DutySegment, name string, c *domain.Coordinate) domain.DutySegment {
	s.Location = name
	s.Coordinate = c
	return s
}

// compliantDay: 8h driving, 10h on duty incl. driving, 14h rest.
func compliantDay() []domain.DutySegment {
	return []domain.DutySegment{
		at(span(domain.OffDuty, 0, 10), "Los Angeles Terminal", &terminal),
		at(span(domain.Driving, 10, 18), "Bakersfield", &bakersfield),
		span(domain.OnDuty, 18, 20),
		span(domain.Sleeper, 20, 24),
	}
}

// violatingDay: 12h driving.
func violatingDay() []domain.DutySegment {
	return []domain.DutySegment{
		span(domain.Driving, 0, 12),
		span(domain.OffDuty, 12, 24),
	}
}

func logWith(segs []domain.DutySegment) domain.DailyLog {
	return domain.DailyLog{
		ID:       uuid.New(),
		DriverID: uuid.New(),
		Date:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Segments: segs,
	}
}

func knownDriverRepo() *mockDriverRepo {
	return &mockDriverRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Driver, error) {
			return domain.Driver{ID: id, Name: "Dana Reyes"}, nil
		},
	}
}

func echoLogRepo() *mockLogRepo {
	return &mockLogRepo{
		create: func(_ context.Context, l domain.DailyLog) (domain.DailyLog, error) { return l, nil },
		update: func(_ context.Context, l domain.DailyLog) (domain.DailyLog, error) { return l, nil },
	}
}

func storedLog(l domain.DailyLog) *mockLogRepo {
	return &mockLogRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.DailyLog, error) {
			if id != l.ID {
				return domain.DailyLog{}, domain.ErrNotFound
			}
			return l, nil
		},
	}
}

// ---- Create ----------------------------------------------------------------

func TestLogService_Create_Valid(t *testing.T) {
	svc := service.NewLogService(echoLogRepo(), knownDriverRepo(), nil)

	in := logWith(compliantDay())
	in.Date = time.Date(2025, 3, 14, 17, 30, 0, 0, time.FixedZone("PDT", -7*3600))
	in.Segments[1].Location = "  Bakersfield  "
	in.Remarks = " fuel at Bakersfield "

	got, err := svc.Create(context.Background(), in, false)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), got.Log.Date)
	assert.Equal(t, "Bakersfield", got.Log.Segments[1].Location)
	assert.Equal(t, "fuel at Bakersfield", got.Log.Remarks)
	assert.Equal(t, domain.HoursSummary{OffDuty: 10, Sleeper: 4, Driving: 8, OnDuty: 2, Total: 24}, got.Hours)
	assert.True(t, got.Compliance.IsCompliant)
	assert.Empty(t, got.Compliance.Violations)
}

func TestLogService_Create_DoesNotMutateInput(t *testing.T) {
	svc := service.NewLogService(echoLogRepo(), knownDriverRepo(), &mockResolver{
		places: map[string]domain.Coordinate{"fresno": {Lat: 36.7378, Lng: -119.7871}},
	})

	in := logWith([]domain.DutySegment{at(span(domain.Driving, 6, 12), "fresno", nil)})
	_, err := svc.Create(context.Background(), in, true)

	require.NoError(t, err)
	assert.Nil(t, in.Segments[0].Coordinate)
}

func TestLogService_Create_InvalidSegment(t *testing.T) {
	svc := service.NewLogService(echoLogRepo(), knownDriverRepo(), nil)

	in := logWith([]domain.DutySegment{
		span(domain.OffDuty, 0, 6),
		span(domain.Driving, 9, 9),
	})

	_, err := svc.Create(context.Background(), in, false)

	require.ErrorIs(t, err, domain.ErrValidation)
	var segErr *hos.SegmentError
	require.ErrorAs(t, err, &segErr)
	assert.Equal(t, 1, segErr.Index)
}

func TestLogService_Create_CoordinatesOutOfRange(t *testing.T) {
	svc := service.NewLogService(echoLogRepo(), knownDriverRepo(), nil)

	in := logWith([]domain.DutySegment{at(span(domain.Driving, 0, 5), "nowhere", &domain.Coordinate{Lat: 91, Lng: 0})})

	_, err := svc.Create(context.Background(), in, false)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "segment 0: coordinates out of range")
}

func TestLogService_Create_RequiredFields(t *testing.T) {
	svc := service.NewLogService(echoLogRepo(), knownDriverRepo(), nil)

	noDriver := logWith(compliantDay())
	noDriver.DriverID = uuid.Nil
	_, err := svc.Create(context.Background(), noDriver, false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	noDate := logWith(compliantDay())
	noDate.Date = time.Time{}
	_, err = svc.Create(context.Background(), noDate, false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	negative := logWith(compliantDay())
	negative.TotalMilesToday = -1
	_, err = svc.Create(context.Background(), negative, false)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogService_Create_UnknownDriver(t *testing.T) {
	drivers := &mockDriverRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Driver, error) {
			return domain.Driver{}, domain.ErrNotFound
		},
	}
	svc := service.NewLogService(echoLogRepo(), drivers, nil)

	_, err := svc.Create(context.Background(), logWith(compliantDay()), false)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestLogService_Create_Conflict(t *testing.T) {
	logs := &mockLogRepo{
		create: func(context.Context, domain.DailyLog) (domain.DailyLog, error) {
			return domain.DailyLog{}, domain.ErrConflict
		},
	}
	svc := service.NewLogService(logs, knownDriverRepo(), nil)

	_, err := svc.Create(context.Background(), logWith(compliantDay()), false)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogService_Create_AutoGeocode(t *testing.T) {
	fresno := domain.Coordinate{Lat: 36.7378, Lng: -119.7871}
	resolver := &mockResolver{places: map[string]domain.Coordinate{"Fresno": fresno}}
	svc := service.NewLogService(echoLogRepo(), knownDriverRepo(), resolver)

	in := logWith([]domain.DutySegment{
		at(span(domain.OffDuty, 0, 10), "Los Angeles Terminal", &terminal),
		at(span(domain.Driving, 10, 14), "Fresno", nil),
		at(span(domain.OnDuty, 14, 15), "Atlantis", nil),
		at(span(domain.OnDuty, 15, 16), "boom", nil),
		span(domain.OffDuty, 16, 24),
	})

	got, err := svc.Create(context.Background(), in, true)

	require.NoError(t, err)
	segs := got.Log.Segments
	assert.Equal(t, &terminal, segs[0].Coordinate, "existing fixes are kept")
	assert.Equal(t, &fresno, segs[1].Coordinate)
	assert.Nil(t, segs[2].Coordinate, "a miss leaves the segment unlocated")
	assert.Nil(t, segs[3].Coordinate, "a failed lookup is skipped")
	assert.Nil(t, segs[4].Coordinate)
	assert.Equal(t, []string{"Fresno", "Atlantis", "boom"}, resolver.calls)
}

func TestLogService_Create_AutoGeocodeOff(t *testing.T) {
	resolver := &mockResolver{}
	svc := service.NewLogService(echoLogRepo(), knownDriverRepo(), resolver)

	_, err := svc.Create(context.Background(), logWith([]domain.DutySegment{at(span(domain.Driving, 0, 4), "Fresno", nil)}), false)

	require.NoError(t, err)
	assert.Empty(t, resolver.calls)
}

// ---- Read ------------------------------------------------------------------

func TestLogService_GetByID_DerivesHours(t *testing.T) {
	l := logWith(violatingDay())
	svc := service.NewLogService(storedLog(l), knownDriverRepo(), nil)

	got, err := svc.GetByID(context.Background(), l.ID)

	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Hours.Driving)
	assert.False(t, got.Compliance.IsCompliant)
	assert.Equal(t, []string{"Driving time (12.0h) exceeds 11-hour limit"}, got.Compliance.Violations)
}

func TestLogService_GetByID_NotFound(t *testing.T) {
	svc := service.NewLogService(storedLog(logWith(nil)), knownDriverRepo(), nil)

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogService_ListPaged_NoComplianceFilterUsesRepoPaging(t *testing.T) {
	logs := &mockLogRepo{
		listPaged: func(_ context.Context, _ domain.LogFilter, p domain.PaginationParams) ([]domain.DailyLog, int64, error) {
			assert.Equal(t, 20, p.Limit)
			return []domain.DailyLog{logWith(compliantDay())}, 41, nil
		},
	}
	svc := service.NewLogService(logs, knownDriverRepo(), nil)

	got, total, err := svc.ListPaged(context.Background(), domain.LogFilter{}, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.Equal(t, int64(41), total)
	require.Len(t, got, 1)
	assert.True(t, got[0].Compliance.IsCompliant)
}

func TestLogService_ListPaged_ComplianceFilter(t *testing.T) {
	all := []domain.DailyLog{
		logWith(compliantDay()),
		logWith(violatingDay()),
		logWith(compliantDay()),
		logWith(compliantDay()),
	}
	logs := &mockLogRepo{
		list: func(context.Context, domain.LogFilter) ([]domain.DailyLog, error) { return all, nil },
	}
	svc := service.NewLogService(logs, knownDriverRepo(), nil)
	ctx := context.Background()

	yes, no := true, false
	page, limit := 2, 2

	got, total, err := svc.ListPaged(ctx, domain.LogFilter{Compliant: &yes}, domain.NewPaginationParams(&page, &limit))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 1)
	assert.Equal(t, all[3].ID, got[0].Log.ID)

	got, total, err = svc.ListPaged(ctx, domain.LogFilter{Compliant: &no}, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, all[1].ID, got[0].Log.ID)

	far := 9
	got, total, err = svc.ListPaged(ctx, domain.LogFilter{Compliant: &yes}, domain.NewPaginationParams(&far, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, got)
}

// ---- Update / Delete -------------------------------------------------------

func TestLogService_Update_NotFound(t *testing.T) {
	logs := &mockLogRepo{
		update: func(context.Context, domain.DailyLog) (domain.DailyLog, error) {
			return domain.DailyLog{}, domain.ErrNotFound
		},
	}
	svc := service.NewLogService(logs, knownDriverRepo(), nil)

	_, err := svc.Update(context.Background(), logWith(compliantDay()), false)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogService_Update_Validation(t *testing.T) {
	svc := service.NewLogService(echoLogRepo(), knownDriverRepo(), nil)

	_, err := svc.Update(context.Background(), logWith([]domain.DutySegment{{StartHour: 0, EndHour: 4}}), false)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogService_Delete(t *testing.T) {
	var deleted uuid.UUID
	logs := &mockLogRepo{delete: func(_ context.Context, id uuid.UUID) error { deleted = id; return nil }}
	svc := service.NewLogService(logs, knownDriverRepo(), nil)

	id := uuid.New()
	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, id, deleted)
}

// ---- Route / Chart / CheckCompliance ---------------------------------------

func TestLogService_Route(t *testing.T) {
	l := logWith(compliantDay())
	svc := service.NewLogService(storedLog(l), knownDriverRepo(), nil)

	got, err := svc.Route(context.Background(), l.ID)

	require.NoError(t, err)
	assert.Equal(t, l.ID, got.LogID)
	assert.Equal(t, hos.ReconstructRoute(l.Segments), got.Summary)
	require.Len(t, got.Fixes, 2)
	assert.Equal(t, 0, got.Fixes[0].Index)
	assert.Equal(t, "Los Angeles Terminal", got.Fixes[0].Location)
	assert.Equal(t, geo.Geohash(terminal), got.Fixes[0].Geohash)
	assert.Len(t, got.Fixes[0].Geohash, geo.GeohashPrecision)
	assert.Equal(t, 1, got.Fixes[1].Index)
	assert.Equal(t, domain.Driving, got.Fixes[1].Status)
}

func TestLogService_Route_NoFixes(t *testing.T) {
	l := logWith(violatingDay())
	svc := service.NewLogService(storedLog(l), knownDriverRepo(), nil)

	got, err := svc.Route(context.Background(), l.ID)

	require.NoError(t, err)
	assert.NotNil(t, got.Fixes)
	assert.Empty(t, got.Fixes)
	assert.Empty(t, got.Summary.Legs)
}

func TestLogService_Chart(t *testing.T) {
	l := logWith(violatingDay())
	svc := service.NewLogService(storedLog(l), knownDriverRepo(), nil)

	got, err := svc.Chart(context.Background(), l.ID)

	require.NoError(t, err)
	assert.True(t, got.Grid.Active(domain.Driving, 0))
	assert.False(t, got.Grid.Active(domain.Driving, 48))
	assert.True(t, got.Grid.Active(domain.OffDuty, 48))
	require.Len(t, got.Bars, 2)
	assert.Equal(t, 0.5, got.Bars[1].Offset)
	assert.Equal(t, 12.0, got.Hours.Driving)
}

func TestLogService_CheckCompliance(t *testing.T) {
	svc := service.NewLogService(nil, nil, nil)

	hours, result, err := svc.CheckCompliance(context.Background(), []domain.DutySegment{
		span(domain.OnDuty, 0, 4),
		span(domain.OffDuty, 4, 8),
		span(domain.Driving, 8, 20),
	})

	require.NoError(t, err)
	assert.Equal(t, 12.0, hours.Driving)
	assert.Equal(t, []string{
		"Driving time (12.0h) exceeds 11-hour limit",
		"On-duty time (16.0h) exceeds 14-hour window",
		"Rest time (4.0h) is less than required 10 hours",
	}, result.Violations)

	_, _, err = svc.CheckCompliance(context.Background(), []domain.DutySegment{span(domain.Driving, 25, 2)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Stats -----------------------------------------------------------------

func TestLogService_DashboardStats(t *testing.T) {
	all := []domain.DailyLog{logWith(compliantDay()), logWith(violatingDay())}
	logs := &mockLogRepo{
		list: func(_ context.Context, f domain.LogFilter) ([]domain.DailyLog, error) {
			assert.Nil(t, f.DriverID)
			return all, nil
		},
	}
	drivers := &mockDriverRepo{
		list: func(context.Context) ([]domain.Driver, error) {
			return []domain.Driver{{Name: "a"}, {Name: "b"}, {Name: "c"}}, nil
		},
	}
	svc := service.NewLogService(logs, drivers, nil)

	got, err := svc.DashboardStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalLogs)
	assert.Equal(t, 3, got.TotalDrivers)
	assert.Equal(t, 1, got.CompliantLogs)
	assert.Equal(t, 1, got.ViolationLogs)
	assert.Equal(t, 20.0, got.DrivingHours)
	assert.Equal(t, hos.ReconstructRoute(compliantDay()).TotalDistanceMiles, got.RouteMiles)
}

func TestLogService_DriverStats(t *testing.T) {
	driverID := uuid.New()
	logs := &mockLogRepo{
		list: func(_ context.Context, f domain.LogFilter) ([]domain.DailyLog, error) {
			require.NotNil(t, f.DriverID)
			assert.Equal(t, driverID, *f.DriverID)
			return []domain.DailyLog{logWith(violatingDay())}, nil
		},
	}
	svc := service.NewLogService(logs, knownDriverRepo(), nil)

	got, err := svc.DriverStats(context.Background(), driverID)

	require.NoError(t, err)
	assert.Equal(t, domain.LogStats{TotalLogs: 1, TotalDrivers: 1, ViolationLogs: 1, DrivingHours: 12}, got)
}

func TestLogService_DriverStats_UnknownDriver(t *testing.T) {
	drivers := &mockDriverRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Driver, error) {
			return domain.Driver{}, domain.ErrNotFound
		},
	}
	svc := service.NewLogService(&mockLogRepo{}, drivers, nil)

	_, err := svc.DriverStats(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
