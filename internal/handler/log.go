package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/hos"
)

// LogRequest is the body of POST /logs and PUT /logs/{id}.
// With AutoGeocode set, segments that carry only location text are geocoded.
type LogRequest struct {
	DriverId            openapi_types.UUID   `json:"driver_id"`
	Date                *openapi_types.Date  `json:"date"`
	Segments            []domain.DutySegment `json:"segments"`
	Remarks             string               `json:"remarks"`
	ShippingDocuments   string               `json:"shipping_documents"`
	CoDriverName        string               `json:"co_driver_name"`
	VehicleNumbers      string               `json:"vehicle_numbers"`
	TotalMilesToday     float64              `json:"total_miles_today"`
	TotalMilesYesterday float64              `json:"total_miles_yesterday"`
	AutoGeocode         bool                 `json:"auto_geocode"`
}

// Log is the API representation of a daily log with its derived values.
type Log struct {
	Id                  openapi_types.UUID      `json:"id"`
	DriverId            openapi_types.UUID      `json:"driver_id"`
	Date                openapi_types.Date      `json:"date"`
	Segments            []domain.DutySegment    `json:"segments"`
	Remarks             string                  `json:"remarks"`
	ShippingDocuments   string                  `json:"shipping_documents"`
	CoDriverName        string                  `json:"co_driver_name"`
	VehicleNumbers      string                  `json:"vehicle_numbers"`
	TotalMilesToday     float64                 `json:"total_miles_today"`
	TotalMilesYesterday float64                 `json:"total_miles_yesterday"`
	Hours               domain.HoursSummary     `json:"hours"`
	HoursFormatted      map[string]string       `json:"hours_formatted"`
	Compliance          domain.ComplianceResult `json:"compliance"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// ComplianceCheckRequest is the body of POST /logs/compliance-check.
type ComplianceCheckRequest struct {
	Segments []domain.DutySegment `json:"segments"`
}

// ComplianceCheckResponse reports hours and rule outcomes for unsaved segments.
type ComplianceCheckResponse struct {
	Hours          domain.HoursSummary     `json:"hours"`
	HoursFormatted map[string]string       `json:"hours_formatted"`
	Compliance     domain.ComplianceResult `json:"compliance"`
}

// CreateLog handles POST /logs.
func (s *Server) CreateLog(w http.ResponseWriter, r *http.Request) {
	var body LogRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	view, err := s.logs.Create(r.Context(), requestToLog(body), body.AutoGeocode)
	if err != nil {
		respondError(w, r, err, "log")
		return
	}
	writeJSON(w, http.StatusCreated, logToResponse(view))
}

// ListLogs handles GET /logs.
// Filters: ?driver_id=, ?start_date=, ?end_date= (inclusive), ?compliant=;
// pagination via ?page= and ?limit=.
func (s *Server) ListLogs(w http.ResponseWriter, r *http.Request) {
	f, err := logFilter(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	page, limit, err := pageParams(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	params := domain.NewPaginationParams(page, limit)

	views, total, err := s.logs.ListPaged(r.Context(), f, params)
	if err != nil {
		respondError(w, r, err, "log")
		return
	}

	data := make([]Log, len(views))
	for i, v := range views {
		data[i] = logToResponse(v)
	}
	writeJSON(w, http.StatusOK, Page[Log]{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// GetLog handles GET /logs/{id}.
func (s *Server) GetLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := s.logs.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "log")
		return
	}
	writeJSON(w, http.StatusOK, logToResponse(view))
}

// UpdateLog handles PUT /logs/{id}. The segment list is replaced wholesale.
func (s *Server) UpdateLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body LogRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	log := requestToLog(body)
	log.ID = id
	view, err := s.logs.Update(r.Context(), log, body.AutoGeocode)
	if err != nil {
		respondError(w, r, err, "log")
		return
	}
	writeJSON(w, http.StatusOK, logToResponse(view))
}

// DeleteLog handles DELETE /logs/{id}.
func (s *Server) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.logs.Delete(r.Context(), id); err != nil {
		respondError(w, r, err, "log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckCompliance handles POST /logs/compliance-check. Nothing is stored.
func (s *Server) CheckCompliance(w http.ResponseWriter, r *http.Request) {
	var body ComplianceCheckRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	hours, result, err := s.logs.CheckCompliance(r.Context(), body.Segments)
	if err != nil {
		respondError(w, r, err, "log")
		return
	}
	writeJSON(w, http.StatusOK, ComplianceCheckResponse{
		Hours:          hours,
		HoursFormatted: formatHours(hours),
		Compliance:     result,
	})
}

// --- mapping helpers --------------------------------------------------------

func logFilter(r *http.Request) (domain.LogFilter, error) {
	var (
		f         domain.LogFilter
		driverID  *openapi_types.UUID
		startDate *openapi_types.Date
		endDate   *openapi_types.Date
	)
	if err := queryParam(r, "driver_id", &driverID); err != nil {
		return f, err
	}
	if err := queryParam(r, "start_date", &startDate); err != nil {
		return f, err
	}
	if err := queryParam(r, "end_date", &endDate); err != nil {
		return f, err
	}
	if err := queryParam(r, "compliant", &f.Compliant); err != nil {
		return f, err
	}

	f.DriverID = driverID
	if startDate != nil {
		f.StartDate = &startDate.Time
	}
	if endDate != nil {
		f.EndDate = &endDate.Time
	}
	return f, nil
}

func requestToLog(body LogRequest) domain.DailyLog {
	l := domain.DailyLog{
		DriverID:            body.DriverId,
		Segments:            body.Segments,
		Remarks:             body.Remarks,
		ShippingDocuments:   body.ShippingDocuments,
		CoDriverName:        body.CoDriverName,
		VehicleNumbers:      body.VehicleNumbers,
		TotalMilesToday:     body.TotalMilesToday,
		TotalMilesYesterday: body.TotalMilesYesterday,
	}
	if body.Date != nil {
		l.Date = body.Date.Time
	}
	return l
}

func logToResponse(v domain.LogView) Log {
	segments := v.Log.Segments
	if segments == nil {
		segments = []domain.DutySegment{}
	}
	return Log{
		Id:                  v.Log.ID,
		DriverId:            v.Log.DriverID,
		Date:                openapi_types.Date{Time: v.Log.Date},
		Segments:            segments,
		Remarks:             v.Log.Remarks,
		ShippingDocuments:   v.Log.ShippingDocuments,
		CoDriverName:        v.Log.CoDriverName,
		VehicleNumbers:      v.Log.VehicleNumbers,
		TotalMilesToday:     v.Log.TotalMilesToday,
		TotalMilesYesterday: v.Log.TotalMilesYesterday,
		Hours:               v.Hours,
		HoursFormatted:      formatHours(v.Hours),
		Compliance:          v.Compliance,
		CreatedAt:           v.Log.CreatedAt,
		UpdatedAt:           v.Log.UpdatedAt,
	}
}

// formatHours renders each status total as "Xh Ym", keyed by status name.
func formatHours(h domain.HoursSummary) map[string]string {
	out := make(map[string]string, len(domain.DutyStatuses))
	for _, st := range domain.DutyStatuses {
		out[st.String()] = hos.FormatDuration(hoursFor(h, st))
	}
	return out
}

func hoursFor(h domain.HoursSummary, st domain.DutyStatus) float64 {
	switch st {
	case domain.OffDuty:
		return h.OffDuty
	case domain.Sleeper:
		return h.Sleeper
	case domain.Driving:
		return h.Driving
	case domain.OnDuty:
		return h.OnDuty
	}
	return 0
}
