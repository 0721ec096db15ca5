package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/fleetlog/hos-logbook/internal/domain"
)

// DriverRequest is the body of POST /drivers and PUT /drivers/{id}.
type DriverRequest struct {
	Name              string `json:"name"`
	LicenseNumber     string `json:"license_number"`
	HomeTerminal      string `json:"home_terminal"`
	MainOfficeAddress string `json:"main_office_address"`
}

// Driver is the API representation of a domain.Driver.
type Driver struct {
	Id                openapi_types.UUID `json:"id"`
	Name              string             `json:"name"`
	LicenseNumber     string             `json:"license_number"`
	HomeTerminal      string             `json:"home_terminal"`
	MainOfficeAddress string             `json:"main_office_address"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// CreateDriver handles POST /drivers.
func (s *Server) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var body DriverRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.drivers.Create(r.Context(), requestToDriver(body))
	if err != nil {
		respondError(w, r, err, "driver")
		return
	}
	writeJSON(w, http.StatusCreated, driverToResponse(created))
}

// ListDrivers handles GET /drivers.
// Supports ?search= (name or license number) plus ?page= and ?limit=.
func (s *Server) ListDrivers(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	params := domain.NewPaginationParams(page, limit)

	drivers, total, err := s.drivers.ListPaged(r.Context(), r.URL.Query().Get("search"), params)
	if err != nil {
		respondError(w, r, err, "driver")
		return
	}

	data := make([]Driver, len(drivers))
	for i, d := range drivers {
		data[i] = driverToResponse(d)
	}
	writeJSON(w, http.StatusOK, Page[Driver]{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// GetDriver handles GET /drivers/{id}.
func (s *Server) GetDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	d, err := s.drivers.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "driver")
		return
	}
	writeJSON(w, http.StatusOK, driverToResponse(d))
}

// UpdateDriver handles PUT /drivers/{id}.
func (s *Server) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body DriverRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	d := requestToDriver(body)
	d.ID = id
	updated, err := s.drivers.Update(r.Context(), d)
	if err != nil {
		respondError(w, r, err, "driver")
		return
	}
	writeJSON(w, http.StatusOK, driverToResponse(updated))
}

// DeleteDriver handles DELETE /drivers/{id}.
func (s *Server) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.drivers.Delete(r.Context(), id); err != nil {
		respondError(w, r, err, "driver")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func requestToDriver(body DriverRequest) domain.Driver {
	return domain.Driver{
		Name:              body.Name,
		LicenseNumber:     body.LicenseNumber,
		HomeTerminal:      body.HomeTerminal,
		MainOfficeAddress: body.MainOfficeAddress,
	}
}

func driverToResponse(d domain.Driver) Driver {
	return Driver{
		Id:                d.ID,
		Name:              d.Name,
		LicenseNumber:     d.LicenseNumber,
		HomeTerminal:      d.HomeTerminal,
		MainOfficeAddress: d.MainOfficeAddress,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
