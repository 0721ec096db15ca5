package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Page is the envelope of every paged list response.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON request body into dst. It reports false after
// writing the error response itself.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		writeJSON(w, http.StatusRequestEntityTooLarge,
			errorBody("request_too_large", fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)))
	case errors.Is(err, io.EOF):
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("request body is required"))
	default:
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid JSON body: "+err.Error()))
	}
	return false
}

// pathID binds the {id} path parameter as a UUID, writing a 422 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(fmt.Sprintf("invalid id %q", chi.URLParam(r, "id"))))
		return id, false
	}
	return id, true
}

// queryParam binds an optional form-style query parameter into dst, which must
// point to a pointer (e.g. **int). dst is left nil when the parameter is absent.
func queryParam(r *http.Request, name string, dst any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dst); err != nil {
		return fmt.Errorf("invalid %s parameter", name)
	}
	return nil
}

// pageParams reads ?page= and ?limit= into the pointer form NewPaginationParams expects.
func pageParams(r *http.Request) (page, limit *int, err error) {
	if err := queryParam(r, "page", &page); err != nil {
		return nil, nil, err
	}
	if err := queryParam(r, "limit", &limit); err != nil {
		return nil, nil, err
	}
	return page, limit, nil
}
