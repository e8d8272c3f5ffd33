package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/MKhiriev/go-yamdb/internal/policy"
	"github.com/MKhiriev/go-yamdb/internal/service"
	"github.com/MKhiriev/go-yamdb/internal/utils"
	"github.com/MKhiriev/go-yamdb/models"
)

const defaultPageSize = 10

// idParam reads a positive numeric path parameter. The router already
// restricts the segment to digits; values overflowing int64 end up here.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPathParam, name)
	}
	return id, nil
}

// authenticated returns the caller of a write request. Anonymous callers are
// rejected before the body is read.
func authenticated(w http.ResponseWriter, r *http.Request) (models.Caller, bool) {
	caller := utils.GetCallerFromContext(r.Context())
	if err := policy.RequireAuthenticated(caller); err != nil {
		writeError(w, r, err)
		return caller, false
	}
	return caller, true
}

func (h *Handler) pageRequest(r *http.Request) (models.PageRequest, error) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > models.MaxPage(h.pageSize) {
			return models.PageRequest{}, ErrInvalidPage
		}
		page = n
	}

	return models.PageRequest{Page: page, PageSize: h.pageSize}, nil
}

// queryInt parses an optional integer filter. A malformed value is reported
// as a field error of that parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", service.ErrValidation, validation.Errors{name: errors.New("must be an integer")})
	}
	return n, nil
}

// writePage renders one page of a listing. Pages past the end, except the
// first one of an empty listing, are reported as ErrInvalidPage.
func writePage[T any](w http.ResponseWriter, r *http.Request, req models.PageRequest, count int, results []T) {
	if req.Page > 1 && req.Offset() >= count {
		writeError(w, r, ErrInvalidPage)
		return
	}

	if results == nil {
		results = []T{}
	}

	page := models.Page[T]{
		Count:   count,
		Results: results,
	}
	if models.HasNext(req, count) {
		page.Next = pageURL(r, req.Page+1)
	}
	if req.Page > 1 {
		page.Previous = pageURL(r, req.Page-1)
	}

	utils.WriteJSON(w, page, http.StatusOK)
}

// pageURL returns the absolute URL of the request with ?page replaced.
// Links to the first page drop the parameter.
func pageURL(r *http.Request, page int) *string {
	u := *r.URL
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = r.Host

	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	link := u.String()
	return &link
}
