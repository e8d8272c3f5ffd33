package http

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/policy"
	"github.com/MKhiriev/go-yamdb/internal/service"
	"github.com/MKhiriev/go-yamdb/internal/utils"
	"github.com/MKhiriev/go-yamdb/models"
)

// errorStatuses is consulted in order; the first target matched with
// errors.Is decides the status and the public message.
var errorStatuses = []struct {
	target error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUsernameOrEmailTaken, http.StatusBadRequest},
	{service.ErrSlugTaken, http.StatusBadRequest},
	{service.ErrAlreadyReviewed, http.StatusBadRequest},
	{service.ErrInvalidConfirmationCode, http.StatusBadRequest},
	{utils.ErrInvalidJSON, http.StatusBadRequest},

	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
	{policy.ErrAuthenticationRequired, http.StatusUnauthorized},

	{policy.ErrForbidden, http.StatusForbidden},

	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrUnknownUsername, http.StatusNotFound},
	{ErrInvalidPathParam, http.StatusNotFound},
	{ErrInvalidPage, http.StatusNotFound},
	{ErrRouteNotFound, http.StatusNotFound},

	{ErrMethodNotAllowed, http.StatusMethodNotAllowed},

	{service.ErrMailDispatchFailed, http.StatusBadGateway},
}

func statusFromError(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status, e.target.Error()
		}
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// writeError renders err as an ErrorResponse. Unknown errors become a bare
// 500 so storage details never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status, message := statusFromError(err)

	resp := models.ErrorResponse{Error: message}

	var fields validation.Errors
	if errors.As(err, &fields) {
		resp.Fields = make(map[string]string, len(fields))
		for field, fieldErr := range fields {
			if fieldErr != nil {
				resp.Fields[field] = fieldErr.Error()
			}
		}
	}

	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", "writeError").Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("func", "writeError").Int("status", status).Msg("request rejected")
	}

	utils.WriteJSON(w, resp, status)
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, ErrRouteNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, ErrMethodNotAllowed)
}
