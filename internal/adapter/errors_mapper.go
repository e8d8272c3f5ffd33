package adapter

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-yamdb/models"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := errorMessage(resp.Body())

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case http.StatusMethodNotAllowed:
		return fmt.Errorf("%w: %s", ErrMethodNotAllowed, body)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", ErrBadGateway, body)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}

// errorMessage renders a server error body. Field errors are appended in
// field order; bodies that are not error envelopes are returned as is.
func errorMessage(raw []byte) string {
	var envelope models.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error == "" {
		return strings.TrimSpace(string(raw))
	}

	if len(envelope.Fields) == 0 {
		return envelope.Error
	}

	parts := make([]string, 0, len(envelope.Fields))
	for _, field := range slices.Sorted(maps.Keys(envelope.Fields)) {
		parts = append(parts, field+": "+envelope.Fields[field])
	}

	return envelope.Error + " (" + strings.Join(parts, "; ") + ")"
}
