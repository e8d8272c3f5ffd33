package models

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	// Error is a human-readable description of the failure.
	Error string `json:"error"`

	// Fields maps offending input fields to their problems. It is present
	// only for validation failures.
	Fields map[string]string `json:"fields,omitempty"`
}
