// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors raised by the transport itself. Callers can match against
// them with [errors.Is].
var (
	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but does not carry a bearer token.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidPathParam is returned when a numeric path segment does not
	// fit an identifier.
	ErrInvalidPathParam = errors.New("not found")

	// ErrInvalidPage is returned for a malformed or out of range ?page.
	ErrInvalidPage = errors.New("invalid page")

	ErrRouteNotFound    = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)
