// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, hashing,
// confirmation codes, key derivation, HTTP response writing, JWT token
// generation and validation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-yamdb/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// CallerCtxKey is the key used to store the resolved [models.Caller] in the
// request context.
var CallerCtxKey = contextKey("caller")

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, CallerCtxKey, caller)
}

// GetCallerFromContext retrieves the caller from the context. Requests that
// never passed the authentication middleware are anonymous.
func GetCallerFromContext(ctx context.Context) models.Caller {
	caller, ok := ctx.Value(CallerCtxKey).(models.Caller)
	if !ok {
		return models.Anonymous()
	}
	return caller
}
