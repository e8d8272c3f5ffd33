// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides abstractions for input validation and
// enforcement of business rules across the application.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional scopes that switch on stricter or additional rules.
//
// Field errors are reported as validation.Errors from ozzo-validation, keyed
// by the JSON name of the offending field, so the transport layer can render
// them per field.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input under the optional scopes.
	Validate(context.Context, any, ...string) error
}
