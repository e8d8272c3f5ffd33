// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client side of the go-yamdb REST API.
//
// [APIClient] wraps the HTTP calls a user needs to sign up, exchange a
// confirmation code for a token and work with titles and reviews. Error
// statuses are mapped to the sentinel values in errors.go so callers can
// use [errors.Is] (e.g. [ErrUnauthorized] for 401, [ErrBadGateway] when the
// server could not send the confirmation email).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-yamdb/models"
)

// APIClient defines the calls the command-line client makes to the server.
// Implementations attach the stored bearer token to every request once it
// is set.
type APIClient interface {
	// SetToken stores the bearer token used by subsequent requests.
	SetToken(token string)

	// Token returns the stored bearer token, or an empty string.
	Token() string

	// Version returns the application version reported by the server.
	Version(ctx context.Context) (string, error)

	// Signup requests a confirmation code for the given username and email.
	// The code is delivered by email, never in the response.
	Signup(ctx context.Context, req models.SignupRequest) (models.SignupRequest, error)

	// ExchangeToken trades a confirmation code for an access token. On
	// success the token is stored via SetToken and returned.
	ExchangeToken(ctx context.Context, req models.TokenRequest) (string, error)

	// Me returns the profile of the token owner.
	Me(ctx context.Context) (models.User, error)

	// UpdateMe partially updates the profile of the token owner.
	UpdateMe(ctx context.Context, patch models.UserPatch) (models.User, error)

	// ListTitles returns one page of the title listing. Page numbers start
	// at 1.
	ListTitles(ctx context.Context, page int) (models.Page[models.Title], error)

	// ListReviews returns one page of the reviews of a title.
	ListReviews(ctx context.Context, titleID int64, page int) (models.Page[models.Review], error)

	// CreateReview posts a review of a title on behalf of the token owner.
	CreateReview(ctx context.Context, titleID int64, input models.ContentInput) (models.Review, error)
}
