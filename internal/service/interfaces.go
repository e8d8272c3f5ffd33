package service

import (
	"context"

	"github.com/MKhiriev/go-yamdb/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService implements the signup, confirmation code and token exchange
// flow, and resolves bearer tokens into callers.
type AuthService interface {
	// RequestSignup finds or creates the account, issues a new confirmation
	// code and mails it. The request is echoed back on success.
	RequestSignup(ctx context.Context, req models.SignupRequest) (models.SignupRequest, error)

	// ExchangeToken verifies a confirmation code and mints an access token.
	ExchangeToken(ctx context.Context, req models.TokenRequest) (models.Token, error)

	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// ResolveCaller parses tokenString and loads the current state of its
	// subject.
	ResolveCaller(ctx context.Context, tokenString string) (models.Caller, error)
}

// UserService serves the self-service profile and the admin user management.
type UserService interface {
	Me(ctx context.Context, caller models.Caller) (models.User, error)

	// UpdateMe applies patch to the caller's own account. The role is
	// silently kept.
	UpdateMe(ctx context.Context, caller models.Caller, patch models.UserPatch) (models.User, error)

	ListUsers(ctx context.Context, caller models.Caller, filter models.UserFilter) ([]models.User, int, error)
	CreateUser(ctx context.Context, caller models.Caller, user models.User) (models.User, error)
	GetUser(ctx context.Context, caller models.Caller, username string) (models.User, error)
	UpdateUser(ctx context.Context, caller models.Caller, username string, patch models.UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, caller models.Caller, username string) error
}

// CatalogService serves categories, genres and titles.
type CatalogService interface {
	ListSlugNamed(ctx context.Context, kind models.SlugKind, filter models.SlugNamedFilter) ([]models.SlugNamed, int, error)
	CreateSlugNamed(ctx context.Context, caller models.Caller, kind models.SlugKind, item models.SlugNamed) (models.SlugNamed, error)
	DeleteSlugNamed(ctx context.Context, caller models.Caller, kind models.SlugKind, slug string) error

	ListTitles(ctx context.Context, filter models.TitleFilter) ([]models.Title, int, error)
	GetTitle(ctx context.Context, titleID int64) (models.Title, error)
	CreateTitle(ctx context.Context, caller models.Caller, input models.TitleInput) (models.Title, error)
	UpdateTitle(ctx context.Context, caller models.Caller, titleID int64, input models.TitleInput) (models.Title, error)
	DeleteTitle(ctx context.Context, caller models.Caller, titleID int64) error
}

// ContentService serves reviews of titles and comments on reviews.
type ContentService interface {
	ListReviews(ctx context.Context, titleID int64, page models.PageRequest) ([]models.Review, int, error)
	GetReview(ctx context.Context, titleID, reviewID int64) (models.Review, error)
	CreateReview(ctx context.Context, caller models.Caller, titleID int64, input models.ContentInput) (models.Review, error)
	UpdateReview(ctx context.Context, caller models.Caller, titleID, reviewID int64, input models.ContentInput) (models.Review, error)
	DeleteReview(ctx context.Context, caller models.Caller, titleID, reviewID int64) error

	ListComments(ctx context.Context, titleID, reviewID int64, page models.PageRequest) ([]models.Comment, int, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID int64) (models.Comment, error)
	CreateComment(ctx context.Context, caller models.Caller, titleID, reviewID int64, input models.ContentInput) (models.Comment, error)
	UpdateComment(ctx context.Context, caller models.Caller, titleID, reviewID, commentID int64, input models.ContentInput) (models.Comment, error)
	DeleteComment(ctx context.Context, caller models.Caller, titleID, reviewID, commentID int64) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
