// Package store implements the PostgreSQL persistence of users, the catalog
// (categories, genres, titles) and user content (reviews, comments).
package store

import (
	"context"

	"github.com/MKhiriev/go-yamdb/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists accounts.
type UserRepository interface {
	// CreateUser inserts user and returns it with server-assigned fields.
	// A duplicate username or email yields ErrUserAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)

	// FindUsersByUsernameOrEmail returns every user whose username or email
	// matches exactly. At most two rows can match.
	FindUsersByUsernameOrEmail(ctx context.Context, username, email string) ([]models.User, error)

	// BumpCodeVersion atomically increments the user's code version and
	// returns the updated row.
	BumpCodeVersion(ctx context.Context, userID int64) (models.User, error)

	// UpdateUser applies patch and bumps the code version in one statement.
	UpdateUser(ctx context.Context, userID int64, patch models.UserPatch) (models.User, error)

	DeleteUser(ctx context.Context, userID int64) error

	// ListUsers returns one page of users and the total number of matches.
	ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

// SlugNamedRepository persists one dictionary of slug-named entries
// (categories or genres).
type SlugNamedRepository interface {
	CreateSlugNamed(ctx context.Context, item models.SlugNamed) (models.SlugNamed, error)
	ListSlugNamed(ctx context.Context, filter models.SlugNamedFilter) ([]models.SlugNamed, int, error)

	// FindBySlugs returns the entries matching slugs. Unknown slugs are
	// silently skipped.
	FindBySlugs(ctx context.Context, slugs []string) ([]models.SlugNamed, error)

	DeleteBySlug(ctx context.Context, slug string) error
}

// TitleRepository persists titles and their genre links.
type TitleRepository interface {
	CreateTitle(ctx context.Context, title models.TitleWrite) (models.Title, error)
	GetTitle(ctx context.Context, titleID int64) (models.Title, error)
	ListTitles(ctx context.Context, filter models.TitleFilter) ([]models.Title, int, error)
	UpdateTitle(ctx context.Context, titleID int64, title models.TitleWrite) (models.Title, error)
	DeleteTitle(ctx context.Context, titleID int64) error
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	// CreateReview yields ErrReviewAlreadyExists when the author already
	// reviewed the title.
	CreateReview(ctx context.Context, review models.Review) (models.Review, error)

	// GetReview returns the review only if it belongs to titleID.
	GetReview(ctx context.Context, titleID, reviewID int64) (models.Review, error)

	ListReviews(ctx context.Context, titleID int64, page models.PageRequest) ([]models.Review, int, error)
	UpdateReview(ctx context.Context, reviewID int64, input models.ContentInput) (models.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error
}

// CommentRepository persists comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error)

	// GetComment returns the comment only if it belongs to reviewID.
	GetComment(ctx context.Context, reviewID, commentID int64) (models.Comment, error)

	ListComments(ctx context.Context, reviewID int64, page models.PageRequest) ([]models.Comment, int, error)
	UpdateComment(ctx context.Context, commentID int64, input models.ContentInput) (models.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}
