package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserAlreadyExists is returned when an INSERT or UPDATE on users
	// violates the uniqueness of username or email.
	ErrUserAlreadyExists = errors.New("username or email already exists")

	// ErrNoUserWasFound is returned when a query expected to match a single
	// user produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrSlugAlreadyExists is returned when a category or genre with the same
	// slug already exists.
	ErrSlugAlreadyExists = errors.New("slug already exists")

	// ErrReviewAlreadyExists is returned when an author reviews the same title
	// twice.
	ErrReviewAlreadyExists = errors.New("review for this title already exists")

	// ErrNotFound is returned when a catalog or content record does not exist
	// or disappeared while it was referenced.
	ErrNotFound = errors.New("record was not found")

	// ErrCategoryNotFound and ErrGenreNotFound are returned when a title
	// write references a category or genre removed in the meantime.
	ErrCategoryNotFound = errors.New("referenced category was not found")
	ErrGenreNotFound    = errors.New("referenced genre was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrPageOutOfRange is returned when a page lies so far out that its
	// row offset cannot be represented.
	ErrPageOutOfRange = errors.New("page out of range")
)
