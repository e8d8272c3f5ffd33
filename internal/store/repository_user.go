package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It works against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row rowScanner, user *models.User) error {
	return row.Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.CodeVersion,
		&user.CreatedAt,
	)
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CodeVersion, CreatedAt).
//
// A unique_violation (23505) on username or email is reported as
// [ErrUserAlreadyExists].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertUserQuery(user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to create query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var created models.User
	if err = scanUser(r.db.QueryRowContext(ctx, query, args...), &created); err != nil {
		if isUniqueViolation(err) {
			log.Warn().
				Str("func", "*userRepository.CreateUser").
				Str("constraint", constraintName(err)).
				Msg("username or email is already taken")
			return models.User{}, ErrUserAlreadyExists
		}

		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to insert user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

// FindUserByID returns the user with the given id or [ErrNoUserWasFound].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", sq.Eq{"user_id": userID})
}

// FindUserByUsername returns the user with the given username or
// [ErrNoUserWasFound].
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByUsername", sq.Eq{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, funcName string, cond sq.Sqlizer) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(cond)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to create query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var user models.User
	if err = scanUser(r.db.QueryRowContext(ctx, query, args...), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", funcName).Msg("failed to find user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

// FindUsersByUsernameOrEmail returns the users whose username or email
// equals the given values. An empty slice means neither is taken.
func (r *userRepository) FindUsersByUsernameOrEmail(ctx context.Context, username, email string) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(sq.Or{sq.Eq{"username": username}, sq.Eq{"email": email}})
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUsersByUsernameOrEmail").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUsersByUsernameOrEmail").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return r.collect(ctx, rows, "*userRepository.FindUsersByUsernameOrEmail")
}

// BumpCodeVersion increments code_version in a single statement, so
// concurrent signups for the same account each observe a distinct version.
func (r *userRepository) BumpCodeVersion(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildBumpCodeVersionQuery(userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.BumpCodeVersion").Msg("failed to create query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var user models.User
	if err = scanUser(r.db.QueryRowContext(ctx, query, args...), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.BumpCodeVersion").Int64("user_id", userID).Msg("failed to bump code version")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

// UpdateUser applies the non-nil fields of patch. The code version is bumped
// by the same statement, which invalidates outstanding confirmation codes.
func (r *userRepository) UpdateUser(ctx context.Context, userID int64, patch models.UserPatch) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(userID, patch)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("failed to create query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var user models.User
	if err = scanUser(r.db.QueryRowContext(ctx, query, args...), &user); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.User{}, ErrNoUserWasFound
		case isUniqueViolation(err):
			log.Warn().
				Str("func", "*userRepository.UpdateUser").
				Str("constraint", constraintName(err)).
				Msg("username or email is already taken")
			return models.User{}, ErrUserAlreadyExists
		}

		log.Err(err).Str("func", "*userRepository.UpdateUser").Int64("user_id", userID).Msg("failed to update user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

// DeleteUser removes the user together with their reviews and comments.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteUserQuery(userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Int64("user_id", userID).Msg("failed to delete user")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// ListUsers returns one page of users ordered by username together with the
// total number of users matching filter.
func (r *userRepository) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountUsersQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("failed to create count query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int
	if err = r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("failed to count users")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildListUsersQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("failed to create query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("failed to execute query")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users, err := r.collect(ctx, rows, "*userRepository.ListUsers")
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) collect(ctx context.Context, rows *sql.Rows, funcName string) ([]models.User, error) {
	log := logger.FromContext(ctx)

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := scanUser(rows, &user); err != nil {
			log.Err(err).Str("func", funcName).Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}
