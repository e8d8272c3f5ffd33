package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &DB{DB: db, logger: logger.Nop()}, mock
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &userRepository{db: db, logger: logger.Nop()}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code, ConstraintName: "test_constraint"}
}

func userRow(user models.User) []driver.Value {
	return []driver.Value{
		user.UserID, user.Username, user.Email, user.FirstName, user.LastName,
		user.Bio, string(user.Role), user.IsSuperuser, user.CodeVersion, user.CreatedAt,
	}
}

func userRows(users ...models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows(userColumns)
	for _, u := range users {
		rows.AddRow(userRow(u)...)
	}
	return rows
}

var storedUser = models.User{
	UserID:      7,
	Username:    "john",
	Email:       "john@example.com",
	FirstName:   "John",
	Role:        models.RoleUser,
	CodeVersion: 3,
	CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateUser
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username,email,first_name,last_name,bio,role)")).
		WithArgs("john", "john@example.com", "John", "", "", "user").
		WillReturnRows(userRows(storedUser))

	created, err := repo.CreateUser(context.Background(), models.User{
		Username:  "john",
		Email:     "john@example.com",
		FirstName: "John",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", created.UserID)
	}
	if created.Role != models.RoleUser {
		t.Errorf("expected default role, got %q", created.Role)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(context.Background(), models.User{Username: "john", Email: "john@example.com"})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.CreateUser(context.Background(), models.User{Username: "john"})
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Lookups
// ─────────────────────────────────────────────────────────────────────────────

func TestFindUserByUsername_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("john").
		WillReturnRows(userRows(storedUser))

	user, err := repo.FindUserByUsername(context.Background(), "john")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != storedUser {
		t.Errorf("expected %+v, got %+v", storedUser, user)
	}
}

func TestFindUserByID_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByID(context.Background(), 99)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUsersByUsernameOrEmail(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	other := storedUser
	other.UserID, other.Username, other.Email = 8, "jane", "jane@example.com"

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (username = $1 OR email = $2)")).
		WithArgs("john", "jane@example.com").
		WillReturnRows(userRows(storedUser, other))

	users, err := repo.FindUsersByUsernameOrEmail(context.Background(), "john", "jane@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestFindUsersByUsernameOrEmail_NoMatch(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("FROM users").WillReturnRows(userRows())

	users, err := repo.FindUsersByUsernameOrEmail(context.Background(), "john", "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no users, got %d", len(users))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────────────────

func TestBumpCodeVersion(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	bumped := storedUser
	bumped.CodeVersion = 4

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET code_version = code_version + 1 WHERE user_id = $1 RETURNING")).
		WithArgs(int64(7)).
		WillReturnRows(userRows(bumped))

	user, err := repo.BumpCodeVersion(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.CodeVersion != 4 {
		t.Errorf("expected code version 4, got %d", user.CodeVersion)
	}
}

func TestUpdateUser_BumpsCodeVersion(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	bio := "critic"
	role := models.RoleModerator

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET bio = $1, role = $2, code_version = code_version + 1 WHERE user_id = $3")).
		WithArgs("critic", "moderator", int64(7)).
		WillReturnRows(userRows(storedUser))

	if _, err := repo.UpdateUser(context.Background(), 7, models.UserPatch{Bio: &bio, Role: &role}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateUser_Errors(t *testing.T) {
	email := "taken@example.com"

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "missing row", dbErr: sql.ErrNoRows, wantErr: ErrNoUserWasFound},
		{name: "duplicate email", dbErr: pgError(pgerrcode.UniqueViolation), wantErr: ErrUserAlreadyExists},
		{name: "driver error", dbErr: errors.New("boom"), wantErr: ErrExecutingQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t)
			mock.ExpectQuery("UPDATE users").WillReturnError(tt.dbErr)

			_, err := repo.UpdateUser(context.Background(), 7, models.UserPatch{Email: &email})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDeleteUser(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE user_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteUser(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.DeleteUser(context.Background(), 8); !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ListUsers
// ─────────────────────────────────────────────────────────────────────────────

func TestListUsers_SearchAndPage(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE (username ILIKE $1)")).
		WithArgs("%jo\\_%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (username ILIKE $1) ORDER BY username LIMIT 10 OFFSET 10")).
		WithArgs("%jo\\_%").
		WillReturnRows(userRows(storedUser))

	users, total, err := repo.ListUsers(context.Background(), models.UserFilter{
		Search:      "jo_",
		PageRequest: models.PageRequest{Page: 2, PageSize: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 11 || len(users) != 1 {
		t.Fatalf("expected 1 of 11 users, got %d of %d", len(users), total)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListUsers_RowsError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM users").
		WillReturnRows(userRows(storedUser).RowError(0, errors.New("network")))

	_, _, err := repo.ListUsers(context.Background(), models.UserFilter{PageRequest: models.PageRequest{Page: 1, PageSize: 10}})
	if !errors.Is(err, ErrScanningRows) {
		t.Fatalf("expected ErrScanningRows, got %v", err)
	}
}
