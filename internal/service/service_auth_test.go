package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/mock"
	"github.com/MKhiriev/go-yamdb/internal/store"
	"github.com/MKhiriev/go-yamdb/internal/utils"
	"github.com/MKhiriev/go-yamdb/models"
)

var testAppConfig = config.App{
	TokenSignKey:        "test-sign-key",
	TokenIssuer:         "go-yamdb",
	TokenDuration:       time.Hour,
	ConfirmationCodeTTL: time.Hour,
	Version:             "test",
}

var codePattern = regexp.MustCompile(`confirmation code: (\S+)`)

// newTestAuthSvc is a helper that builds an authService with mocks.
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (*authService, *mock.MockUserRepository, *mock.MockSender) {
	t.Helper()
	repo := mock.NewMockUserRepository(ctrl)
	sender := mock.NewMockSender(ctrl)

	svc, err := NewAuthService(repo, sender, testAppConfig, "noreply@test.local", logger.Nop())
	require.NoError(t, err)

	return svc.(*authService), repo, sender
}

func codeFrom(t *testing.T, msg models.Message) string {
	t.Helper()
	m := codePattern.FindStringSubmatch(msg.Body)
	require.Len(t, m, 2, "no code in %q", msg.Body)
	return m[1]
}

// ── RequestSignup ────────────────────────────────────────────────────────────

// TestRequestSignup_ReissueInvalidatesPreviousCode verifies that two signups
// for the same identity produce different codes and only the last one is
// accepted.
func TestRequestSignup_ReissueInvalidatesPreviousCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, sender := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	stored := models.User{UserID: 1, Username: "alice", Email: "a@x.com", Role: models.RoleUser}

	repo.EXPECT().FindUsersByUsernameOrEmail(ctx, "alice", "a@x.com").Return(nil, nil)
	repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, models.RoleUser, u.Role)
			return stored, nil
		},
	)
	repo.EXPECT().FindUsersByUsernameOrEmail(ctx, "alice", "a@x.com").DoAndReturn(
		func(context.Context, string, string) ([]models.User, error) {
			return []models.User{stored}, nil
		},
	)
	repo.EXPECT().BumpCodeVersion(ctx, int64(1)).DoAndReturn(
		func(context.Context, int64) (models.User, error) {
			stored.CodeVersion++
			return stored, nil
		},
	).Times(2)

	var sent []models.Message
	sender.EXPECT().Send(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, msg models.Message) error {
			sent = append(sent, msg)
			return nil
		},
	).Times(2)

	for range 2 {
		echo, err := svc.RequestSignup(ctx, models.SignupRequest{Username: "alice", Email: "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, models.SignupRequest{Username: "alice", Email: "a@x.com"}, echo)
	}

	require.Len(t, sent, 2)
	assert.Equal(t, []string{"a@x.com"}, sent[0].To)
	assert.Equal(t, "Confirmation code", sent[0].Subject)
	assert.Equal(t, "noreply@test.local", sent[0].From)

	first, second := codeFrom(t, sent[0]), codeFrom(t, sent[1])
	assert.NotEqual(t, first, second)

	repo.EXPECT().FindUserByUsername(ctx, "alice").Return(stored, nil).Times(2)

	_, err := svc.ExchangeToken(ctx, models.TokenRequest{Username: "alice", ConfirmationCode: first})
	assert.ErrorIs(t, err, ErrInvalidConfirmationCode)

	token, err := svc.ExchangeToken(ctx, models.TokenRequest{Username: "alice", ConfirmationCode: second})
	require.NoError(t, err)
	assert.NotEmpty(t, token.SignedString)
	assert.Equal(t, int64(1), token.UserID)
}

// TestRequestSignup_Conflict verifies that a partial match fails without
// touching storage or the mail channel.
func TestRequestSignup_Conflict(t *testing.T) {
	tests := []struct {
		name    string
		matches []models.User
	}{
		{
			name:    "username bound to another email",
			matches: []models.User{{UserID: 1, Username: "alice", Email: "other@x.com"}},
		},
		{
			name:    "email bound to another username",
			matches: []models.User{{UserID: 2, Username: "bob", Email: "a@x.com"}},
		},
		{
			name: "username and email belong to different users",
			matches: []models.User{
				{UserID: 1, Username: "alice", Email: "other@x.com"},
				{UserID: 2, Username: "bob", Email: "a@x.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, repo, _ := newTestAuthSvc(t, ctrl)

			repo.EXPECT().FindUsersByUsernameOrEmail(gomock.Any(), "alice", "a@x.com").Return(tt.matches, nil)

			_, err := svc.RequestSignup(context.Background(), models.SignupRequest{Username: "alice", Email: "a@x.com"})
			assert.ErrorIs(t, err, ErrUsernameOrEmailTaken)
			assert.Equal(t, "username or email already in use", err.Error())
		})
	}
}

// TestRequestSignup_ConcurrentCreateReusesAccount verifies that losing the
// insert race to an identical signup reuses the winner's account.
func TestRequestSignup_ConcurrentCreateReusesAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, sender := newTestAuthSvc(t, ctrl)

	winner := models.User{UserID: 9, Username: "alice", Email: "a@x.com"}

	gomock.InOrder(
		repo.EXPECT().FindUsersByUsernameOrEmail(gomock.Any(), "alice", "a@x.com").Return(nil, nil),
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserAlreadyExists),
		repo.EXPECT().FindUsersByUsernameOrEmail(gomock.Any(), "alice", "a@x.com").Return([]models.User{winner}, nil),
		repo.EXPECT().BumpCodeVersion(gomock.Any(), int64(9)).Return(winner, nil),
		sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err := svc.RequestSignup(context.Background(), models.SignupRequest{Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)
}

// TestRequestSignup_ConcurrentCreateConflict verifies that losing the race
// to a different identity is reported as a conflict.
func TestRequestSignup_ConcurrentCreateConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	gomock.InOrder(
		repo.EXPECT().FindUsersByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil),
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserAlreadyExists),
		repo.EXPECT().FindUsersByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]models.User{{UserID: 3, Username: "alice", Email: "b@x.com"}}, nil),
	)

	_, err := svc.RequestSignup(context.Background(), models.SignupRequest{Username: "alice", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrUsernameOrEmailTaken)
}

func TestRequestSignup_ValidationTouchesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.RequestSignup(context.Background(), models.SignupRequest{Username: "Me", Email: "not-an-email"})
	require.ErrorIs(t, err, ErrValidation)

	var fields validation.Errors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
}

func TestRequestSignup_MailFailureIsSurfaced(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, sender := newTestAuthSvc(t, ctrl)

	user := models.User{UserID: 1, Username: "alice", Email: "a@x.com"}
	repo.EXPECT().FindUsersByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return([]models.User{user}, nil)
	repo.EXPECT().BumpCodeVersion(gomock.Any(), int64(1)).Return(user, nil)
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("broker unreachable"))

	_, err := svc.RequestSignup(context.Background(), models.SignupRequest{Username: "alice", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrMailDispatchFailed)
}

// ── ExchangeToken ────────────────────────────────────────────────────────────

// TestExchangeToken_UnknownUsernameIsNeutral verifies that the unknown
// username error cannot be told apart from a wrong code by its message.
func TestExchangeToken_UnknownUsernameIsNeutral(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByUsername(gomock.Any(), "ghost").Return(models.User{}, store.ErrNoUserWasFound)
	repo.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(models.User{UserID: 1, Username: "alice"}, nil)

	_, unknownErr := svc.ExchangeToken(context.Background(), models.TokenRequest{Username: "ghost", ConfirmationCode: "abc-00"})
	_, mismatchErr := svc.ExchangeToken(context.Background(), models.TokenRequest{Username: "alice", ConfirmationCode: "abc-00"})

	assert.ErrorIs(t, unknownErr, ErrUnknownUsername)
	assert.ErrorIs(t, mismatchErr, ErrInvalidConfirmationCode)
	assert.Equal(t, mismatchErr.Error(), unknownErr.Error())
}

// TestExchangeToken_StaleAfterProfileChange verifies that a code is bound to
// the user state it was issued for.
func TestExchangeToken_StaleAfterProfileChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	user := models.User{UserID: 1, Username: "alice", Email: "a@x.com", CodeVersion: 4}
	code := svc.codes.Make(user)

	changed := user
	changed.Email = "new@x.com"
	changed.CodeVersion = 5
	repo.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(changed, nil)

	_, err := svc.ExchangeToken(context.Background(), models.TokenRequest{Username: "alice", ConfirmationCode: code})
	assert.ErrorIs(t, err, ErrInvalidConfirmationCode)
}

func TestExchangeToken_RepeatedCallsReverify(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	user := models.User{UserID: 1, Username: "alice", Email: "a@x.com", CodeVersion: 2}
	code := svc.codes.Make(user)
	repo.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(user, nil).Times(2)

	for range 2 {
		_, err := svc.ExchangeToken(context.Background(), models.TokenRequest{Username: "alice", ConfirmationCode: code})
		require.NoError(t, err)
	}
}

func TestExchangeToken_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.ExchangeToken(context.Background(), models.TokenRequest{Username: "alice"})
	assert.ErrorIs(t, err, ErrValidation)
}

// ── ResolveCaller ────────────────────────────────────────────────────────────

func TestResolveCaller_UsesStoredRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	token, err := utils.GenerateJWTToken(testAppConfig.TokenIssuer, 5, time.Hour, testAppConfig.TokenSignKey)
	require.NoError(t, err)

	repo.EXPECT().FindUserByID(gomock.Any(), int64(5)).
		Return(models.User{UserID: 5, Username: "mod", Role: models.RoleModerator}, nil)

	caller, err := svc.ResolveCaller(context.Background(), token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, models.Caller{UserID: 5, Username: "mod", Role: models.RoleModerator}, caller)
}

func TestResolveCaller_DeletedUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	token, err := utils.GenerateJWTToken(testAppConfig.TokenIssuer, 5, time.Hour, testAppConfig.TokenSignKey)
	require.NoError(t, err)

	repo.EXPECT().FindUserByID(gomock.Any(), int64(5)).Return(models.User{}, store.ErrNoUserWasFound)

	caller, err := svc.ResolveCaller(context.Background(), token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	assert.True(t, caller.IsAnonymous())
}

func TestResolveCaller_ForeignToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	token, err := utils.GenerateJWTToken("someone-else", 5, time.Hour, testAppConfig.TokenSignKey)
	require.NoError(t, err)

	_, err = svc.ResolveCaller(context.Background(), token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestNewAuthService_RequiresKeyMaterial(t *testing.T) {
	_, err := NewAuthService(nil, nil, config.App{}, "", logger.Nop())
	assert.Error(t, err)

	_, err = NewAuthService(nil, nil, config.App{ConfirmationCodeKey: "explicit"}, "", logger.Nop())
	assert.NoError(t, err)
}
