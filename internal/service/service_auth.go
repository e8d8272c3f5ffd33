package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/mailer"
	"github.com/MKhiriev/go-yamdb/internal/store"
	"github.com/MKhiriev/go-yamdb/internal/utils"
	"github.com/MKhiriev/go-yamdb/internal/validators"
	"github.com/MKhiriev/go-yamdb/models"
)

// confirmationCodeKeyInfo binds keys derived from the token sign key to the
// confirmation code purpose.
const confirmationCodeKeyInfo = "go-yamdb confirmation code"

// confirmationSubject is the subject of the signup email.
const confirmationSubject = "Confirmation code"

// authService is the concrete implementation of AuthService.
// It drives the signup flow against a UserRepository, delivers confirmation
// codes through a mailer.Sender and manages the JWT lifecycle.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// sender delivers confirmation codes.
	sender mailer.Sender

	// codes issues and verifies confirmation codes.
	codes *utils.ConfirmationCodes

	validator validators.Validator

	// mailFrom is the sender address of confirmation emails.
	mailFrom string

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and Sender and populated with security parameters from cfg.
//
// When cfg.ConfirmationCodeKey is empty the code key is derived from
// cfg.TokenSignKey, so rotating the sign key also invalidates outstanding
// codes.
func NewAuthService(userRepository store.UserRepository, sender mailer.Sender, cfg config.App, mailFrom string, logger *logger.Logger) (AuthService, error) {
	codeKey := []byte(cfg.ConfirmationCodeKey)
	if len(codeKey) == 0 {
		derived, err := utils.DeriveKey(cfg.TokenSignKey, confirmationCodeKeyInfo)
		if err != nil {
			return nil, fmt.Errorf("error deriving confirmation code key: %w", err)
		}
		codeKey = derived
	}

	return &authService{
		userRepository: userRepository,
		sender:         sender,
		codes:          utils.NewConfirmationCodes(codeKey, cfg.ConfirmationCodeTTL),
		validator:      validators.NewRequestValidator(),
		mailFrom:       mailFrom,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}, nil
}

// RequestSignup registers the identity or re-arms an existing one.
//
// The account matching both username and email is reused; a partial match
// is a conflict and nothing is changed. Every call bumps the code version,
// so only the most recently mailed code stays valid.
//
// A failed mail dispatch is returned as ErrMailDispatchFailed. The account
// and the bumped version stay persisted and the caller may simply retry.
func (a *authService) RequestSignup(ctx context.Context, req models.SignupRequest) (models.SignupRequest, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.SignupRequest{}, validationError(err)
	}

	user, err := a.findOrCreate(ctx, req)
	if err != nil {
		return models.SignupRequest{}, err
	}

	bumped, err := a.userRepository.BumpCodeVersion(ctx, user.UserID)
	if err != nil {
		log.Err(err).Str("func", "*authService.RequestSignup").Int64("user_id", user.UserID).Msg("failed to bump code version")
		return models.SignupRequest{}, fmt.Errorf("error issuing confirmation code: %w", err)
	}

	msg := models.Message{
		From:    a.mailFrom,
		To:      []string{req.Email},
		Subject: confirmationSubject,
		Body:    confirmationBody(bumped.Username, a.codes.Make(bumped)),
	}
	if err = a.sender.Send(ctx, msg); err != nil {
		log.Err(err).Str("func", "*authService.RequestSignup").Int64("user_id", user.UserID).Msg("failed to send confirmation code")
		return models.SignupRequest{}, fmt.Errorf("%w: %w", ErrMailDispatchFailed, err)
	}

	log.Info().Str("func", "*authService.RequestSignup").Int64("user_id", user.UserID).Msg("confirmation code sent")

	return req, nil
}

// findOrCreate resolves the signup identity. A unique violation caused by a
// concurrent signup re-runs the lookup once.
func (a *authService) findOrCreate(ctx context.Context, req models.SignupRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	for attempt := 0; attempt < 2; attempt++ {
		matches, err := a.userRepository.FindUsersByUsernameOrEmail(ctx, req.Username, req.Email)
		if err != nil {
			log.Err(err).Str("func", "*authService.findOrCreate").Msg("user lookup failed")
			return models.User{}, fmt.Errorf("user lookup failed: %w", err)
		}

		if len(matches) == 1 && matches[0].Username == req.Username && matches[0].Email == req.Email {
			return matches[0], nil
		}
		if len(matches) > 0 {
			return models.User{}, ErrUsernameOrEmailTaken
		}

		created, err := a.userRepository.CreateUser(ctx, models.User{
			Username: req.Username,
			Email:    req.Email,
			Role:     models.RoleUser,
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, store.ErrUserAlreadyExists) {
			log.Err(err).Str("func", "*authService.findOrCreate").Msg("user creation ended with error")
			return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
		}

		log.Warn().Str("func", "*authService.findOrCreate").Str("username", req.Username).Msg("concurrent signup detected, retrying lookup")
	}

	return models.User{}, ErrUsernameOrEmailTaken
}

// ExchangeToken verifies the confirmation code and issues an access token.
//
// For an unknown username a code is still verified against an empty user so
// both failure paths do the same amount of work, and both errors carry the
// same message.
func (a *authService) ExchangeToken(ctx context.Context, req models.TokenRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.Token{}, validationError(err)
	}

	user, err := a.userRepository.FindUserByUsername(ctx, req.Username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		_ = a.codes.Check(models.User{}, req.ConfirmationCode)
		return models.Token{}, ErrUnknownUsername
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.ExchangeToken").Msg("user search by username failed")
		return models.Token{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if err = a.codes.Check(user, req.ConfirmationCode); err != nil {
		log.Info().Err(err).Str("func", "*authService.ExchangeToken").Int64("user_id", user.UserID).Msg("confirmation code rejected")
		return models.Token{}, ErrInvalidConfirmationCode
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// ResolveCaller returns the caller identified by tokenString with the role
// currently stored, so role changes apply to tokens already issued. Tokens
// of deleted users are rejected.
func (a *authService) ResolveCaller(ctx context.Context, tokenString string) (models.Caller, error) {
	token, err := a.ParseToken(ctx, tokenString)
	if err != nil {
		return models.Anonymous(), err
	}

	user, err := a.userRepository.FindUserByID(ctx, token.UserID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.Anonymous(), ErrTokenIsExpiredOrInvalid
	}
	if err != nil {
		return models.Anonymous(), fmt.Errorf("error loading token subject: %w", err)
	}

	return user.Caller(), nil
}

func confirmationBody(username, code string) string {
	return fmt.Sprintf("Hello, %s!\r\n\r\nYour confirmation code: %s\r\n\r\n"+
		"Exchange it for an access token at /api/v1/auth/token.\r\n", username, code)
}
