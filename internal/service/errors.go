package service

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	// ErrValidation wraps the field errors of a rejected input. The
	// validation.Errors map can be extracted with errors.As.
	ErrValidation = errors.New("invalid data provided")

	ErrUsernameOrEmailTaken = errors.New("username or email already in use")
	ErrSlugTaken            = errors.New("slug already in use")
	ErrAlreadyReviewed      = errors.New("you have already reviewed this title")

	ErrNotFound = errors.New("not found")

	// ErrInvalidConfirmationCode and ErrUnknownUsername share the message so
	// the token endpoint does not reveal which usernames exist.
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrUnknownUsername         = errors.New("invalid confirmation code")

	ErrMailDispatchFailed = errors.New("failed to send confirmation code")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// validationError marks err as a validation failure.
func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// fieldError builds a validation failure of a single field.
func fieldError(field string, err error) error {
	return validationError(validation.Errors{field: err})
}
