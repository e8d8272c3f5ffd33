package validators

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/MKhiriev/go-yamdb/models"
)

// Scopes accepted by [RequestValidator.Validate].
const (
	// ScopeCreate requires every mandatory field of a partial input
	// (TitleInput, ContentInput, UserPatch) to be present.
	ScopeCreate = "create"

	// ScopeReview validates the score of a ContentInput. Without it the
	// input is treated as a comment and the score is ignored.
	ScopeReview = "review"
)

// RequestValidator validates inbound request models of the catalog API.
type RequestValidator struct {
	now func() time.Time
}

// NewRequestValidator constructs a RequestValidator and returns it as the
// Validator interface.
func NewRequestValidator() Validator {
	return &RequestValidator{now: time.Now}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported model are accepted.
//
// Supported types:
//   - models.SignupRequest
//   - models.TokenRequest
//   - models.User (admin-created accounts)
//   - models.UserPatch
//   - models.SlugNamed
//   - models.TitleInput
//   - models.ContentInput
//
// Returns ErrUnsupportedType if obj does not match any known model, and
// validation.Errors when fields are invalid.
func (v *RequestValidator) Validate(ctx context.Context, obj any, scopes ...string) error {
	create, review, err := parseScopes(scopes)
	if err != nil {
		return err
	}

	switch value := obj.(type) {
	case models.SignupRequest:
		return v.validateSignup(value)
	case *models.SignupRequest:
		return v.validateSignup(*value)

	case models.TokenRequest:
		return v.validateTokenRequest(value)
	case *models.TokenRequest:
		return v.validateTokenRequest(*value)

	case models.User:
		return v.validateUser(value)
	case *models.User:
		return v.validateUser(*value)

	case models.UserPatch:
		return v.validateUserPatch(value)
	case *models.UserPatch:
		return v.validateUserPatch(*value)

	case models.SlugNamed:
		return v.validateSlugNamed(value)
	case *models.SlugNamed:
		return v.validateSlugNamed(*value)

	case models.TitleInput:
		return v.validateTitleInput(value, create)
	case *models.TitleInput:
		return v.validateTitleInput(*value, create)

	case models.ContentInput:
		return v.validateContentInput(value, create, review)
	case *models.ContentInput:
		return v.validateContentInput(*value, create, review)

	default:
		return ErrUnsupportedType
	}
}

func parseScopes(scopes []string) (create, review bool, err error) {
	for _, s := range scopes {
		switch s {
		case ScopeCreate:
			create = true
		case ScopeReview:
			review = true
		default:
			return false, false, fmt.Errorf("%w: %q", ErrUnknownScope, s)
		}
	}
	return create, review, nil
}

// presence returns Required for full inputs and NilOrNotEmpty for partial
// ones, where an absent field is left untouched.
func presence(create bool) validation.Rule {
	if create {
		return validation.Required
	}
	return validation.NilOrNotEmpty
}

func (v *RequestValidator) validateSignup(r models.SignupRequest) error {
	return validation.Errors{
		"username": validation.Validate(r.Username, with(validation.Required, usernameRules())...),
		"email":    validation.Validate(r.Email, with(validation.Required, emailRules())...),
	}.Filter()
}

func (v *RequestValidator) validateTokenRequest(r models.TokenRequest) error {
	return validation.Errors{
		"username":          validation.Validate(r.Username, validation.Required, validation.RuneLength(1, MaxUsernameLength)),
		"confirmation_code": validation.Validate(r.ConfirmationCode, validation.Required, validation.RuneLength(1, MaxCodeLength)),
	}.Filter()
}

func (v *RequestValidator) validateUser(u models.User) error {
	return validation.Errors{
		"username":   validation.Validate(u.Username, with(validation.Required, usernameRules())...),
		"email":      validation.Validate(u.Email, with(validation.Required, emailRules())...),
		"first_name": validation.Validate(u.FirstName, validation.RuneLength(0, MaxPersonName)),
		"last_name":  validation.Validate(u.LastName, validation.RuneLength(0, MaxPersonName)),
		"role":       validation.Validate(u.Role, roleRule()),
	}.Filter()
}

func (v *RequestValidator) validateUserPatch(p models.UserPatch) error {
	return validation.Errors{
		"username":   validation.Validate(p.Username, with(validation.NilOrNotEmpty, usernameRules())...),
		"email":      validation.Validate(p.Email, with(validation.NilOrNotEmpty, emailRules())...),
		"first_name": validation.Validate(p.FirstName, validation.RuneLength(0, MaxPersonName)),
		"last_name":  validation.Validate(p.LastName, validation.RuneLength(0, MaxPersonName)),
		"role":       validation.Validate(p.Role, validation.NilOrNotEmpty, roleRule()),
	}.Filter()
}

func (v *RequestValidator) validateSlugNamed(s models.SlugNamed) error {
	return validation.Errors{
		"name": validation.Validate(s.Name, validation.Required, validation.RuneLength(1, MaxSlugNameLength)),
		"slug": validation.Validate(s.Slug, with(validation.Required, slugRules())...),
	}.Filter()
}

func (v *RequestValidator) validateTitleInput(in models.TitleInput, create bool) error {
	errs := validation.Errors{
		"name": validation.Validate(in.Name, presence(create), validation.RuneLength(1, MaxSlugNameLength)),
		"year": validation.Validate(in.Year, presence(create),
			validation.Max(v.now().Year()).Error("cannot be later than the current year")),
		"category": validation.Validate(in.Category, slugRules()...),
	}

	if in.Genre != nil {
		for _, slug := range *in.Genre {
			if err := validation.Validate(slug, with(validation.Required, slugRules())...); err != nil {
				errs["genre"] = fmt.Errorf("invalid slug %q: %w", slug, err)
				break
			}
		}
	}

	return errs.Filter()
}

func (v *RequestValidator) validateContentInput(in models.ContentInput, create, review bool) error {
	errs := validation.Errors{
		"text": validation.Validate(in.Text, presence(create)),
	}
	if review {
		errs["score"] = validation.Validate(in.Score, presence(create),
			validation.Min(MinScore), validation.Max(MaxScore))
	}

	return errs.Filter()
}
