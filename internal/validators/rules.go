package validators

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/MKhiriev/go-yamdb/models"
)

// Length limits of stored fields.
const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxPersonName     = 150
	MaxSlugNameLength = 256
	MaxSlugLength     = 50
	MaxCodeLength     = 255
	MinScore          = 1
	MaxScore          = 10
)

// ReservedUsername cannot be registered because it addresses the caller's
// own profile.
const ReservedUsername = "me"

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func usernameRules() []validation.Rule {
	return []validation.Rule{
		validation.RuneLength(1, MaxUsernameLength),
		validation.Match(usernamePattern).Error("may contain only letters, digits and @/./+/-/_"),
		validation.By(notReservedUsername),
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.RuneLength(1, MaxEmailLength),
		is.Email, // v3 is.Email is govalidator.IsEmail: format only, no DNS lookup
	}
}

func slugRules() []validation.Rule {
	return []validation.Rule{
		validation.RuneLength(1, MaxSlugLength),
		validation.Match(slugPattern).Error("may contain only latin letters, digits, hyphens and underscores"),
	}
}

func roleRule() validation.Rule {
	roles := models.AllRoles()
	allowed := make([]any, 0, len(roles))
	for _, r := range roles {
		allowed = append(allowed, r)
	}
	return validation.In(allowed...).Error("must be one of user, moderator, admin")
}

func notReservedUsername(value any) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if strings.EqualFold(s, ReservedUsername) {
		return errors.New(`"me" cannot be used as a username`)
	}
	return nil
}

// with prepends a presence rule to rules.
func with(presence validation.Rule, rules []validation.Rule) []validation.Rule {
	return append([]validation.Rule{presence}, rules...)
}
