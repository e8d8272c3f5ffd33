package validators

import "errors"

var (
	// ErrUnsupportedType is returned for values the validator has no rules for.
	ErrUnsupportedType = errors.New("unsupported type for validation")
	// ErrUnknownScope is returned for scope names the validator does not know.
	ErrUnknownScope = errors.New("unknown validation scope")
)
