package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] and
// [ClientConfig.validate] when required configuration groups are incomplete
// or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid token, confirmation code or
	// pagination settings (for example, a missing token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid transport settings
	// (for example, a missing listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidMailerConfigs indicates an unknown mail backend or missing
	// backend parameters.
	ErrInvalidMailerConfigs = errors.New("invalid mailer configuration")
	// ErrInvalidAdapterConfigs indicates a client without a server address
	// or request timeout.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
)
