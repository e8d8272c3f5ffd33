// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid*Configs sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	switch {
	case cfg.App.TokenSignKey == "":
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	case cfg.App.TokenDuration <= 0:
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs)
	case cfg.App.ConfirmationCodeTTL <= 0:
		return fmt.Errorf("%w: confirmation code ttl must be positive", ErrInvalidAppConfigs)
	case cfg.App.PageSize <= 0:
		return fmt.Errorf("%w: page size must be positive", ErrInvalidAppConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database dsn is required", ErrInvalidStorageConfigs)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	}

	switch cfg.Mailer.Backend {
	case MailerBackendLog:
	case MailerBackendFile:
		if cfg.Mailer.FileDir == "" {
			return fmt.Errorf("%w: file backend needs a directory", ErrInvalidMailerConfigs)
		}
	case MailerBackendAMQP:
		if cfg.Mailer.AMQPURL == "" || cfg.Mailer.Queue == "" {
			return fmt.Errorf("%w: amqp backend needs url and queue", ErrInvalidMailerConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidMailerConfigs, cfg.Mailer.Backend)
	}

	return nil
}
