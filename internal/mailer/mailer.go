// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mailer

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/logger"
)

// NewSender builds the Sender selected by cfg.Backend.
func NewSender(ctx context.Context, cfg config.Mailer, log *logger.Logger) (Sender, error) {
	switch cfg.Backend {
	case config.MailerBackendLog, "":
		return NewLogSender(log), nil
	case config.MailerBackendFile:
		return NewFileSender(cfg.FileDir, log)
	case config.MailerBackendAMQP:
		return NewAMQPSender(ctx, cfg.AMQPURL, cfg.Queue, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
