package mailer

import (
	"context"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

// LogSender writes every message to the application log. It is meant for
// development setups where no real delivery is wanted.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Send(ctx context.Context, msg models.Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	s.logger.Info().
		Str("from", msg.From).
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("outbound email")

	return nil
}

func (s *LogSender) Close() error {
	return nil
}
