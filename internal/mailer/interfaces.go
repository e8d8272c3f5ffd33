// Package mailer delivers outbound messages, confirmation codes in
// particular, through one of several channels selected by configuration:
// the application log, a directory of message files, or an AMQP outbox
// queue consumed by a separate delivery worker.
package mailer

import (
	"context"

	"github.com/MKhiriev/go-yamdb/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/mailer_mock.go -package=mock

// Sender dispatches a single message. Implementations must be safe for
// concurrent use.
type Sender interface {
	// Send delivers msg or returns an error if the channel rejected it.
	Send(ctx context.Context, msg models.Message) error

	// Close releases the resources held by the channel.
	Close() error
}
