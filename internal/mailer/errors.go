package mailer

import "errors"

var (
	ErrUnknownBackend      = errors.New("unknown mail backend")
	ErrNoRecipients        = errors.New("message has no recipients")
	ErrChannelNotAvailable = errors.New("amqp channel not available")
	ErrSenderClosed        = errors.New("sender is closed")
)
