package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

const (
	amqpMaxRetries     = 5
	amqpPublishTimeout = 5 * time.Second
)

// channel is the subset of *amqp.Channel the sender uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSender publishes messages as persistent JSON to a durable outbox queue
// through the default exchange. A separate worker performs the actual SMTP
// delivery.
type AMQPSender struct {
	queue  string
	conn   *amqp.Connection
	ch     channel
	mu     sync.RWMutex
	closed bool
	logger *logger.Logger
}

// NewAMQPSender dials url, retrying with a growing delay, and declares the
// outbox queue.
func NewAMQPSender(ctx context.Context, url, queue string, log *logger.Logger) (*AMQPSender, error) {
	retryDelay := time.Second

	for attempt := 1; ; attempt++ {
		conn, ch, err := dialOutbox(url, queue)
		if err == nil {
			log.Info().Str("queue", queue).Int("attempt", attempt).Msg("connected to mail outbox")
			return &AMQPSender{queue: queue, conn: conn, ch: ch, logger: log}, nil
		}

		log.Err(err).Int("attempt", attempt).Int("max_retries", amqpMaxRetries).Msg("mail outbox connection attempt failed")
		if attempt == amqpMaxRetries {
			return nil, fmt.Errorf("failed to connect after %d attempts: %w", amqpMaxRetries, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
			retryDelay = retryDelay * 3 / 2
		}
	}
}

func dialOutbox(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	return conn, ch, nil
}

func (s *AMQPSender) Send(ctx context.Context, msg models.Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	s.mu.RLock()
	ch, closed := s.ch, s.closed
	s.mu.RUnlock()

	if closed {
		return ErrSenderClosed
	}
	if ch == nil {
		return ErrChannelNotAvailable
	}

	publishCtx, cancel := context.WithTimeout(ctx, amqpPublishTimeout)
	defer cancel()

	err = ch.PublishWithContext(publishCtx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("queue", s.queue).Msg("email queued")
	return nil
}

// Close closes the channel and the connection. It is idempotent.
func (s *AMQPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.ch != nil {
		err = s.ch.Close()
	}
	if s.conn != nil {
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
	}

	s.logger.Info().Msg("mail outbox connection closed")
	return err
}
