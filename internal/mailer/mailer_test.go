package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

var testMessage = models.Message{
	From:    "noreply@yamdb.local",
	To:      []string{"alice@example.com"},
	Subject: "Confirmation code",
	Body:    "Your confirmation code: abc-123",
}

// ─────────────────────────────────────────────────────────────────────────────
// NewSender
// ─────────────────────────────────────────────────────────────────────────────

func TestNewSender_Log(t *testing.T) {
	s, err := NewSender(context.Background(), config.Mailer{Backend: config.MailerBackendLog}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)
}

func TestNewSender_File(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mail")
	s, err := NewSender(context.Background(), config.Mailer{Backend: config.MailerBackendFile, FileDir: dir}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &FileSender{}, s)
	assert.DirExists(t, dir)
}

func TestNewSender_Unknown(t *testing.T) {
	s, err := NewSender(context.Background(), config.Mailer{Backend: "pigeon"}, logger.Nop())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

// ─────────────────────────────────────────────────────────────────────────────
// LogSender
// ─────────────────────────────────────────────────────────────────────────────

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(logger.New(&buf, "test"))

	require.NoError(t, s.Send(context.Background(), testMessage))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Confirmation code", entry["subject"])
	assert.Equal(t, testMessage.Body, entry["body"])
	assert.Equal(t, []any{"alice@example.com"}, entry["to"])
	assert.NoError(t, s.Close())
}

func TestLogSender_NoRecipients(t *testing.T) {
	err := NewLogSender(logger.Nop()).Send(context.Background(), models.Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

// ─────────────────────────────────────────────────────────────────────────────
// FileSender
// ─────────────────────────────────────────────────────────────────────────────

func TestFileSender_Send(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSender(dir, logger.Nop())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, s.Send(context.Background(), testMessage))
	require.NoError(t, s.Send(context.Background(), testMessage))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "each message gets its own file")

	name := entries[0].Name()
	assert.True(t, strings.HasPrefix(name, "20260102-030405-"))
	assert.True(t, strings.HasSuffix(name, ".eml"))

	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(content), "To: alice@example.com\r\n")
	assert.Contains(t, string(content), "Subject: Confirmation code\r\n")
	assert.Contains(t, string(content), "\r\n\r\nYour confirmation code: abc-123")
}

func TestFileSender_NoRecipients(t *testing.T) {
	s, err := NewFileSender(t.TempDir(), logger.Nop())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Send(context.Background(), models.Message{}), ErrNoRecipients)
}

func TestFileSender_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSender(dir, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	assert.Error(t, s.Send(context.Background(), testMessage))
}

// ─────────────────────────────────────────────────────────────────────────────
// AMQPSender
// ─────────────────────────────────────────────────────────────────────────────

type fakeChannel struct {
	published []amqp.Publishing
	exchange  string
	key       string
	err       error
	closed    int
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.exchange, c.key = exchange, key
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed++
	return nil
}

func newTestAMQPSender(ch *fakeChannel) *AMQPSender {
	return &AMQPSender{queue: "mail.outbox", ch: ch, logger: logger.Nop()}
}

func TestAMQPSender_Send(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestAMQPSender(ch)

	require.NoError(t, s.Send(context.Background(), testMessage))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "", ch.exchange)
	assert.Equal(t, "mail.outbox", ch.key)

	pub := ch.published[0]
	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, amqp.Persistent, pub.DeliveryMode)

	var got models.Message
	require.NoError(t, json.Unmarshal(pub.Body, &got))
	assert.Equal(t, testMessage, got)
}

func TestAMQPSender_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel/connection is not open")}
	s := newTestAMQPSender(ch)

	err := s.Send(context.Background(), testMessage)
	assert.ErrorIs(t, err, ch.err)
}

func TestAMQPSender_NoChannel(t *testing.T) {
	s := &AMQPSender{queue: "q", logger: logger.Nop()}
	assert.ErrorIs(t, s.Send(context.Background(), testMessage), ErrChannelNotAvailable)
}

func TestAMQPSender_CloseIsIdempotent(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestAMQPSender(ch)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, ch.closed)

	assert.ErrorIs(t, s.Send(context.Background(), testMessage), ErrSenderClosed)
}
