package mailer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

// FileSender writes each message to its own file in a directory, in a
// minimal RFC 5322 layout.
type FileSender struct {
	dir    string
	now    func() time.Time
	logger *logger.Logger
}

// NewFileSender creates dir if needed and returns a sender writing into it.
func NewFileSender(dir string, log *logger.Logger) (*FileSender, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("error creating mail directory: %w", err)
	}

	return &FileSender{dir: dir, now: time.Now, logger: log}, nil
}

func (s *FileSender) Send(ctx context.Context, msg models.Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	now := s.now()
	name := fmt.Sprintf("%s-%s.eml", now.UTC().Format("20060102-150405"), uuid.NewString())
	path := filepath.Join(s.dir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o640); err != nil {
		return fmt.Errorf("error writing message file: %w", err)
	}

	s.logger.Debug().Str("path", path).Msg("email written to file")
	return nil
}

func (s *FileSender) Close() error {
	return nil
}
