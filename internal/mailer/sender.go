package mailer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/brogergvhs/comicmail/internal/config"
	"github.com/brogergvhs/comicmail/internal/util"

	"github.com/wneessen/go-mail"
)

// Sender delivers a composed message. Failures are not retried.
type Sender interface {
	Send(ctx context.Context, m *Message) error
}

// Sendmail pipes the message to a sendmail-compatible binary
// (invoked as "path -oi -t").
type Sendmail struct {
	Path string
}

func (s Sendmail) Send(ctx context.Context, m *Message) error {
	msg, err := Build(m)
	if err != nil {
		return err
	}

	path := s.Path
	if path == "" {
		path = mail.SendmailPath
	}

	if err := msg.WriteToSendmailWithContext(ctx, path); err != nil {
		return fmt.Errorf("sendmail %s: %w", path, err)
	}

	return nil
}

// SMTP hands the message to a relay, usually one on localhost.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

func (s SMTP) Send(ctx context.Context, m *Message) error {
	msg, err := Build(m)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.Timeout))
	}
	if s.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.Username),
			mail.WithPassword(s.Password),
		)
	}

	client, err := mail.NewClient(s.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", s.Host, s.Port, err)
	}

	return nil
}

// File writes the rendered message to Path instead of sending it.
type File struct {
	Path string
}

func (f File) Send(_ context.Context, m *Message) error {
	msg, err := Build(m)
	if err != nil {
		return err
	}

	return util.WriteFileAtomic(f.Path, func(w io.Writer) error {
		_, err := msg.WriteTo(w)
		return err
	})
}

// NewSender picks the transport named in the configuration.
func NewSender(t config.Transport) (Sender, error) {
	switch t.Kind {
	case config.TransportSendmail, "":
		return Sendmail{Path: t.SendmailPath}, nil
	case config.TransportSMTP:
		return SMTP{
			Host:     t.SMTPHost,
			Port:     t.SMTPPort,
			Username: t.SMTPUsername,
			Password: t.SMTPPassword,
			Timeout:  t.Timeout,
		}, nil
	case config.TransportFile:
		if t.Output == "" {
			return nil, fmt.Errorf("file transport needs an output path")
		}
		return File{Path: t.Output}, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", t.Kind)
	}
}
