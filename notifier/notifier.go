// Package notifier provides Notifier implementations for the auth core: a
// real SMTP mailer and a log-only stand-in for development.
package notifier

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-otp-auth"
)

// SMTP sends mail through a plain-auth SMTP relay. SendMail negotiates
// STARTTLS when the server advertises it.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

var _ auth.Notifier = (*SMTP)(nil)

// NewSMTP builds an SMTP notifier from the service config.
func NewSMTP(cfg auth.Config) *SMTP {
	return &SMTP{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
}

// Send delivers one message. The caller treats failures as non-fatal; this
// method only reports them.
func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := m.buildMessage(to, subject, body)
	addr := net.JoinHostPort(m.Host, m.Port)
	a := smtp.PlainAuth("", m.Username, m.Password, m.Host)

	if err := smtp.SendMail(addr, a, m.From, []string{to}, msg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send email").
			WithMetadata(map[string]any{"to": to, "subject": subject})
	}

	return nil
}

func (m *SMTP) buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Log records would-be notifications instead of sending them. The service
// binary uses it when SMTP credentials are absent.
type Log struct {
	Logger auth.Logger
}

var _ auth.Notifier = (*Log)(nil)

func NewLog(logger auth.Logger) *Log {
	return &Log{Logger: logger}
}

func (l *Log) Send(_ context.Context, to, subject, body string) error {
	l.Logger.Info("email notification", "to", to, "subject", subject, "body", body)
	return nil
}
