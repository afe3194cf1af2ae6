package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender records that a message would have been sent. Used in ENV=local.
// The body is not logged because it carries the raw reset token.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "email suppressed (local dev)", "to", to, "subject", subject, "body_bytes", len(body))
	return nil
}

// ResendSender sends emails via the Resend API. Used in staging/production.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local, ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger.With("component", "email")}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// PasswordResetMessage renders the subject and HTML body of a reset email.
func PasswordResetMessage(link string, ttl time.Duration) (subject, body string) {
	escaped := html.EscapeString(link)
	subject = "Reset your password"
	body = fmt.Sprintf(
		`<p>We received a request to reset your password. The link below expires in %s.</p>`+
			`<p><a href="%s">%s</a></p>`+
			`<p>If you did not ask for this, you can ignore this email.</p>`,
		humanDuration(ttl), escaped, escaped,
	)
	return subject, body
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	default:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
}
