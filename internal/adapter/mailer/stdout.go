package mailer

import (
	"context"
	"log/slog"
)

// StdoutMailer logs mail instead of delivering it. Used in development when
// no SMTP address is configured.
type StdoutMailer struct {
	logger *slog.Logger
}

// NewStdoutMailer creates a logging mailer.
func NewStdoutMailer(logger *slog.Logger) *StdoutMailer {
	return &StdoutMailer{logger: logger.With("component", "stdout_mailer")}
}

func (m *StdoutMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.logger.Info("mail (not delivered)", "to", to, "subject", subject, "body", htmlBody)
	return nil
}
