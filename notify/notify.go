// Package notify delivers outbound email and SMS.
package notify

import (
	"context"
	"log/slog"
	"time"
)

type Mailer interface {
	SendMail(ctx context.Context, to, subject, htmlBody string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// LogMailer stands in for a mailer when SMTP is not configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendMail(_ context.Context, to, subject, _ string) error {
	m.Logger.Info("mail not sent, SMTP not configured", "to", to, "subject", subject)
	return nil
}

// LogSMSSender stands in for an SMS sender when Twilio is not configured.
type LogSMSSender struct {
	Logger *slog.Logger
}

func (s LogSMSSender) SendSMS(_ context.Context, to, _ string) error {
	s.Logger.Info("sms not sent, Twilio not configured", "to", to)
	return nil
}

const backgroundTimeout = time.Minute

// Background runs send detached from the request. A failure is logged at
// WARN and otherwise ignored.
func Background(logger *slog.Logger, op, recipient string, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			logger.Warn("notification failed", "op", op, "to", recipient, "error", err)
		}
	}()
}
