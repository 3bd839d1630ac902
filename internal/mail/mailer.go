// Package mail adapts the transactional-mail provider. Sends are
// fire-and-forget from the caller's point of view; a failed welcome mail is
// logged and never fails the registration that triggered it.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mailgun/mailgun-go/v4"
)

// Message is an outbound email.
type Message struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// Mailer is the interface for sending emails. Any type implementing it can be
// used to send or simulate sending mail.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailgunMailer sends mail through the Mailgun API.
type MailgunMailer struct {
	mg     *mailgun.MailgunImpl
	logger *slog.Logger
}

// NewMailgunMailer creates a mailer for the given Mailgun domain and API key.
func NewMailgunMailer(domain, apiKey string, logger *slog.Logger) *MailgunMailer {
	if logger == nil {
		logger = slog.Default()
	}

	return &MailgunMailer{
		mg:     mailgun.NewMailgun(domain, apiKey),
		logger: logger,
	}
}

// Send delivers one message.
func (m *MailgunMailer) Send(ctx context.Context, msg Message) error {
	message := m.mg.NewMessage(msg.From, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHTML(msg.HTML)
	}

	resp, id, err := m.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailgun send failed: %w", err)
	}

	m.logger.Debug("mail sent",
		slog.String("to", msg.To),
		slog.String("message_id", id),
		slog.String("response", resp),
	)

	return nil
}

// NoopMailer drops all messages. Used when no mail provider is configured,
// e.g. in development.
type NoopMailer struct {
	logger *slog.Logger
}

// NewNoopMailer creates a mailer that logs instead of sending.
func NewNoopMailer(logger *slog.Logger) *NoopMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopMailer{logger: logger}
}

// Send logs the message and discards it.
func (m *NoopMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("mail delivery disabled, dropping message",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// WelcomeMessage builds the registration welcome mail for an address.
func WelcomeMessage(to, from string) Message {
	return Message{
		To:      to,
		From:    from,
		Subject: "Thank you for Registering at FreeHold!",
		Text:    "Thank you for registering!",
		HTML: fmt.Sprintf(
			"Welcome %s, <br />We are glad you joined the Freehold family!<br /><strong> Sincerely, FreeHold team </strong>",
			to,
		),
	}
}
