// Package mail provides ports.Mailer implementations.
package mail

import (
	"context"
	"log/slog"
	"sync"
)

// LogMailer writes outgoing mail to the log instead of delivering it.
type LogMailer struct {
	logger *slog.Logger
	from   string
}

// NewLogMailer creates a mailer that logs every message as sent from `from`.
func NewLogMailer(logger *slog.Logger, from string) *LogMailer {
	return &LogMailer{logger: logger, from: from}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.InfoContext(ctx, "mail queued",
		"from", m.from,
		"to", to,
		"subject", subject,
		"bytes", len(body))
	m.logger.DebugContext(ctx, "mail body", "to", to, "body", body)
	return nil
}

// Message is a mail captured by Outbox.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Outbox keeps sent mail in memory. Used by the terminal and tests.
type Outbox struct {
	mu   sync.Mutex
	sent []Message
}

func (o *Outbox) Send(_ context.Context, to, subject, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the captured mail.
func (o *Outbox) Sent() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.sent...)
}
