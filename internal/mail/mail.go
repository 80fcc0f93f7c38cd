// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail is the outbound email collaborator. Delivery is best-effort
// throughout the application: callers dispatch in a goroutine, failures are
// logged and never surfaced to the HTTP client.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender delivers a single message to a single address.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	addr string // host:port
	from string
}

// NewSMTPSender returns a sender relaying through the given host and port,
// using from as the envelope and header From address.
func NewSMTPSender(host, port, from string) *SMTPSender {
	return &SMTPSender{addr: host + ":" + port, from: from}
}

// Send delivers one message. The context is accepted for interface
// symmetry; net/smtp has no native cancellation.
func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender writes messages to the structured log instead of delivering
// them. Used in development so confirmation codes are visible without a
// mail relay.
type LogSender struct{}

// Send logs the message and always succeeds.
func (LogSender) Send(_ context.Context, to, subject, body string) error {
	slog.Info("mail (not delivered, log sender)",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
