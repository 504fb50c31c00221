package services

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/antonnoe/dossierfrankrijk/internal/logging"
)

// Mailer delivers magic-link emails.
type Mailer interface {
	SendMagicLink(ctx context.Context, to string, link string) error
}

// SMTPMailer sends mail through a plain SMTP relay. The validity duration
// appears in the email copy and must match the configured login token
// validity.
type SMTPMailer struct {
	addr     string
	from     string
	validity time.Duration
}

func NewSMTPMailer(addr, from string, validity time.Duration) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from, validity: validity}
}

func (m *SMTPMailer) message(to, link string) []byte {
	return []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Inloggen bij Mijn Dossier\r\n\r\n"+
			"Klik op de link om in te loggen:\r\n\r\n%s\r\n\r\n"+
			"De link is %d minuten geldig. Geen wachtwoord nodig.\r\n",
		m.from, to, link, int(m.validity.Minutes())))
}

func (m *SMTPMailer) SendMagicLink(ctx context.Context, to string, link string) error {
	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, m.message(to, link)); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}
	return nil
}

// LogMailer writes the link to the log instead of sending mail.
// Used in development when no SMTP address is configured.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendMagicLink(ctx context.Context, to string, link string) error {
	m.logger.Info(ctx, "magic link issued", "to", to, "link", link)
	return nil
}
