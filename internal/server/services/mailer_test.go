package services

import (
	"strings"
	"testing"
	"time"
)

func TestSMTPMailerMessage(t *testing.T) {
	m := NewSMTPMailer("mail.test:25", "noreply@dossier.test", 30*time.Minute)

	msg := string(m.message("jan@voorbeeld.nl", "https://dossier.test/auth/callback?code=abc"))

	if !strings.Contains(msg, "To: jan@voorbeeld.nl") {
		t.Errorf("recipient missing:\n%s", msg)
	}
	if !strings.Contains(msg, "https://dossier.test/auth/callback?code=abc") {
		t.Errorf("link missing:\n%s", msg)
	}
	// The stated validity follows the configured duration.
	if !strings.Contains(msg, "De link is 30 minuten geldig") {
		t.Errorf("validity copy does not match the configured duration:\n%s", msg)
	}
	if strings.Contains(msg, "15 minuten") {
		t.Errorf("hardcoded validity left in copy:\n%s", msg)
	}
}
