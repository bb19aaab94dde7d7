package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"NetSentry/internal/config"
	"NetSentry/internal/model"
)

// EmailNotifier delivers alert bodies as HTML email over SMTP.
type EmailNotifier struct {
	cfg        config.SMTPConfig
	auth       smtp.Auth
	recipients []string
}

// NewEmailNotifier validates the SMTP settings and builds the notifier.
// The "to" field is a comma-separated list; blanks around addresses are
// tolerated.
func NewEmailNotifier(cfg config.SMTPConfig) (model.Notifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("smtp port is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp sender address is required")
	}
	recipients := splitRecipients(cfg.To)
	if len(recipients) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	// PlainAuth will not send credentials until the server identifies itself as a trusted one.
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	return &EmailNotifier{cfg: cfg, auth: auth, recipients: recipients}, nil
}

// Send sends an HTML email to the configured recipients.
func (n *EmailNotifier) Send(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	msg := buildMessage(n.cfg.From, n.recipients, subject, body)

	if err := smtp.SendMail(addr, n.auth, n.cfg.From, n.recipients, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func splitRecipients(to string) []string {
	var out []string
	for _, addr := range strings.Split(to, ",") {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func buildMessage(from string, recipients []string, subject, body string) []byte {
	return []byte("To: " + strings.Join(recipients, ", ") + "\r\n" +
		"From: " + from + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body)
}
