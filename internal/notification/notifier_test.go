package notification

import (
	"strings"
	"testing"

	"NetSentry/internal/config"
)

func validSMTP() config.SMTPConfig {
	return config.SMTPConfig{
		Host: "mail.example.com",
		Port: 587,
		From: "alerts@example.com",
		To:   "ops@example.com, security@example.com ,",
	}
}

func TestNewEmailNotifierValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.SMTPConfig)
	}{
		{"missing host", func(c *config.SMTPConfig) { c.Host = "" }},
		{"missing port", func(c *config.SMTPConfig) { c.Port = 0 }},
		{"missing sender", func(c *config.SMTPConfig) { c.From = "" }},
		{"no recipients", func(c *config.SMTPConfig) { c.To = " , ," }},
	}
	for _, c := range cases {
		cfg := validSMTP()
		c.mutate(&cfg)
		if _, err := NewEmailNotifier(cfg); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}

	if _, err := NewEmailNotifier(validSMTP()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestSplitRecipients(t *testing.T) {
	got := splitRecipients(" a@x.com ,b@x.com,, c@x.com")
	want := []string{"a@x.com", "b@x.com", "c@x.com"}
	if len(got) != len(want) {
		t.Fatalf("expected %d recipients, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recipient %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("alerts@example.com", []string{"a@x.com", "b@x.com"}, "Test Subject", "<h1>hi</h1>"))

	for _, want := range []string{
		"To: a@x.com, b@x.com\r\n",
		"From: alerts@example.com\r\n",
		"Subject: Test Subject\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if !strings.HasSuffix(msg, "\r\n\r\n<h1>hi</h1>") {
		t.Errorf("body not separated from headers: %q", msg)
	}
}
