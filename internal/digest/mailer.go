// Package digest renders and delivers the job digest email.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jobfinder-engine/internal/domain"
)

const (
	testSubject = "Test Email - Job Finder App"
	testBody    = "This is a test email from your AI/CS Job Finder application. Email configuration is working correctly!"
)

type Config struct {
	From     string // GMAIL_EMAIL
	Password string // GMAIL_APP_PASSWORD
	SMTPAddr string
	Timeout  time.Duration
}

type Mailer struct {
	cfg       Config
	transport Transport
	archiver  Archiver
	log       *slog.Logger
	now       func() time.Time
}

type Option func(*Mailer)

func WithTransport(t Transport) Option { return func(m *Mailer) { m.transport = t } }

func WithArchiver(a Archiver) Option { return func(m *Mailer) { m.archiver = a } }

func WithClock(now func() time.Time) Option { return func(m *Mailer) { m.now = now } }

func NewMailer(cfg Config, logger *slog.Logger, opts ...Option) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Mailer{cfg: cfg, log: logger.With("component", "digest"), now: time.Now}
	for _, o := range opts {
		o(m)
	}
	if m.transport == nil {
		m.transport = &SMTPTransport{
			Addr:     cfg.SMTPAddr,
			Username: cfg.From,
			Password: cfg.Password,
			Timeout:  cfg.Timeout,
		}
	}
	return m
}

func (m *Mailer) Configured() bool {
	return strings.TrimSpace(m.cfg.From) != "" && strings.TrimSpace(m.cfg.Password) != ""
}

// SendDigest renders records and mails them to to. It never returns an error;
// the bool and message describe the outcome for display.
func (m *Mailer) SendDigest(ctx context.Context, to string, records []domain.JobRecord, prefs Preferences) (bool, string) {
	if strings.TrimSpace(m.cfg.From) == "" {
		return false, "Failed to send email: GMAIL_EMAIL environment variable not found or empty"
	}
	if strings.TrimSpace(m.cfg.Password) == "" {
		return false, "Failed to send email: GMAIL_APP_PASSWORD environment variable not found or empty"
	}
	if !ValidEmail(to) {
		return false, fmt.Sprintf("Failed to send email: invalid recipient address %q", to)
	}

	now := m.now()
	body, err := RenderHTML(records, prefs, now)
	if err != nil {
		return false, fmt.Sprintf("Failed to send email: %v", err)
	}
	msg, err := BuildMessage(m.cfg.From, to, Subject(len(records)), "text/html", body, now)
	if err != nil {
		return false, fmt.Sprintf("Failed to send email: %v", err)
	}

	if err := m.transport.Send(ctx, m.cfg.From, []string{to}, msg); err != nil {
		derr := &domain.DeliveryError{Channel: "email", Target: to, Err: err}
		m.log.Warn("digest not sent", "to", to, "error", derr)
		if IsAuthError(err) {
			return false, fmt.Sprintf("SMTP Authentication failed: %v. Check if 2-Step Verification is enabled and App Password is correct.", err)
		}
		return false, fmt.Sprintf("SMTP error: %v", err)
	}
	m.log.Info("digest sent", "to", to, "records", len(records))

	if m.archiver != nil {
		if err := m.archiver.Archive(ctx, msg); err != nil {
			m.log.Warn("digest archive failed", "error", err)
		}
	}
	return true, "Email sent successfully"
}

// SendTest sends a short plain-text message to check the SMTP setup.
func (m *Mailer) SendTest(ctx context.Context, to string) (bool, string) {
	if !m.Configured() {
		return false, "Gmail credentials not configured"
	}
	if !ValidEmail(to) {
		return false, fmt.Sprintf("Test email failed: invalid recipient address %q", to)
	}
	msg, err := BuildMessage(m.cfg.From, to, testSubject, "text/plain", testBody, m.now())
	if err != nil {
		return false, fmt.Sprintf("Test email failed: %v", err)
	}
	if err := m.transport.Send(ctx, m.cfg.From, []string{to}, msg); err != nil {
		m.log.Warn("test email not sent", "to", to, "error", err)
		return false, fmt.Sprintf("Test email failed: %v", err)
	}
	return true, "Test email sent successfully"
}
