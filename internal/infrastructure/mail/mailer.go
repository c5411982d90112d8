package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

// Config carries the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// BaseURL is the externally reachable address used to build clickable
	// verification and reset links.
	BaseURL string
}

// SMTPMailer sends verification and password-reset links over SMTP. It is
// constructed once at process start and injected into the auth service.
type SMTPMailer struct {
	cfg Config
	log zerolog.Logger
}

func NewSMTPMailer(cfg Config, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

func (m *SMTPMailer) SendVerificationLink(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/users/verify-email?token=%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf("Welcome to MentorLink Sphere!\n\nPlease confirm your email address by clicking the link below:\n\n%s\n\nThe link is valid for 24 hours.\n", link)
	return m.send(ctx, to, "Verify your MentorLink Sphere account", body)
}

func (m *SMTPMailer) SendPasswordResetLink(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf("A password reset was requested for your account.\n\nUse the link below to choose a new password:\n\n%s\n\nThe link is valid for 1 hour. If you did not request this, you can ignore this mail.\n", link)
	return m.send(ctx, to, "Reset your MentorLink Sphere password", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.log.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}
