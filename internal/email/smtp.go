// Package email provides SMTP delivery for outbound mail.
package email

import (
	"context"
	"fmt"

	"leadhub_backend/platform/config"
	"leadhub_backend/platform/logger"

	"github.com/wneessen/go-mail"
)

// SMTPSender delivers mail through an SMTP relay using go-mail.
type SMTPSender struct {
	cfg config.EmailConfig
	log *logger.Logger
}

// NewSMTPSender creates an SMTP sender from configuration.
func NewSMTPSender(cfg config.EmailConfig, log *logger.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

// Send delivers one plain-text email.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.GetEmailFromName(), s.cfg.GetEmailFromAddress()); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.cfg.GetSMTPHost(),
		mail.WithPort(s.cfg.GetSMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.GetSMTPUsername()),
		mail.WithPassword(s.cfg.GetSMTPPassword()),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.log.Info("email sent", "to", to, "subject", subject)
	return nil
}

// NoopSender discards mail. Used when email delivery is disabled.
type NoopSender struct {
	log *logger.Logger
}

// NewNoopSender creates a sender that logs instead of delivering.
func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

// Send logs the message and drops it.
func (s *NoopSender) Send(_ context.Context, to, subject, _ string) error {
	s.log.Info("email delivery disabled, dropping message", "to", to, "subject", subject)
	return nil
}
