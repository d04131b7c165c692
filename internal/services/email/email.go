// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email sends account verification mail.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/iteratehackerspace/silicondzor/internal/config"
	"github.com/iteratehackerspace/silicondzor/internal/i18n"
)

// Service sends mail over SMTP using go-mail.
type Service struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig, baseURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// VerifyLink builds the verification URL embedded in the mail body.
func VerifyLink(baseURL, token string) string {
	return fmt.Sprintf("%s/verify-account/%s", strings.TrimSuffix(baseURL, "/"), token)
}

// SendVerification sends a verification email with a link embedding the token.
func (s *Service) SendVerification(ctx context.Context, toEmail, token string) error {
	verifyURL := VerifyLink(s.baseURL, token)

	subject := i18n.T(ctx, "email_verification_subject")
	body := i18n.TData(ctx, "email_verification_body", map[string]any{
		"Email":     toEmail,
		"VerifyURL": verifyURL,
	})

	return s.send(toEmail, subject, body)
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Configure TLS based on config and port
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

// DebugDispatcher logs verification links instead of sending mail. It stands
// in for the SMTP service when no mail account is configured in debug.
type DebugDispatcher struct {
	BaseURL string
}

// SendVerification logs the verification link for the given address.
func (d *DebugDispatcher) SendVerification(_ context.Context, toEmail, token string) error {
	slog.Info("verification mail (not sent)",
		"to", toEmail,
		"link", VerifyLink(d.BaseURL, token),
	)
	return nil
}
