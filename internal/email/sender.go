// Package email delivers relayed SMS messages as plain-text email.
package email

import (
	"context"
	"fmt"
	"strings"

	"sms_relay_backend/platform/apperr"
	"sms_relay_backend/platform/config"
	"sms_relay_backend/platform/validator"
)

// Message is an outbound email. Build it with NewMessage.
type Message struct {
	To      string `validate:"required,email"`
	From    string `validate:"required,email"`
	Subject string `validate:"required"`
	Text    string
}

// NewMessage validates and returns an outbound email.
func NewMessage(val *validator.Validator, to, from, subject, text string) (Message, error) {
	msg := Message{
		To:      strings.TrimSpace(to),
		From:    strings.TrimSpace(from),
		Subject: subject,
		Text:    text,
	}
	if err := val.Struct(msg); err != nil {
		return Message{}, apperr.Validation("invalid email message: " + validator.Describe(err)).WithDetails(err.Error())
	}
	return msg, nil
}

// Sender hands a message to an email provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Provider() string
}

// Config is the configuration the sender factory needs.
type Config interface {
	config.ProviderConfig
	config.SendGridConfig
	config.SMTPConfig
}

// NoopSender drops every message.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, msg Message) error {
	return nil
}

func (NoopSender) Provider() string { return config.ProviderNoop }

// NewSender selects the sender for the configured email provider.
func NewSender(cfg Config) (Sender, error) {
	switch cfg.GetEmailProvider() {
	case config.ProviderSendGrid:
		return NewSendGridSender(cfg.GetSendGridAPIKey()), nil
	case config.ProviderSMTP:
		return NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(), cfg.GetSMTPTimeout()), nil
	case config.ProviderNoop:
		return NoopSender{}, nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.GetEmailProvider())
	}
}
