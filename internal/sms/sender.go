// Package sms delivers relayed email messages as SMS.
package sms

import (
	"context"
	"fmt"

	"sms_relay_backend/platform/apperr"
	"sms_relay_backend/platform/config"
	"sms_relay_backend/platform/validator"
)

// Message is an outbound SMS. Build it with NewMessage.
type Message struct {
	To   string `validate:"required,e164_canonical"`
	From string `validate:"required,e164_canonical"`
	Body string `validate:"required,max=1600"`
}

// NewMessage validates and returns an outbound SMS. Numbers must already be
// canonical E.164.
func NewMessage(val *validator.Validator, to, from, body string) (Message, error) {
	msg := Message{To: to, From: from, Body: body}
	if err := val.Struct(msg); err != nil {
		return Message{}, apperr.Validation("invalid SMS message: " + validator.Describe(err)).WithDetails(err.Error())
	}
	return msg, nil
}

// Sender hands a message to an SMS provider and returns the provider's
// message ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
	Provider() string
}

// Config is the configuration the sender factory needs.
type Config interface {
	config.ProviderConfig
	config.TwilioConfig
}

// NoopSender drops every message and returns an empty ID.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, msg Message) (string, error) {
	return "", nil
}

func (NoopSender) Provider() string { return config.ProviderNoop }

// NewSender selects the sender for the configured SMS provider.
func NewSender(cfg Config) (Sender, error) {
	switch cfg.GetSMSProvider() {
	case config.ProviderTwilio:
		return NewTwilioSender(cfg.GetTwilioAccountSID(), cfg.GetTwilioAuthToken()), nil
	case config.ProviderNoop:
		return NoopSender{}, nil
	default:
		return nil, fmt.Errorf("unsupported SMS provider %q", cfg.GetSMSProvider())
	}
}
