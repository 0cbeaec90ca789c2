package email

import (
	"context"
	"fmt"

	"sms_relay_backend/platform/config"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers through the SendGrid v3 mail send API.
type SendGridSender struct {
	client sendGridClient
}

// NewSendGridSender creates a sender authenticated with apiKey.
func NewSendGridSender(apiKey string) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey)}
}

func (s *SendGridSender) Provider() string { return config.ProviderSendGrid }

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	resp, err := s.client.SendWithContext(ctx, buildSendGridMail(msg))
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send failed: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func buildSendGridMail(msg Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("", msg.From))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	m.AddPersonalizations(p)

	// SendGrid rejects empty content values.
	text := msg.Text
	if text == "" {
		text = " "
	}
	m.AddContent(mail.NewContent("text/plain", text))
	return m
}
