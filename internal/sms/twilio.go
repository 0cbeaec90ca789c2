package sms

import (
	"context"
	"errors"
	"fmt"

	"sms_relay_backend/platform/config"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error)
}

// TwilioSender delivers through the Twilio Programmable Messaging API.
type TwilioSender struct {
	api messageCreator
}

// NewTwilioSender creates a sender authenticated with the account SID and token.
func NewTwilioSender(accountSID, authToken string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api}
}

func (t *TwilioSender) Provider() string { return config.ProviderTwilio }

// Send creates the message. The Twilio client has no context support, so
// ctx is only checked before the call.
func (t *TwilioSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &api.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(msg.From)
	params.SetBody(msg.Body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", errors.New("twilio create message: response carried no sid")
	}
	return *resp.Sid, nil
}
