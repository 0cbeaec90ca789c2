// Package forwarder relays inbound SMS to email and inbound email to SMS.
// It is shared by the provider webhooks and the SMTP listener.
package forwarder

import (
	"context"

	"sms_relay_backend/internal/email"
	"sms_relay_backend/internal/relay"
	"sms_relay_backend/internal/sms"
	"sms_relay_backend/platform/apperr"
	"sms_relay_backend/platform/config"
	"sms_relay_backend/platform/logger"
	"sms_relay_backend/platform/metrics"
	"sms_relay_backend/platform/phone"
	"sms_relay_backend/platform/validator"
)

// InboundSMS is an SMS received from the messaging provider.
type InboundSMS struct {
	From string
	To   string
	Body string
}

// InboundEmail is an email received by the webhook or the SMTP listener.
// To is the synthetic recipient and EnvelopeFrom the sending address.
type InboundEmail struct {
	EnvelopeFrom string
	To           string
	Text         string
}

// Service forwards messages between the two transports.
type Service struct {
	resolver *relay.Resolver
	codec    relay.Codec
	region   string
	subject  string
	mailer   email.Sender
	texter   sms.Sender
	val      *validator.Validator
	log      *logger.Logger
}

// NewService creates the forwarding service.
func NewService(resolver *relay.Resolver, cfg config.RelayConfig, mailer email.Sender, texter sms.Sender, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		resolver: resolver,
		codec:    relay.NewCodec(cfg.GetEmailDomain(), cfg.GetDefaultRegion()),
		region:   cfg.GetDefaultRegion(),
		subject:  cfg.GetSMSSubject(),
		mailer:   mailer,
		texter:   texter,
		val:      val,
		log:      log,
	}
}

// Codec returns the synthetic address codec.
func (s *Service) Codec() relay.Codec {
	return s.codec
}

// ForwardSMS emails an inbound SMS to the address configured for its
// recipient, from the sender's synthetic address.
func (s *Service) ForwardSMS(ctx context.Context, in InboundSMS) error {
	const direction = metrics.DirectionSMSToEmail
	log := s.log.WithContext(ctx)

	to, err := s.resolver.EmailForPhone(in.To)
	if err != nil {
		return s.reject(log, direction, s.mailer.Provider(), err)
	}

	from, err := relay.Normalize(in.From, s.region)
	if err != nil {
		return s.reject(log, direction, s.mailer.Provider(), err)
	}

	msg, err := email.NewMessage(s.val, to.String(), s.codec.PhoneToEmail(from).String(), s.subject, in.Body)
	if err != nil {
		return s.reject(log, direction, s.mailer.Provider(), err)
	}

	done := metrics.TimeProvider(s.mailer.Provider(), direction)
	err = s.mailer.Send(ctx, msg)
	done()
	if err != nil {
		metrics.ObserveRelay(direction, metrics.OutcomeFailed, s.mailer.Provider())
		log.RelayFailure(direction, err)
		return apperr.Unavailable("email provider did not accept the message", err).WithOp("forwarder.ForwardSMS")
	}

	metrics.ObserveRelay(direction, metrics.OutcomeDelivered, s.mailer.Provider())
	log.RelayEvent(direction, phone.Mask(from.String()), msg.To, s.mailer.Provider())
	return nil
}

// ForwardEmail texts the first line of an inbound email to the number
// encoded in its recipient, from the number configured for its sender. It
// returns the provider message ID.
func (s *Service) ForwardEmail(ctx context.Context, in InboundEmail) (string, error) {
	const direction = metrics.DirectionEmailToSMS
	log := s.log.WithContext(ctx)

	to, err := s.codec.EmailToPhone(AddressOf(in.To))
	if err != nil {
		return "", s.reject(log, direction, s.texter.Provider(), err)
	}

	from, err := s.resolver.PhoneForEmail(relay.EmailAddress(AddressOf(in.EnvelopeFrom)))
	if err != nil {
		return "", s.reject(log, direction, s.texter.Provider(), err)
	}

	msg, err := sms.NewMessage(s.val, to.String(), from.String(), FirstLine(in.Text))
	if err != nil {
		return "", s.reject(log, direction, s.texter.Provider(), err)
	}

	done := metrics.TimeProvider(s.texter.Provider(), direction)
	sid, err := s.texter.Send(ctx, msg)
	done()
	if err != nil {
		metrics.ObserveRelay(direction, metrics.OutcomeFailed, s.texter.Provider())
		log.RelayFailure(direction, err)
		return "", apperr.Unavailable("SMS provider did not accept the message", err).WithOp("forwarder.ForwardEmail")
	}

	metrics.ObserveRelay(direction, metrics.OutcomeDelivered, s.texter.Provider())
	log.RelayEvent(direction, phone.Mask(from.String()), phone.Mask(to.String()), s.texter.Provider())
	return sid, nil
}

func (s *Service) reject(log *logger.Logger, direction, provider string, err error) error {
	metrics.ObserveRelay(direction, metrics.OutcomeRejected, provider)
	log.RelayFailure(direction, err)
	return err
}
