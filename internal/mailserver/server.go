// Package mailserver accepts mail for synthetic addresses over SMTP and
// relays it to SMS, as an alternative to the inbound parse webhook.
package mailserver

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"sms_relay_backend/internal/forwarder"
	"sms_relay_backend/internal/relay"
	"sms_relay_backend/platform/apperr"
	"sms_relay_backend/platform/config"
	"sms_relay_backend/platform/logger"

	"github.com/emersion/go-smtp"
)

const (
	// A reply to DATA covers exactly one SMS.
	maxRecipients = 1
	ioTimeout     = 30 * time.Second
)

// Forwarder relays a parsed email to SMS.
type Forwarder interface {
	ForwardEmail(ctx context.Context, in forwarder.InboundEmail) (string, error)
}

// Backend implements smtp.Backend.
type Backend struct {
	fwd    Forwarder
	codec  relay.Codec
	domain string
	log    *logger.Logger
}

// NewBackend creates a backend accepting mail for domain.
func NewBackend(fwd Forwarder, codec relay.Codec, domain string, log *logger.Logger) *Backend {
	return &Backend{fwd: fwd, codec: codec, domain: strings.ToLower(domain), log: log}
}

// NewSession implements smtp.Backend.
func (b *Backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &Session{backend: b, remote: c.Conn().RemoteAddr().String()}, nil
}

// NewServer builds the SMTP listener from configuration.
func NewServer(cfg config.MailServerConfig, backend *Backend) *smtp.Server {
	s := smtp.NewServer(backend)
	s.Addr = cfg.GetSMTPListenAddr()
	s.Domain = cfg.GetSMTPListenDomain()
	s.MaxMessageBytes = cfg.GetSMTPMaxMessageBytes()
	s.MaxRecipients = maxRecipients
	s.ReadTimeout = ioTimeout
	s.WriteTimeout = ioTimeout
	return s
}

// Session holds the state of one SMTP transaction.
type Session struct {
	backend *Backend
	remote  string
	from    string
	rcpts   []string
}

func (s *Session) Reset() {
	s.from = ""
	s.rcpts = nil
}

func (s *Session) Logout() error {
	return nil
}

func (s *Session) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}

// Rcpt accepts only synthetic addresses under the relay domain. Recipients
// past the first are deferred with 452.
func (s *Session) Rcpt(to string, _ *smtp.RcptOptions) error {
	if len(s.rcpts) >= maxRecipients {
		return &smtp.SMTPError{
			Code:         452,
			EnhancedCode: smtp.EnhancedCode{4, 5, 3},
			Message:      "Too many recipients, send the rest in a new transaction",
		}
	}
	_, domain, _ := strings.Cut(to, "@")
	if strings.ToLower(domain) != s.backend.domain {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      "Relaying is not permitted for " + to,
		}
	}
	if _, err := s.backend.codec.EmailToPhone(to); err != nil {
		return &smtp.SMTPError{Code: 550, EnhancedCode: smtp.EnhancedCode{5, 1, 1}, Message: err.Error()}
	}
	s.rcpts = append(s.rcpts, to)
	return nil
}

// Data relays the message to the accepted recipient.
func (s *Session) Data(r io.Reader) error {
	if len(s.rcpts) == 0 {
		return &smtp.SMTPError{Code: 554, EnhancedCode: smtp.EnhancedCode{5, 5, 1}, Message: "No valid recipients"}
	}

	parsed, err := forwarder.ParseEmail(r)
	if err != nil {
		return &smtp.SMTPError{Code: 554, EnhancedCode: smtp.EnhancedCode{5, 6, 0}, Message: "Message could not be parsed"}
	}

	sid, err := s.backend.fwd.ForwardEmail(context.Background(), forwarder.InboundEmail{
		EnvelopeFrom: s.from,
		To:           s.rcpts[0],
		Text:         parsed.Text,
	})
	if err != nil {
		return toSMTPError(err)
	}
	s.backend.log.Info("relayed smtp message", "remote", s.remote, "sid", sid)
	return nil
}

// toSMTPError maps provider failures to a transient reply and everything
// else to a permanent rejection.
func toSMTPError(err error) error {
	if apperr.Is(err, apperr.KindUnavailable) {
		return &smtp.SMTPError{Code: 451, EnhancedCode: smtp.EnhancedCode{4, 4, 0}, Message: err.Error()}
	}

	var noNumber *relay.NoNumberForEmailError
	if errors.As(err, &noNumber) {
		return &smtp.SMTPError{Code: 550, EnhancedCode: smtp.EnhancedCode{5, 7, 1}, Message: err.Error()}
	}
	return &smtp.SMTPError{Code: 554, EnhancedCode: smtp.EnhancedCode{5, 0, 0}, Message: err.Error()}
}
