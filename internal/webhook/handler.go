package webhook

import (
	"encoding/json"
	"net/http"
	"strings"

	"sms_relay_backend/internal/forwarder"
	"sms_relay_backend/platform/apperr"
	"sms_relay_backend/platform/httpkit"
	"sms_relay_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	pathHandleSMS   = "/handle-sms"
	pathHandleEmail = "/handle-email"

	emptyTwiML = "<Response></Response>"

	errInvalidRequest  = "invalid request body"
	errInvalidEnvelope = "invalid envelope"
)

// SMSRequest holds the Twilio messaging webhook fields the relay reads.
type SMSRequest struct {
	From string `form:"From" validate:"required"`
	To   string `form:"To" validate:"required"`
	Body string `form:"Body"`
}

// EmailRequest holds the SendGrid Inbound Parse fields the relay reads.
type EmailRequest struct {
	Envelope string `form:"envelope"`
	From     string `form:"from"`
	To       string `form:"to"`
	Text     string `form:"text"`
	HTML     string `form:"html"`
	Email    string `form:"email"`
}

type envelope struct {
	From string   `json:"from"`
	To   []string `json:"to"`
}

// Handler handles provider webhook requests.
type Handler struct {
	forwarder  *forwarder.Service
	diagnostic *Diagnostic
	baseURL    string
	val        *validator.Validator
}

// NewHandler creates a new webhook handler.
func NewHandler(fwd *forwarder.Service, diagnostic *Diagnostic, baseURL string, val *validator.Validator) *Handler {
	return &Handler{forwarder: fwd, diagnostic: diagnostic, baseURL: baseURL, val: val}
}

// HandleSMS relays an inbound SMS to email.
// POST /handle-sms
func (h *Handler) HandleSMS(c *gin.Context) {
	var req SMSRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	err := h.forwarder.ForwardSMS(c.Request.Context(), forwarder.InboundSMS{
		From: req.From,
		To:   req.To,
		Body: req.Body,
	})
	if httpkit.HandleErrorText(c, err) {
		return
	}

	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(emptyTwiML))
}

// HandleEmail relays an inbound email to SMS and replies with the provider
// message ID.
// POST /handle-email
func (h *Handler) HandleEmail(c *gin.Context) {
	var req EmailRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	inbound, err := toInboundEmail(req)
	if httpkit.HandleErrorText(c, err) {
		return
	}

	sid, err := h.forwarder.ForwardEmail(c.Request.Context(), inbound)
	if httpkit.HandleErrorText(c, err) {
		return
	}

	c.String(http.StatusOK, sid)
}

// HandleDiagnostic reports configuration problems or the webhook URLs.
// GET /
func (h *Handler) HandleDiagnostic(c *gin.Context) {
	status, page, err := h.diagnostic.Run(publicBaseURL(c, h.baseURL))
	if err != nil {
		httpkit.HandleErrorText(c, apperr.Internal("failed to render diagnostic").WithDetails(err.Error()))
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}

// toInboundEmail prefers the parsed fields and falls back to the raw MIME
// message when SendGrid posts it unparsed.
func toInboundEmail(req EmailRequest) (forwarder.InboundEmail, error) {
	in := forwarder.InboundEmail{To: req.To}

	if req.Envelope != "" {
		var env envelope
		if err := json.Unmarshal([]byte(req.Envelope), &env); err != nil {
			return in, apperr.BadRequest(errInvalidEnvelope).WithDetails(err.Error())
		}
		in.EnvelopeFrom = env.From
	}

	text, err := forwarder.BodyText(req.Text, req.HTML)
	if err != nil {
		return in, apperr.BadRequest(errInvalidRequest).WithDetails(err.Error())
	}
	in.Text = text

	if req.Email != "" && (in.Text == "" || in.To == "" || in.EnvelopeFrom == "") {
		parsed, err := forwarder.ParseEmail(strings.NewReader(req.Email))
		if err != nil {
			return in, apperr.BadRequest(errInvalidRequest).WithDetails(err.Error())
		}
		if in.Text == "" {
			in.Text = parsed.Text
		}
		if in.To == "" {
			in.To = parsed.To
		}
		if in.EnvelopeFrom == "" {
			in.EnvelopeFrom = parsed.From
		}
	}

	if in.EnvelopeFrom == "" {
		in.EnvelopeFrom = forwarder.AddressOf(req.From)
	}
	return in, nil
}

// publicBaseURL returns the configured base URL, or the one the request
// arrived on.
func publicBaseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		httpkit.HandleErrorText(c, apperr.BadRequest(errInvalidRequest+": "+err.Error()))
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleErrorText(c, apperr.Validation(validator.Describe(err)))
		return false
	}
	return true
}
