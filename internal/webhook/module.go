// Package webhook provides the provider-facing relay endpoints and the
// configuration diagnostic.
// This file defines the module that encapsulates all webhook setup and route registration.
package webhook

import (
	"sms_relay_backend/internal/forwarder"
	apphttp "sms_relay_backend/internal/http"
	"sms_relay_backend/internal/relay"
	"sms_relay_backend/platform/config"
	"sms_relay_backend/platform/logger"
	"sms_relay_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Config combines the config interfaces the webhook module needs.
type Config interface {
	config.HTTPConfig
	config.TwilioConfig
	Settings
}

// Module is the webhook module implementing http.Module.
type Module struct {
	handler *Handler
	cfg     Config
	log     *logger.Logger
}

// NewModule creates and initializes the webhook module with all its dependencies.
func NewModule(cfg Config, fwd *forwarder.Service, book *relay.AddressBook, val *validator.Validator, log *logger.Logger) *Module {
	diagnostic := NewDiagnostic(cfg, book)
	handler := NewHandler(fwd, diagnostic, cfg.GetPublicBaseURL(), val)

	return &Module{
		handler: handler,
		cfg:     cfg,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/", m.handler.HandleDiagnostic)

	smsChain := []gin.HandlerFunc{}
	if m.cfg.IsTwilioSignatureValidationEnabled() {
		baseURL := m.cfg.GetTwilioBaseURL()
		if baseURL == "" {
			baseURL = m.cfg.GetPublicBaseURL()
		}
		smsChain = append(smsChain, TwilioSignatureMiddleware(m.cfg.GetTwilioAuthToken(), baseURL, m.log))
	}
	smsChain = append(smsChain, m.handler.HandleSMS)

	ctx.Engine.POST(pathHandleSMS, smsChain...)
	ctx.Engine.POST(pathHandleEmail, m.handler.HandleEmail)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
