// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"sms_relay_backend/platform/config"
	"sms_relay_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
}

// AddressBookStats exposes the loaded address book size for health output.
type AddressBookStats interface {
	Len() int
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration.
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// AddressBook reports how many pairs were loaded (optional).
	AddressBook AddressBookStats
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
