// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted by EMAIL_PROVIDER and SMS_PROVIDER.
const (
	ProviderSendGrid = "sendgrid"
	ProviderSMTP     = "smtp"
	ProviderTwilio   = "twilio"
	ProviderNoop     = "noop"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetPublicBaseURL() string
	IsMetricsEnabled() bool
}

// RelayConfig provides the addressing settings of the relay core.
type RelayConfig interface {
	GetEmailDomain() string
	GetDefaultRegion() string
	GetSMSSubject() string
}

// AddressBookConfig tells the loader where the phone/email table lives.
type AddressBookConfig interface {
	GetAddressBookPath() string
	GetAddressBookRedisURL() string
	GetAddressBookRedisKey() string
}

// TwilioConfig provides settings for the Twilio SMS transport.
type TwilioConfig interface {
	GetTwilioAccountSID() string
	GetTwilioAuthToken() string
	GetTwilioBaseURL() string
	IsTwilioSignatureValidationEnabled() bool
}

// SendGridConfig provides settings for the SendGrid email transport.
type SendGridConfig interface {
	GetSendGridAPIKey() string
}

// SMTPConfig provides settings for the outbound SMTP email transport.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetSMTPTimeout() time.Duration
}

// MailServerConfig provides settings for the optional inbound SMTP listener.
type MailServerConfig interface {
	GetSMTPListenAddr() string
	GetSMTPListenDomain() string
	GetSMTPMaxMessageBytes() int64
	IsMailServerEnabled() bool
}

// ProviderConfig selects the outbound transports.
type ProviderConfig interface {
	GetEmailProvider() string
	GetSMSProvider() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	HTTPAddr                string
	PublicBaseURL           string
	MetricsEnabled          bool
	EmailDomain             string
	DefaultRegion           string
	SMSSubject              string
	AddressBookPath         string
	AddressBookRedisURL     string
	AddressBookRedisKey     string
	EmailProvider           string
	SMSProvider             string
	TwilioAccountSID        string
	TwilioAuthToken         string
	TwilioBaseURL           string
	TwilioValidateSignature bool
	SendGridAPIKey          string
	SMTPHost                string
	SMTPPort                int
	SMTPUsername            string
	SMTPPassword            string
	SMTPTimeout             time.Duration
	SMTPListenAddr          string
	SMTPListenDomain        string
	SMTPMaxMessageBytes     int64

	settings map[string]string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetPublicBaseURL() string { return c.PublicBaseURL }
func (c *Config) IsMetricsEnabled() bool   { return c.MetricsEnabled }

// RelayConfig implementation
func (c *Config) GetEmailDomain() string   { return c.EmailDomain }
func (c *Config) GetDefaultRegion() string { return c.DefaultRegion }
func (c *Config) GetSMSSubject() string    { return c.SMSSubject }

// AddressBookConfig implementation
func (c *Config) GetAddressBookPath() string     { return c.AddressBookPath }
func (c *Config) GetAddressBookRedisURL() string { return c.AddressBookRedisURL }
func (c *Config) GetAddressBookRedisKey() string { return c.AddressBookRedisKey }

// TwilioConfig implementation
func (c *Config) GetTwilioAccountSID() string { return c.TwilioAccountSID }
func (c *Config) GetTwilioAuthToken() string  { return c.TwilioAuthToken }
func (c *Config) GetTwilioBaseURL() string    { return c.TwilioBaseURL }
func (c *Config) IsTwilioSignatureValidationEnabled() bool {
	return c.TwilioValidateSignature && c.TwilioAuthToken != ""
}

// SendGridConfig implementation
func (c *Config) GetSendGridAPIKey() string { return c.SendGridAPIKey }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string           { return c.SMTPHost }
func (c *Config) GetSMTPPort() int              { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string       { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string       { return c.SMTPPassword }
func (c *Config) GetSMTPTimeout() time.Duration { return c.SMTPTimeout }

// MailServerConfig implementation
func (c *Config) GetSMTPListenAddr() string     { return c.SMTPListenAddr }
func (c *Config) GetSMTPMaxMessageBytes() int64 { return c.SMTPMaxMessageBytes }
func (c *Config) IsMailServerEnabled() bool     { return c.SMTPListenAddr != "" }
func (c *Config) GetSMTPListenDomain() string {
	if c.SMTPListenDomain != "" {
		return c.SMTPListenDomain
	}
	return c.EmailDomain
}

// ProviderConfig implementation
func (c *Config) GetEmailProvider() string { return c.EmailProvider }
func (c *Config) GetSMSProvider() string   { return c.SMSProvider }

// Setting returns the raw value of a named environment setting as it was
// loaded. Unknown names yield "".
func (c *Config) Setting(name string) string {
	return c.settings[name]
}

// RequiredSettings lists the settings that must be non-empty for the
// configured providers to work.
func (c *Config) RequiredSettings() []string {
	required := []string{"EMAIL_DOMAIN"}

	switch c.SMSProvider {
	case ProviderTwilio:
		required = append(required, "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN")
	}

	switch c.EmailProvider {
	case ProviderSendGrid:
		required = append(required, "SENDGRID_API_KEY")
	case ProviderSMTP:
		required = append(required, "SMTP_HOST", "SMTP_USERNAME", "SMTP_PASSWORD")
	}

	return required
}

// settingNames are captured verbatim so the diagnostic can inspect them.
var settingNames = []string{
	"EMAIL_DOMAIN",
	"TWILIO_ACCOUNT_SID",
	"TWILIO_AUTH_TOKEN",
	"SENDGRID_API_KEY",
	"SMTP_HOST",
	"SMTP_USERNAME",
	"SMTP_PASSWORD",
}

// Load reads configuration from environment variables.
// Missing credentials are not an error here; the diagnostic endpoint reports them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	httpAddr := getEnv("HTTP_ADDR", "")
	if httpAddr == "" {
		httpAddr = ":" + getEnv("PORT", "5000")
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT must be an integer: %w", err)
	}

	smtpTimeout, err := time.ParseDuration(getEnv("SMTP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_TIMEOUT must be a duration: %w", err)
	}

	maxMessageBytes, err := strconv.ParseInt(getEnv("SMTP_MAX_MESSAGE_BYTES", "1048576"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("SMTP_MAX_MESSAGE_BYTES must be an integer: %w", err)
	}

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                httpAddr,
		PublicBaseURL:           strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		MetricsEnabled:          strings.EqualFold(getEnv("METRICS_ENABLED", "true"), "true"),
		EmailDomain:             strings.TrimSpace(getEnv("EMAIL_DOMAIN", "")),
		DefaultRegion:           strings.ToUpper(getEnv("DEFAULT_REGION", "US")),
		SMSSubject:              getEnv("SMS_SUBJECT", "Text message"),
		AddressBookPath:         getEnv("ADDRESS_BOOK_PATH", "address-book.cfg"),
		AddressBookRedisURL:     getEnv("ADDRESS_BOOK_REDIS_URL", ""),
		AddressBookRedisKey:     getEnv("ADDRESS_BOOK_REDIS_KEY", "relay:address-book"),
		EmailProvider:           strings.ToLower(getEnv("EMAIL_PROVIDER", ProviderSendGrid)),
		SMSProvider:             strings.ToLower(getEnv("SMS_PROVIDER", ProviderTwilio)),
		TwilioAccountSID:        getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:         getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioBaseURL:           getEnv("TWILIO_BASE_URL", ""),
		TwilioValidateSignature: strings.EqualFold(getEnv("TWILIO_VALIDATE_SIGNATURE", "false"), "true"),
		SendGridAPIKey:          getEnv("SENDGRID_API_KEY", ""),
		SMTPHost:                getEnv("SMTP_HOST", ""),
		SMTPPort:                smtpPort,
		SMTPUsername:            getEnv("SMTP_USERNAME", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		SMTPTimeout:             smtpTimeout,
		SMTPListenAddr:          getEnv("SMTP_LISTEN_ADDR", ""),
		SMTPListenDomain:        getEnv("SMTP_LISTEN_DOMAIN", ""),
		SMTPMaxMessageBytes:     maxMessageBytes,
		settings:                make(map[string]string, len(settingNames)),
	}

	for _, name := range settingNames {
		cfg.settings[name] = strings.TrimSpace(getEnv(name, ""))
	}

	switch cfg.EmailProvider {
	case ProviderSendGrid, ProviderSMTP, ProviderNoop:
	default:
		return nil, fmt.Errorf("unsupported EMAIL_PROVIDER: %s", cfg.EmailProvider)
	}
	switch cfg.SMSProvider {
	case ProviderTwilio, ProviderNoop:
	default:
		return nil, fmt.Errorf("unsupported SMS_PROVIDER: %s", cfg.SMSProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
