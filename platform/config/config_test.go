package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "7000")
	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	t.Setenv("SMS_PROVIDER", "twilio")
	t.Setenv("EMAIL_DOMAIN", " sms.example.com ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GetHTTPAddr() != ":7000" {
		t.Fatalf("expected PORT fallback, got %q", cfg.GetHTTPAddr())
	}
	if cfg.GetEmailDomain() != "sms.example.com" {
		t.Fatalf("expected trimmed domain, got %q", cfg.GetEmailDomain())
	}
	if cfg.Setting("EMAIL_DOMAIN") != "sms.example.com" {
		t.Fatalf("expected setting lookup to see EMAIL_DOMAIN, got %q", cfg.Setting("EMAIL_DOMAIN"))
	}
	if cfg.Setting("NOT_A_SETTING") != "" {
		t.Fatal("unknown settings should be empty")
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", "pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported email provider")
	}
}

func TestLoadRejectsMalformedPort(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	t.Setenv("SMS_PROVIDER", "twilio")
	t.Setenv("SMTP_PORT", "twenty-five")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed SMTP_PORT")
	}
}

func TestRequiredSettingsFollowProviders(t *testing.T) {
	cases := []struct {
		email string
		sms   string
		want  []string
	}{
		{ProviderSendGrid, ProviderTwilio, []string{"EMAIL_DOMAIN", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "SENDGRID_API_KEY"}},
		{ProviderSMTP, ProviderTwilio, []string{"EMAIL_DOMAIN", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "SMTP_HOST", "SMTP_USERNAME", "SMTP_PASSWORD"}},
		{ProviderNoop, ProviderNoop, []string{"EMAIL_DOMAIN"}},
	}
	for _, tc := range cases {
		cfg := &Config{EmailProvider: tc.email, SMSProvider: tc.sms}
		if got := cfg.RequiredSettings(); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s/%s: expected %v, got %v", tc.email, tc.sms, tc.want, got)
		}
	}
}

func TestSignatureValidationNeedsToken(t *testing.T) {
	cfg := &Config{TwilioValidateSignature: true}
	if cfg.IsTwilioSignatureValidationEnabled() {
		t.Fatal("validation must stay off without an auth token")
	}
	cfg.TwilioAuthToken = "secret"
	if !cfg.IsTwilioSignatureValidationEnabled() {
		t.Fatal("expected validation to be enabled")
	}
}

func TestListenDomainFallsBackToEmailDomain(t *testing.T) {
	cfg := &Config{EmailDomain: "sms.example.com"}
	if cfg.GetSMTPListenDomain() != "sms.example.com" {
		t.Fatalf("unexpected listen domain %q", cfg.GetSMTPListenDomain())
	}
}
