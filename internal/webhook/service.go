package webhook

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"sms_relay_backend/internal/relay"
)

// Settings exposes the named settings the diagnostic checks.
type Settings interface {
	relay.SettingLookup
	RequiredSettings() []string
}

var diagnosticTemplate = template.Must(template.New("diagnostic").Funcs(template.FuncMap{"join": strings.Join}).Parse(
	`{{if .Missing}}The following settings are missing: {{join .Missing ", "}}{{end}}` +
		`{{if and .Missing .Duplicates}}<br/>{{end}}` +
		`{{if .Duplicates}}Only one email address can be configured per phone number. ` +
		`Please update the address book so that each phone number matches exactly one email address. ` +
		`Shared addresses: {{join .Duplicates ", "}}{{end}}` +
		`{{if and (or .Missing .Duplicates) .RepeatedPhones}}<br/>{{end}}` +
		`{{if .RepeatedPhones}}Each phone number can appear only once in the address book, ` +
		`including numbers written in different formats. ` +
		`Repeated numbers: {{join .RepeatedPhones ", "}}{{end}}` +
		`{{if .OK}}Congratulations, this software appears to be configured correctly.<br/><br/>` +
		`Use the following URLs to configure SendGrid and Twilio:<br/>` +
		`SendGrid Inbound Parse Webhook URL: {{.EmailURL}}<br/>` +
		`Twilio Messaging Request URL: {{.SMSURL}}{{end}}`,
))

type diagnosticData struct {
	OK             bool
	Missing        []string
	Duplicates     []string
	RepeatedPhones []string
	EmailURL       string
	SMSURL         string
}

// Diagnostic reports whether the service is configured to relay messages.
type Diagnostic struct {
	settings Settings
	book     *relay.AddressBook
}

// NewDiagnostic creates the configuration diagnostic.
func NewDiagnostic(settings Settings, book *relay.AddressBook) *Diagnostic {
	return &Diagnostic{settings: settings, book: book}
}

// Run checks the configuration and renders the page served at GET /. The
// status is 500 when a setting is missing or the address book is ambiguous.
func (d *Diagnostic) Run(baseURL string) (int, string, error) {
	report := relay.Diagnose(d.settings.RequiredSettings(), d.settings, d.book)

	data := diagnosticData{
		OK:       report.OK(),
		Missing:  report.Missing,
		EmailURL: baseURL + pathHandleEmail,
		SMSURL:   baseURL + pathHandleSMS,
	}
	for _, e := range report.DuplicateEmails {
		data.Duplicates = append(data.Duplicates, e.String())
	}
	for _, p := range report.DuplicatePhones {
		data.RepeatedPhones = append(data.RepeatedPhones, p.String())
	}

	var buf bytes.Buffer
	if err := diagnosticTemplate.Execute(&buf, data); err != nil {
		return http.StatusInternalServerError, "", err
	}

	status := http.StatusOK
	if !report.OK() {
		status = http.StatusInternalServerError
	}
	return status, buf.String(), nil
}
