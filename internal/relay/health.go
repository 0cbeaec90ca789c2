package relay

import "strings"

// SettingLookup returns the configured value of a named setting, or "".
type SettingLookup interface {
	Setting(name string) string
}

// SettingsMap is a SettingLookup backed by a map.
type SettingsMap map[string]string

// Setting implements SettingLookup.
func (m SettingsMap) Setting(name string) string {
	return m[name]
}

// Report collects every configuration problem found by Diagnose.
type Report struct {
	Missing         []string
	DuplicateEmails []EmailAddress
	DuplicatePhones []PhoneNumber
}

// OK reports whether the configuration has no problems.
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.DuplicateEmails) == 0 && len(r.DuplicatePhones) == 0
}

// CheckRequiredSettings returns the names in required whose value is blank,
// in the order given.
func CheckRequiredSettings(required []string, lookup SettingLookup) []string {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(lookup.Setting(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Diagnose checks settings and the address book in one pass.
func Diagnose(required []string, lookup SettingLookup, book *AddressBook) Report {
	report := Report{Missing: CheckRequiredSettings(required, lookup)}
	if book == nil {
		return report
	}
	if book.HasDuplicateEmails() {
		report.DuplicateEmails = book.DuplicateEmails()
	}
	report.DuplicatePhones = book.DuplicatePhones()
	return report
}
