package forwarder

import (
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/inbucket/html2text"
	"github.com/jhillyerd/enmime/v2"
)

// ParsedEmail holds the parts of a raw MIME message the relay uses.
type ParsedEmail struct {
	From string
	To   string
	Text string
}

// FirstLine returns the text before the first line break. "\r\n", a bare
// "\r", "\n", vertical tab, form feed, the ASCII separators 0x1c-0x1e, NEL
// and the Unicode line and paragraph separators all end a line.
func FirstLine(text string) string {
	if i := strings.IndexFunc(text, isLineBreak); i >= 0 {
		return text[:i]
	}
	return text
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// AddressOf returns the bare address of a header value such as
// "Alice <alice@example.com>". Values that do not parse are returned trimmed.
func AddressOf(value string) string {
	value = strings.TrimSpace(value)
	if addr, err := mail.ParseAddress(value); err == nil {
		return addr.Address
	}
	return value
}

// BodyText prefers the plain-text body and falls back to the HTML body
// rendered as text.
func BodyText(text, html string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	rendered, err := html2text.FromString(html)
	if err != nil {
		return "", fmt.Errorf("render html body: %w", err)
	}
	return rendered, nil
}

// ParseEmail reads a raw MIME message. Text is the plain-text part, or the
// HTML part rendered as text when the message has no plain-text part.
func ParseEmail(r io.Reader) (ParsedEmail, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return ParsedEmail{}, fmt.Errorf("parse mime message: %w", err)
	}

	text, err := BodyText(env.Text, env.HTML)
	if err != nil {
		return ParsedEmail{}, err
	}

	parsed := ParsedEmail{
		From: AddressOf(env.GetHeader("From")),
		Text: text,
	}
	if to, err := env.AddressList("To"); err == nil && len(to) > 0 {
		parsed.To = to[0].Address
	}
	return parsed, nil
}
