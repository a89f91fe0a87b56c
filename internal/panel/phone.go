package panel

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	countryPrefix = "549"
	localDigits   = 10
)

func digits(s string) string {
	var b strings.Builder

	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// NormalizePhone turns a phone as typed by a customer into a WhatsApp number:
// digits only, no trunk 0, Argentine mobile prefix 549. Empty when no digits.
func NormalizePhone(raw string) string {
	n := digits(raw)
	if n == "" {
		return ""
	}

	n = strings.TrimPrefix(n, "0")

	if !strings.HasPrefix(n, countryPrefix) {
		n = countryPrefix + n
	}

	return n
}

// ListPhone is the shorter rule used for reservation rows: keep the last ten
// digits and prefix 549.
func ListPhone(raw string) string {
	n := digits(raw)
	if n == "" {
		return ""
	}

	if len(n) >= localDigits {
		n = n[len(n)-localDigits:]
	}

	return countryPrefix + n
}

// WhatsAppLink opens a chat with phone, optionally with a prefilled message.
func WhatsAppLink(phone, message string) string {
	link := "https://wa.me/" + phone
	if message == "" {
		return link
	}

	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
