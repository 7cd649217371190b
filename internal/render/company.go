package render

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCompany is returned when no company can be derived from an email
const DefaultCompany = "Company"

var genericProviders = map[string]struct{}{
	"gmail.com":   {},
	"yahoo.com":   {},
	"hotmail.com": {},
	"outlook.com": {},
	"icloud.com":  {},
}

// ExtractCompany derives a display company name from the domain of an email
// address, e.g. jobs@acme.com -> Acme. Personal mail providers and addresses
// without a domain yield DefaultCompany. A domain with an empty first label
// such as ".com" yields "".
func ExtractCompany(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) < 2 || parts[1] == "" {
		return DefaultCompany
	}

	domain := parts[1]
	if _, ok := genericProviders[strings.ToLower(domain)]; ok {
		return DefaultCompany
	}

	label, _, _ := strings.Cut(domain, ".")
	if label == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}
