// Package identity derives stable, non-reversible keys for guests from the
// email address they type into the RSVP form. The keys name guard locks and
// appear in logs so that raw addresses never leave the request.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeEmail returns a canonical form of an email address.
//
// All addresses are trimmed and lowercased. Gmail addresses additionally
// drop the "+suffix" and the dots of the local part, and googlemail.com
// becomes gmail.com, so "A.na+festa@googlemail.com" and "ana@gmail.com"
// are the same guest.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	local, domain := email[:at], email[at+1:]
	if domain == "googlemail.com" {
		domain = "gmail.com"
	}
	if domain == "gmail.com" {
		if plus := strings.Index(local, "+"); plus >= 0 {
			local = local[:plus]
		}
		local = strings.ReplaceAll(local, ".", "")
	}

	return local + "@" + domain
}

// GuestKey returns the hex SHA-256 of the normalized email.
func GuestKey(email string) string {
	h := sha256.Sum256([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(h[:])
}

// Short returns the first 12 characters of a key, enough to correlate log lines.
func Short(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:12]
}
