// Package rsvp validates attendance confirmations and shapes the guest lists
// shown next to the form.
package rsvp

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jredh-dev/casamento/internal/search"
	"github.com/jredh-dev/casamento/pkg/models"
)

// emailPattern is deliberately loose: something@something.something, no spaces.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrNameRequired  = errors.New("rsvp: full name is required")
	ErrEmailRequired = errors.New("rsvp: email is required")
	ErrEmailInvalid  = errors.New("rsvp: email is invalid")
)

// Form holds the values typed into the confirmation form.
type Form struct {
	FullName string
	Email    string
	Message  string
}

// Validate checks the form in display order: name, email presence, email shape.
func Validate(f Form) error {
	if strings.TrimSpace(f.FullName) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(f.Email) == "" {
		return ErrEmailRequired
	}
	if !ValidEmail(f.Email) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Request builds the wedding API payload. Companions are not collected by
// the form and are always sent as zero.
func Request(f Form) models.RSVPRequest {
	return models.RSVPRequest{
		FullName:      f.FullName,
		Email:         f.Email,
		Message:       f.Message,
		NumCompanions: 0,
	}
}

// Message returns the visitor-facing text for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNameRequired):
		return "Por favor, preencha o nome completo."
	case errors.Is(err, ErrEmailRequired):
		return "Por favor, preencha o e-mail."
	case errors.Is(err, ErrEmailInvalid):
		return "Por favor, insira um e-mail válido."
	}
	return ""
}

// FilterByName keeps guests whose full name contains term, ignoring case.
func FilterByName(guests []models.Guest, term string) []models.Guest {
	return search.Filter(guests, term, func(g models.Guest) string { return g.FullName })
}

// GuestList is one rendered list: the filtered guests, the unfiltered total
// and the text to show when nothing is left.
type GuestList struct {
	Guests       []models.Guest
	Total        int
	EmptyMessage string
}

// Confirmed builds the confirmed-guests list for a search term.
func Confirmed(all []models.Guest, term string) GuestList {
	empty := "Nenhum convidado confirmado ainda."
	if strings.TrimSpace(term) != "" {
		empty = "Nenhum convidado confirmado encontrado."
	}
	return GuestList{Guests: FilterByName(all, term), Total: len(all), EmptyMessage: empty}
}

// Unconfirmed builds the awaiting-confirmation list for a search term.
func Unconfirmed(all []models.Guest, term string) GuestList {
	empty := "Todos os convidados já confirmaram!"
	if strings.TrimSpace(term) != "" {
		empty = "Nenhum convidado não confirmado encontrado."
	}
	return GuestList{Guests: FilterByName(all, term), Total: len(all), EmptyMessage: empty}
}
