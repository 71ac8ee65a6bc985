// Package registry holds the gift-list rules: partitioning by status,
// search, and the checks that run before a reservation or purchase is sent
// to the wedding API.
package registry

import (
	"errors"
	"strings"

	"github.com/jredh-dev/casamento/internal/search"
	"github.com/jredh-dev/casamento/pkg/models"
)

var (
	ErrGiftNotFound    = errors.New("registry: gift not found")
	ErrNoGuestSelected = errors.New("registry: no guest selected")
	ErrNotAvailable    = errors.New("registry: gift is not available")
	ErrNotReserved     = errors.New("registry: gift is not reserved")
	ErrNoGuest         = errors.New("registry: gift has no associated guest")
)

// Section is one status column of the gift list.
type Section struct {
	Status       models.GiftStatus
	Anchor       string // fragment id on the gift page
	Title        string
	Icon         string
	Gifts        []models.Gift
	EmptyMessage string
}

// Sections splits gifts by status, in lifecycle order, keeping only names
// that match term. Gifts with an unknown status are left out.
func Sections(gifts []models.Gift, term string) []Section {
	sections := []Section{
		{Status: models.GiftStatusAvailable, Anchor: "disponiveis", Title: "Disponíveis", Icon: "🎁", EmptyMessage: "Nenhum presente disponível no momento."},
		{Status: models.GiftStatusReserved, Anchor: "reservados", Title: "Reservados", Icon: "⏳", EmptyMessage: "Nenhum presente reservado."},
		{Status: models.GiftStatusPurchased, Anchor: "comprados", Title: "Comprados", Icon: "✅", EmptyMessage: "Nenhum presente comprado ainda."},
	}
	for i := range sections {
		sections[i].Gifts = FilterByName(ByStatus(gifts, sections[i].Status), term)
	}
	return sections
}

// ByStatus returns the gifts in the given state.
func ByStatus(gifts []models.Gift, status models.GiftStatus) []models.Gift {
	out := make([]models.Gift, 0, len(gifts))
	for _, g := range gifts {
		if g.Status == status {
			out = append(out, g)
		}
	}
	return out
}

// FilterByName keeps gifts whose name contains term, ignoring case.
func FilterByName(gifts []models.Gift, term string) []models.Gift {
	return search.Filter(gifts, term, func(g models.Gift) string { return g.Name })
}

// Find returns the gift with the given id, or nil.
func Find(gifts []models.Gift, id int) *models.Gift {
	for i := range gifts {
		if gifts[i].ID == id {
			return &gifts[i]
		}
	}
	return nil
}

// CheckReserve runs the local checks for a reservation of gift by guestID.
// guestID <= 0 means no guest was picked.
func CheckReserve(gift *models.Gift, guestID int) error {
	if gift == nil {
		return ErrGiftNotFound
	}
	if guestID <= 0 {
		return ErrNoGuestSelected
	}
	if !gift.Status.CanReserve() {
		return ErrNotAvailable
	}
	return nil
}

// CheckPurchase runs the local checks for confirming the purchase of gift.
// The guest who reserved it must be known before the request goes out.
func CheckPurchase(gift *models.Gift) error {
	if gift == nil {
		return ErrGiftNotFound
	}
	if !gift.HasGuest() {
		return ErrNoGuest
	}
	if !gift.Status.CanPurchase() {
		return ErrNotReserved
	}
	return nil
}

// SelectableGuests drops guests that cannot be tied to a reservation:
// no id, or a blank name.
func SelectableGuests(guests []models.Guest) []models.Guest {
	out := make([]models.Guest, 0, len(guests))
	for _, g := range guests {
		if g.ID != 0 && strings.TrimSpace(g.FullName) != "" {
			out = append(out, g)
		}
	}
	return out
}

// Message returns the visitor-facing text for a registry check failure.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrGiftNotFound):
		return "Presente não encontrado."
	case errors.Is(err, ErrNoGuestSelected):
		return "Por favor, selecione um convidado."
	case errors.Is(err, ErrNotAvailable):
		return "Este presente não está mais disponível."
	case errors.Is(err, ErrNotReserved):
		return "Este presente não está reservado."
	case errors.Is(err, ErrNoGuest):
		return "Erro: Presente não possui convidado válido associado."
	}
	return ""
}
