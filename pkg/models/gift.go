package models

// GiftStatus is the lifecycle state of a registry gift.
// Gifts only move forward: available -> reserved -> purchased.
type GiftStatus string

const (
	GiftStatusAvailable GiftStatus = "available"
	GiftStatusReserved  GiftStatus = "reserved"
	GiftStatusPurchased GiftStatus = "purchased"
)

// Valid reports whether s is one of the known statuses.
func (s GiftStatus) Valid() bool {
	switch s {
	case GiftStatusAvailable, GiftStatusReserved, GiftStatusPurchased:
		return true
	}
	return false
}

// CanReserve reports whether a gift in this state offers the reserve action.
func (s GiftStatus) CanReserve() bool { return s == GiftStatusAvailable }

// CanPurchase reports whether a gift in this state offers purchase confirmation.
func (s GiftStatus) CanPurchase() bool { return s == GiftStatusReserved }

// Gift is a registry entry.
type Gift struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Price   float64    `json:"price"`
	Status  GiftStatus `json:"status"`
	GuestID *int       `json:"guest_id,omitempty"`
}

// HasGuest reports whether the gift carries a usable guest id.
func (g Gift) HasGuest() bool {
	return g.GuestID != nil && *g.GuestID > 0
}

// GiftActionRequest is the body posted to /api/gifts/reserve and /api/gifts/purchase.
type GiftActionRequest struct {
	GiftID  int `json:"giftId"`
	GuestID int `json:"guestId"`
}
