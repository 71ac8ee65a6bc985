package models

// Guest is a wedding guest as returned by the wedding API.
// ID and Email are only present on some endpoints.
type Guest struct {
	ID          int    `json:"id,omitempty"`
	FullName    string `json:"full_name"`
	Email       string `json:"email,omitempty"`
	IsConfirmed bool   `json:"is_confirmed"`
}

// RSVPRequest is the body posted to /api/guests/confirm.
type RSVPRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Message       string `json:"message"`
	NumCompanions int    `json:"numCompanions"`
}
