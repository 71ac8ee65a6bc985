package handlers

import (
	"net/http"
	"net/url"
)

// Values of the "ok" query parameter set by a successful POST. Only known
// codes produce a banner, so the text cannot be chosen by the link.
const (
	flashAttendanceConfirmed = "presenca-confirmada"
	flashGiftReserved        = "presente-reservado"
	flashPurchaseConfirmed   = "compra-confirmada"
)

var flashMessages = map[string]string{
	flashAttendanceConfirmed: "Sua presença foi confirmada com sucesso!",
	flashGiftReserved:        "Presente reservado com sucesso!",
	flashPurchaseConfirmed:   "Compra confirmada com sucesso!",
}

// flash returns the success banner requested by the query, if any.
func flash(r *http.Request) string {
	return flashMessages[r.URL.Query().Get("ok")]
}

// redirectWithFlash answers a successful POST with 303 to path so that a
// browser refresh repeats the GET and not the action. A non-empty search
// term is carried along.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, code, search string) {
	q := url.Values{"ok": {code}}
	if search != "" {
		q.Set("q", search)
	}
	http.Redirect(w, r, path+"?"+q.Encode(), http.StatusSeeOther)
}
