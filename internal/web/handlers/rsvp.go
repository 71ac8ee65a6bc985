package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/jredh-dev/casamento/internal/guard"
	"github.com/jredh-dev/casamento/internal/metrics"
	"github.com/jredh-dev/casamento/internal/rsvp"
	"github.com/jredh-dev/casamento/pkg/identity"
	"github.com/jredh-dev/casamento/pkg/models"
)

const actionRSVP = "rsvp"

// rsvpView carries what the RSVP page needs beyond the common page data.
type rsvpView struct {
	Form    rsvp.Form
	Search  string
	Error   string
	Success string
}

// RSVPPage renders the confirmation form and both guest lists.
func (h *Handler) RSVPPage(w http.ResponseWriter, r *http.Request) {
	h.renderRSVP(w, r, rsvpView{Search: r.URL.Query().Get("q"), Success: flash(r)})
}

// RSVPSubmit validates the form and sends the confirmation. Invalid input
// never reaches the wedding API. Success redirects back to the page.
func (h *Handler) RSVPSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	view := rsvpView{
		Form: rsvp.Form{
			FullName: r.FormValue("fullName"),
			Email:    r.FormValue("email"),
			Message:  r.FormValue("message"),
		},
		Search: r.FormValue("q"),
	}

	if err := rsvp.Validate(view.Form); err != nil {
		h.metrics.Action(actionRSVP, metrics.OutcomeRejected)
		view.Error = rsvp.Message(err)
		h.renderRSVP(w, r, view)
		return
	}

	key := guard.Key(actionRSVP, identity.GuestKey(view.Form.Email))
	err := h.guard.Do(r.Context(), key, func() error {
		return h.api.ConfirmAttendance(r.Context(), rsvp.Request(view.Form))
	})
	switch {
	case errors.Is(err, guard.ErrBusy):
		h.metrics.Action(actionRSVP, metrics.OutcomeBusy)
		view.Error = busyMessage
	case err != nil:
		h.log.Warn().Err(err).Str("guest", identity.Short(identity.GuestKey(view.Form.Email))).Msg("attendance confirmation failed")
		h.metrics.Action(actionRSVP, metrics.OutcomeFailed)
		view.Error = "Falha na confirmação: " + failureText(err, true)
	default:
		h.log.Info().Str("guest", identity.Short(identity.GuestKey(view.Form.Email))).Msg("attendance confirmed")
		h.metrics.Action(actionRSVP, metrics.OutcomeSuccess)
		redirectWithFlash(w, r, "/confirmar-presenca", flashAttendanceConfirmed, view.Search)
		return
	}
	h.renderRSVP(w, r, view)
}

// renderRSVP fetches both guest lists and renders the page. A list that
// cannot be loaded is shown empty.
func (h *Handler) renderRSVP(w http.ResponseWriter, r *http.Request, view rsvpView) {
	confirmed, unconfirmed := h.loadGuests(r.Context())

	data := h.page(r, "Confirmar Presença")
	data["Form"] = view.Form
	data["Search"] = view.Search
	data["Error"] = view.Error
	data["Success"] = view.Success
	data["Confirmed"] = rsvp.Confirmed(confirmed, view.Search)
	data["Unconfirmed"] = rsvp.Unconfirmed(unconfirmed, view.Search)
	h.renderTemplate(w, "rsvp.html", data)
}

func (h *Handler) loadGuests(ctx context.Context) (confirmed, unconfirmed []models.Guest) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if confirmed, err = h.api.ConfirmedGuests(ctx); err != nil {
			h.log.Error().Err(err).Msg("error loading confirmed guests")
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if unconfirmed, err = h.api.UnconfirmedGuests(ctx); err != nil {
			h.log.Error().Err(err).Msg("error loading unconfirmed guests")
		}
	}()
	wg.Wait()
	return confirmed, unconfirmed
}
