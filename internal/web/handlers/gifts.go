package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/jredh-dev/casamento/internal/guard"
	"github.com/jredh-dev/casamento/internal/metrics"
	"github.com/jredh-dev/casamento/internal/registry"
	"github.com/jredh-dev/casamento/pkg/models"
)

const (
	actionReserve  = "reserve"
	actionPurchase = "purchase"
)

// giftsView carries the banners and search term of the gift list page.
type giftsView struct {
	Search  string
	Error   string
	Success string
}

// GiftsPage renders the gift list split into available, reserved and
// purchased sections.
func (h *Handler) GiftsPage(w http.ResponseWriter, r *http.Request) {
	h.renderGifts(w, r, giftsView{Search: r.URL.Query().Get("q"), Success: flash(r)})
}

// GiftReservePage renders the guest picker for an available gift.
func (h *Handler) GiftReservePage(w http.ResponseWriter, r *http.Request) {
	gift, ok := h.lookupGift(w, r)
	if !ok {
		return
	}
	if !gift.Status.CanReserve() {
		h.renderGifts(w, r, giftsView{Error: registry.Message(registry.ErrNotAvailable)})
		return
	}
	h.renderReserve(w, r, gift, "")
}

// GiftReserveSubmit reserves the gift for the chosen guest. Without a
// guest the request never reaches the wedding API.
func (h *Handler) GiftReserveSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	gift, ok := h.lookupGift(w, r)
	if !ok {
		return
	}

	guestID, _ := strconv.Atoi(r.FormValue("guest_id"))
	if err := registry.CheckReserve(gift, guestID); err != nil {
		h.metrics.Action(actionReserve, metrics.OutcomeRejected)
		if errors.Is(err, registry.ErrNoGuestSelected) {
			h.renderReserve(w, r, gift, registry.Message(err))
			return
		}
		h.renderGifts(w, r, giftsView{Error: registry.Message(err)})
		return
	}

	err := h.guard.Do(r.Context(), giftKey(gift.ID), func() error {
		return h.api.ReserveGift(r.Context(), gift.ID, guestID)
	})
	switch {
	case errors.Is(err, guard.ErrBusy):
		h.metrics.Action(actionReserve, metrics.OutcomeBusy)
		h.renderReserve(w, r, gift, busyMessage)
	case err != nil:
		h.log.Warn().Err(err).Int("gift_id", gift.ID).Int("guest_id", guestID).Msg("gift reservation failed")
		h.metrics.Action(actionReserve, metrics.OutcomeFailed)
		h.renderReserve(w, r, gift, "Falha na reserva: "+failureText(err, false))
	default:
		h.log.Info().Int("gift_id", gift.ID).Int("guest_id", guestID).Msg("gift reserved")
		h.metrics.Action(actionReserve, metrics.OutcomeSuccess)
		redirectWithFlash(w, r, "/presentes", flashGiftReserved, "")
	}
}

// GiftPurchasePage asks the visitor to confirm the purchase of a reserved gift.
func (h *Handler) GiftPurchasePage(w http.ResponseWriter, r *http.Request) {
	gift, ok := h.lookupGift(w, r)
	if !ok {
		return
	}
	if err := registry.CheckPurchase(gift); err != nil {
		h.renderGifts(w, r, giftsView{Error: registry.Message(err)})
		return
	}

	data := h.page(r, "Confirmar Compra")
	data["Gift"] = gift
	h.renderTemplate(w, "gift_purchase.html", data)
}

// GiftPurchaseSubmit confirms the purchase for the guest holding the
// reservation. Anything but an explicit confirm=sim is a cancel and goes
// back to the list without touching the gift.
func (h *Handler) GiftPurchaseSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if r.FormValue("confirm") != "sim" {
		http.Redirect(w, r, "/presentes", http.StatusSeeOther)
		return
	}

	gift, ok := h.lookupGift(w, r)
	if !ok {
		return
	}
	if err := registry.CheckPurchase(gift); err != nil {
		h.metrics.Action(actionPurchase, metrics.OutcomeRejected)
		h.renderGifts(w, r, giftsView{Error: registry.Message(err)})
		return
	}

	guestID := *gift.GuestID
	err := h.guard.Do(r.Context(), giftKey(gift.ID), func() error {
		return h.api.PurchaseGift(r.Context(), gift.ID, guestID)
	})
	switch {
	case errors.Is(err, guard.ErrBusy):
		h.metrics.Action(actionPurchase, metrics.OutcomeBusy)
		h.renderGifts(w, r, giftsView{Error: busyMessage})
	case err != nil:
		h.log.Warn().Err(err).Int("gift_id", gift.ID).Int("guest_id", guestID).Msg("gift purchase failed")
		h.metrics.Action(actionPurchase, metrics.OutcomeFailed)
		h.renderGifts(w, r, giftsView{Error: "Falha na confirmação: " + failureText(err, false)})
	default:
		h.log.Info().Int("gift_id", gift.ID).Int("guest_id", guestID).Msg("gift purchased")
		h.metrics.Action(actionPurchase, metrics.OutcomeSuccess)
		redirectWithFlash(w, r, "/presentes", flashPurchaseConfirmed, "")
	}
}

// --- helpers ---

// lookupGift resolves the {id} URL parameter against the current gift list.
// It writes the response itself and returns false when there is no gift.
func (h *Handler) lookupGift(w http.ResponseWriter, r *http.Request) (*models.Gift, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return nil, false
	}

	gifts, err := h.api.Gifts(r.Context())
	if err != nil {
		h.log.Error().Err(err).Int("gift_id", id).Msg("error loading gifts")
		h.renderGifts(w, r, giftsView{Error: "Erro ao carregar presentes: " + failureText(err, false)})
		return nil, false
	}

	gift := registry.Find(gifts, id)
	if gift == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return gift, true
}

// renderGifts loads the gift list and the confirmed guests side by side and
// renders the list page. A failed gift load shows as an error banner.
func (h *Handler) renderGifts(w http.ResponseWriter, r *http.Request, view giftsView) {
	var (
		wg      sync.WaitGroup
		gifts   []models.Gift
		guests  []models.Guest
		giftErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		gifts, giftErr = h.api.Gifts(r.Context())
	}()
	go func() {
		defer wg.Done()
		var err error
		if guests, err = h.api.ConfirmedGuests(r.Context()); err != nil {
			h.log.Error().Err(err).Msg("error loading confirmed guests")
		}
	}()
	wg.Wait()

	if giftErr != nil {
		h.log.Error().Err(giftErr).Msg("error loading gifts")
		if view.Error == "" {
			view.Error = "Erro ao carregar presentes: " + failureText(giftErr, false)
		}
	}

	data := h.page(r, "Lista de Presentes")
	data["Search"] = view.Search
	data["Error"] = view.Error
	data["Success"] = view.Success
	data["Sections"] = registry.Sections(gifts, view.Search)
	data["GuestCount"] = len(registry.SelectableGuests(guests))
	h.renderTemplate(w, "gifts.html", data)
}

// renderReserve renders the guest picker for gift with an optional error.
func (h *Handler) renderReserve(w http.ResponseWriter, r *http.Request, gift *models.Gift, errMsg string) {
	guests, err := h.api.ConfirmedGuests(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("error loading confirmed guests")
		if errMsg == "" {
			errMsg = "Erro ao carregar convidados. Tente novamente."
		}
	}

	data := h.page(r, "Reservar Presente")
	data["Gift"] = gift
	data["Guests"] = registry.SelectableGuests(guests)
	data["Error"] = errMsg
	data["Retry"] = r.URL.Path
	h.renderTemplate(w, "gift_reserve.html", data)
}

func giftKey(id int) string {
	return guard.Key("gift", strconv.Itoa(id))
}
