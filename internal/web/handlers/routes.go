package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Register mounts the site's pages and JSON endpoints on r. Everything but
// the countdown stream runs under timeout.
func (h *Handler) Register(r chi.Router, timeout time.Duration) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		r.Get("/", h.Home)
		r.Get("/casamento.ics", h.CalendarInvite)

		r.Get("/confirmar-presenca", h.RSVPPage)
		r.Post("/confirmar-presenca", h.RSVPSubmit)

		r.Get("/presentes", h.GiftsPage)
		r.Get("/presentes/{id}/reservar", h.GiftReservePage)
		r.Post("/presentes/{id}/reservar", h.GiftReserveSubmit)
		r.Get("/presentes/{id}/comprar", h.GiftPurchasePage)
		r.Post("/presentes/{id}/comprar", h.GiftPurchaseSubmit)

		r.Get("/api/countdown", h.APICountdown)
		r.Get("/api/actions", h.SearchActions)
	})

	r.Get("/countdown/stream", h.CountdownStream)
}
