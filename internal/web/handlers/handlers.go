package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jredh-dev/casamento/config"
	"github.com/jredh-dev/casamento/internal/actions"
	"github.com/jredh-dev/casamento/internal/calendar"
	"github.com/jredh-dev/casamento/internal/countdown"
	"github.com/jredh-dev/casamento/internal/guard"
	"github.com/jredh-dev/casamento/internal/metrics"
	"github.com/jredh-dev/casamento/internal/registry"
	"github.com/jredh-dev/casamento/internal/web/templates"
	"github.com/jredh-dev/casamento/internal/weddingapi"
)

// busyMessage is shown when the same action is already being processed.
const busyMessage = "Sua solicitação já está sendo processada."

// unreachableMessage replaces transport errors, which mean nothing to a guest.
const unreachableMessage = "não foi possível contatar o servidor"

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	api       weddingapi.Client
	guard     *guard.Guard
	metrics   *metrics.Metrics
	actions   *actions.Registry
	templates map[string]*template.Template
	log       zerolog.Logger

	wedding time.Time
	couple  string
	siteURL string
	now     countdown.Clock
	ticker  func() (<-chan time.Time, func())
}

// New creates a new handler with parsed templates.
func New(api weddingapi.Client, g *guard.Guard, cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) (*Handler, error) {
	wedding, err := cfg.WeddingTime()
	if err != nil {
		return nil, fmt.Errorf("wedding date: %w", err)
	}

	tmplMap, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		api:       api,
		guard:     g,
		metrics:   m,
		actions:   actions.New(),
		templates: tmplMap,
		log:       log,
		wedding:   wedding,
		couple:    cfg.Wedding.CoupleNames,
		siteURL:   strings.TrimRight(cfg.Server.SiteURL, "/"),
		now:       time.Now,
		ticker: func() (<-chan time.Time, func()) {
			t := time.NewTicker(countdown.Interval)
			return t.C, t.Stop
		},
	}, nil
}

var funcs = template.FuncMap{
	"pad":   countdown.Pad,
	"price": registry.FormatPrice,
	"dict":  dict,
}

// dict builds a map from alternating keys and values so a partial can take
// more than one argument.
func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	tmplMap := make(map[string]*template.Template)

	// Collect shared templates: base.html + all partials.
	shared := []string{"base.html"}
	partials, err := fs.Glob(templates.FS, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}
	shared = append(shared, partials...)

	for _, page := range []string{
		"home.html", "rsvp.html",
		"gifts.html", "gift_reserve.html", "gift_purchase.html",
	} {
		files := make([]string, 0, len(shared)+1)
		files = append(files, shared...)
		files = append(files, page)

		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templates.FS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		tmplMap[page] = tmpl
	}
	return tmplMap, nil
}

// Home renders the landing page with the countdown.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "Nosso Casamento")
	data["TimeLeft"] = countdown.Compute(h.wedding, h.now())
	data["WeddingDate"] = h.wedding
	h.renderTemplate(w, "home.html", data)
}

// APICountdown returns the current countdown as JSON.
func (h *Handler) APICountdown(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, h.log, countdown.Compute(h.wedding, h.now()))
}

// CountdownStream pushes the countdown once per second as Server-Sent Events
// for as long as the landing page keeps the connection open. After the
// wedding date a single "passed" event is sent and the stream ends.
func (h *Handler) CountdownStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	tick, stop := h.ticker()
	defer stop()

	err := countdown.Watch(r.Context(), h.wedding, h.now, tick, func(left countdown.TimeLeft) error {
		payload, err := json.Marshal(left)
		if err != nil {
			return err
		}
		event := "tick"
		if left.EventPassed {
			event = "passed"
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil && !errors.Is(err, r.Context().Err()) {
		h.log.Debug().Err(err).Msg("countdown stream ended")
	}
}

// CalendarInvite serves the wedding as an iCalendar file. The invite links
// to SITE_URL, or to the request Host when that is not configured.
func (h *Handler) CalendarInvite(w http.ResponseWriter, r *http.Request) {
	site := h.siteURL
	if site == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		site = scheme + "://" + r.Host
	}
	invite := calendar.Invite(calendar.Wedding{
		Couple: h.couple,
		Date:   h.wedding,
		URL:    site + "/",
	}, h.now())

	w.Header().Set("Content-Type", calendar.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="casamento.ics"`)
	if _, err := io.WriteString(w, invite); err != nil {
		h.log.Debug().Err(err).Msg("error writing calendar invite")
	}
}

// SearchActions returns site actions matching the query parameter "q".
func (h *Handler) SearchActions(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, h.log, h.actions.Search(r.URL.Query().Get("q")))
}

// --- helpers ---

// page returns the template data every page needs.
func (h *Handler) page(r *http.Request, title string) map[string]interface{} {
	return map[string]interface{}{
		"Title":  title,
		"Year":   time.Now().Year(),
		"Couple": h.couple,
		"Menu":   h.actions.Menu(),
		"Path":   r.URL.Path,
	}
}

func (h *Handler) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	tmpl, ok := h.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %s not found", name), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("error rendering template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// failureText turns a wedding API error into the text shown to guests.
// detail selects the backend's own message over the raw status line.
func failureText(err error, detail bool) string {
	var apiErr *weddingapi.Error
	if errors.As(err, &apiErr) {
		if detail {
			return apiErr.Detail()
		}
		return apiErr.Error()
	}
	return unreachableMessage
}

func jsonResponse(w http.ResponseWriter, log zerolog.Logger, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("error encoding JSON response")
	}
}
