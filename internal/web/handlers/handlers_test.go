package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jredh-dev/casamento/config"
	"github.com/jredh-dev/casamento/internal/actions"
	"github.com/jredh-dev/casamento/internal/countdown"
	"github.com/jredh-dev/casamento/internal/guard"
	"github.com/jredh-dev/casamento/pkg/models"
)

// fakeAPI is an in-memory wedding API that counts every call.
type fakeAPI struct {
	mu sync.Mutex

	confirmed   []models.Guest
	unconfirmed []models.Guest
	gifts       []models.Gift

	confirmedErr   error
	unconfirmedErr error
	giftsErr       error
	confirmErr     error
	reserveErr     error
	purchaseErr    error

	giftsCalls    int
	confirmCalls  int
	reserveCalls  int
	purchaseCalls int

	lastRSVP     models.RSVPRequest
	lastReserve  [2]int
	lastPurchase [2]int

	// entered receives once a reservation starts; block holds it until closed.
	entered chan struct{}
	block   chan struct{}
}

func (f *fakeAPI) ConfirmedGuests(ctx context.Context) ([]models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmedErr != nil {
		return nil, f.confirmedErr
	}
	return append([]models.Guest{}, f.confirmed...), nil
}

func (f *fakeAPI) UnconfirmedGuests(ctx context.Context) ([]models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unconfirmedErr != nil {
		return nil, f.unconfirmedErr
	}
	return append([]models.Guest{}, f.unconfirmed...), nil
}

func (f *fakeAPI) ConfirmAttendance(ctx context.Context, req models.RSVPRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls++
	f.lastRSVP = req
	return f.confirmErr
}

func (f *fakeAPI) Gifts(ctx context.Context) ([]models.Gift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.giftsCalls++
	if f.giftsErr != nil {
		return nil, f.giftsErr
	}
	return append([]models.Gift{}, f.gifts...), nil
}

func (f *fakeAPI) ReserveGift(ctx context.Context, giftID, guestID int) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserveCalls++
	f.lastReserve = [2]int{giftID, guestID}
	return f.reserveErr
}

func (f *fakeAPI) PurchaseGift(ctx context.Context, giftID, guestID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purchaseCalls++
	f.lastPurchase = [2]int{giftID, guestID}
	return f.purchaseErr
}

func (f *fakeAPI) calls() (gifts, confirm, reserve, purchase int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.giftsCalls, f.confirmCalls, f.reserveCalls, f.purchaseCalls
}

func intPtr(n int) *int { return &n }

func testConfig() *config.Config {
	return &config.Config{
		Wedding: config.WeddingConfig{
			Date:        "2025-09-13T00:00:00",
			Timezone:    "America/Sao_Paulo",
			CoupleNames: "Vitória & André Luiz",
		},
	}
}

func newTestHandler(t *testing.T, api *fakeAPI) (*Handler, http.Handler) {
	t.Helper()
	return newTestHandlerWithConfig(t, api, testConfig())
}

func newTestHandlerWithConfig(t *testing.T, api *fakeAPI, cfg *config.Config) (*Handler, http.Handler) {
	t.Helper()
	h, err := New(api, guard.New(guard.NewMemoryStore(), time.Minute), cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := chi.NewRouter()
	h.Register(r, 5*time.Second)
	return h, r
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func post(t *testing.T, router http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// follow checks that w is a 303 and performs the GET the browser would.
func follow(t *testing.T, router http.Handler, w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	return get(t, router, w.Header().Get("Location"))
}

func TestTemplatesParse(t *testing.T) {
	tmpls, err := parseTemplates()
	if err != nil {
		t.Fatalf("parseTemplates: %v", err)
	}
	for _, name := range []string{"home.html", "rsvp.html", "gifts.html", "gift_reserve.html", "gift_purchase.html"} {
		if _, ok := tmpls[name]; !ok {
			t.Errorf("template %s missing", name)
		}
	}
}

func TestHome_Countdown(t *testing.T) {
	h, router := newTestHandler(t, &fakeAPI{})
	h.now = func() time.Time {
		return h.wedding.Add(-(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second))
	}

	w := get(t, router, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`<span id="cd-days">02</span>`,
		`<span id="cd-hours">03</span>`,
		`<span id="cd-minutes">04</span>`,
		`<span id="cd-seconds">05</span>`,
		"Dias", "Horas", "Minutos", "Segundos",
		`href="/confirmar-presenca"`, `href="/presentes"`,
		"/static/countdown.js",
		"Feito com carinho para o nosso grande dia!",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestHome_EventPassed(t *testing.T) {
	h, router := newTestHandler(t, &fakeAPI{})
	h.now = func() time.Time { return h.wedding.Add(time.Hour) }

	body := get(t, router, "/").Body.String()
	if !strings.Contains(body, `<p id="countdown-passed" class="passed">O grande dia chegou!</p>`) {
		t.Errorf("expected visible event-passed message, got:\n%s", body)
	}
	if !strings.Contains(body, `id="countdown" class="countdown" hidden`) {
		t.Error("expected counters to be hidden once the event has passed")
	}
	if strings.Contains(body, "/static/countdown.js") {
		t.Error("no stream script expected after the event")
	}
}

func TestAPICountdown(t *testing.T) {
	h, router := newTestHandler(t, &fakeAPI{})
	h.now = func() time.Time { return h.wedding.Add(-90 * time.Second) }

	w := get(t, router, "/api/countdown")
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var left countdown.TimeLeft
	if err := json.Unmarshal(w.Body.Bytes(), &left); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := countdown.TimeLeft{Minutes: 1, Seconds: 30}
	if left != want {
		t.Errorf("got %+v, want %+v", left, want)
	}
}

func TestCountdownStream_PassedEndsStream(t *testing.T) {
	h, router := newTestHandler(t, &fakeAPI{})
	h.now = func() time.Time { return h.wedding.Add(time.Minute) }
	h.ticker = func() (<-chan time.Time, func()) { return nil, func() {} }

	w := get(t, router, "/countdown/stream")

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	want := "event: passed\ndata: {\"days\":0,\"hours\":0,\"minutes\":0,\"seconds\":0,\"eventPassed\":true}\n\n"
	if w.Body.String() != want {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}
}

func TestCountdownStream_TicksUntilPassed(t *testing.T) {
	h, router := newTestHandler(t, &fakeAPI{})

	var mu sync.Mutex
	now := h.wedding.Add(-2 * time.Second)
	h.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur := now
		now = now.Add(time.Second)
		return cur
	}
	tick := make(chan time.Time, 2)
	tick <- time.Time{}
	tick <- time.Time{}
	stopped := false
	h.ticker = func() (<-chan time.Time, func()) { return tick, func() { stopped = true } }

	body := get(t, router, "/countdown/stream").Body.String()

	if got := strings.Count(body, "event: tick\n"); got != 2 {
		t.Errorf("expected 2 tick events, got %d in %q", got, body)
	}
	if !strings.HasSuffix(body, "\"eventPassed\":true}\n\n") {
		t.Errorf("expected stream to end with the passed event, got %q", body)
	}
	if !stopped {
		t.Error("ticker was not stopped")
	}
}

func TestCountdownStream_ClientGone(t *testing.T) {
	h, router := newTestHandler(t, &fakeAPI{})
	h.now = func() time.Time { return h.wedding.Add(-time.Hour) }
	h.ticker = func() (<-chan time.Time, func()) { return make(chan time.Time), func() {} }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/countdown/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := strings.Count(w.Body.String(), "event: tick\n"); got != 1 {
		t.Errorf("expected only the initial event, got %d", got)
	}
}

func TestCalendarInvite(t *testing.T) {
	_, router := newTestHandler(t, &fakeAPI{})

	w := get(t, router, "/casamento.ics")
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"DTSTART;VALUE=DATE:20250913",
		"SUMMARY:Casamento Vitória & André Luiz",
		"URL:http://example.com/",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("invite missing %q", want)
		}
	}
}

func TestCalendarInvite_SiteURL(t *testing.T) {
	cfg := testConfig()
	cfg.Server.SiteURL = "https://casamento.example.com/"
	_, router := newTestHandlerWithConfig(t, &fakeAPI{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/casamento.ics", nil)
	req.Host = "attacker.example"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "URL:https://casamento.example.com/\r\n") {
		t.Errorf("invite should link to the configured site, got:\n%s", body)
	}
	if strings.Contains(body, "attacker.example") {
		t.Error("Host header must be ignored when the site URL is configured")
	}
}

func TestSearchActions(t *testing.T) {
	_, router := newTestHandler(t, &fakeAPI{})

	w := get(t, router, "/api/actions?q=presentes")
	var results []actions.Action
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 actions, got %d: %+v", len(results), results)
	}

	w = get(t, router, "/api/actions?q=xyzzy")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected [], got %q", w.Body.String())
	}
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	if err != nil {
		t.Fatalf("dict: %v", err)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected map %v", m)
	}
	if _, err := dict("a"); err == nil {
		t.Error("expected error for odd arguments")
	}
	if _, err := dict(1, 2); err == nil {
		t.Error("expected error for non-string key")
	}
}
