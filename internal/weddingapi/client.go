// Package weddingapi is the HTTP client for the wedding backend that owns
// guests and gifts. The site never stores this data; every page render asks
// the backend again.
package weddingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/jredh-dev/casamento/pkg/models"
)

// Endpoint paths on the wedding API.
const (
	PathConfirmedGuests   = "/api/guests/confirmed"
	PathUnconfirmedGuests = "/api/guests/unconfirmed"
	PathConfirmGuest      = "/api/guests/confirm"
	PathGifts             = "/api/gifts"
	PathReserveGift       = "/api/gifts/reserve"
	PathPurchaseGift      = "/api/gifts/purchase"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Client is the interface for the wedding REST API.
// Handlers depend on this; tests inject a fake.
type Client interface {
	ConfirmedGuests(ctx context.Context) ([]models.Guest, error)
	UnconfirmedGuests(ctx context.Context) ([]models.Guest, error)
	ConfirmAttendance(ctx context.Context, req models.RSVPRequest) error
	Gifts(ctx context.Context) ([]models.Gift, error)
	ReserveGift(ctx context.Context, giftID, guestID int) error
	PurchaseGift(ctx context.Context, giftID, guestID int) error
}

// Observer receives one call per completed upstream request.
// *metrics.Metrics implements it.
type Observer interface {
	ObserveUpstream(endpoint, method string, code int, d time.Duration)
}

// Option configures the HTTP client.
type Option func(*httpClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.httpClient = c }
}

// WithObserver reports every request to o.
func WithObserver(o Observer) Option {
	return func(h *httpClient) { h.observer = o }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(h *httpClient) { h.log = l }
}

// --- HTTP implementation ---

type httpClient struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
	log        zerolog.Logger
}

// New returns a Client talking to baseURL. timeout bounds each request.
func New(baseURL string, timeout time.Duration, opts ...Option) Client {
	c := &httpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) ConfirmedGuests(ctx context.Context) ([]models.Guest, error) {
	var guests []models.Guest
	if err := c.getJSON(ctx, PathConfirmedGuests, &guests); err != nil {
		return nil, fmt.Errorf("confirmed guests: %w", err)
	}
	for i := range guests {
		guests[i].IsConfirmed = true
	}
	return nonNil(guests), nil
}

func (c *httpClient) UnconfirmedGuests(ctx context.Context) ([]models.Guest, error) {
	var guests []models.Guest
	if err := c.getJSON(ctx, PathUnconfirmedGuests, &guests); err != nil {
		return nil, fmt.Errorf("unconfirmed guests: %w", err)
	}
	for i := range guests {
		guests[i].IsConfirmed = false
	}
	return nonNil(guests), nil
}

func (c *httpClient) ConfirmAttendance(ctx context.Context, req models.RSVPRequest) error {
	if err := c.postJSON(ctx, PathConfirmGuest, req); err != nil {
		return fmt.Errorf("confirm attendance: %w", err)
	}
	return nil
}

func (c *httpClient) Gifts(ctx context.Context) ([]models.Gift, error) {
	var gifts []models.Gift
	if err := c.getJSON(ctx, PathGifts, &gifts); err != nil {
		return nil, fmt.Errorf("gifts: %w", err)
	}
	return nonNil(gifts), nil
}

func (c *httpClient) ReserveGift(ctx context.Context, giftID, guestID int) error {
	body := models.GiftActionRequest{GiftID: giftID, GuestID: guestID}
	if err := c.postJSON(ctx, PathReserveGift, body); err != nil {
		return fmt.Errorf("reserve gift %d: %w", giftID, err)
	}
	return nil
}

func (c *httpClient) PurchaseGift(ctx context.Context, giftID, guestID int) error {
	body := models.GiftActionRequest{GiftID: giftID, GuestID: guestID}
	if err := c.postJSON(ctx, PathPurchaseGift, body); err != nil {
		return fmt.Errorf("purchase gift %d: %w", giftID, err)
	}
	return nil
}

// --- helpers ---

func (c *httpClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *httpClient) postJSON(ctx context.Context, path string, in interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return nil
}

// do sends req, forwarding the chi request id and reporting to the observer.
func (c *httpClient) do(req *http.Request, path string) (*http.Response, error) {
	if id := middleware.GetReqID(req.Context()); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	if c.observer != nil {
		c.observer.ObserveUpstream(path, req.Method, code, elapsed)
	}
	c.log.Debug().
		Str("method", req.Method).
		Str("path", path).
		Int("status", code).
		Dur("elapsed", elapsed).
		Msg("wedding api request")

	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	return resp, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
