// Package guard refuses duplicate submissions of the same action while the
// first one is still talking to the wedding API.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrBusy is returned when an identical action is already in flight.
var ErrBusy = errors.New("guard: action already in progress")

// Store holds short-lived locks. Acquire reports false when key is held.
// Release only removes the lock if token still owns it.
type Store interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}

// Guard runs actions under a per-key lock.
type Guard struct {
	store Store
	ttl   time.Duration
}

// New creates a Guard whose locks expire after ttl even if never released.
func New(store Store, ttl time.Duration) *Guard {
	return &Guard{store: store, ttl: ttl}
}

// Do runs fn while holding key. A concurrent Do on the same key gets ErrBusy
// without running fn. A store failure is returned as-is and fn does not run.
func (g *Guard) Do(ctx context.Context, key string, fn func() error) error {
	token := uuid.NewString()

	ok, err := g.store.Acquire(ctx, key, token, g.ttl)
	if err != nil {
		return fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return ErrBusy
	}
	defer func() {
		// The request context may already be done; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = g.store.Release(rctx, key, token)
	}()

	return fn()
}

// Key joins an action name and its subject.
func Key(action, subject string) string {
	return action + ":" + subject
}
