package guard

import (
	"context"
	"sync"
	"time"
)

type memoryLock struct {
	token   string
	expires time.Time
}

// MemoryStore keeps locks in process memory. It only protects a single
// site instance.
type MemoryStore struct {
	mu    sync.Mutex
	locks map[string]memoryLock
	now   func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{locks: make(map[string]memoryLock), now: time.Now}
}

func (s *MemoryStore) Acquire(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if l, ok := s.locks[key]; ok && now.Before(l.expires) {
		return false, nil
	}
	s.locks[key] = memoryLock{token: token, expires: now.Add(ttl)}
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.locks[key]; ok && l.token == token {
		delete(s.locks, key)
	}
	return nil
}
