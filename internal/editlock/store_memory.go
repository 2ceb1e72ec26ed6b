package editlock

import (
	"context"
	"sync"
	"time"
)

type lease struct {
	holder  string
	expires time.Time
}

// InMemoryStore backs unit tests and single-node deployments without Redis.
// Expired leases are dropped lazily on access.
type InMemoryStore struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

type InMemoryOption func(*InMemoryStore)

// WithClock overrides the expiry clock.
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) { s.now = now }
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		leases: make(map[string]lease),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *InMemoryStore) current(key string) (lease, bool) {
	l, ok := s.leases[key]
	if !ok {
		return lease{}, false
	}
	if !s.now().Before(l.expires) {
		delete(s.leases, key)
		return lease{}, false
	}
	return l, true
}

func (s *InMemoryStore) Acquire(_ context.Context, key, holder string, ttl time.Duration) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, held := s.current(key); held {
		return false, l.holder, nil
	}
	s.leases[key] = lease{holder: holder, expires: s.now().Add(ttl)}
	return true, holder, nil
}

func (s *InMemoryStore) Refresh(_ context.Context, key, holder string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, held := s.current(key)
	if !held || l.holder != holder {
		return false, nil
	}
	s.leases[key] = lease{holder: holder, expires: s.now().Add(ttl)}
	return true, nil
}

func (s *InMemoryStore) Release(_ context.Context, key, holder string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, held := s.current(key)
	if !held || l.holder != holder {
		return false, nil
	}
	delete(s.leases, key)
	return true, nil
}

func (s *InMemoryStore) Holder(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, held := s.current(key)
	if !held {
		return "", false, nil
	}
	return l.holder, true, nil
}
