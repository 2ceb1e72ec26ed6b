package history

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore keeps the ledger in a slice. Used by unit tests and as the
// reference implementation for the ordering contract.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries []Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Append(_ context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		e.ID = s.nextID
		s.nextID++
		s.entries = append(s.entries, e)
	}
	return nil
}

func (s *InMemoryStore) ListByEntity(_ context.Context, ref EntityRef) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, e := range s.entries {
		if e.Entity == ref {
			out = append(out, e)
		}
	}
	// Newest first; ties broken by insertion order so a single mutation's
	// entries stay grouped.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChangedAt.After(out[j].ChangedAt)
	})
	return out, nil
}

func (s *InMemoryStore) PurgeEntity(_ context.Context, ref EntityRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.Entity != ref {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}
