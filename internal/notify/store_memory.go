package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// InMemoryStore backs unit tests and mirrors the postgres store's contract.
type InMemoryStore struct {
	mu            sync.RWMutex
	nextID        int64
	notifications map[int64]Notification
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID:        1,
		notifications: make(map[int64]Notification),
	}
}

func (s *InMemoryStore) Create(_ context.Context, n *Notification) error {
	if (n.DocumentID == nil) == (n.WorkPermitID == nil) {
		// Only the reconciler writes notifications; both-or-neither set is a
		// programming error, not a recoverable condition.
		panic(fmt.Sprintf("notification must reference exactly one source record: %+v", n))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.nextID
	s.nextID++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.notifications[n.ID] = *n
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) ListByEmployee(_ context.Context, employeeID int64) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Notification
	for _, n := range s.notifications {
		if n.EmployeeID == employeeID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) ExistsForDocument(_ context.Context, documentID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notifications {
		if n.DocumentID != nil && *n.DocumentID == documentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) ExistsForWorkPermit(_ context.Context, workPermitID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notifications {
		if n.WorkPermitID != nil && *n.WorkPermitID == workPermitID {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) UpdateAging(_ context.Context, id int64, daysLeft int, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil
	}
	n.DaysLeft = daysLeft
	n.Message = message
	s.notifications[id] = n
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notifications, id)
	return nil
}

func (s *InMemoryStore) DeleteForDocument(_ context.Context, documentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.notifications {
		if n.DocumentID != nil && *n.DocumentID == documentID {
			delete(s.notifications, id)
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteForWorkPermit(_ context.Context, workPermitID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.notifications {
		if n.WorkPermitID != nil && *n.WorkPermitID == workPermitID {
			delete(s.notifications, id)
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteForEmployee(_ context.Context, employeeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.notifications {
		if n.EmployeeID == employeeID {
			delete(s.notifications, id)
		}
	}
	return nil
}
