package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"kadry/internal/hr/models"
	"kadry/pkg/sentinel"
)

// InMemoryStore keeps the whole aggregate in maps. It emulates the cascade
// delete the database performs so tests observe the same ownership rules.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64

	employees       map[int64]models.Employee
	periods         map[int64]models.EmploymentPeriod
	documents       map[int64]models.Document
	workPermits     map[int64]models.WorkPermit
	cardSubmissions map[int64]models.CardSubmission
	contracts       map[int64]models.Contract
	sanepids        map[int64]models.Sanepid
	contacts        map[int64]models.Contact
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID:          1,
		employees:       make(map[int64]models.Employee),
		periods:         make(map[int64]models.EmploymentPeriod),
		documents:       make(map[int64]models.Document),
		workPermits:     make(map[int64]models.WorkPermit),
		cardSubmissions: make(map[int64]models.CardSubmission),
		contracts:       make(map[int64]models.Contract),
		sanepids:        make(map[int64]models.Sanepid),
		contacts:        make(map[int64]models.Contact),
	}
}

func (s *InMemoryStore) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// ---------------------------------------------------------------------------
// Employees
// ---------------------------------------------------------------------------

func (s *InMemoryStore) CreateEmployee(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.allocID()
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.employees[e.ID] = *e
	return nil
}

func (s *InMemoryStore) Employee(_ context.Context, id int64) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &e, nil
}

// EmployeeForUpdate has no row locking in memory; the coarse store mutex
// already serializes mutations.
func (s *InMemoryStore) EmployeeForUpdate(ctx context.Context, id int64) (*models.Employee, error) {
	return s.Employee(ctx, id)
}

func (s *InMemoryStore) ListEmployees(_ context.Context) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) UpdateEmployee(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.employees[e.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = time.Now()
	s.employees[e.ID] = *e
	return nil
}

func (s *InMemoryStore) DeleteEmployee(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.employees, id)
	for pid, p := range s.periods {
		if p.EmployeeID == id {
			delete(s.periods, pid)
		}
	}
	for did, d := range s.documents {
		if d.EmployeeID == id {
			delete(s.documents, did)
		}
	}
	for wid, w := range s.workPermits {
		if w.EmployeeID == id {
			delete(s.workPermits, wid)
		}
	}
	for cid, c := range s.cardSubmissions {
		if c.EmployeeID == id {
			delete(s.cardSubmissions, cid)
		}
	}
	for cid, c := range s.contracts {
		if c.EmployeeID == id {
			delete(s.contracts, cid)
		}
	}
	for sid, sp := range s.sanepids {
		if sp.EmployeeID == id {
			delete(s.sanepids, sid)
		}
	}
	for cid, c := range s.contacts {
		if c.EmployeeID == id {
			delete(s.contacts, cid)
		}
	}
	return nil
}

func (s *InMemoryStore) TerminatableEmployees(_ context.Context, today time.Time) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Employee
	for _, e := range s.employees {
		if e.WorkingStatus == models.StatusTerminated {
			continue
		}
		var hasPeriods, hasOngoing bool
		var latestEnd time.Time
		for _, p := range s.periods {
			if p.EmployeeID != e.ID {
				continue
			}
			hasPeriods = true
			if p.EndDate == nil {
				hasOngoing = true
				break
			}
			if p.EndDate.After(latestEnd) {
				latestEnd = *p.EndDate
			}
		}
		if hasPeriods && !hasOngoing && latestEnd.Before(today) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

func (s *InMemoryStore) CreateDocument(_ context.Context, d *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[d.EmployeeID]; !ok {
		return sentinel.ErrNotFound
	}
	d.ID = s.allocID()
	s.documents[d.ID] = *d
	return nil
}

func (s *InMemoryStore) Document(_ context.Context, id int64) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &d, nil
}

func (s *InMemoryStore) DocumentsByEmployee(_ context.Context, employeeID int64) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Document
	for _, d := range s.documents {
		if d.EmployeeID == employeeID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) UpdateDocument(_ context.Context, d *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.documents[d.ID] = *d
	return nil
}

func (s *InMemoryStore) DeleteDocument(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *InMemoryStore) ExpiringDocuments(_ context.Context, from, to time.Time) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Document
	for _, d := range s.documents {
		if d.ValidUntil == nil || d.ValidUntil.Before(from) || d.ValidUntil.After(to) {
			continue
		}
		if owner, ok := s.employees[d.EmployeeID]; !ok || owner.WorkingStatus == models.StatusTerminated {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---------------------------------------------------------------------------
// Work permits
// ---------------------------------------------------------------------------

func (s *InMemoryStore) CreateWorkPermit(_ context.Context, w *models.WorkPermit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[w.EmployeeID]; !ok {
		return sentinel.ErrNotFound
	}
	w.ID = s.allocID()
	s.workPermits[w.ID] = *w
	return nil
}

func (s *InMemoryStore) WorkPermit(_ context.Context, id int64) (*models.WorkPermit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workPermits[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &w, nil
}

func (s *InMemoryStore) WorkPermitsByEmployee(_ context.Context, employeeID int64) ([]models.WorkPermit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.WorkPermit
	for _, w := range s.workPermits {
		if w.EmployeeID == employeeID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) UpdateWorkPermit(_ context.Context, w *models.WorkPermit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workPermits[w.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.workPermits[w.ID] = *w
	return nil
}

func (s *InMemoryStore) DeleteWorkPermit(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workPermits[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.workPermits, id)
	return nil
}

func (s *InMemoryStore) ExpiringWorkPermits(_ context.Context, from, to time.Time) ([]models.WorkPermit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.WorkPermit
	for _, w := range s.workPermits {
		if w.EndDate == nil || w.EndDate.Before(from) || w.EndDate.After(to) {
			continue
		}
		if owner, ok := s.employees[w.EmployeeID]; !ok || owner.WorkingStatus == models.StatusTerminated {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---------------------------------------------------------------------------
// Employment periods
// ---------------------------------------------------------------------------

func (s *InMemoryStore) CreateEmploymentPeriod(_ context.Context, p *models.EmploymentPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[p.EmployeeID]; !ok {
		return sentinel.ErrNotFound
	}
	p.ID = s.allocID()
	s.periods[p.ID] = *p
	return nil
}

func (s *InMemoryStore) EmploymentPeriod(_ context.Context, id int64) (*models.EmploymentPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) EmploymentPeriodsByEmployee(_ context.Context, employeeID int64) ([]models.EmploymentPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.EmploymentPeriod
	for _, p := range s.periods {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) UpdateEmploymentPeriod(_ context.Context, p *models.EmploymentPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.periods[p.ID] = *p
	return nil
}

func (s *InMemoryStore) DeleteEmploymentPeriod(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.periods, id)
	return nil
}

// ---------------------------------------------------------------------------
// Card submissions, contracts, sanepids, contacts
// ---------------------------------------------------------------------------

func (s *InMemoryStore) CreateCardSubmission(_ context.Context, c *models.CardSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[c.EmployeeID]; !ok {
		return sentinel.ErrNotFound
	}
	c.ID = s.allocID()
	s.cardSubmissions[c.ID] = *c
	return nil
}

func (s *InMemoryStore) CardSubmission(_ context.Context, id int64) (*models.CardSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cardSubmissions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) CardSubmissionsByEmployee(_ context.Context, employeeID int64) ([]models.CardSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CardSubmission
	for _, c := range s.cardSubmissions {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) DeleteCardSubmission(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cardSubmissions[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.cardSubmissions, id)
	return nil
}

func (s *InMemoryStore) CreateContract(_ context.Context, c *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[c.EmployeeID]; !ok {
		return sentinel.ErrNotFound
	}
	c.ID = s.allocID()
	s.contracts[c.ID] = *c
	return nil
}

func (s *InMemoryStore) Contract(_ context.Context, id int64) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) ContractsByEmployee(_ context.Context, employeeID int64) ([]models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Contract
	for _, c := range s.contracts {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) DeleteContract(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.contracts, id)
	return nil
}

func (s *InMemoryStore) CreateSanepid(_ context.Context, sp *models.Sanepid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[sp.EmployeeID]; !ok {
		return sentinel.ErrNotFound
	}
	sp.ID = s.allocID()
	s.sanepids[sp.ID] = *sp
	return nil
}

func (s *InMemoryStore) Sanepid(_ context.Context, id int64) (*models.Sanepid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.sanepids[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &sp, nil
}

func (s *InMemoryStore) SanepidsByEmployee(_ context.Context, employeeID int64) ([]models.Sanepid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Sanepid
	for _, sp := range s.sanepids {
		if sp.EmployeeID == employeeID {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) DeleteSanepid(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sanepids[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.sanepids, id)
	return nil
}

func (s *InMemoryStore) CreateContact(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[c.EmployeeID]; !ok {
		return sentinel.ErrNotFound
	}
	c.ID = s.allocID()
	s.contacts[c.ID] = *c
	return nil
}

func (s *InMemoryStore) Contact(_ context.Context, id int64) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) ContactsByEmployee(_ context.Context, employeeID int64) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Contact
	for _, c := range s.contacts {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) DeleteContact(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}
