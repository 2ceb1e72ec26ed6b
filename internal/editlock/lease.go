// Package editlock hands out short-lived, single-holder edit leases on
// employee records. A lease is advisory: the UI acquires it before opening an
// edit form and refreshes it while the form stays open, so two users are
// warned off editing the same record concurrently. Leases expire on their own
// after the TTL, so an abandoned browser tab never wedges a record.
package editlock

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"kadry/internal/platform/metrics"
	"kadry/pkg/requestcontext"
	"kadry/pkg/sentinel"
)

const (
	keyPrefix  = "employee_edit_lock:"
	DefaultTTL = 5 * time.Minute
)

// Store is the lease state backend. Every operation is atomic with respect to
// concurrent callers: Acquire is set-if-absent, Refresh and Release only act
// when the stored holder matches.
type Store interface {
	// Acquire takes the lease if it is free. When the lease is already held,
	// it returns ok=false and the current holder.
	Acquire(ctx context.Context, key, holder string, ttl time.Duration) (ok bool, current string, err error)
	// Refresh extends the TTL iff holder still owns the lease.
	Refresh(ctx context.Context, key, holder string, ttl time.Duration) (bool, error)
	// Release frees the lease iff holder still owns it.
	Release(ctx context.Context, key, holder string) (bool, error)
	// Holder reports the current lease holder, if any.
	Holder(ctx context.Context, key string) (holder string, held bool, err error)
}

// Service applies the employee-lock key scheme and actor resolution on top of
// a Store.
type Service struct {
	store   Store
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("editlock: store is required")
	}
	s := &Service{
		store:  store,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func lockKey(employeeID int64) string {
	return keyPrefix + strconv.FormatInt(employeeID, 10)
}

func actorFrom(ctx context.Context) (string, error) {
	actorID, ok := requestcontext.ActorID(ctx)
	if !ok {
		return "", fmt.Errorf("editlock: no actor in context: %w", sentinel.ErrInvalidState)
	}
	return strconv.FormatInt(actorID, 10), nil
}

// Acquire takes the edit lease on an employee for the request's actor. If
// another actor holds it, sentinel.ErrConflict is returned. Re-acquiring a
// lease the actor already holds refreshes it instead of failing, so a page
// reload does not lock the editor out of their own session.
func (s *Service) Acquire(ctx context.Context, employeeID int64) error {
	holder, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	key := lockKey(employeeID)

	ok, current, err := s.store.Acquire(ctx, key, holder, s.ttl)
	if err != nil {
		return fmt.Errorf("acquire edit lease: %w", err)
	}
	if ok {
		return nil
	}
	if current == holder {
		if _, err := s.store.Refresh(ctx, key, holder, s.ttl); err != nil {
			return fmt.Errorf("refresh own edit lease: %w", err)
		}
		return nil
	}

	if s.metrics != nil {
		s.metrics.LeaseConflicts.Inc()
	}
	s.logger.InfoContext(ctx, "edit lease conflict",
		slog.Int64("employee_id", employeeID),
		slog.String("holder", current),
	)
	return fmt.Errorf("employee %d is being edited by user %s: %w", employeeID, current, sentinel.ErrConflict)
}

// Refresh extends the actor's lease. Returns sentinel.ErrConflict when the
// lease expired or was taken over in the meantime.
func (s *Service) Refresh(ctx context.Context, employeeID int64) error {
	holder, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	ok, err := s.store.Refresh(ctx, lockKey(employeeID), holder, s.ttl)
	if err != nil {
		return fmt.Errorf("refresh edit lease: %w", err)
	}
	if !ok {
		return fmt.Errorf("edit lease on employee %d no longer held: %w", employeeID, sentinel.ErrConflict)
	}
	return nil
}

// Release frees the actor's lease. Releasing a lease that already expired or
// belongs to someone else is a no-op: the form is closing either way.
func (s *Service) Release(ctx context.Context, employeeID int64) error {
	holder, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	if _, err := s.store.Release(ctx, lockKey(employeeID), holder); err != nil {
		return fmt.Errorf("release edit lease: %w", err)
	}
	return nil
}

// Holder reports who holds the lease on an employee, if anyone.
func (s *Service) Holder(ctx context.Context, employeeID int64) (int64, bool, error) {
	holder, held, err := s.store.Holder(ctx, lockKey(employeeID))
	if err != nil {
		return 0, false, fmt.Errorf("read edit lease: %w", err)
	}
	if !held {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(holder, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse edit lease holder %q: %w", holder, err)
	}
	return id, true, nil
}
