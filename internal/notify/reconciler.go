package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kadry/internal/hr/models"
	"kadry/internal/platform/metrics"
	"kadry/pkg/requestcontext"
	"kadry/pkg/sentinel"
)

// windowMonths is the fixed look-ahead horizon: a record expiring within the
// inclusive range [today, today + 2 months] warrants a notification.
const windowMonths = 2

// Reconciler keeps the notification table consistent with the expiry state of
// documents and work permits. Reconciliation is idempotent: it creates what
// is missing and removes what no longer applies, but never touches the
// days_left/message of an existing notification — only the aging job does.
type Reconciler struct {
	notifications Store
	sources       SourceStore
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

// Option configures a Reconciler.
type Option func(*Reconciler)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// New constructs a Reconciler.
func New(notifications Store, sources SourceStore, opts ...Option) (*Reconciler, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification store is required")
	}
	if sources == nil {
		return nil, fmt.Errorf("source store is required")
	}
	r := &Reconciler{
		notifications: notifications,
		sources:       sources,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// window derives [today, horizon] from the request-scoped clock.
func window(ctx context.Context) (today, horizon time.Time) {
	today = dateOf(requestcontext.Now(ctx))
	return today, today.AddDate(0, windowMonths, 0)
}

func inWindow(expiry *time.Time, today, horizon time.Time) bool {
	if expiry == nil {
		return false
	}
	d := dateOf(*expiry)
	return !d.Before(today) && !d.After(horizon)
}

// Reconcile synchronizes one employee's notifications with the current expiry
// state of their documents and work permits. It is called synchronously after
// any write that could affect expiry status, inside the same transaction when
// the stores are transaction-scoped.
func (r *Reconciler) Reconcile(ctx context.Context, employeeID int64) error {
	emp, err := r.sources.Employee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Employee gone: the cascade already removed the notifications.
			return nil
		}
		return fmt.Errorf("reconcile: load employee %d: %w", employeeID, err)
	}

	// A terminated employee must have no notifications, whatever the
	// documents say.
	if emp.WorkingStatus == models.StatusTerminated {
		if err := r.notifications.DeleteForEmployee(ctx, employeeID); err != nil {
			return fmt.Errorf("reconcile: clear notifications for terminated employee %d: %w", employeeID, err)
		}
		return nil
	}

	today, horizon := window(ctx)

	docs, err := r.sources.DocumentsByEmployee(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("reconcile: list documents: %w", err)
	}
	for _, doc := range docs {
		if !inWindow(doc.ValidUntil, today, horizon) {
			if err := r.notifications.DeleteForDocument(ctx, doc.ID); err != nil {
				return fmt.Errorf("reconcile: delete stale document notification: %w", err)
			}
			continue
		}
		if err := r.ensureForDocument(ctx, doc, today); err != nil {
			return err
		}
	}

	permits, err := r.sources.WorkPermitsByEmployee(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("reconcile: list work permits: %w", err)
	}
	for _, permit := range permits {
		if !inWindow(permit.EndDate, today, horizon) {
			if err := r.notifications.DeleteForWorkPermit(ctx, permit.ID); err != nil {
				return fmt.Errorf("reconcile: delete stale work permit notification: %w", err)
			}
			continue
		}
		if err := r.ensureForWorkPermit(ctx, permit, today); err != nil {
			return err
		}
	}
	return nil
}

// ReconcilePopulation is the scheduled sweep over every employee. It reaches
// the same fixed point as running Reconcile for each employee: it creates the
// missing notifications for in-window records of non-terminated employees and
// removes the ones whose backing record is gone, renewed, out of window, or
// whose employee terminated since. Every row-level step is individually
// atomic, so an interrupted sweep is safely re-run from scratch.
func (r *Reconciler) ReconcilePopulation(ctx context.Context) error {
	today, horizon := window(ctx)

	docs, err := r.sources.ExpiringDocuments(ctx, today, horizon)
	if err != nil {
		return fmt.Errorf("population sweep: list expiring documents: %w", err)
	}
	for _, doc := range docs {
		if err := r.ensureForDocument(ctx, doc, today); err != nil {
			return err
		}
	}

	permits, err := r.sources.ExpiringWorkPermits(ctx, today, horizon)
	if err != nil {
		return fmt.Errorf("population sweep: list expiring work permits: %w", err)
	}
	for _, permit := range permits {
		if err := r.ensureForWorkPermit(ctx, permit, today); err != nil {
			return err
		}
	}

	existing, err := r.notifications.List(ctx)
	if err != nil {
		return fmt.Errorf("population sweep: list notifications: %w", err)
	}
	for _, n := range existing {
		stale, err := r.isStale(ctx, n, today, horizon)
		if err != nil {
			return err
		}
		if stale {
			if err := r.notifications.Delete(ctx, n.ID); err != nil {
				return fmt.Errorf("population sweep: delete stale notification %d: %w", n.ID, err)
			}
			r.countDeleted(1)
		}
	}
	return nil
}

// AgeAll runs once a day: every notification with more than one day left is
// decremented and its message re-rendered in the reduced form; the rest are
// deleted. This is the only path that lowers days_left or deletes purely due
// to elapsed time.
func (r *Reconciler) AgeAll(ctx context.Context) error {
	existing, err := r.notifications.List(ctx)
	if err != nil {
		return fmt.Errorf("aging: list notifications: %w", err)
	}

	for _, n := range existing {
		if n.DaysLeft <= 1 {
			if err := r.notifications.Delete(ctx, n.ID); err != nil {
				return fmt.Errorf("aging: delete notification %d: %w", n.ID, err)
			}
			r.countDeleted(1)
			continue
		}

		docType, number, err := r.sourceSlots(ctx, n)
		if err != nil {
			return err
		}
		daysLeft := n.DaysLeft - 1
		if err := r.notifications.UpdateAging(ctx, n.ID, daysLeft, agedMessage(docType, number, daysLeft)); err != nil {
			return fmt.Errorf("aging: update notification %d: %w", n.ID, err)
		}
		if r.metrics != nil {
			r.metrics.NotificationsAged.Inc()
		}
	}
	return nil
}

func (r *Reconciler) ensureForDocument(ctx context.Context, doc models.Document, today time.Time) error {
	exists, err := r.notifications.ExistsForDocument(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("check document notification: %w", err)
	}
	if exists {
		return nil
	}
	n := ForDocument(doc, today)
	if err := r.notifications.Create(ctx, &n); err != nil {
		return fmt.Errorf("create document notification: %w", err)
	}
	r.countCreated(doc.EmployeeID, n.DaysLeft)
	return nil
}

func (r *Reconciler) ensureForWorkPermit(ctx context.Context, permit models.WorkPermit, today time.Time) error {
	exists, err := r.notifications.ExistsForWorkPermit(ctx, permit.ID)
	if err != nil {
		return fmt.Errorf("check work permit notification: %w", err)
	}
	if exists {
		return nil
	}
	n := ForWorkPermit(permit, today)
	if err := r.notifications.Create(ctx, &n); err != nil {
		return fmt.Errorf("create work permit notification: %w", err)
	}
	r.countCreated(permit.EmployeeID, n.DaysLeft)
	return nil
}

// isStale reports whether an existing notification no longer has an in-window
// backing record owned by a non-terminated employee.
func (r *Reconciler) isStale(ctx context.Context, n Notification, today, horizon time.Time) (bool, error) {
	emp, err := r.sources.Employee(ctx, n.EmployeeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("population sweep: load employee %d: %w", n.EmployeeID, err)
	}
	if emp.WorkingStatus == models.StatusTerminated {
		return true, nil
	}

	switch n.Kind {
	case KindDocument:
		doc, err := r.sources.Document(ctx, *n.DocumentID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return true, nil
			}
			return false, fmt.Errorf("population sweep: load document %d: %w", *n.DocumentID, err)
		}
		return !inWindow(doc.ValidUntil, today, horizon), nil
	case KindWorkPermit:
		permit, err := r.sources.WorkPermit(ctx, *n.WorkPermitID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return true, nil
			}
			return false, fmt.Errorf("population sweep: load work permit %d: %w", *n.WorkPermitID, err)
		}
		return !inWindow(permit.EndDate, today, horizon), nil
	default:
		panic(fmt.Sprintf("notification %d has unknown kind %q", n.ID, n.Kind))
	}
}

// sourceSlots fetches the message slots from the backing record for the aged
// re-render. A backing record that vanished mid-sweep falls back to the
// unknown slots; the population sweep will remove the notification next tick.
func (r *Reconciler) sourceSlots(ctx context.Context, n Notification) (docType, number *string, err error) {
	switch n.Kind {
	case KindDocument:
		doc, err := r.sources.Document(ctx, *n.DocumentID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, nil, nil
			}
			return nil, nil, fmt.Errorf("aging: load document %d: %w", *n.DocumentID, err)
		}
		return doc.DocType, doc.Number, nil
	case KindWorkPermit:
		permit, err := r.sources.WorkPermit(ctx, *n.WorkPermitID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, nil, nil
			}
			return nil, nil, fmt.Errorf("aging: load work permit %d: %w", *n.WorkPermitID, err)
		}
		// Permits have no number; the reduced form still renders the slot.
		return permit.DocType, nil, nil
	default:
		panic(fmt.Sprintf("notification %d has unknown kind %q", n.ID, n.Kind))
	}
}

func (r *Reconciler) countCreated(employeeID int64, daysLeft int) {
	if r.metrics != nil {
		r.metrics.NotificationsCreated.Inc()
	}
	r.logger.Debug("notification created", "employee_id", employeeID, "days_left", daysLeft)
}

func (r *Reconciler) countDeleted(n int) {
	if r.metrics != nil {
		r.metrics.NotificationsDeleted.Add(float64(n))
	}
}
