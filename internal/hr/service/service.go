// Package service orchestrates HR mutations. Every write runs inside a single
// transaction that carries the row change, its change-ledger entries and the
// notification reconciliation together, so the three can never drift apart.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"kadry/internal/history"
	"kadry/internal/hr/models"
	"kadry/internal/hr/store"
	"kadry/internal/notify"
	"kadry/internal/platform/metrics"
	"kadry/pkg/sentinel"
)

// Stores bundles the transaction-scoped stores a write path works with.
type Stores struct {
	HR      store.Store
	History history.Store
	Notify  notify.Store
}

// Tx runs fn inside one database transaction, handing it stores bound to that
// transaction. The in-memory implementation hands out the shared stores and
// offers no rollback; only the postgres implementation is truly atomic.
type Tx interface {
	RunInTx(ctx context.Context, fn func(s Stores) error) error
}

// Service is the employee-record application service.
type Service struct {
	tx      Tx
	reads   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the service. reads serves the read paths straight from the
// pool; all writes go through tx.
func New(tx Tx, reads store.Store, opts ...Option) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("hr service: tx runner is required")
	}
	if reads == nil {
		return nil, fmt.Errorf("hr service: read store is required")
	}
	s := &Service{
		tx:     tx,
		reads:  reads,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// recorder builds the tx-scoped change recorder.
func (s *Service) recorder(st Stores) *history.Recorder {
	if s.metrics != nil {
		return history.NewRecorder(st.History, history.WithEntryCounter(s.metrics.HistoryEntries))
	}
	return history.NewRecorder(st.History)
}

// reconciler builds the tx-scoped notification reconciler.
func (s *Service) reconciler(st Stores) (*notify.Reconciler, error) {
	opts := []notify.Option{notify.WithLogger(s.logger)}
	if s.metrics != nil {
		opts = append(opts, notify.WithMetrics(s.metrics))
	}
	return notify.New(st.Notify, st.HR, opts...)
}

func validateEmployee(e *models.Employee) error {
	if e.FirstName == "" || e.LastName == "" {
		return fmt.Errorf("first and last name are required: %w", sentinel.ErrInvalidState)
	}
	if e.WorkingStatus == "" {
		e.WorkingStatus = models.StatusEmployed
	}
	if !e.WorkingStatus.Valid() {
		return fmt.Errorf("unknown working status %q: %w", e.WorkingStatus, sentinel.ErrInvalidState)
	}
	return nil
}

// CreateEmployee persists a new employee and its creation marker.
func (s *Service) CreateEmployee(ctx context.Context, e *models.Employee) error {
	if err := validateEmployee(e); err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(st Stores) error {
		if err := st.HR.CreateEmployee(ctx, e); err != nil {
			return err
		}
		return s.recorder(st).RecordCreate(ctx, e)
	})
}

func (s *Service) Employee(ctx context.Context, id int64) (*models.Employee, error) {
	return s.reads.Employee(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.reads.ListEmployees(ctx)
}

// UpdateEmployee replaces the employee's tracked fields with e, records the
// per-field diff, and reconciles notifications. A transition to terminated
// clears the employee's notifications within the same transaction.
func (s *Service) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	if err := validateEmployee(e); err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(st Stores) error {
		before, err := st.HR.EmployeeForUpdate(ctx, e.ID)
		if err != nil {
			return err
		}

		if err := st.HR.UpdateEmployee(ctx, e); err != nil {
			return err
		}
		if err := s.recorder(st).RecordUpdate(ctx, e.HistoryRef(), before.Snapshot(), e.Snapshot()); err != nil {
			return err
		}

		rec, err := s.reconciler(st)
		if err != nil {
			return err
		}
		return rec.Reconcile(ctx, e.ID)
	})
}

// DeleteEmployee removes the employee and everything hanging off it. Each
// removed record's ledger collapses to a single deletion marker; the cascade
// drops the rows and the notifications.
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		emp, err := st.HR.EmployeeForUpdate(ctx, id)
		if err != nil {
			return err
		}

		subRecords, err := s.loadSubRecords(ctx, st.HR, id)
		if err != nil {
			return err
		}

		if err := st.HR.DeleteEmployee(ctx, id); err != nil {
			return err
		}
		if err := st.Notify.DeleteForEmployee(ctx, id); err != nil {
			return err
		}

		rec := s.recorder(st)
		for _, sub := range subRecords {
			if err := rec.RecordDelete(ctx, sub); err != nil {
				return err
			}
		}
		return rec.RecordDelete(ctx, emp)
	})
}

// loadSubRecords collects every sub-record the cascade is about to remove so
// their deletion markers can be written.
func (s *Service) loadSubRecords(ctx context.Context, hr store.Store, employeeID int64) ([]history.Auditable, error) {
	var out []history.Auditable

	periods, err := hr.EmploymentPeriodsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i := range periods {
		out = append(out, &periods[i])
	}

	docs, err := hr.DocumentsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		out = append(out, &docs[i])
	}

	permits, err := hr.WorkPermitsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i := range permits {
		out = append(out, &permits[i])
	}

	cards, err := hr.CardSubmissionsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		out = append(out, &cards[i])
	}

	contracts, err := hr.ContractsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i := range contracts {
		out = append(out, &contracts[i])
	}

	sanepids, err := hr.SanepidsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i := range sanepids {
		out = append(out, &sanepids[i])
	}

	contacts, err := hr.ContactsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		out = append(out, &contacts[i])
	}

	return out, nil
}
