// Package status flips employees whose employment has lapsed to the
// terminated state. It runs from the daily scheduler; there is no signal or
// trigger path, the sweep is the only writer.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kadry/internal/history"
	"kadry/internal/hr/models"
	"kadry/internal/hr/service"
	"kadry/internal/platform/metrics"
	"kadry/pkg/requestcontext"
)

// Transitioner terminates employees every one of whose employment periods has
// ended before today. Each flip writes the working_status ledger entry
// attributed to the system user and clears the employee's notifications, all
// in one transaction with the status change.
type Transitioner struct {
	tx           service.Tx
	systemUserID int64
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Transitioner)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Transitioner) { t.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Transitioner) { t.metrics = m }
}

func New(tx service.Tx, systemUserID int64, opts ...Option) (*Transitioner, error) {
	if tx == nil {
		return nil, fmt.Errorf("status transitioner: tx runner is required")
	}
	t := &Transitioner{
		tx:           tx,
		systemUserID: systemUserID,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

// Run executes one sweep and reports how many employees it terminated.
func (t *Transitioner) Run(ctx context.Context) (int, error) {
	now := requestcontext.Now(ctx)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var terminated int
	err := t.tx.RunInTx(ctx, func(st service.Stores) error {
		candidates, err := st.HR.TerminatableEmployees(ctx, today)
		if err != nil {
			return fmt.Errorf("status sweep: list candidates: %w", err)
		}

		rec := history.NewRecorder(st.History)
		for i := range candidates {
			emp := candidates[i]
			before := emp.Snapshot()
			emp.WorkingStatus = models.StatusTerminated

			if err := st.HR.UpdateEmployee(ctx, &emp); err != nil {
				return fmt.Errorf("status sweep: terminate employee %d: %w", emp.ID, err)
			}
			if err := rec.RecordUpdate(ctx, emp.HistoryRef(), before, emp.Snapshot(), history.AsUser(t.systemUserID)); err != nil {
				return fmt.Errorf("status sweep: record employee %d: %w", emp.ID, err)
			}
			if err := st.Notify.DeleteForEmployee(ctx, emp.ID); err != nil {
				return fmt.Errorf("status sweep: clear notifications for employee %d: %w", emp.ID, err)
			}

			terminated++
			t.logger.InfoContext(ctx, "employee terminated by status sweep",
				slog.Int64("employee_id", emp.ID),
			)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if t.metrics != nil {
		t.metrics.EmployeesTerminated.Add(float64(terminated))
	}
	return terminated, nil
}
