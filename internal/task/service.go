package task

import (
	"context"
	"fmt"
	"log/slog"

	"kadry/pkg/requestcontext"
	"kadry/pkg/sentinel"
)

// Tx runs fn against a transaction-scoped store. Claims re-read the row under
// a lock inside the transaction, so two simultaneous takers cannot both win.
type Tx interface {
	RunInTx(ctx context.Context, fn func(s Store) error) error
}

// Service owns task lifecycle: anyone creates, one person takes, the taker
// completes.
type Service struct {
	tx     Tx
	reads  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(tx Tx, reads Store, opts ...Option) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("task service: tx runner is required")
	}
	if reads == nil {
		return nil, fmt.Errorf("task service: read store is required")
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

func actorFrom(ctx context.Context) (int64, error) {
	actorID, ok := requestcontext.ActorID(ctx)
	if !ok {
		return 0, fmt.Errorf("task: no actor in context: %w", sentinel.ErrInvalidState)
	}
	return actorID, nil
}

func (s *Service) Create(ctx context.Context, t *Task) error {
	actorID, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	if t.Title == "" {
		return fmt.Errorf("task title is required: %w", sentinel.ErrInvalidState)
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("unknown task priority %q: %w", t.Priority, sentinel.ErrInvalidState)
	}

	t.Status = StatusTodo
	t.CreatedBy = actorID
	t.TakenBy = nil
	t.CompletedAt = nil
	return s.tx.RunInTx(ctx, func(st Store) error {
		return st.Create(ctx, t)
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	return s.reads.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Task, error) {
	return s.reads.List(ctx)
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown task status %q: %w", status, sentinel.ErrInvalidState)
	}
	return s.reads.ListByStatus(ctx, status)
}

// Take claims a task for the request's actor. The row is re-read under a lock
// before the claim is written, so a concurrent taker gets ErrConflict rather
// than silently overwriting the first claim.
func (s *Service) Take(ctx context.Context, id int64) (*Task, error) {
	actorID, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	var taken *Task
	err = s.tx.RunInTx(ctx, func(st Store) error {
		t, err := st.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t.Status == StatusCompleted {
			return fmt.Errorf("task %d is already completed: %w", id, sentinel.ErrInvalidState)
		}
		if t.TakenBy != nil && *t.TakenBy != actorID {
			return fmt.Errorf("task %d is taken by user %d: %w", id, *t.TakenBy, sentinel.ErrConflict)
		}

		t.TakenBy = &actorID
		t.Status = StatusInProgress
		if err := st.Update(ctx, t); err != nil {
			return err
		}
		taken = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "task taken",
		slog.Int64("task_id", id),
		slog.Int64("taken_by", actorID),
	)
	return taken, nil
}

// Complete marks the actor's claimed task as done.
func (s *Service) Complete(ctx context.Context, id int64) (*Task, error) {
	actorID, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	var completed *Task
	err = s.tx.RunInTx(ctx, func(st Store) error {
		t, err := st.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t.Status == StatusCompleted {
			completed = t
			return nil
		}
		if t.TakenBy == nil || *t.TakenBy != actorID {
			return fmt.Errorf("task %d is not taken by user %d: %w", id, actorID, sentinel.ErrConflict)
		}

		now := requestcontext.Now(ctx)
		t.Status = StatusCompleted
		t.CompletedAt = &now
		if err := st.Update(ctx, t); err != nil {
			return err
		}
		completed = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(st Store) error {
		return st.Delete(ctx, id)
	})
}
