package task

import "context"

// Store persists tasks. Missing rows surface as sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id int64) (*Task, error)
	// GetForUpdate locks the row when running inside a transaction so a
	// claim check and the claim itself are one atomic step.
	GetForUpdate(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context) ([]Task, error)
	ListByStatus(ctx context.Context, status Status) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
}
