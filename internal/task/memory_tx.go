package task

import "context"

// InMemoryTx hands every claim the shared store. The store's mutex serializes
// claims, standing in for row locks.
type InMemoryTx struct {
	store Store
}

func NewInMemoryTx(store Store) *InMemoryTx {
	return &InMemoryTx{store: store}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(s Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t.store)
}
