package service

import "context"

// InMemoryTx hands every write the same shared stores. There is no rollback:
// a failing step can leave earlier steps applied. Good enough for tests and
// the no-database development mode.
type InMemoryTx struct {
	stores Stores
}

func NewInMemoryTx(stores Stores) *InMemoryTx {
	return &InMemoryTx{stores: stores}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(s Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t.stores)
}
