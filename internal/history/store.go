package history

import "context"

// Store is the persistence boundary for the change ledger. Implementations
// exist for PostgreSQL (production, transaction-scoped) and in-memory (tests).
type Store interface {
	Append(ctx context.Context, entries ...Entry) error
	// ListByEntity returns the entity's ledger ordered by changed_at
	// descending (newest first), the order history views display.
	ListByEntity(ctx context.Context, ref EntityRef) ([]Entry, error)
	// PurgeEntity removes every ledger row for the entity.
	PurgeEntity(ctx context.Context, ref EntityRef) error
}
