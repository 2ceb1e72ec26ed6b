package history

import (
	"context"
	"database/sql"
	"fmt"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same store code serves both standalone reads and transaction-scoped writes.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresStore persists the change ledger in PostgreSQL.
type PostgresStore struct {
	q querier
}

// NewPostgres constructs a store over a connection pool.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{q: db}
}

// NewPostgresTx constructs a store scoped to an open transaction, so ledger
// appends commit or roll back together with the primary mutation.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{q: tx}
}

func (s *PostgresStore) Append(ctx context.Context, entries ...Entry) error {
	query := `
		INSERT INTO history (entity_kind, entity_id, field_name, old_value, new_value, action, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, e := range entries {
		var changedBy sql.NullInt64
		if e.ChangedBy != nil {
			changedBy = sql.NullInt64{Int64: *e.ChangedBy, Valid: true}
		}
		_, err := s.q.ExecContext(ctx, query,
			string(e.Entity.Kind), e.Entity.ID, e.FieldName, e.OldValue, e.NewValue,
			string(e.Action), changedBy, e.ChangedAt,
		)
		if err != nil {
			return fmt.Errorf("append history: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListByEntity(ctx context.Context, ref EntityRef) ([]Entry, error) {
	query := `
		SELECT id, entity_kind, entity_id, field_name, old_value, new_value, action, changed_by, changed_at
		FROM history
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY changed_at DESC, id DESC
	`
	rows, err := s.q.QueryContext(ctx, query, string(ref.Kind), ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind, action string
		var changedBy sql.NullInt64
		if err := rows.Scan(&e.ID, &kind, &e.Entity.ID, &e.FieldName, &e.OldValue, &e.NewValue, &action, &changedBy, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.Entity.Kind = EntityKind(kind)
		e.Action = Action(action)
		if changedBy.Valid {
			e.ChangedBy = &changedBy.Int64
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) PurgeEntity(ctx context.Context, ref EntityRef) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM history WHERE entity_kind = $1 AND entity_id = $2`,
		string(ref.Kind), ref.ID,
	)
	if err != nil {
		return fmt.Errorf("purge history: %w", err)
	}
	return nil
}
