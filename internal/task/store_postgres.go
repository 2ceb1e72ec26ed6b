package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kadry/pkg/sentinel"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresStore struct {
	q querier
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{q: db}
}

func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{q: tx}
}

const taskColumns = `id, title, description, priority, status, created_by, taken_by, created_at, updated_at, completed_at`

func (s *PostgresStore) Create(ctx context.Context, t *Task) error {
	query := `
		INSERT INTO tasks (title, description, priority, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := s.q.QueryRowContext(ctx, query,
		t.Title, t.Description, string(t.Priority), string(t.Status), t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*Task, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

func (s *PostgresStore) GetForUpdate(ctx context.Context, id int64) (*Task, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
}

func (s *PostgresStore) List(ctx context.Context) ([]Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status Status) ([]Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE status = $1 ORDER BY id`, string(status))
}

func (s *PostgresStore) Update(ctx context.Context, t *Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, status = $5, taken_by = $6,
			completed_at = $7, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.q.ExecContext(ctx, query,
		t.ID, t.Title, t.Description, string(t.Priority), string(t.Status), t.TakenBy, t.CompletedAt)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) scanOne(row *sql.Row) (*Task, error) {
	var t Task
	var priority, status string
	var takenBy sql.NullInt64
	var completedAt sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &status, &t.CreatedBy,
		&takenBy, &t.CreatedAt, &t.UpdatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	t.Priority = Priority(priority)
	t.Status = Status(status)
	if takenBy.Valid {
		t.TakenBy = &takenBy.Int64
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		var priority, status string
		var takenBy sql.NullInt64
		var completedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &priority, &status, &t.CreatedBy,
			&takenBy, &t.CreatedAt, &t.UpdatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Priority = Priority(priority)
		t.Status = Status(status)
		if takenBy.Valid {
			t.TakenBy = &takenBy.Int64
		}
		if completedAt.Valid {
			t.CompletedAt = &completedAt.Time
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}
