package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists notifications in PostgreSQL. It works over either a
// pool or an open transaction so write-path reconciliation joins the
// enclosing mutation's transaction.
type PostgresStore struct {
	q querier
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{q: db}
}

func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{q: tx}
}

const notificationColumns = `id, employee_id, notification_type, document_id, work_permit_id, days_left, message, created_at`

func (s *PostgresStore) Create(ctx context.Context, n *Notification) error {
	if (n.DocumentID == nil) == (n.WorkPermitID == nil) {
		panic(fmt.Sprintf("notification must reference exactly one source record: %+v", n))
	}

	query := `
		INSERT INTO notifications (employee_id, notification_type, document_id, work_permit_id, days_left, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`
	err := s.q.QueryRowContext(ctx, query,
		n.EmployeeID, string(n.Kind), n.DocumentID, n.WorkPermitID, n.DaysLeft, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Notification, error) {
	return s.query(ctx, `SELECT `+notificationColumns+` FROM notifications ORDER BY id`)
}

func (s *PostgresStore) ListByEmployee(ctx context.Context, employeeID int64) ([]Notification, error) {
	return s.query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE employee_id = $1 ORDER BY id`,
		employeeID)
}

func (s *PostgresStore) ExistsForDocument(ctx context.Context, documentID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM notifications WHERE document_id = $1)`, documentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check document notification: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ExistsForWorkPermit(ctx context.Context, workPermitID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM notifications WHERE work_permit_id = $1)`, workPermitID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check work permit notification: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) UpdateAging(ctx context.Context, id int64, daysLeft int, message string) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE notifications SET days_left = $2, message = $3 WHERE id = $1`,
		id, daysLeft, message)
	if err != nil {
		return fmt.Errorf("age notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteForDocument(ctx context.Context, documentID int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM notifications WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("delete document notifications: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteForWorkPermit(ctx context.Context, workPermitID int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM notifications WHERE work_permit_id = $1`, workPermitID)
	if err != nil {
		return fmt.Errorf("delete work permit notifications: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteForEmployee(ctx context.Context, employeeID int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM notifications WHERE employee_id = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("delete employee notifications: %w", err)
	}
	return nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]Notification, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var kind string
		var docID, permitID sql.NullInt64
		var createdAt time.Time
		if err := rows.Scan(&n.ID, &n.EmployeeID, &kind, &docID, &permitID, &n.DaysLeft, &n.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = Kind(kind)
		if docID.Valid {
			n.DocumentID = &docID.Int64
		}
		if permitID.Valid {
			n.WorkPermitID = &permitID.Int64
		}
		n.CreatedAt = createdAt
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}
