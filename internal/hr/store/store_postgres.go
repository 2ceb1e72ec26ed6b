package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kadry/internal/hr/models"
	"kadry/pkg/sentinel"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists the HR aggregate in PostgreSQL. Construct over the
// pool for reads, or over an open transaction for the audited write paths.
type PostgresStore struct {
	q querier
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{q: db}
}

func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{q: tx}
}

const employeeColumns = `id, first_name, last_name, age, is_student, pesel, pesel_urk, workplace,
	pit_2, working_status, additional_information, student_end_date, created_at, updated_at`

// ---------------------------------------------------------------------------
// Employees
// ---------------------------------------------------------------------------

func (s *PostgresStore) CreateEmployee(ctx context.Context, e *models.Employee) error {
	query := `
		INSERT INTO employees (first_name, last_name, age, is_student, pesel, pesel_urk, workplace,
			pit_2, working_status, additional_information, student_end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := s.q.QueryRowContext(ctx, query,
		e.FirstName, e.LastName, e.Age, e.IsStudent, e.Pesel, e.PeselURK, e.Workplace,
		e.Pit2, string(e.WorkingStatus), e.AdditionalInformation, e.StudentEndDate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) Employee(ctx context.Context, id int64) (*models.Employee, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func (s *PostgresStore) EmployeeForUpdate(ctx context.Context, id int64) (*models.Employee, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1 FOR UPDATE`, id)
	return scanEmployee(row)
}

func (s *PostgresStore) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		e, err := scanEmployeeRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	query := `
		UPDATE employees
		SET first_name = $2, last_name = $3, age = $4, is_student = $5, pesel = $6, pesel_urk = $7,
			workplace = $8, pit_2 = $9, working_status = $10, additional_information = $11,
			student_end_date = $12, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.q.ExecContext(ctx, query,
		e.ID, e.FirstName, e.LastName, e.Age, e.IsStudent, e.Pesel, e.PeselURK,
		e.Workplace, e.Pit2, string(e.WorkingStatus), e.AdditionalInformation, e.StudentEndDate,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return requireRow(result, "update employee")
}

func (s *PostgresStore) DeleteEmployee(ctx context.Context, id int64) error {
	// Sub-records and notifications go with the employee via ON DELETE CASCADE.
	result, err := s.q.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return requireRow(result, "delete employee")
}

func (s *PostgresStore) TerminatableEmployees(ctx context.Context, today time.Time) ([]models.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.working_status <> $1
		  AND EXISTS (SELECT 1 FROM employment_periods p WHERE p.employee_id = e.id)
		  AND NOT EXISTS (SELECT 1 FROM employment_periods p WHERE p.employee_id = e.id AND p.end_date IS NULL)
		  AND (SELECT MAX(p.end_date) FROM employment_periods p WHERE p.employee_id = e.id) < $2
		ORDER BY e.id
	`
	rows, err := s.q.QueryContext(ctx, query, string(models.StatusTerminated), today)
	if err != nil {
		return nil, fmt.Errorf("list terminatable employees: %w", err)
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		e, err := scanEmployeeRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate terminatable employees: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

const documentColumns = `id, employee_id, doc_type, number, valid_until`

func (s *PostgresStore) CreateDocument(ctx context.Context, d *models.Document) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO documents (employee_id, doc_type, number, valid_until) VALUES ($1, $2, $3, $4) RETURNING id`,
		d.EmployeeID, d.DocType, d.Number, d.ValidUntil,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Document(ctx context.Context, id int64) (*models.Document, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	var d models.Document
	var validUntil sql.NullTime
	if err := row.Scan(&d.ID, &d.EmployeeID, &d.DocType, &d.Number, &validUntil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if validUntil.Valid {
		d.ValidUntil = &validUntil.Time
	}
	return &d, nil
}

func (s *PostgresStore) DocumentsByEmployee(ctx context.Context, employeeID int64) ([]models.Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE employee_id = $1 ORDER BY id`, employeeID)
}

func (s *PostgresStore) UpdateDocument(ctx context.Context, d *models.Document) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE documents SET doc_type = $2, number = $3, valid_until = $4 WHERE id = $1`,
		d.ID, d.DocType, d.Number, d.ValidUntil)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return requireRow(result, "update document")
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return requireRow(result, "delete document")
}

func (s *PostgresStore) ExpiringDocuments(ctx context.Context, from, to time.Time) ([]models.Document, error) {
	query := `
		SELECT d.id, d.employee_id, d.doc_type, d.number, d.valid_until
		FROM documents d
		JOIN employees e ON e.id = d.employee_id
		WHERE d.valid_until IS NOT NULL
		  AND d.valid_until >= $1 AND d.valid_until <= $2
		  AND e.working_status <> $3
		ORDER BY d.id
	`
	return s.queryDocuments(ctx, query, from, to, string(models.StatusTerminated))
}

func (s *PostgresStore) queryDocuments(ctx context.Context, query string, args ...any) ([]models.Document, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		var validUntil sql.NullTime
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.DocType, &d.Number, &validUntil); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if validUntil.Valid {
			d.ValidUntil = &validUntil.Time
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Work permits
// ---------------------------------------------------------------------------

func (s *PostgresStore) CreateWorkPermit(ctx context.Context, w *models.WorkPermit) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO work_permits (employee_id, doc_type, end_date) VALUES ($1, $2, $3) RETURNING id`,
		w.EmployeeID, w.DocType, w.EndDate,
	).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("create work permit: %w", err)
	}
	return nil
}

func (s *PostgresStore) WorkPermit(ctx context.Context, id int64) (*models.WorkPermit, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, employee_id, doc_type, end_date FROM work_permits WHERE id = $1`, id)
	var w models.WorkPermit
	var endDate sql.NullTime
	if err := row.Scan(&w.ID, &w.EmployeeID, &w.DocType, &endDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get work permit: %w", err)
	}
	if endDate.Valid {
		w.EndDate = &endDate.Time
	}
	return &w, nil
}

func (s *PostgresStore) WorkPermitsByEmployee(ctx context.Context, employeeID int64) ([]models.WorkPermit, error) {
	return s.queryWorkPermits(ctx,
		`SELECT id, employee_id, doc_type, end_date FROM work_permits WHERE employee_id = $1 ORDER BY id`,
		employeeID)
}

func (s *PostgresStore) UpdateWorkPermit(ctx context.Context, w *models.WorkPermit) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE work_permits SET doc_type = $2, end_date = $3 WHERE id = $1`,
		w.ID, w.DocType, w.EndDate)
	if err != nil {
		return fmt.Errorf("update work permit: %w", err)
	}
	return requireRow(result, "update work permit")
}

func (s *PostgresStore) DeleteWorkPermit(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM work_permits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete work permit: %w", err)
	}
	return requireRow(result, "delete work permit")
}

func (s *PostgresStore) ExpiringWorkPermits(ctx context.Context, from, to time.Time) ([]models.WorkPermit, error) {
	query := `
		SELECT w.id, w.employee_id, w.doc_type, w.end_date
		FROM work_permits w
		JOIN employees e ON e.id = w.employee_id
		WHERE w.end_date IS NOT NULL
		  AND w.end_date >= $1 AND w.end_date <= $2
		  AND e.working_status <> $3
		ORDER BY w.id
	`
	return s.queryWorkPermits(ctx, query, from, to, string(models.StatusTerminated))
}

func (s *PostgresStore) queryWorkPermits(ctx context.Context, query string, args ...any) ([]models.WorkPermit, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work permits: %w", err)
	}
	defer rows.Close()

	var out []models.WorkPermit
	for rows.Next() {
		var w models.WorkPermit
		var endDate sql.NullTime
		if err := rows.Scan(&w.ID, &w.EmployeeID, &w.DocType, &endDate); err != nil {
			return nil, fmt.Errorf("scan work permit: %w", err)
		}
		if endDate.Valid {
			w.EndDate = &endDate.Time
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work permits: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Employment periods
// ---------------------------------------------------------------------------

func (s *PostgresStore) CreateEmploymentPeriod(ctx context.Context, p *models.EmploymentPeriod) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO employment_periods (employee_id, start_date, end_date) VALUES ($1, $2, $3) RETURNING id`,
		p.EmployeeID, p.StartDate, p.EndDate,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create employment period: %w", err)
	}
	return nil
}

func (s *PostgresStore) EmploymentPeriod(ctx context.Context, id int64) (*models.EmploymentPeriod, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, employee_id, start_date, end_date FROM employment_periods WHERE id = $1`, id)
	var p models.EmploymentPeriod
	var endDate sql.NullTime
	if err := row.Scan(&p.ID, &p.EmployeeID, &p.StartDate, &endDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get employment period: %w", err)
	}
	if endDate.Valid {
		p.EndDate = &endDate.Time
	}
	return &p, nil
}

func (s *PostgresStore) EmploymentPeriodsByEmployee(ctx context.Context, employeeID int64) ([]models.EmploymentPeriod, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, employee_id, start_date, end_date FROM employment_periods WHERE employee_id = $1 ORDER BY start_date`,
		employeeID)
	if err != nil {
		return nil, fmt.Errorf("list employment periods: %w", err)
	}
	defer rows.Close()

	var out []models.EmploymentPeriod
	for rows.Next() {
		var p models.EmploymentPeriod
		var endDate sql.NullTime
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.StartDate, &endDate); err != nil {
			return nil, fmt.Errorf("scan employment period: %w", err)
		}
		if endDate.Valid {
			p.EndDate = &endDate.Time
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employment periods: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateEmploymentPeriod(ctx context.Context, p *models.EmploymentPeriod) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE employment_periods SET start_date = $2, end_date = $3 WHERE id = $1`,
		p.ID, p.StartDate, p.EndDate)
	if err != nil {
		return fmt.Errorf("update employment period: %w", err)
	}
	return requireRow(result, "update employment period")
}

func (s *PostgresStore) DeleteEmploymentPeriod(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM employment_periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employment period: %w", err)
	}
	return requireRow(result, "delete employment period")
}

// ---------------------------------------------------------------------------
// Card submissions, contracts, sanepids, contacts
// ---------------------------------------------------------------------------

func (s *PostgresStore) CreateCardSubmission(ctx context.Context, c *models.CardSubmission) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO card_submissions (employee_id, doc_type, start_date) VALUES ($1, $2, $3) RETURNING id`,
		c.EmployeeID, c.DocType, c.StartDate,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create card submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) CardSubmission(ctx context.Context, id int64) (*models.CardSubmission, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, employee_id, doc_type, start_date FROM card_submissions WHERE id = $1`, id)
	var c models.CardSubmission
	var startDate sql.NullTime
	if err := row.Scan(&c.ID, &c.EmployeeID, &c.DocType, &startDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get card submission: %w", err)
	}
	if startDate.Valid {
		c.StartDate = &startDate.Time
	}
	return &c, nil
}

func (s *PostgresStore) CardSubmissionsByEmployee(ctx context.Context, employeeID int64) ([]models.CardSubmission, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, employee_id, doc_type, start_date FROM card_submissions WHERE employee_id = $1 ORDER BY id`,
		employeeID)
	if err != nil {
		return nil, fmt.Errorf("list card submissions: %w", err)
	}
	defer rows.Close()

	var out []models.CardSubmission
	for rows.Next() {
		var c models.CardSubmission
		var startDate sql.NullTime
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.DocType, &startDate); err != nil {
			return nil, fmt.Errorf("scan card submission: %w", err)
		}
		if startDate.Valid {
			c.StartDate = &startDate.Time
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card submissions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteCardSubmission(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM card_submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete card submission: %w", err)
	}
	return requireRow(result, "delete card submission")
}

func (s *PostgresStore) CreateContract(ctx context.Context, c *models.Contract) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO contracts (employee_id, contract_type) VALUES ($1, $2) RETURNING id`,
		c.EmployeeID, string(c.ContractType),
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	return nil
}

func (s *PostgresStore) Contract(ctx context.Context, id int64) (*models.Contract, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, employee_id, contract_type FROM contracts WHERE id = $1`, id)
	var c models.Contract
	var contractType string
	if err := row.Scan(&c.ID, &c.EmployeeID, &contractType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get contract: %w", err)
	}
	c.ContractType = models.ContractType(contractType)
	return &c, nil
}

func (s *PostgresStore) ContractsByEmployee(ctx context.Context, employeeID int64) ([]models.Contract, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, employee_id, contract_type FROM contracts WHERE employee_id = $1 ORDER BY id`,
		employeeID)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var out []models.Contract
	for rows.Next() {
		var c models.Contract
		var contractType string
		if err := rows.Scan(&c.ID, &c.EmployeeID, &contractType); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		c.ContractType = models.ContractType(contractType)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteContract(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}
	return requireRow(result, "delete contract")
}

func (s *PostgresStore) CreateSanepid(ctx context.Context, sp *models.Sanepid) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO sanepids (employee_id, status, doc_type, end_date) VALUES ($1, $2, $3, $4) RETURNING id`,
		sp.EmployeeID, sp.Status, sp.DocType, sp.EndDate,
	).Scan(&sp.ID)
	if err != nil {
		return fmt.Errorf("create sanepid: %w", err)
	}
	return nil
}

func (s *PostgresStore) Sanepid(ctx context.Context, id int64) (*models.Sanepid, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, employee_id, status, doc_type, end_date FROM sanepids WHERE id = $1`, id)
	var sp models.Sanepid
	var endDate sql.NullTime
	if err := row.Scan(&sp.ID, &sp.EmployeeID, &sp.Status, &sp.DocType, &endDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get sanepid: %w", err)
	}
	if endDate.Valid {
		sp.EndDate = &endDate.Time
	}
	return &sp, nil
}

func (s *PostgresStore) SanepidsByEmployee(ctx context.Context, employeeID int64) ([]models.Sanepid, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, employee_id, status, doc_type, end_date FROM sanepids WHERE employee_id = $1 ORDER BY id`,
		employeeID)
	if err != nil {
		return nil, fmt.Errorf("list sanepids: %w", err)
	}
	defer rows.Close()

	var out []models.Sanepid
	for rows.Next() {
		var sp models.Sanepid
		var endDate sql.NullTime
		if err := rows.Scan(&sp.ID, &sp.EmployeeID, &sp.Status, &sp.DocType, &endDate); err != nil {
			return nil, fmt.Errorf("scan sanepid: %w", err)
		}
		if endDate.Valid {
			sp.EndDate = &endDate.Time
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sanepids: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteSanepid(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM sanepids WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sanepid: %w", err)
	}
	return requireRow(result, "delete sanepid")
}

func (s *PostgresStore) CreateContact(ctx context.Context, c *models.Contact) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO contacts (employee_id, contact_type, value) VALUES ($1, $2, $3) RETURNING id`,
		c.EmployeeID, string(c.ContactType), c.Value,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) Contact(ctx context.Context, id int64) (*models.Contact, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, employee_id, contact_type, value FROM contacts WHERE id = $1`, id)
	var c models.Contact
	var contactType string
	if err := row.Scan(&c.ID, &c.EmployeeID, &contactType, &c.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	c.ContactType = models.ContactType(contactType)
	return &c, nil
}

func (s *PostgresStore) ContactsByEmployee(ctx context.Context, employeeID int64) ([]models.Contact, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, employee_id, contact_type, value FROM contacts WHERE employee_id = $1 ORDER BY id`,
		employeeID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []models.Contact
	for rows.Next() {
		var c models.Contact
		var contactType string
		if err := rows.Scan(&c.ID, &c.EmployeeID, &contactType, &c.Value); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.ContactType = models.ContactType(contactType)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return requireRow(result, "delete contact")
}

// ---------------------------------------------------------------------------
// Scan helpers
// ---------------------------------------------------------------------------

type employeeRow interface {
	Scan(dest ...any) error
}

func scanEmployee(row *sql.Row) (*models.Employee, error) {
	e, err := scanEmployeeFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func scanEmployeeRows(rows *sql.Rows) (*models.Employee, error) {
	e, err := scanEmployeeFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return e, nil
}

func scanEmployeeFrom(row employeeRow) (*models.Employee, error) {
	var e models.Employee
	var age sql.NullInt64
	var workingStatus string
	var studentEndDate sql.NullTime
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &age, &e.IsStudent, &e.Pesel, &e.PeselURK,
		&e.Workplace, &e.Pit2, &workingStatus, &e.AdditionalInformation, &studentEndDate,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if age.Valid {
		a := int(age.Int64)
		e.Age = &a
	}
	e.WorkingStatus = models.WorkingStatus(workingStatus)
	if studentEndDate.Valid {
		e.StudentEndDate = &studentEndDate.Time
	}
	return &e, nil
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
