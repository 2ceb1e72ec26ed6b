// Package store persists the HR aggregate. The Store interface is satisfied
// by the PostgreSQL implementation (production, optionally transaction
// scoped) and the in-memory implementation (tests). Missing rows surface as
// sentinel.ErrNotFound.
package store

import (
	"context"
	"time"

	"kadry/internal/hr/models"
)

type Store interface {
	// Employees.
	CreateEmployee(ctx context.Context, e *models.Employee) error
	Employee(ctx context.Context, id int64) (*models.Employee, error)
	// EmployeeForUpdate reads the row with a row-level lock when running
	// inside a transaction, closing the race between two concurrent editors
	// both observing the pre-transition state.
	EmployeeForUpdate(ctx context.Context, id int64) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, e *models.Employee) error
	// DeleteEmployee removes the employee and, by cascade, every sub-record.
	DeleteEmployee(ctx context.Context, id int64) error
	// TerminatableEmployees returns non-terminated employees all of whose
	// employment periods have ended, the latest strictly before today.
	TerminatableEmployees(ctx context.Context, today time.Time) ([]models.Employee, error)

	// Documents.
	CreateDocument(ctx context.Context, d *models.Document) error
	Document(ctx context.Context, id int64) (*models.Document, error)
	DocumentsByEmployee(ctx context.Context, employeeID int64) ([]models.Document, error)
	UpdateDocument(ctx context.Context, d *models.Document) error
	DeleteDocument(ctx context.Context, id int64) error
	ExpiringDocuments(ctx context.Context, from, to time.Time) ([]models.Document, error)

	// Work permits.
	CreateWorkPermit(ctx context.Context, w *models.WorkPermit) error
	WorkPermit(ctx context.Context, id int64) (*models.WorkPermit, error)
	WorkPermitsByEmployee(ctx context.Context, employeeID int64) ([]models.WorkPermit, error)
	UpdateWorkPermit(ctx context.Context, w *models.WorkPermit) error
	DeleteWorkPermit(ctx context.Context, id int64) error
	ExpiringWorkPermits(ctx context.Context, from, to time.Time) ([]models.WorkPermit, error)

	// Employment periods.
	CreateEmploymentPeriod(ctx context.Context, p *models.EmploymentPeriod) error
	EmploymentPeriod(ctx context.Context, id int64) (*models.EmploymentPeriod, error)
	EmploymentPeriodsByEmployee(ctx context.Context, employeeID int64) ([]models.EmploymentPeriod, error)
	UpdateEmploymentPeriod(ctx context.Context, p *models.EmploymentPeriod) error
	DeleteEmploymentPeriod(ctx context.Context, id int64) error

	// Remaining sub-records get create/list/get/delete; their edit forms
	// recreate rather than update.
	CreateCardSubmission(ctx context.Context, c *models.CardSubmission) error
	CardSubmission(ctx context.Context, id int64) (*models.CardSubmission, error)
	CardSubmissionsByEmployee(ctx context.Context, employeeID int64) ([]models.CardSubmission, error)
	DeleteCardSubmission(ctx context.Context, id int64) error

	CreateContract(ctx context.Context, c *models.Contract) error
	Contract(ctx context.Context, id int64) (*models.Contract, error)
	ContractsByEmployee(ctx context.Context, employeeID int64) ([]models.Contract, error)
	DeleteContract(ctx context.Context, id int64) error

	CreateSanepid(ctx context.Context, s *models.Sanepid) error
	Sanepid(ctx context.Context, id int64) (*models.Sanepid, error)
	SanepidsByEmployee(ctx context.Context, employeeID int64) ([]models.Sanepid, error)
	DeleteSanepid(ctx context.Context, id int64) error

	CreateContact(ctx context.Context, c *models.Contact) error
	Contact(ctx context.Context, id int64) (*models.Contact, error)
	ContactsByEmployee(ctx context.Context, employeeID int64) ([]models.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}
