package notify

import (
	"context"
	"time"

	"kadry/internal/hr/models"
)

// Store is the persistence boundary for notifications. Each method is a
// single atomic step; the reconciler leans on that for safe re-runs.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context) ([]Notification, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]Notification, error)
	ExistsForDocument(ctx context.Context, documentID int64) (bool, error)
	ExistsForWorkPermit(ctx context.Context, workPermitID int64) (bool, error)
	// UpdateAging is the only mutation path for an existing notification:
	// decremented days_left plus the re-rendered reduced message.
	UpdateAging(ctx context.Context, id int64, daysLeft int, message string) error
	Delete(ctx context.Context, id int64) error
	DeleteForDocument(ctx context.Context, documentID int64) error
	DeleteForWorkPermit(ctx context.Context, workPermitID int64) error
	DeleteForEmployee(ctx context.Context, employeeID int64) error
}

// SourceStore is what the reconciler needs to see of the HR records. The HR
// store satisfies it; tests use the in-memory variant.
type SourceStore interface {
	Employee(ctx context.Context, id int64) (*models.Employee, error)
	Document(ctx context.Context, id int64) (*models.Document, error)
	WorkPermit(ctx context.Context, id int64) (*models.WorkPermit, error)
	DocumentsByEmployee(ctx context.Context, employeeID int64) ([]models.Document, error)
	WorkPermitsByEmployee(ctx context.Context, employeeID int64) ([]models.WorkPermit, error)
	// ExpiringDocuments returns documents with a non-null expiry inside
	// [from, to] whose owning employee is not terminated.
	ExpiringDocuments(ctx context.Context, from, to time.Time) ([]models.Document, error)
	// ExpiringWorkPermits is the work-permit analogue of ExpiringDocuments.
	ExpiringWorkPermits(ctx context.Context, from, to time.Time) ([]models.WorkPermit, error)
}
