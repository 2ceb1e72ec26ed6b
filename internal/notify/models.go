package notify

import (
	"fmt"
	"time"

	"kadry/internal/hr/models"
)

// Kind discriminates which source record a notification is about.
type Kind string

const (
	KindDocument   Kind = "document"
	KindWorkPermit Kind = "work_permit"
)

// Fallback slots for messages when the source record leaves them blank.
const (
	unknownDocType  = "Невідомий"
	unknownDocumber = "Не вказано"
)

// Notification warns about one expiring Document or WorkPermit. Exactly one
// of DocumentID/WorkPermitID is set; the constructors below are the only way
// notifications come into being, so the invariant holds by construction.
// DaysLeft and Message are written at creation and afterwards only touched by
// the daily aging job.
type Notification struct {
	ID           int64
	EmployeeID   int64
	Kind         Kind
	DocumentID   *int64
	WorkPermitID *int64
	DaysLeft     int
	Message      string
	CreatedAt    time.Time
}

// ForDocument builds the creation-time notification for an expiring document.
func ForDocument(doc models.Document, today time.Time) Notification {
	daysLeft := daysBetween(today, *doc.ValidUntil)
	docID := doc.ID
	return Notification{
		EmployeeID: doc.EmployeeID,
		Kind:       KindDocument,
		DocumentID: &docID,
		DaysLeft:   daysLeft,
		Message: fmt.Sprintf("Документ %s №%s закінчується через %d днів (до %s).",
			orDefault(doc.DocType, unknownDocType),
			orDefault(doc.Number, unknownDocumber),
			daysLeft,
			doc.ValidUntil.Format("2006-01-02")),
	}
}

// ForWorkPermit builds the creation-time notification for an expiring work
// permit. Permits have no number, and the message reflects that.
func ForWorkPermit(permit models.WorkPermit, today time.Time) Notification {
	daysLeft := daysBetween(today, *permit.EndDate)
	permitID := permit.ID
	return Notification{
		EmployeeID:   permit.EmployeeID,
		Kind:         KindWorkPermit,
		WorkPermitID: &permitID,
		DaysLeft:     daysLeft,
		Message: fmt.Sprintf("Документ %s закінчується через %d днів (до %s).",
			orDefault(permit.DocType, unknownDocType),
			daysLeft,
			permit.EndDate.Format("2006-01-02")),
	}
}

// agedMessage is the reduced form the daily aging job re-renders. It is used
// for both documents and work permits, number slot included either way; the
// exact string is load-bearing for downstream consumers.
func agedMessage(docType, number *string, daysLeft int) string {
	return fmt.Sprintf("Документ %s № %s мине через %d днів.",
		orDefault(docType, unknownDocType),
		orDefault(number, unknownDocumber),
		daysLeft)
}

func orDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// dateOf strips the time-of-day so window comparisons are calendar-date
// comparisons regardless of the tick's wall-clock hour.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from one date to another.
func daysBetween(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from)).Hours() / 24)
}
