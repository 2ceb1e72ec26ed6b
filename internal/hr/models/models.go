// Package models holds the HR aggregate: Employee and the sub-records it
// owns. Every tracked entity implements history.Auditable so the service
// layer can diff and record mutations without knowing entity internals.
package models

import (
	"fmt"
	"time"

	"kadry/internal/history"
)

// WorkingStatus enumerates the employment states. The literals are the ones
// the rest of the system matches on (filters, notification suppression), so
// they are kept verbatim.
type WorkingStatus string

const (
	StatusEmployed      WorkingStatus = "Pracujący"
	StatusTerminated    WorkingStatus = "Zwolniony"
	StatusUnderContract WorkingStatus = "Umowa o prace"
	StatusRoleChanged   WorkingStatus = "Zmiana stanowiska"
)

// Valid reports whether s is one of the known statuses.
func (s WorkingStatus) Valid() bool {
	switch s {
	case StatusEmployed, StatusTerminated, StatusUnderContract, StatusRoleChanged:
		return true
	}
	return false
}

// Employee is the aggregate root. All sub-records cascade-delete with it.
type Employee struct {
	ID                    int64
	FirstName             string
	LastName              string
	Age                   *int
	IsStudent             bool
	Pesel                 *string
	PeselURK              bool
	Workplace             *string
	Pit2                  bool
	WorkingStatus         WorkingStatus
	AdditionalInformation *string
	StudentEndDate        *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (e *Employee) HistoryRef() history.EntityRef {
	return history.EntityRef{Kind: history.KindEmployee, ID: e.ID}
}

func (e *Employee) DisplayString() string {
	return fmt.Sprintf("%s %s", e.FirstName, e.LastName)
}

// Snapshot lists the tracked fields. CreatedAt/UpdatedAt are auto-maintained
// and excluded so they never show up as diffs.
func (e *Employee) Snapshot() history.Snapshot {
	return history.Snapshot{
		{Name: "first_name", Value: history.Text(&e.FirstName)},
		{Name: "last_name", Value: history.Text(&e.LastName)},
		{Name: "age", Value: history.NullInt(e.Age)},
		{Name: "is_student", Value: history.Bool(e.IsStudent)},
		{Name: "pesel", Value: history.Text(e.Pesel)},
		{Name: "pesel_urk", Value: history.Bool(e.PeselURK)},
		{Name: "workplace", Value: history.Text(e.Workplace)},
		{Name: "pit_2", Value: history.Bool(e.Pit2)},
		{Name: "working_status", Value: string(e.WorkingStatus)},
		{Name: "additional_information", Value: history.Text(e.AdditionalInformation)},
		{Name: "student_end_date", Value: history.Date(e.StudentEndDate)},
	}
}

// EmploymentPeriod is one span of employment; a nil EndDate means ongoing.
type EmploymentPeriod struct {
	ID         int64
	EmployeeID int64
	StartDate  time.Time
	EndDate    *time.Time
}

func (p *EmploymentPeriod) HistoryRef() history.EntityRef {
	return history.EntityRef{Kind: history.KindEmploymentPeriod, ID: p.ID}
}

func (p *EmploymentPeriod) DisplayString() string {
	start := p.StartDate.Format("2006-01-02")
	if p.EndDate == nil {
		return start + " -"
	}
	return start + " - " + p.EndDate.Format("2006-01-02")
}

func (p *EmploymentPeriod) Snapshot() history.Snapshot {
	return history.Snapshot{
		{Name: "employee", Value: history.Int64(p.EmployeeID)},
		{Name: "start_date", Value: history.Date(&p.StartDate)},
		{Name: "end_date", Value: history.Date(p.EndDate)},
	}
}

// Document carries an optional expiry date. Nil ValidUntil means it never
// expires and never notifies.
type Document struct {
	ID         int64
	EmployeeID int64
	DocType    *string
	Number     *string
	ValidUntil *time.Time
}

func (d *Document) HistoryRef() history.EntityRef {
	return history.EntityRef{Kind: history.KindDocument, ID: d.ID}
}

func (d *Document) DisplayString() string {
	return fmt.Sprintf("%s №%s", history.Text(d.DocType), history.Text(d.Number))
}

func (d *Document) Snapshot() history.Snapshot {
	return history.Snapshot{
		{Name: "employee", Value: history.Int64(d.EmployeeID)},
		{Name: "doc_type", Value: history.Text(d.DocType)},
		{Name: "number", Value: history.Text(d.Number)},
		{Name: "valid_until", Value: history.Date(d.ValidUntil)},
	}
}

// WorkPermit is like Document but has no number field.
type WorkPermit struct {
	ID         int64
	EmployeeID int64
	DocType    *string
	EndDate    *time.Time
}

func (w *WorkPermit) HistoryRef() history.EntityRef {
	return history.EntityRef{Kind: history.KindWorkPermit, ID: w.ID}
}

func (w *WorkPermit) DisplayString() string {
	return history.Text(w.DocType)
}

func (w *WorkPermit) Snapshot() history.Snapshot {
	return history.Snapshot{
		{Name: "employee", Value: history.Int64(w.EmployeeID)},
		{Name: "doc_type", Value: history.Text(w.DocType)},
		{Name: "end_date", Value: history.Date(w.EndDate)},
	}
}

// CardSubmission records when a card of a given type was handed in.
type CardSubmission struct {
	ID         int64
	EmployeeID int64
	DocType    *string
	StartDate  *time.Time
}

func (c *CardSubmission) HistoryRef() history.EntityRef {
	return history.EntityRef{Kind: history.KindCardSubmission, ID: c.ID}
}

func (c *CardSubmission) DisplayString() string {
	return history.Text(c.DocType)
}

func (c *CardSubmission) Snapshot() history.Snapshot {
	return history.Snapshot{
		{Name: "employee", Value: history.Int64(c.EmployeeID)},
		{Name: "doc_type", Value: history.Text(c.DocType)},
		{Name: "start_date", Value: history.Date(c.StartDate)},
	}
}

// ContractType enumerates the employment contract forms.
type ContractType string

const (
	ContractOPrace   ContractType = "o_prace"
	ContractZlecenia ContractType = "zlecenia"
)

type Contract struct {
	ID           int64
	EmployeeID   int64
	ContractType ContractType
}

func (c *Contract) HistoryRef() history.EntityRef {
	return history.EntityRef{Kind: history.KindContract, ID: c.ID}
}

func (c *Contract) DisplayString() string {
	return string(c.ContractType)
}

func (c *Contract) Snapshot() history.Snapshot {
	return history.Snapshot{
		{Name: "employee", Value: history.Int64(c.EmployeeID)},
		{Name: "contract_type", Value: string(c.ContractType)},
	}
}

// Sanepid tracks sanitary-epidemiological checks.
type Sanepid struct {
	ID         int64
	EmployeeID int64
	Status     *string
	DocType    *string
	EndDate    *time.Time
}

func (s *Sanepid) HistoryRef() history.EntityRef {
	return history.EntityRef{Kind: history.KindSanepid, ID: s.ID}
}

func (s *Sanepid) DisplayString() string {
	return history.Text(s.DocType)
}

func (s *Sanepid) Snapshot() history.Snapshot {
	return history.Snapshot{
		{Name: "employee", Value: history.Int64(s.EmployeeID)},
		{Name: "status", Value: history.Text(s.Status)},
		{Name: "doc_type", Value: history.Text(s.DocType)},
		{Name: "end_date", Value: history.Date(s.EndDate)},
	}
}

// ContactType enumerates contact channels.
type ContactType string

const (
	ContactPhone ContactType = "phone"
	ContactEmail ContactType = "email"
	ContactViber ContactType = "viber"
)

type Contact struct {
	ID          int64
	EmployeeID  int64
	ContactType ContactType
	Value       *string
}

func (c *Contact) HistoryRef() history.EntityRef {
	return history.EntityRef{Kind: history.KindContact, ID: c.ID}
}

func (c *Contact) DisplayString() string {
	return fmt.Sprintf("%s: %s", c.ContactType, history.Text(c.Value))
}

func (c *Contact) Snapshot() history.Snapshot {
	return history.Snapshot{
		{Name: "employee", Value: history.Int64(c.EmployeeID)},
		{Name: "contact_type", Value: string(c.ContactType)},
		{Name: "value", Value: history.Text(c.Value)},
	}
}
