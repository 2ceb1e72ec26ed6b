package service

import (
	"context"
	"fmt"

	"kadry/internal/hr/models"
	"kadry/pkg/sentinel"
)

// requireEmployee fails fast when a sub-record targets a missing employee, so
// the caller sees ErrNotFound rather than a foreign key violation.
func requireEmployee(ctx context.Context, st Stores, employeeID int64) error {
	if _, err := st.HR.Employee(ctx, employeeID); err != nil {
		return fmt.Errorf("employee %d: %w", employeeID, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

func (s *Service) CreateDocument(ctx context.Context, d *models.Document) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		if err := requireEmployee(ctx, st, d.EmployeeID); err != nil {
			return err
		}
		if err := st.HR.CreateDocument(ctx, d); err != nil {
			return err
		}
		if err := s.recorder(st).RecordCreate(ctx, d); err != nil {
			return err
		}
		rec, err := s.reconciler(st)
		if err != nil {
			return err
		}
		return rec.Reconcile(ctx, d.EmployeeID)
	})
}

func (s *Service) Document(ctx context.Context, id int64) (*models.Document, error) {
	return s.reads.Document(ctx, id)
}

func (s *Service) DocumentsByEmployee(ctx context.Context, employeeID int64) ([]models.Document, error) {
	return s.reads.DocumentsByEmployee(ctx, employeeID)
}

func (s *Service) UpdateDocument(ctx context.Context, d *models.Document) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		before, err := st.HR.Document(ctx, d.ID)
		if err != nil {
			return err
		}
		d.EmployeeID = before.EmployeeID

		if err := st.HR.UpdateDocument(ctx, d); err != nil {
			return err
		}
		if err := s.recorder(st).RecordUpdate(ctx, d.HistoryRef(), before.Snapshot(), d.Snapshot()); err != nil {
			return err
		}

		// A renewed expiry date must drop the now-stale notification; the
		// reconciler recreates one if the new date is still in window.
		if err := st.Notify.DeleteForDocument(ctx, d.ID); err != nil {
			return err
		}
		rec, err := s.reconciler(st)
		if err != nil {
			return err
		}
		return rec.Reconcile(ctx, d.EmployeeID)
	})
}

func (s *Service) DeleteDocument(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		doc, err := st.HR.Document(ctx, id)
		if err != nil {
			return err
		}
		if err := st.HR.DeleteDocument(ctx, id); err != nil {
			return err
		}
		if err := st.Notify.DeleteForDocument(ctx, id); err != nil {
			return err
		}
		return s.recorder(st).RecordDelete(ctx, doc)
	})
}

// ---------------------------------------------------------------------------
// Work permits
// ---------------------------------------------------------------------------

func (s *Service) CreateWorkPermit(ctx context.Context, w *models.WorkPermit) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		if err := requireEmployee(ctx, st, w.EmployeeID); err != nil {
			return err
		}
		if err := st.HR.CreateWorkPermit(ctx, w); err != nil {
			return err
		}
		if err := s.recorder(st).RecordCreate(ctx, w); err != nil {
			return err
		}
		rec, err := s.reconciler(st)
		if err != nil {
			return err
		}
		return rec.Reconcile(ctx, w.EmployeeID)
	})
}

func (s *Service) WorkPermit(ctx context.Context, id int64) (*models.WorkPermit, error) {
	return s.reads.WorkPermit(ctx, id)
}

func (s *Service) WorkPermitsByEmployee(ctx context.Context, employeeID int64) ([]models.WorkPermit, error) {
	return s.reads.WorkPermitsByEmployee(ctx, employeeID)
}

func (s *Service) UpdateWorkPermit(ctx context.Context, w *models.WorkPermit) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		before, err := st.HR.WorkPermit(ctx, w.ID)
		if err != nil {
			return err
		}
		w.EmployeeID = before.EmployeeID

		if err := st.HR.UpdateWorkPermit(ctx, w); err != nil {
			return err
		}
		if err := s.recorder(st).RecordUpdate(ctx, w.HistoryRef(), before.Snapshot(), w.Snapshot()); err != nil {
			return err
		}

		if err := st.Notify.DeleteForWorkPermit(ctx, w.ID); err != nil {
			return err
		}
		rec, err := s.reconciler(st)
		if err != nil {
			return err
		}
		return rec.Reconcile(ctx, w.EmployeeID)
	})
}

func (s *Service) DeleteWorkPermit(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		permit, err := st.HR.WorkPermit(ctx, id)
		if err != nil {
			return err
		}
		if err := st.HR.DeleteWorkPermit(ctx, id); err != nil {
			return err
		}
		if err := st.Notify.DeleteForWorkPermit(ctx, id); err != nil {
			return err
		}
		return s.recorder(st).RecordDelete(ctx, permit)
	})
}

// ---------------------------------------------------------------------------
// Employment periods
// ---------------------------------------------------------------------------

func validatePeriod(p *models.EmploymentPeriod) error {
	if p.StartDate.IsZero() {
		return fmt.Errorf("employment period needs a start date: %w", sentinel.ErrInvalidState)
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("employment period ends before it starts: %w", sentinel.ErrInvalidState)
	}
	return nil
}

func (s *Service) CreateEmploymentPeriod(ctx context.Context, p *models.EmploymentPeriod) error {
	if err := validatePeriod(p); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(st Stores) error {
		if err := requireEmployee(ctx, st, p.EmployeeID); err != nil {
			return err
		}
		if err := st.HR.CreateEmploymentPeriod(ctx, p); err != nil {
			return err
		}
		return s.recorder(st).RecordCreate(ctx, p)
	})
}

func (s *Service) EmploymentPeriodsByEmployee(ctx context.Context, employeeID int64) ([]models.EmploymentPeriod, error) {
	return s.reads.EmploymentPeriodsByEmployee(ctx, employeeID)
}

func (s *Service) UpdateEmploymentPeriod(ctx context.Context, p *models.EmploymentPeriod) error {
	if err := validatePeriod(p); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(st Stores) error {
		before, err := st.HR.EmploymentPeriod(ctx, p.ID)
		if err != nil {
			return err
		}
		p.EmployeeID = before.EmployeeID

		if err := st.HR.UpdateEmploymentPeriod(ctx, p); err != nil {
			return err
		}
		return s.recorder(st).RecordUpdate(ctx, p.HistoryRef(), before.Snapshot(), p.Snapshot())
	})
}

func (s *Service) DeleteEmploymentPeriod(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		period, err := st.HR.EmploymentPeriod(ctx, id)
		if err != nil {
			return err
		}
		if err := st.HR.DeleteEmploymentPeriod(ctx, id); err != nil {
			return err
		}
		return s.recorder(st).RecordDelete(ctx, period)
	})
}

// ---------------------------------------------------------------------------
// Card submissions, contracts, sanepids, contacts
// ---------------------------------------------------------------------------

func (s *Service) CreateCardSubmission(ctx context.Context, c *models.CardSubmission) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		if err := requireEmployee(ctx, st, c.EmployeeID); err != nil {
			return err
		}
		if err := st.HR.CreateCardSubmission(ctx, c); err != nil {
			return err
		}
		return s.recorder(st).RecordCreate(ctx, c)
	})
}

func (s *Service) CardSubmissionsByEmployee(ctx context.Context, employeeID int64) ([]models.CardSubmission, error) {
	return s.reads.CardSubmissionsByEmployee(ctx, employeeID)
}

func (s *Service) DeleteCardSubmission(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		card, err := st.HR.CardSubmission(ctx, id)
		if err != nil {
			return err
		}
		if err := st.HR.DeleteCardSubmission(ctx, id); err != nil {
			return err
		}
		return s.recorder(st).RecordDelete(ctx, card)
	})
}

func (s *Service) CreateContract(ctx context.Context, c *models.Contract) error {
	switch c.ContractType {
	case models.ContractOPrace, models.ContractZlecenia:
	default:
		return fmt.Errorf("unknown contract type %q: %w", c.ContractType, sentinel.ErrInvalidState)
	}
	return s.tx.RunInTx(ctx, func(st Stores) error {
		if err := requireEmployee(ctx, st, c.EmployeeID); err != nil {
			return err
		}
		if err := st.HR.CreateContract(ctx, c); err != nil {
			return err
		}
		return s.recorder(st).RecordCreate(ctx, c)
	})
}

func (s *Service) ContractsByEmployee(ctx context.Context, employeeID int64) ([]models.Contract, error) {
	return s.reads.ContractsByEmployee(ctx, employeeID)
}

func (s *Service) DeleteContract(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		contract, err := st.HR.Contract(ctx, id)
		if err != nil {
			return err
		}
		if err := st.HR.DeleteContract(ctx, id); err != nil {
			return err
		}
		return s.recorder(st).RecordDelete(ctx, contract)
	})
}

func (s *Service) CreateSanepid(ctx context.Context, sp *models.Sanepid) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		if err := requireEmployee(ctx, st, sp.EmployeeID); err != nil {
			return err
		}
		if err := st.HR.CreateSanepid(ctx, sp); err != nil {
			return err
		}
		return s.recorder(st).RecordCreate(ctx, sp)
	})
}

func (s *Service) SanepidsByEmployee(ctx context.Context, employeeID int64) ([]models.Sanepid, error) {
	return s.reads.SanepidsByEmployee(ctx, employeeID)
}

func (s *Service) DeleteSanepid(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		sanepid, err := st.HR.Sanepid(ctx, id)
		if err != nil {
			return err
		}
		if err := st.HR.DeleteSanepid(ctx, id); err != nil {
			return err
		}
		return s.recorder(st).RecordDelete(ctx, sanepid)
	})
}

func (s *Service) CreateContact(ctx context.Context, c *models.Contact) error {
	switch c.ContactType {
	case models.ContactPhone, models.ContactEmail, models.ContactViber:
	default:
		return fmt.Errorf("unknown contact type %q: %w", c.ContactType, sentinel.ErrInvalidState)
	}
	return s.tx.RunInTx(ctx, func(st Stores) error {
		if err := requireEmployee(ctx, st, c.EmployeeID); err != nil {
			return err
		}
		if err := st.HR.CreateContact(ctx, c); err != nil {
			return err
		}
		return s.recorder(st).RecordCreate(ctx, c)
	})
}

func (s *Service) ContactsByEmployee(ctx context.Context, employeeID int64) ([]models.Contact, error) {
	return s.reads.ContactsByEmployee(ctx, employeeID)
}

func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(st Stores) error {
		contact, err := st.HR.Contact(ctx, id)
		if err != nil {
			return err
		}
		if err := st.HR.DeleteContact(ctx, id); err != nil {
			return err
		}
		return s.recorder(st).RecordDelete(ctx, contact)
	})
}
