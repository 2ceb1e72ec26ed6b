package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kadry/internal/history"
	"kadry/internal/hr/models"
	"kadry/internal/hr/store"
	"kadry/internal/notify"
	"kadry/pkg/requestcontext"
	"kadry/pkg/sentinel"
)

type fixture struct {
	hr            *store.InMemoryStore
	history       *history.InMemoryStore
	notifications *notify.InMemoryStore
	svc           *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		hr:            store.NewInMemoryStore(),
		history:       history.NewInMemoryStore(),
		notifications: notify.NewInMemoryStore(),
	}
	tx := NewInMemoryTx(Stores{HR: f.hr, History: f.history, Notify: f.notifications})
	svc, err := New(tx, f.hr)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func testCtx(t *testing.T, day string) context.Context {
	t.Helper()
	today, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	ctx := requestcontext.WithActorID(context.Background(), 7)
	return requestcontext.WithTime(ctx, today)
}

func str(s string) *string { return &s }

func date(t *testing.T, day string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	return &d
}

func (f *fixture) employee(t *testing.T, ctx context.Context) *models.Employee {
	t.Helper()
	emp := &models.Employee{FirstName: "Olena", LastName: "Kovalenko"}
	require.NoError(t, f.svc.CreateEmployee(ctx, emp))
	return emp
}

func TestCreateEmployee(t *testing.T) {
	t.Run("persists and records creation", func(t *testing.T) {
		f := newFixture(t)
		ctx := testCtx(t, "2025-03-10")

		emp := f.employee(t, ctx)
		require.NotZero(t, emp.ID)
		assert.Equal(t, models.StatusEmployed, emp.WorkingStatus, "empty status defaults to employed")

		entries, err := f.history.ListByEntity(ctx, emp.HistoryRef())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, history.ActionCreated, entries[0].Action)
		require.NotNil(t, entries[0].ChangedBy)
		assert.Equal(t, int64(7), *entries[0].ChangedBy)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.CreateEmployee(testCtx(t, "2025-03-10"), &models.Employee{FirstName: "Olena"})
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.CreateEmployee(testCtx(t, "2025-03-10"), &models.Employee{
			FirstName:     "Olena",
			LastName:      "Kovalenko",
			WorkingStatus: "fired",
		})
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})
}

func TestUpdateEmployee(t *testing.T) {
	t.Run("records the per-field diff", func(t *testing.T) {
		f := newFixture(t)
		ctx := testCtx(t, "2025-03-10")
		emp := f.employee(t, ctx)

		emp.LastName = "Shevchenko"
		emp.Workplace = str("Kuchnia")
		require.NoError(t, f.svc.UpdateEmployee(ctx, emp))

		entries, err := f.history.ListByEntity(ctx, emp.HistoryRef())
		require.NoError(t, err)
		require.Len(t, entries, 3) // creation marker + two field diffs

		fields := map[string][2]string{}
		for _, e := range entries {
			if e.Action == history.ActionUpdated {
				fields[e.FieldName] = [2]string{e.OldValue, e.NewValue}
			}
		}
		assert.Equal(t, [2]string{"Kovalenko", "Shevchenko"}, fields["last_name"])
		assert.Equal(t, [2]string{"", "Kuchnia"}, fields["workplace"])
	})

	t.Run("unknown employee is not found", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.UpdateEmployee(testCtx(t, "2025-03-10"), &models.Employee{
			ID:        99,
			FirstName: "Olena",
			LastName:  "Kovalenko",
		})
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("termination clears notifications", func(t *testing.T) {
		f := newFixture(t)
		ctx := testCtx(t, "2025-03-10")
		emp := f.employee(t, ctx)

		passport := &models.Document{EmployeeID: emp.ID, DocType: str("Паспорт"), ValidUntil: date(t, "2025-04-01")}
		require.NoError(t, f.svc.CreateDocument(ctx, passport))
		visa := &models.Document{EmployeeID: emp.ID, DocType: str("Віза"), ValidUntil: date(t, "2025-05-01")}
		require.NoError(t, f.svc.CreateDocument(ctx, visa))

		pending, err := f.notifications.List(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 2)

		emp.WorkingStatus = models.StatusTerminated
		require.NoError(t, f.svc.UpdateEmployee(ctx, emp))

		pending, err = f.notifications.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestDeleteEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx(t, "2025-03-10")
	emp := f.employee(t, ctx)

	doc := &models.Document{EmployeeID: emp.ID, DocType: str("Паспорт"), Number: str("AB123"), ValidUntil: date(t, "2025-04-01")}
	require.NoError(t, f.svc.CreateDocument(ctx, doc))
	contact := &models.Contact{EmployeeID: emp.ID, ContactType: models.ContactPhone, Value: str("+48123456789")}
	require.NoError(t, f.svc.CreateContact(ctx, contact))

	require.NoError(t, f.svc.DeleteEmployee(ctx, emp.ID))

	_, err := f.svc.Employee(ctx, emp.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	// Cascade removed the sub-records and their notifications.
	_, err = f.hr.Document(ctx, doc.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	pending, err := f.notifications.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Every removed record keeps exactly one deletion marker.
	for _, ref := range []history.EntityRef{emp.HistoryRef(), doc.HistoryRef(), contact.HistoryRef()} {
		entries, err := f.history.ListByEntity(ctx, ref)
		require.NoError(t, err)
		require.Len(t, entries, 1, "entity %s", ref)
		assert.Equal(t, history.ActionDeleted, entries[0].Action)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	t.Run("create requires an existing employee", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.CreateDocument(testCtx(t, "2025-03-10"), &models.Document{EmployeeID: 99})
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("in-window create notifies", func(t *testing.T) {
		f := newFixture(t)
		ctx := testCtx(t, "2025-03-10")
		emp := f.employee(t, ctx)

		doc := &models.Document{EmployeeID: emp.ID, DocType: str("Віза"), Number: str("V-1"), ValidUntil: date(t, "2025-04-01")}
		require.NoError(t, f.svc.CreateDocument(ctx, doc))

		pending, err := f.notifications.List(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, doc.ID, *pending[0].DocumentID)
	})

	t.Run("renewal regenerates the notification", func(t *testing.T) {
		f := newFixture(t)
		ctx := testCtx(t, "2025-03-10")
		emp := f.employee(t, ctx)

		doc := &models.Document{EmployeeID: emp.ID, DocType: str("Віза"), Number: str("V-1"), ValidUntil: date(t, "2025-04-01")}
		require.NoError(t, f.svc.CreateDocument(ctx, doc))

		// Renewed but still in window: the stale notification is replaced,
		// days_left and message reflecting the new date.
		doc.ValidUntil = date(t, "2025-05-01")
		require.NoError(t, f.svc.UpdateDocument(ctx, doc))

		pending, err := f.notifications.List(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, 52, pending[0].DaysLeft)

		// Renewed past the window: the notification disappears.
		doc.ValidUntil = date(t, "2026-01-01")
		require.NoError(t, f.svc.UpdateDocument(ctx, doc))

		pending, err = f.notifications.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("delete drops the notification and purges history", func(t *testing.T) {
		f := newFixture(t)
		ctx := testCtx(t, "2025-03-10")
		emp := f.employee(t, ctx)

		doc := &models.Document{EmployeeID: emp.ID, DocType: str("Віза"), Number: str("V-1"), ValidUntil: date(t, "2025-04-01")}
		require.NoError(t, f.svc.CreateDocument(ctx, doc))
		require.NoError(t, f.svc.DeleteDocument(ctx, doc.ID))

		pending, err := f.notifications.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)

		entries, err := f.history.ListByEntity(ctx, doc.HistoryRef())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, history.ActionDeleted, entries[0].Action)
		assert.Equal(t, "Віза №V-1", entries[0].OldValue)
	})
}

func TestWorkPermitLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx(t, "2025-03-10")
	emp := f.employee(t, ctx)

	permit := &models.WorkPermit{EmployeeID: emp.ID, DocType: str("Дозвіл"), EndDate: date(t, "2025-04-01")}
	require.NoError(t, f.svc.CreateWorkPermit(ctx, permit))

	pending, err := f.notifications.List(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, notify.KindWorkPermit, pending[0].Kind)

	permit.EndDate = date(t, "2026-01-01")
	require.NoError(t, f.svc.UpdateWorkPermit(ctx, permit))

	pending, err = f.notifications.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEmploymentPeriodValidation(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx(t, "2025-03-10")
	emp := f.employee(t, ctx)

	t.Run("start date required", func(t *testing.T) {
		err := f.svc.CreateEmploymentPeriod(ctx, &models.EmploymentPeriod{EmployeeID: emp.ID})
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		err := f.svc.CreateEmploymentPeriod(ctx, &models.EmploymentPeriod{
			EmployeeID: emp.ID,
			StartDate:  *date(t, "2025-01-01"),
			EndDate:    date(t, "2024-12-31"),
		})
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("open-ended period accepted", func(t *testing.T) {
		period := &models.EmploymentPeriod{EmployeeID: emp.ID, StartDate: *date(t, "2025-01-01")}
		require.NoError(t, f.svc.CreateEmploymentPeriod(ctx, period))
		require.NotZero(t, period.ID)
	})
}

func TestContractValidation(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx(t, "2025-03-10")
	emp := f.employee(t, ctx)

	err := f.svc.CreateContract(ctx, &models.Contract{EmployeeID: emp.ID, ContractType: "b2b"})
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)

	require.NoError(t, f.svc.CreateContract(ctx, &models.Contract{EmployeeID: emp.ID, ContractType: models.ContractOPrace}))
}

func TestContactValidation(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx(t, "2025-03-10")
	emp := f.employee(t, ctx)

	err := f.svc.CreateContact(ctx, &models.Contact{EmployeeID: emp.ID, ContactType: "fax"})
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)

	require.NoError(t, f.svc.CreateContact(ctx, &models.Contact{EmployeeID: emp.ID, ContactType: models.ContactEmail, Value: str("o.kovalenko@example.com")}))
}
