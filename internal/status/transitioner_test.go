package status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kadry/internal/history"
	"kadry/internal/hr/models"
	"kadry/internal/hr/service"
	hrstore "kadry/internal/hr/store"
	"kadry/internal/notify"
	"kadry/pkg/requestcontext"
)

const systemUserID = 1

type fixture struct {
	hr            *hrstore.InMemoryStore
	history       *history.InMemoryStore
	notifications *notify.InMemoryStore
	transitioner  *Transitioner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		hr:            hrstore.NewInMemoryStore(),
		history:       history.NewInMemoryStore(),
		notifications: notify.NewInMemoryStore(),
	}
	tx := service.NewInMemoryTx(service.Stores{
		HR:      f.hr,
		History: f.history,
		Notify:  f.notifications,
	})
	tr, err := New(tx, systemUserID)
	require.NoError(t, err)
	f.transitioner = tr
	return f
}

func fixedCtx(t *testing.T, day string) context.Context {
	t.Helper()
	today, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	return requestcontext.WithTime(context.Background(), today)
}

func date(t *testing.T, day string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	return &d
}

func (f *fixture) employee(t *testing.T, status models.WorkingStatus) *models.Employee {
	t.Helper()
	emp := &models.Employee{FirstName: "Olena", LastName: "Kovalenko", WorkingStatus: status}
	require.NoError(t, f.hr.CreateEmployee(context.Background(), emp))
	return emp
}

func (f *fixture) period(t *testing.T, employeeID int64, start string, end *time.Time) {
	t.Helper()
	p := &models.EmploymentPeriod{EmployeeID: employeeID, StartDate: *date(t, start), EndDate: end}
	require.NoError(t, f.hr.CreateEmploymentPeriod(context.Background(), p))
}

func TestRun_TerminatesLapsedEmployment(t *testing.T) {
	f := newFixture(t)
	ctx := fixedCtx(t, "2025-03-10")
	emp := f.employee(t, models.StatusEmployed)
	f.period(t, emp.ID, "2024-01-01", date(t, "2025-03-09"))

	terminated, err := f.transitioner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, terminated)

	got, err := f.hr.Employee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTerminated, got.WorkingStatus)
}

func TestRun_SkipsOngoingPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := fixedCtx(t, "2025-03-10")
	emp := f.employee(t, models.StatusEmployed)
	f.period(t, emp.ID, "2024-01-01", date(t, "2024-06-30"))
	// A second, open-ended period means the employment is still running.
	f.period(t, emp.ID, "2024-07-01", nil)

	terminated, err := f.transitioner.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, terminated)

	got, err := f.hr.Employee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmployed, got.WorkingStatus)
}

func TestRun_PeriodEndingTodayIsNotLapsed(t *testing.T) {
	f := newFixture(t)
	ctx := fixedCtx(t, "2025-03-10")
	emp := f.employee(t, models.StatusEmployed)
	f.period(t, emp.ID, "2024-01-01", date(t, "2025-03-10"))

	terminated, err := f.transitioner.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, terminated, "the latest end date must be strictly before today")
}

func TestRun_SkipsEmployeeWithoutPeriods(t *testing.T) {
	f := newFixture(t)
	ctx := fixedCtx(t, "2025-03-10")
	emp := f.employee(t, models.StatusEmployed)

	terminated, err := f.transitioner.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, terminated)

	got, err := f.hr.Employee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmployed, got.WorkingStatus)
}

func TestRun_SkipsAlreadyTerminated(t *testing.T) {
	f := newFixture(t)
	ctx := fixedCtx(t, "2025-03-10")
	emp := f.employee(t, models.StatusTerminated)
	f.period(t, emp.ID, "2024-01-01", date(t, "2024-06-30"))

	terminated, err := f.transitioner.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, terminated)
}

func TestRun_UsesLatestEndDate(t *testing.T) {
	f := newFixture(t)
	ctx := fixedCtx(t, "2025-03-10")
	emp := f.employee(t, models.StatusEmployed)
	f.period(t, emp.ID, "2023-01-01", date(t, "2023-12-31"))
	// The later period is still in the future, so the employment has not lapsed.
	f.period(t, emp.ID, "2024-01-01", date(t, "2025-06-30"))

	terminated, err := f.transitioner.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, terminated)
}

func TestRun_RecordsLedgerEntryAsSystemUser(t *testing.T) {
	f := newFixture(t)
	ctx := fixedCtx(t, "2025-03-10")
	emp := f.employee(t, models.StatusEmployed)
	f.period(t, emp.ID, "2024-01-01", date(t, "2025-03-01"))

	_, err := f.transitioner.Run(ctx)
	require.NoError(t, err)

	entries, err := f.history.ListByEntity(ctx, emp.HistoryRef())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "working_status", entries[0].FieldName)
	assert.Equal(t, string(models.StatusEmployed), entries[0].OldValue)
	assert.Equal(t, string(models.StatusTerminated), entries[0].NewValue)
	require.NotNil(t, entries[0].ChangedBy)
	assert.Equal(t, int64(systemUserID), *entries[0].ChangedBy)
}

func TestRun_ClearsNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := fixedCtx(t, "2025-03-10")
	emp := f.employee(t, models.StatusEmployed)
	f.period(t, emp.ID, "2024-01-01", date(t, "2025-03-01"))

	docType := "Паспорт"
	doc := &models.Document{EmployeeID: emp.ID, DocType: &docType, ValidUntil: date(t, "2025-04-01")}
	require.NoError(t, f.hr.CreateDocument(ctx, doc))

	reconciler, err := notify.New(f.notifications, f.hr)
	require.NoError(t, err)
	require.NoError(t, reconciler.Reconcile(ctx, emp.ID))

	pending, err := f.notifications.List(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = f.transitioner.Run(ctx)
	require.NoError(t, err)

	pending, err = f.notifications.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRun_SweepIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := fixedCtx(t, "2025-03-10")
	emp := f.employee(t, models.StatusEmployed)
	f.period(t, emp.ID, "2024-01-01", date(t, "2025-03-01"))

	terminated, err := f.transitioner.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, terminated)

	terminated, err = f.transitioner.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, terminated)

	entries, err := f.history.ListByEntity(ctx, emp.HistoryRef())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "re-running the sweep writes no further entries")
}
