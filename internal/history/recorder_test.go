package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kadry/internal/history"
	"kadry/internal/hr/models"
	"kadry/pkg/requestcontext"
)

func actorCtx(actorID int64, at time.Time) context.Context {
	ctx := requestcontext.WithActorID(context.Background(), actorID)
	return requestcontext.WithTime(ctx, at)
}

func TestRecordCreate(t *testing.T) {
	store := history.NewInMemoryStore()
	rec := history.NewRecorder(store)
	at := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	ctx := actorCtx(7, at)

	emp := &models.Employee{ID: 1, FirstName: "Olena", LastName: "Kovalenko", WorkingStatus: models.StatusEmployed}
	require.NoError(t, rec.RecordCreate(ctx, emp))

	entries, err := store.ListByEntity(ctx, emp.HistoryRef())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.FieldAll, entries[0].FieldName)
	assert.Equal(t, history.ActionCreated, entries[0].Action)
	assert.Empty(t, entries[0].OldValue)
	assert.Empty(t, entries[0].NewValue)
	require.NotNil(t, entries[0].ChangedBy)
	assert.Equal(t, int64(7), *entries[0].ChangedBy)
	assert.Equal(t, at, entries[0].ChangedAt)
}

func TestRecordUpdate_OneEntryPerChangedField(t *testing.T) {
	store := history.NewInMemoryStore()
	rec := history.NewRecorder(store)
	ctx := actorCtx(7, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))

	emp := &models.Employee{ID: 1, FirstName: "Olena", LastName: "Kovalenko", WorkingStatus: models.StatusEmployed}
	before := emp.Snapshot()
	emp.WorkingStatus = models.StatusTerminated
	require.NoError(t, rec.RecordUpdate(ctx, emp.HistoryRef(), before, emp.Snapshot()))

	entries, err := store.ListByEntity(ctx, emp.HistoryRef())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "working_status", entries[0].FieldName)
	assert.Equal(t, "Pracujący", entries[0].OldValue)
	assert.Equal(t, "Zwolniony", entries[0].NewValue)
	assert.Equal(t, history.ActionUpdated, entries[0].Action)
}

func TestRecordUpdate_NoChangeWritesNothing(t *testing.T) {
	store := history.NewInMemoryStore()
	rec := history.NewRecorder(store)
	ctx := actorCtx(7, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))

	emp := &models.Employee{ID: 1, FirstName: "Olena", LastName: "Kovalenko", WorkingStatus: models.StatusEmployed}
	require.NoError(t, rec.RecordUpdate(ctx, emp.HistoryRef(), emp.Snapshot(), emp.Snapshot()))

	entries, err := store.ListByEntity(ctx, emp.HistoryRef())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordUpdate_NormalizationSuppressesNoise(t *testing.T) {
	store := history.NewInMemoryStore()
	rec := history.NewRecorder(store)
	ctx := actorCtx(7, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))

	workplace := "Kuchnia"
	padded := "  Kuchnia  "
	emp := &models.Employee{ID: 1, FirstName: "Olena", LastName: "Kovalenko", Workplace: &workplace, WorkingStatus: models.StatusEmployed}
	before := emp.Snapshot()
	emp.Workplace = &padded
	require.NoError(t, rec.RecordUpdate(ctx, emp.HistoryRef(), before, emp.Snapshot()))

	entries, err := store.ListByEntity(ctx, emp.HistoryRef())
	require.NoError(t, err)
	assert.Empty(t, entries, "whitespace-only edits must not show up as changes")
}

func TestRecordDelete_PurgesAndLeavesOneMarker(t *testing.T) {
	store := history.NewInMemoryStore()
	rec := history.NewRecorder(store)
	ctx := actorCtx(7, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))

	emp := &models.Employee{ID: 1, FirstName: "Olena", LastName: "Kovalenko", WorkingStatus: models.StatusEmployed}
	require.NoError(t, rec.RecordCreate(ctx, emp))
	before := emp.Snapshot()
	emp.LastName = "Shevchenko"
	require.NoError(t, rec.RecordUpdate(ctx, emp.HistoryRef(), before, emp.Snapshot()))

	require.NoError(t, rec.RecordDelete(ctx, emp))

	entries, err := store.ListByEntity(ctx, emp.HistoryRef())
	require.NoError(t, err)
	require.Len(t, entries, 1, "deletion purges the trail down to the single marker")
	assert.Equal(t, history.FieldAll, entries[0].FieldName)
	assert.Equal(t, history.ActionDeleted, entries[0].Action)
	assert.Equal(t, "Olena Shevchenko", entries[0].OldValue)
}

func TestRecordDelete_MarkerCarriesDisplayString(t *testing.T) {
	store := history.NewInMemoryStore()
	rec := history.NewRecorder(store)
	ctx := actorCtx(7, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))

	docType := "Паспорт"
	number := "AB123"
	doc := &models.Document{ID: 4, EmployeeID: 1, DocType: &docType, Number: &number}
	require.NoError(t, rec.RecordDelete(ctx, doc))

	entries, err := store.ListByEntity(ctx, doc.HistoryRef())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Паспорт №AB123", entries[0].OldValue)
}

func TestAsUser_OverridesAmbientActor(t *testing.T) {
	store := history.NewInMemoryStore()
	rec := history.NewRecorder(store)
	ctx := actorCtx(7, time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC))

	emp := &models.Employee{ID: 1, FirstName: "Olena", LastName: "Kovalenko", WorkingStatus: models.StatusEmployed}
	before := emp.Snapshot()
	emp.WorkingStatus = models.StatusTerminated
	require.NoError(t, rec.RecordUpdate(ctx, emp.HistoryRef(), before, emp.Snapshot(), history.AsUser(1)))

	entries, err := store.ListByEntity(ctx, emp.HistoryRef())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].ChangedBy)
	assert.Equal(t, int64(1), *entries[0].ChangedBy)
}

func TestRecord_WithoutActorIsAnonymous(t *testing.T) {
	store := history.NewInMemoryStore()
	rec := history.NewRecorder(store)
	ctx := requestcontext.WithTime(context.Background(), time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))

	emp := &models.Employee{ID: 1, FirstName: "Olena", LastName: "Kovalenko", WorkingStatus: models.StatusEmployed}
	require.NoError(t, rec.RecordCreate(ctx, emp))

	entries, err := store.ListByEntity(ctx, emp.HistoryRef())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ChangedBy)
}

func TestDiff_ComparesAgainstEmptyForMissingFields(t *testing.T) {
	ref := history.EntityRef{Kind: history.KindEmployee, ID: 1}
	before := history.Snapshot{{Name: "pesel", Value: ""}}
	after := history.Snapshot{{Name: "pesel", Value: "90010112345"}}

	entries := history.Diff(ref, before, after)
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].OldValue)
	assert.Equal(t, "90010112345", entries[0].NewValue)
}
