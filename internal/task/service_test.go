package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kadry/pkg/requestcontext"
	"kadry/pkg/sentinel"
)

func asActor(actorID int64) context.Context {
	return requestcontext.WithActorID(context.Background(), actorID)
}

func newService(t *testing.T) (*Service, *InMemoryStore) {
	t.Helper()
	store := NewInMemoryStore()
	svc, err := New(NewInMemoryTx(store), store)
	require.NoError(t, err)
	return svc, store
}

func createTask(t *testing.T, svc *Service, creator int64) *Task {
	t.Helper()
	task := &Task{Title: "Przygotować umowę"}
	require.NoError(t, svc.Create(asActor(creator), task))
	return task
}

func TestCreate(t *testing.T) {
	t.Run("defaults and attribution", func(t *testing.T) {
		svc, _ := newService(t)
		task := &Task{Title: "Przygotować umowę"}
		require.NoError(t, svc.Create(asActor(3), task))

		require.NotZero(t, task.ID)
		assert.Equal(t, StatusTodo, task.Status)
		assert.Equal(t, PriorityMedium, task.Priority)
		assert.Equal(t, int64(3), task.CreatedBy)
		assert.Nil(t, task.TakenBy)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("client-set lifecycle fields are ignored", func(t *testing.T) {
		svc, _ := newService(t)
		taker := int64(9)
		task := &Task{Title: "x", Status: StatusCompleted, TakenBy: &taker}
		require.NoError(t, svc.Create(asActor(3), task))

		assert.Equal(t, StatusTodo, task.Status)
		assert.Nil(t, task.TakenBy)
	})

	t.Run("title required", func(t *testing.T) {
		svc, _ := newService(t)
		err := svc.Create(asActor(3), &Task{})
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("unknown priority rejected", func(t *testing.T) {
		svc, _ := newService(t)
		err := svc.Create(asActor(3), &Task{Title: "x", Priority: "urgent"})
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("actor required", func(t *testing.T) {
		svc, _ := newService(t)
		err := svc.Create(context.Background(), &Task{Title: "x"})
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})
}

func TestTake(t *testing.T) {
	t.Run("claims a free task", func(t *testing.T) {
		svc, _ := newService(t)
		task := createTask(t, svc, 3)

		taken, err := svc.Take(asActor(5), task.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, taken.Status)
		require.NotNil(t, taken.TakenBy)
		assert.Equal(t, int64(5), *taken.TakenBy)
	})

	t.Run("taken task conflicts for others", func(t *testing.T) {
		svc, _ := newService(t)
		task := createTask(t, svc, 3)
		_, err := svc.Take(asActor(5), task.ID)
		require.NoError(t, err)

		_, err = svc.Take(asActor(6), task.ID)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("retaking own task is a no-op", func(t *testing.T) {
		svc, _ := newService(t)
		task := createTask(t, svc, 3)
		_, err := svc.Take(asActor(5), task.ID)
		require.NoError(t, err)

		taken, err := svc.Take(asActor(5), task.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), *taken.TakenBy)
	})

	t.Run("completed task cannot be taken", func(t *testing.T) {
		svc, _ := newService(t)
		task := createTask(t, svc, 3)
		_, err := svc.Take(asActor(5), task.ID)
		require.NoError(t, err)
		_, err = svc.Complete(asActor(5), task.ID)
		require.NoError(t, err)

		_, err = svc.Take(asActor(6), task.ID)
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("missing task is not found", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Take(asActor(5), 99)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestComplete(t *testing.T) {
	t.Run("taker completes", func(t *testing.T) {
		svc, _ := newService(t)
		task := createTask(t, svc, 3)
		_, err := svc.Take(asActor(5), task.ID)
		require.NoError(t, err)

		at := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(asActor(5), at)
		completed, err := svc.Complete(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, completed.Status)
		require.NotNil(t, completed.CompletedAt)
		assert.Equal(t, at, *completed.CompletedAt)
	})

	t.Run("non-taker conflicts", func(t *testing.T) {
		svc, _ := newService(t)
		task := createTask(t, svc, 3)
		_, err := svc.Take(asActor(5), task.ID)
		require.NoError(t, err)

		_, err = svc.Complete(asActor(6), task.ID)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("untaken task conflicts", func(t *testing.T) {
		svc, _ := newService(t)
		task := createTask(t, svc, 3)

		_, err := svc.Complete(asActor(5), task.ID)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("completing twice is idempotent", func(t *testing.T) {
		svc, _ := newService(t)
		task := createTask(t, svc, 3)
		_, err := svc.Take(asActor(5), task.ID)
		require.NoError(t, err)

		first, err := svc.Complete(asActor(5), task.ID)
		require.NoError(t, err)

		// Even another actor can repeat the call without error once done.
		second, err := svc.Complete(asActor(6), task.ID)
		require.NoError(t, err)
		assert.Equal(t, first.CompletedAt, second.CompletedAt)
	})
}

func TestListByStatus(t *testing.T) {
	svc, _ := newService(t)
	open := createTask(t, svc, 3)
	taken := createTask(t, svc, 3)
	_, err := svc.Take(asActor(5), taken.ID)
	require.NoError(t, err)

	todo, err := svc.ListByStatus(context.Background(), StatusTodo)
	require.NoError(t, err)
	require.Len(t, todo, 1)
	assert.Equal(t, open.ID, todo[0].ID)

	inProgress, err := svc.ListByStatus(context.Background(), StatusInProgress)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, taken.ID, inProgress[0].ID)

	_, err = svc.ListByStatus(context.Background(), "archived")
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t)
	task := createTask(t, svc, 3)

	require.NoError(t, svc.Delete(context.Background(), task.ID))
	_, err := svc.Get(context.Background(), task.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
