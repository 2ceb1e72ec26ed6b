//go:build integration

package editlock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kadry/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	store := NewRedisStore(rc.Client)

	reset := func(t *testing.T) {
		t.Helper()
		require.NoError(t, rc.FlushAll(ctx))
	}

	t.Run("acquire and holder", func(t *testing.T) {
		reset(t)

		ok, current, err := store.Acquire(ctx, "employee_edit_lock:1", "7", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "7", current)

		holder, held, err := store.Holder(ctx, "employee_edit_lock:1")
		require.NoError(t, err)
		assert.True(t, held)
		assert.Equal(t, "7", holder)
	})

	t.Run("second acquirer sees the holder", func(t *testing.T) {
		reset(t)

		_, _, err := store.Acquire(ctx, "employee_edit_lock:1", "7", time.Minute)
		require.NoError(t, err)

		ok, current, err := store.Acquire(ctx, "employee_edit_lock:1", "8", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "7", current)
	})

	t.Run("refresh only for the holder", func(t *testing.T) {
		reset(t)

		_, _, err := store.Acquire(ctx, "employee_edit_lock:1", "7", time.Minute)
		require.NoError(t, err)

		ok, err := store.Refresh(ctx, "employee_edit_lock:1", "7", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Refresh(ctx, "employee_edit_lock:1", "8", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("release only for the holder", func(t *testing.T) {
		reset(t)

		_, _, err := store.Acquire(ctx, "employee_edit_lock:1", "7", time.Minute)
		require.NoError(t, err)

		ok, err := store.Release(ctx, "employee_edit_lock:1", "8")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.Release(ctx, "employee_edit_lock:1", "7")
		require.NoError(t, err)
		assert.True(t, ok)

		_, held, err := store.Holder(ctx, "employee_edit_lock:1")
		require.NoError(t, err)
		assert.False(t, held)
	})

	t.Run("lease expires on its own", func(t *testing.T) {
		reset(t)

		_, _, err := store.Acquire(ctx, "employee_edit_lock:1", "7", 200*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(400 * time.Millisecond)

		ok, _, err := store.Acquire(ctx, "employee_edit_lock:1", "8", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
