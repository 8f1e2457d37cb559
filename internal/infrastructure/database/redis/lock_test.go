package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
)

func TestMutex_LockUnlock(t *testing.T) {
	mr, client := newMiniredisClient(t)
	factory := NewLockFactory(client, "", logging.NewNopLogger())
	ctx := context.Background()

	lock := factory.NewMutex("run:42", WithLockTTL(time.Minute))
	require.NoError(t, lock.Lock(ctx))
	assert.True(t, mr.Exists("clauselens:lock:run:42"))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("clauselens:lock:run:42"))
}

func TestMutex_SecondOwnerCannotAcquire(t *testing.T) {
	_, client := newMiniredisClient(t)
	factory := NewLockFactory(client, "test:", logging.NewNopLogger())
	ctx := context.Background()

	first := factory.NewMutex("run:1")
	second := factory.NewMutex("run:1", WithRetryCount(1), WithRetryDelay(time.Millisecond))

	ok, err := first.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ErrLockNotAcquired, second.Lock(ctx))
	assert.Equal(t, ErrLockNotHeld, second.Unlock(ctx))

	require.NoError(t, first.Unlock(ctx))
	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMutex_Extend(t *testing.T) {
	mr, client := newMiniredisClient(t)
	factory := NewLockFactory(client, "", logging.NewNopLogger())
	ctx := context.Background()

	lock := factory.NewMutex("run:7", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))

	ok, err := lock.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("clauselens:lock:run:7"))

	mr.FastForward(2 * time.Minute)
	ok, err = lock.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}
