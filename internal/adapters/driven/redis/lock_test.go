package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ingestLock = "ingest:registry"

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestNewClient(t *testing.T) {
	_, mr := setupTestRedis(t)

	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, NewLock(client).Ping(context.Background()))

	_, err = NewClient(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestLock_OwnerIDUnique(t *testing.T) {
	client, _ := setupTestRedis(t)
	assert.NotEqual(t, NewLock(client).OwnerID(), NewLock(client).OwnerID())
}

func TestLock_AcquireExclusive(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	lock1, lock2 := NewLock(client), NewLock(client)

	ok, err := lock1.Acquire(ctx, ingestLock, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock2.Acquire(ctx, ingestLock, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := mr.Get(lockPrefix + ingestLock)
	require.NoError(t, err)
	assert.Equal(t, lock1.OwnerID(), val)
}

func TestLock_ReleaseOnlyByOwner(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	lock1, lock2 := NewLock(client), NewLock(client)

	_, err := lock1.Acquire(ctx, ingestLock, 10*time.Second)
	require.NoError(t, err)

	require.NoError(t, lock2.Release(ctx, ingestLock))
	assert.True(t, mr.Exists(lockPrefix+ingestLock))

	require.NoError(t, lock1.Release(ctx, ingestLock))
	assert.False(t, mr.Exists(lockPrefix+ingestLock))

	ok, err := lock2.Acquire(ctx, ingestLock, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLock_ReleaseNotHeld(t *testing.T) {
	client, _ := setupTestRedis(t)
	assert.NoError(t, NewLock(client).Release(context.Background(), ingestLock))
}

func TestLock_Expires(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	lock1, lock2 := NewLock(client), NewLock(client)

	_, err := lock1.Acquire(ctx, ingestLock, time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	ok, err := lock2.Acquire(ctx, ingestLock, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLock_Extend(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	lock1, lock2 := NewLock(client), NewLock(client)

	_, err := lock1.Acquire(ctx, ingestLock, time.Second)
	require.NoError(t, err)

	require.NoError(t, lock1.Extend(ctx, ingestLock, time.Minute))
	assert.Greater(t, mr.TTL(lockPrefix+ingestLock), 30*time.Second)

	assert.Error(t, lock2.Extend(ctx, ingestLock, time.Minute))
	assert.Error(t, lock1.Extend(ctx, "other", time.Minute))
}

func TestLock_DifferentNames(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()
	lock := NewLock(client)

	ok1, err := lock.Acquire(ctx, "a", time.Minute)
	require.NoError(t, err)
	ok2, err := lock.Acquire(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok1)
	assert.True(t, ok2)
}
