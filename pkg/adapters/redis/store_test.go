package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stepwise/pkg/adapters/redis"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunProgressStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	p := domain.NewProgress()
	p.Completed.Add(1)
	require.NoError(t, store.Save(ctx, "ttl", p))

	profiles, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, profiles, "ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "ttl")
	assert.ErrorIs(t, err, domain.ErrProgressNotFound)

	// The index is pruned against wall-clock time.
	time.Sleep(1200 * time.Millisecond)
	profiles, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alice", domain.NewProgress()))

	assert.True(t, mr.Exists("custom:app:alice"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	raw, err := mr.Get("custom:app:alice")
	require.NoError(t, err)
	assert.Contains(t, raw, `"completedProblems":[]`)
}

func TestLocker(t *testing.T) {
	_, client := newClient(t)
	locker := redis.NewLocker(client, redis.DefaultPrefix)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "alice", time.Minute)
	require.NoError(t, err)

	// A second holder times out while the first holds the lock.
	short, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(short, "alice", time.Minute)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "alice", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, unlock2(ctx))
}
