package subscriptions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

func isDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func TestRegistry_AcquireCancelsPreviousHolder(t *testing.T) {
	client, mr := setupTestRedis(t)
	reg := NewRegistry(client, time.Minute)
	ctx := context.Background()

	first, err := reg.Acquire(ctx, "u1", "favorites")
	require.NoError(t, err)
	defer first.Release()

	got, err := mr.Get("feed:sub:u1:favorites")
	require.NoError(t, err)
	assert.Equal(t, first.Token(), got)

	second, err := reg.Acquire(ctx, "u1", "favorites")
	require.NoError(t, err)
	defer second.Release()

	require.Eventually(t, func() bool { return isDone(first.Context()) }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, isDone(second.Context()))

	holder, ok, err := reg.Holder(ctx, "u1", "favorites")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.Token(), holder)
}

func TestRegistry_ScreensAreIndependent(t *testing.T) {
	client, _ := setupTestRedis(t)
	reg := NewRegistry(client, time.Minute)
	ctx := context.Background()

	a, err := reg.Acquire(ctx, "u1", "home")
	require.NoError(t, err)
	defer a.Release()

	b, err := reg.Acquire(ctx, "u1", "favorites")
	require.NoError(t, err)
	defer b.Release()

	c, err := reg.Acquire(ctx, "u2", "home")
	require.NoError(t, err)
	defer c.Release()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, isDone(a.Context()))
	assert.False(t, isDone(b.Context()))
	assert.False(t, isDone(c.Context()))
}

func TestRegistry_ReleaseOnlyRemovesOwnToken(t *testing.T) {
	client, mr := setupTestRedis(t)
	reg := NewRegistry(client, time.Minute)
	ctx := context.Background()

	first, err := reg.Acquire(ctx, "u1", "home")
	require.NoError(t, err)
	second, err := reg.Acquire(ctx, "u1", "home")
	require.NoError(t, err)

	first.Release()
	first.Release()
	assert.True(t, mr.Exists("feed:sub:u1:home"))

	second.Release()
	assert.False(t, mr.Exists("feed:sub:u1:home"))
	assert.True(t, isDone(second.Context()))

	_, ok, err := reg.Holder(ctx, "u1", "home")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistry_ParentCancellation(t *testing.T) {
	client, _ := setupTestRedis(t)
	reg := NewRegistry(client, time.Minute)

	parent, cancel := context.WithCancel(context.Background())
	lease, err := reg.Acquire(parent, "u1", "home")
	require.NoError(t, err)
	defer lease.Release()

	cancel()
	require.Eventually(t, func() bool { return isDone(lease.Context()) }, time.Second, 10*time.Millisecond)
}

func TestRegistry_KeyExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	reg := NewRegistry(client, time.Minute)

	lease, err := reg.Acquire(context.Background(), "u1", "home")
	require.NoError(t, err)
	defer lease.Release()

	assert.Equal(t, time.Minute, mr.TTL("feed:sub:u1:home"))
}

func TestRegistry_RequiresScreen(t *testing.T) {
	client, _ := setupTestRedis(t)
	reg := NewRegistry(client, 0)

	_, err := reg.Acquire(context.Background(), "u1", " ")
	assert.ErrorIs(t, err, ErrInvalidScreen)
	_, err = reg.Acquire(context.Background(), "", "home")
	assert.ErrorIs(t, err, ErrInvalidScreen)
}

func TestRegistry_ConcurrentAcquireKeepsOneHolder(t *testing.T) {
	client, _ := setupTestRedis(t)
	reg := NewRegistry(client, time.Minute)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		leases := make([]*Lease, 2)
		var wg sync.WaitGroup
		for j := range leases {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				lease, err := reg.Acquire(ctx, "u1", "home")
				assert.NoError(t, err)
				leases[j] = lease
			}(j)
		}
		wg.Wait()
		require.NotNil(t, leases[0])
		require.NotNil(t, leases[1])

		holder, ok, err := reg.Holder(ctx, "u1", "home")
		require.NoError(t, err)
		require.True(t, ok)

		var winner, loser *Lease
		for _, l := range leases {
			if l.Token() == holder {
				winner = l
			} else {
				loser = l
			}
		}
		require.NotNil(t, winner)
		require.NotNil(t, loser)

		require.Eventually(t, func() bool { return isDone(loser.Context()) }, 2*time.Second, 5*time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		assert.False(t, isDone(winner.Context()), "round %d: current holder was cancelled", i)

		loser.Release()
		winner.Release()
	}
}
