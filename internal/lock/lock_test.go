package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortedUnique([]string{"c", "a", "b", "a"}))
	assert.Empty(t, sortedUnique(nil))
}

func TestKeyedMutex_Exclusive(t *testing.T) {
	m := NewKeyedMutex()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(context.Background(), BedKey("501-2"), PatientKey("1-9"))
			require.NoError(t, err)
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, m.locks)
}

func TestKeyedMutex_ContextCancel(t *testing.T) {
	m := NewKeyedMutex()
	unlock, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Lock(ctx, "b", "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// "b" was released when "a" could not be taken
	unlockB, err := m.Lock(context.Background(), "b")
	require.NoError(t, err)
	unlockB()

	unlock()
	unlock() // idempotent
	unlockA, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlockA()
}

func TestKeyedMutex_DistinctKeysDoNotBlock(t *testing.T) {
	m := NewKeyedMutex()
	u1, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer u1()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	u2, err := m.Lock(ctx, "b")
	require.NoError(t, err)
	u2()
}

func setupRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRedisLocker(client, "pediatria:lock:", ttl, zap.NewNop())
	l.retryEvery = 5 * time.Millisecond
	return l, mr
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	l, mr := setupRedisLocker(t, time.Minute)

	unlock, err := l.Lock(context.Background(), BedKey("501-2"))
	require.NoError(t, err)
	assert.True(t, mr.Exists("pediatria:lock:bed:501-2"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, BedKey("501-2"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.False(t, mr.Exists("pediatria:lock:bed:501-2"))

	unlock2, err := l.Lock(context.Background(), BedKey("501-2"))
	require.NoError(t, err)
	unlock2()
}

func TestRedisLocker_ExpiredLockIsNotReleasedByOldHolder(t *testing.T) {
	l, mr := setupRedisLocker(t, time.Second)

	unlockOld, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	unlockNew, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	unlockOld()
	assert.True(t, mr.Exists("pediatria:lock:k"))

	unlockNew()
	assert.False(t, mr.Exists("pediatria:lock:k"))
}

func TestRedisLocker_PartialAcquireRollsBack(t *testing.T) {
	l, mr := setupRedisLocker(t, time.Minute)
	require.NoError(t, mr.Set("pediatria:lock:b", "someone-else"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := l.Lock(ctx, "b", "a")
	require.Error(t, err)
	assert.False(t, mr.Exists("pediatria:lock:a"))
}
