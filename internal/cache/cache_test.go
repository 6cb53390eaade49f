package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()
	c, err := New(Config{Driver: "memory", DefaultTTL: time.Minute})
	require.NoError(t, err)

	_, err = c.Get(ctx, "k")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	require.NoError(t, c.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, err = c.Get(ctx, "short")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.True(t, IsNotFound(err))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "memcached"})
	assert.Error(t, err)
	_, err = New(Config{Driver: "redis"})
	assert.Error(t, err)
}

type payload struct {
	N int `json:"n"`
}

func TestLoaderCachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	l := NewLoader[payload](NewMemory(time.Minute), time.Minute)
	var calls int32
	load := func(context.Context) (payload, error) {
		n := atomic.AddInt32(&calls, 1)
		return payload{N: int(n)}, nil
	}

	v, hit, err := l.Get(ctx, "k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, v.N)

	v, hit, err = l.Get(ctx, "k", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, v.N)

	l.Invalidate(ctx, "k")
	v, _, err = l.Get(ctx, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 2, v.N)
}

func TestLoaderDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	l := NewLoader[payload](NewMemory(time.Minute), time.Minute)
	boom := errors.New("boom")

	_, _, err := l.Get(ctx, "k", func(context.Context) (payload, error) { return payload{}, boom })
	assert.ErrorIs(t, err, boom)

	v, hit, err := l.Get(ctx, "k", func(context.Context) (payload, error) { return payload{N: 7}, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v.N)
}

func TestLoaderDeduplicatesConcurrentLoads(t *testing.T) {
	ctx := context.Background()
	l := NewLoader[payload](NewMemory(time.Minute), time.Minute)
	var calls int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = l.Get(ctx, "k", func(context.Context) (payload, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return payload{N: 1}, nil
			})
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}
