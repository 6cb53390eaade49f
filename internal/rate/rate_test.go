package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiter_BurstThenDeny(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLimiter(3, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4|/v1/auth/signin")
		require.NoError(t, err)
		require.True(t, res.Allowed, "hit %d", i)
	}
	res, err := l.Allow(ctx, "1.2.3.4|/v1/auth/signin")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	// otra key no se ve afectada
	res, _ = l.Allow(ctx, "5.6.7.8|/v1/auth/signin")
	assert.True(t, res.Allowed)

	// recupera un token tras window/max
	now = now.Add(20 * time.Second)
	res, _ = l.Allow(ctx, "1.2.3.4|/v1/auth/signin")
	assert.True(t, res.Allowed)
}

func TestLocalLimiter_Sweep(t *testing.T) {
	l := NewLocalLimiter(1, time.Second)
	now := time.Now()
	l.now = func() time.Time { return now }
	_, _ = l.Allow(context.Background(), "a")

	now = now.Add(10 * time.Second)
	assert.Equal(t, 0, l.Sweep())
}

func TestFixedWindowResult(t *testing.T) {
	res := fixedWindowResult(2, 5, 30*time.Second)
	assert.True(t, res.Allowed)
	assert.EqualValues(t, 3, res.Remaining)

	res = fixedWindowResult(6, 5, 30*time.Second)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	assert.Equal(t, 30*time.Second, res.RetryAfter)
}
