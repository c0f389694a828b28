package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindow(t *testing.T) {
	t.Run("admits up to limit", func(t *testing.T) {
		sw := NewSlidingWindow(3, time.Minute)
		assert.True(t, sw.Allow())
		assert.True(t, sw.Allow())
		assert.True(t, sw.Allow())
		assert.False(t, sw.Allow())
		assert.Equal(t, 0, sw.GetRemaining())
	})

	t.Run("wait honors context", func(t *testing.T) {
		sw := NewSlidingWindow(1, time.Minute)
		require.True(t, sw.Allow())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := sw.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("window slides", func(t *testing.T) {
		sw := NewSlidingWindow(1, 30*time.Millisecond)
		require.True(t, sw.Allow())
		require.NoError(t, sw.Wait(context.Background()))
	})

	t.Run("per minute default", func(t *testing.T) {
		sw := PerMinute(0)
		assert.Equal(t, DefaultRequestsPerMinute, sw.GetRemaining())
	})
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(2, 1, time.Second)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
	assert.Equal(t, 0, tb.GetRemaining())
	assert.True(t, tb.GetResetTime().After(time.Now()))
}

func TestBurst(t *testing.T) {
	var _ RateLimiter = Burst(5, 200)
	var _ RateLimiter = PerMinute(200)

	tb := Burst(5, 200)
	assert.Equal(t, 5, tb.GetRemaining())
	assert.Equal(t, 3, tb.refillRate)
	assert.Equal(t, time.Second, tb.windowSize)

	slow := Burst(2, 30)
	assert.Equal(t, 1, slow.refillRate)

	for i := 0; i < 5; i++ {
		require.NoError(t, tb.Wait(context.Background()))
	}
	assert.Equal(t, 0, tb.GetRemaining())
}
