package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowUpToMaxRequests(t *testing.T) {
	limiter := NewRateLimiter(3)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())
}

func TestWaitReturnsOnContextCancel(t *testing.T) {
	limiter := NewRateLimiter(1)
	assert.True(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAllowRecoversAfterWindow(t *testing.T) {
	limiter := NewRateLimiter(1)

	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	time.Sleep(1100 * time.Millisecond)
	assert.True(t, limiter.Allow())
}
