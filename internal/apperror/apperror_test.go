package apperror

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserNotFoundWrapping(t *testing.T) {
	err := fmt.Errorf("github login %q: %w", "nobody", ErrUserNotFound)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRateLimitRetryAfter(t *testing.T) {
	err := &RateLimitError{Reset: time.Now().Add(2 * time.Minute)}
	assert.Greater(t, err.RetryAfter(), time.Minute)

	past := &RateLimitError{Reset: time.Now().Add(-time.Minute)}
	assert.Equal(t, time.Duration(0), past.RetryAfter())

	unknown := &RateLimitError{}
	assert.Equal(t, time.Duration(0), unknown.RetryAfter())
	assert.Equal(t, "github api rate limit exceeded", unknown.Error())
}

func TestNetworkAndStoreErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection refused")

	var netErr *NetworkError
	err := error(&NetworkError{Op: "fetch user", Err: cause})
	assert.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, err, cause)

	var storeErr *StoreError
	err = error(&StoreError{Op: "import user", Err: cause})
	assert.ErrorAs(t, err, &storeErr)
	assert.ErrorIs(t, err, cause)
}
