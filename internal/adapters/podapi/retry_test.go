package podapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryAfterDelay(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("seconds", func(t *testing.T) {
		h := http.Header{"Retry-After": []string{"7"}}
		assert.Equal(t, 7*time.Second, retryAfterDelay(h, now))
	})

	t.Run("http date", func(t *testing.T) {
		h := http.Header{"Retry-After": []string{now.Add(30 * time.Second).Format(http.TimeFormat)}}
		delay := retryAfterDelay(h, now)
		assert.Equal(t, 30*time.Second, delay)
	})

	t.Run("past date", func(t *testing.T) {
		h := http.Header{"Retry-After": []string{now.Add(-time.Minute).Format(http.TimeFormat)}}
		assert.Zero(t, retryAfterDelay(h, now))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Zero(t, retryAfterDelay(http.Header{}, now))
	})

	t.Run("garbage", func(t *testing.T) {
		h := http.Header{"Retry-After": []string{"soon"}}
		assert.Zero(t, retryAfterDelay(h, now))
	})

	t.Run("negative seconds", func(t *testing.T) {
		h := http.Header{"Retry-After": []string{"-5"}}
		assert.Zero(t, retryAfterDelay(h, now))
	})
}

func TestNextDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextDelay(time.Second, retryMaxDelay))
	assert.Equal(t, retryMaxDelay, nextDelay(40*time.Second, retryMaxDelay))
	assert.Equal(t, retryMaxTransportWait, nextDelay(16*time.Second, retryMaxTransportWait))
}

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, isRetryableStatus(http.StatusTooManyRequests))
	assert.True(t, isRetryableStatus(http.StatusInternalServerError))
	assert.True(t, isRetryableStatus(http.StatusBadGateway))
	assert.False(t, isRetryableStatus(http.StatusNotFound))
	assert.False(t, isRetryableStatus(http.StatusUnauthorized))
}

func TestTransportErrorBodySnippet(t *testing.T) {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}

	err := newTransportError(500, "Internal Server Error", long)
	te, ok := err.(*TransportError)
	assert.True(t, ok)
	assert.Len(t, te.Body, 300)
	assert.Equal(t, 500, te.StatusCode)
}
