package podapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	retryBaseDelay        = 1 * time.Second
	retryMaxDelay         = 60 * time.Second
	retryMaxTransportWait = 30 * time.Second
)

// TransportError is a remote API failure that survived the retry policy:
// connection failures with retries exhausted, or a non-recoverable HTTP
// status.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *TransportError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("catalog request failed: %s", e.Status)
	}
	return fmt.Sprintf("catalog request failed: %s: %s", e.Status, e.Body)
}

func newTransportError(statusCode int, status string, body []byte) error {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 300 {
		snippet = snippet[:300]
	}
	return &TransportError{
		StatusCode: statusCode,
		Status:     status,
		Body:       snippet,
	}
}

func isRetryableStatus(statusCode int) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	return statusCode >= 500 && statusCode < 600
}

// nextDelay doubles the backoff up to the cap.
func nextDelay(delay, cap time.Duration) time.Duration {
	delay *= 2
	if delay > cap {
		return cap
	}
	return delay
}

// retryAfterDelay honors a Retry-After header carrying either a number of
// seconds or an HTTP-date. Zero means the header is absent or unusable.
func retryAfterDelay(header http.Header, now time.Time) time.Duration {
	value := strings.TrimSpace(header.Get("Retry-After"))
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	when, err := http.ParseTime(value)
	if err != nil {
		return 0
	}
	if delay := when.Sub(now); delay > 0 {
		return delay
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
