package castwave

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/castwave/castwave-go/internal/backoff"
)

// retryPolicy decides which failures are worth another attempt and how long
// to wait between attempts. Only transport-level failures qualify: an HTTP
// error response, 5xx included, means the server completed the exchange and
// is never retried at this layer.
type retryPolicy struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// shouldRetry reports whether err warrants retry number attempts+1.
// Retryable failures are connection timeouts and refused/reset connections;
// TLS failures and anything that is not a transport failure are terminal.
func (p retryPolicy) shouldRetry(err error, attempts int) bool {
	if attempts >= p.maxRetries {
		return false
	}
	var terr *transportError
	if !errors.As(err, &terr) {
		return false
	}
	switch terr.kind {
	case transportTimeout, transportConnectionFailed:
		return true
	case transportTLSFailure, transportOther:
		return false
	default:
		return false
	}
}

// wait sleeps the computed backoff before retry number attempt (1-based),
// honoring context cancellation.
func (p retryPolicy) wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(backoff.Delay(attempt, p.initialDelay, p.maxDelay, nil))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// needsIdempotencyKey reports whether method has side effects the server
// cannot deduplicate on its own. Such calls get a client-generated
// idempotency key when retries are enabled, so a retried attempt that raced
// a slow success does not double-apply.
func needsIdempotencyKey(method string) bool {
	switch method {
	case http.MethodPost, http.MethodDelete, http.MethodPatch:
		return true
	default:
		return false
	}
}

// newIdempotencyKey returns a fresh key, generated once per logical call and
// reused verbatim on every retry of that call.
func newIdempotencyKey() string {
	return uuid.NewString()
}
