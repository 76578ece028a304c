package castwave

import (
	"context"
	"fmt"
	"sync"
)

type clientContextKey struct{}

// NewContext returns a context carrying c as its active client. Resource
// operations invoked without an explicit client use the context's client.
func NewContext(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, c)
}

// FromContext returns the context's active client, if one is bound.
func FromContext(ctx context.Context) (*Client, bool) {
	c, ok := ctx.Value(clientContextKey{}).(*Client)
	return c, ok
}

// RunScoped binds c as the active client for the duration of fn and returns
// fn's result together with the last response the client produced. The
// binding lives on the derived context only: concurrent goroutines and the
// caller's own context are unaffected, and nesting restores the outer
// client naturally when fn returns.
func RunScoped[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error)) (T, *Response, error) {
	if c == nil {
		var zero T
		return zero, nil, fmt.Errorf("castwave: RunScoped requires a non-nil client")
	}
	out, err := fn(NewContext(ctx, c))
	return out, c.LastResponse(), err
}

var (
	defaultClientOnce sync.Once
	defaultClient     *Client
	defaultClientErr  error
)

// DefaultClient returns the process-wide client, built lazily from the
// environment on first use.
func DefaultClient() (*Client, error) {
	defaultClientOnce.Do(func() {
		defaultClient, defaultClientErr = NewFromEnv()
	})
	return defaultClient, defaultClientErr
}

// activeClient resolves the client a resource operation should use: the
// context-bound one when present, the process default otherwise.
func activeClient(ctx context.Context) (*Client, error) {
	if c, ok := FromContext(ctx); ok {
		return c, nil
	}
	return DefaultClient()
}
