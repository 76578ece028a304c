package castwave

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Option customizes a Client at construction time.
type Option func(*Client)

// WithAPIKey sets the API key used for every call made by the client.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.cfg.APIKey = key }
}

// WithBaseURL points the client at a different API origin. Useful for test
// servers and staging environments.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.cfg.BaseURL = baseURL }
}

// WithAPIVersion pins the Castwave-Version header sent on every request.
func WithAPIVersion(version string) Option {
	return func(c *Client) { c.cfg.APIVersion = version }
}

// WithAccount scopes every request to a connected account.
func WithAccount(account string) Option {
	return func(c *Client) { c.cfg.Account = account }
}

// WithOpenTimeout bounds connection establishment.
func WithOpenTimeout(d time.Duration) Option {
	return func(c *Client) { c.cfg.OpenTimeout = d }
}

// WithReadTimeout bounds the wait for response headers.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) { c.cfg.ReadTimeout = d }
}

// WithMaxNetworkRetries sets how many times a transport failure is retried.
// Zero disables retries and idempotency key generation.
func WithMaxNetworkRetries(n int) Option {
	return func(c *Client) { c.cfg.MaxNetworkRetries = n }
}

// WithRetryDelays sets the backoff window: initial seeds the exponential
// schedule and is its floor, max caps it.
func WithRetryDelays(initial, max time.Duration) Option {
	return func(c *Client) {
		c.cfg.InitialRetryDelay = initial
		c.cfg.MaxRetryDelay = max
	}
}

// WithLogLevel selects the built-in logger's level ("debug", "info", ...).
// Empty disables logging.
func WithLogLevel(level string) Option {
	return func(c *Client) { c.cfg.LogLevel = level }
}

// WithLogger replaces the built-in logger entirely; WithLogLevel is ignored
// when a custom logger is set.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.customLogger = &logger }
}

// WithBackend replaces the HTTP backend. Tests use this to stub the
// transport without a listening server.
func WithBackend(backend Backend) Option {
	return func(c *Client) { c.backend = backend }
}

// WithHTTPClient dispatches requests through the given http.Client instead
// of the one built from the timeout and TLS configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.backend = &httpBackend{client: client} }
}

// WithMetrics registers request metrics on the default Prometheus registry.
func WithMetrics() Option {
	return WithMetricsRegistry(prometheus.DefaultRegisterer)
}

// WithMetricsRegistry registers request metrics on the given registry.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = newMetricsCollector(reg) }
}
