package castwave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/castwave/castwave-go/internal/form"
)

// CallParams carries the parameters and per-call overrides for one logical
// API operation.
type CallParams struct {
	// Params are the operation parameters. For POST/PUT/PATCH they are
	// form-encoded into the request body; for other methods they are merged
	// into the query string.
	Params map[string]any
	// Query are explicit query parameters, sent on the URL regardless of
	// method. On key collision they win over parameters embedded in the
	// path and, for query-methods, over Params.
	Query map[string]any

	// Per-call overrides of the client configuration.
	APIKey         string
	APIVersion     string
	Account        string
	IdempotencyKey string
}

// Client executes logical API calls: it encodes parameters, dispatches over
// the shared backend, retries transport failures with backoff, classifies
// failures into typed errors and decodes successes. A Client is safe for
// concurrent use.
type Client struct {
	cfg     Config
	backend Backend
	logger  zerolog.Logger
	metrics *metricsCollector

	// waitFn overrides the backoff sleep; tests use it to record sleeps.
	waitFn func(ctx context.Context, attempt int) error

	customLogger *zerolog.Logger

	// Episodes and Podcasts expose the resource surface bound to this
	// client.
	Episodes EpisodeService
	Podcasts PodcastService

	mu           sync.Mutex
	lastResponse *Response
}

// New creates a Client from DefaultConfig plus the given options.
func New(opts ...Option) (*Client, error) {
	return NewWithConfig(DefaultConfig(), opts...)
}

// NewFromEnv creates a Client from ConfigFromEnv plus the given options.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, opts...)
}

// NewWithConfig creates a Client from an explicit configuration snapshot.
func NewWithConfig(cfg Config, opts ...Option) (*Client, error) {
	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.validate(); err != nil {
		return nil, err
	}

	if c.customLogger != nil {
		c.logger = *c.customLogger
	} else {
		c.logger = newLogger(c.cfg.LogLevel)
	}

	if c.backend == nil {
		backend, err := newHTTPBackend(c.cfg)
		if err != nil {
			return nil, err
		}
		c.backend = backend
	}

	c.Episodes = EpisodeService{client: c}
	c.Podcasts = PodcastService{client: c}
	return c, nil
}

// Config returns the configuration snapshot the client was built with.
func (c *Client) Config() Config { return c.cfg }

// LastResponse returns the most recent successful Response this client
// produced, or nil.
func (c *Client) LastResponse() *Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResponse
}

func (c *Client) recordResponse(resp *Response) {
	c.mu.Lock()
	c.lastResponse = resp
	c.mu.Unlock()
}

// ValidateKey performs a cheap authenticated call to verify the configured
// API key against the live API.
func (c *Client) ValidateKey(ctx context.Context) error {
	_, err := c.Call(ctx, http.MethodGet, "/v1/ping", nil)
	return err
}

// Call executes one logical API operation and returns the decoded Response,
// or one of the typed errors. Transport failures are retried per the
// configured retry policy; HTTP error responses are classified and returned
// without retry.
func (c *Client) Call(ctx context.Context, method, path string, params *CallParams) (*Response, error) {
	if params == nil {
		params = &CallParams{}
	}
	start := time.Now()

	rctx := requestContext{method: method, path: path}

	key := params.APIKey
	if key == "" {
		key = c.cfg.APIKey
	}
	if err := validateKey(key); err != nil {
		c.logCallError(rctx, 0, err)
		return nil, err
	}

	version := firstNonEmpty(params.APIVersion, c.cfg.APIVersion)
	account := firstNonEmpty(params.Account, c.cfg.Account)

	// The encode cache lives exactly as long as this call; the token keys
	// its two entries (body and query) so the wire and log encodings are
	// the same string.
	cache := form.NewCache()
	callToken := uuid.NewString()

	var bodyParams, queryParams map[string]any
	if hasBody(method) {
		bodyParams = params.Params
		queryParams = params.Query
	} else {
		queryParams = mergeParams(params.Params, params.Query)
	}

	cleanPath, encodedQuery, err := reconcileQuery(cache, callToken, path, queryParams)
	if err != nil {
		callErr := &InvalidRequestError{apiErrorBase{
			ErrCode: codeInvalidRequest,
			Message: err.Error(),
		}}
		c.logCallError(rctx, 0, callErr)
		return nil, callErr
	}

	var encodedBody string
	if len(bodyParams) > 0 {
		encodedBody, err = cache.Encode(callToken+":body", bodyParams)
		if err != nil {
			callErr := &InvalidRequestError{apiErrorBase{
				ErrCode: codeInvalidRequest,
				Message: err.Error(),
			}}
			c.logCallError(rctx, 0, callErr)
			return nil, callErr
		}
	}

	idemKey := params.IdempotencyKey
	if idemKey == "" && c.cfg.MaxNetworkRetries > 0 && needsIdempotencyKey(method) {
		idemKey = newIdempotencyKey()
	}

	rctx = requestContext{
		account:        account,
		apiVersion:     version,
		idempotencyKey: idemKey,
		method:         method,
		path:           cleanPath,
		query:          encodedQuery,
		body:           encodedBody,
	}

	policy := retryPolicy{
		maxRetries:   c.cfg.MaxNetworkRetries,
		initialDelay: c.cfg.InitialRetryDelay,
		maxDelay:     c.cfg.MaxRetryDelay,
	}
	wait := c.waitFn
	if wait == nil {
		wait = policy.wait
	}

	requestURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + cleanPath
	if encodedQuery != "" {
		requestURL += "?" + encodedQuery
	}

	attempts := 0
	for {
		rctx.fields(c.logger.Info()).Int("attempt", attempts).Msg("request started")
		if len(bodyParams) > 0 {
			// Second use of the body encoding; served from the call cache.
			loggedBody, _ := cache.Encode(callToken+":body", bodyParams)
			rctx.fields(c.logger.Debug()).Str("body", loggedBody).Msg("request payload")
		}

		req, reqErr := c.newRequest(ctx, method, requestURL, encodedBody, key, version, account, idemKey)
		if reqErr != nil {
			return nil, fmt.Errorf("castwave: build request: %w", reqErr)
		}

		resp, doErr := c.backend.Do(req)
		var body []byte
		if doErr == nil {
			body, doErr = readBody(resp)
		}
		if doErr != nil {
			if policy.shouldRetry(doErr, attempts) {
				attempts++
				c.metrics.observeRetry(method, cleanPath)
				rctx.fields(c.logger.Info()).Int("attempt", attempts).Err(doErr).
					Msg("retrying after transport failure")
				if werr := wait(ctx, attempts); werr != nil {
					return nil, werr
				}
				continue
			}
			var terr *transportError
			if !errors.As(doErr, &terr) {
				terr = &transportError{kind: transportOther, cause: doErr}
			}
			connErr := connectionError(terr, attempts)
			c.logCallError(rctx, 0, connErr)
			c.metrics.observeRequest(method, cleanPath, 0, time.Since(start))
			return nil, connErr
		}

		rctx = rctx.withResponseHeaders(resp.Header)

		if resp.StatusCode >= 400 {
			failed, _ := newResponse(resp.StatusCode, resp.Header, body)
			callErr := responseError(failed)
			c.logCallError(rctx, resp.StatusCode, callErr)
			c.metrics.observeRequest(method, cleanPath, resp.StatusCode, time.Since(start))
			return nil, callErr
		}

		final, decodeErr := newResponse(resp.StatusCode, resp.Header, body)
		if decodeErr != nil {
			callErr := &APIError{apiErrorBase{
				StatusCode: final.StatusCode,
				Header:     final.Header,
				RawBody:    final.RawBody,
				ErrCode:    codeAPIError,
				Message:    fmt.Sprintf("could not decode response body: %v", decodeErr),
				Response:   final,
			}}
			c.logCallError(rctx, resp.StatusCode, callErr)
			c.metrics.observeRequest(method, cleanPath, resp.StatusCode, time.Since(start))
			return nil, callErr
		}

		c.recordResponse(final)
		rctx.fields(c.logger.Info()).
			Int("status", final.StatusCode).
			Int("retries", attempts).
			Dur("duration", time.Since(start)).
			Msg("request completed")
		c.metrics.observeRequest(method, cleanPath, final.StatusCode, time.Since(start))
		return final, nil
	}
}

func (c *Client) newRequest(ctx context.Context, method, requestURL, body, key, version, account, idemKey string) (*http.Request, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("User-Agent", userAgent())
	req.Header.Set("X-Castwave-Client-User-Agent", clientUserAgent())
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if version != "" {
		req.Header.Set(headerVersion, version)
	}
	if account != "" {
		req.Header.Set(headerAccount, account)
	}
	if idemKey != "" {
		req.Header.Set(headerIdempotencyKey, idemKey)
	}
	return req, nil
}

// readBody drains and closes the response body. Read failures are
// normalized like dispatch failures: a connection dropped mid-body is a
// transport failure, not a decode failure.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, normalizeTransportFailure(err)
	}
	return body, nil
}

// logCallError emits the error-level record every raised error gets, so
// failures stay observable even when the caller only checks for a generic
// error.
func (c *Client) logCallError(rctx requestContext, status int, callErr error) {
	e := rctx.fields(c.logger.Error())
	if status > 0 {
		e = e.Int("status", status)
	}
	if coded, ok := callErr.(interface{ Code() string }); ok {
		e = e.Str("code", coded.Code())
	}
	e.Str("message", callErr.Error()).Msg("request failed")
}

// validateKey enforces the local key rules before anything touches the
// wire.
func validateKey(key string) error {
	if key == "" {
		return authenticationKeyError("no API key provided; set Config.APIKey, the CASTWAVE_API_KEY environment variable, or a per-call key")
	}
	if strings.ContainsAny(key, " \t\n\r") {
		return authenticationKeyError("API key contains whitespace; it may have been truncated or padded when copied")
	}
	return nil
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// mergeParams folds params and query into one map for query-methods;
// explicit query entries win on collision.
func mergeParams(params, query map[string]any) map[string]any {
	if len(params) == 0 {
		return query
	}
	if len(query) == 0 {
		return params
	}
	merged := make(map[string]any, len(params)+len(query))
	for k, v := range params {
		merged[k] = v
	}
	for k, v := range query {
		merged[k] = v
	}
	return merged
}

// reconcileQuery merges query parameters embedded in the path with the
// explicit set (explicit wins per key) and canonicalizes the path to its
// path-only form, so callers can safely supply both without losing either.
func reconcileQuery(cache *form.Cache, token, path string, explicit map[string]any) (string, string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", fmt.Errorf("invalid request path %q: %w", path, err)
	}

	merged := u.Query()
	if len(explicit) > 0 {
		encoded, err := cache.Encode(token+":query", explicit)
		if err != nil {
			return "", "", err
		}
		vals, err := url.ParseQuery(encoded)
		if err != nil {
			return "", "", fmt.Errorf("re-parse encoded query: %w", err)
		}
		for k, vs := range vals {
			merged[k] = vs
		}
	}

	return u.Path, merged.Encode(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
