package castwave

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Header names the API uses to echo back authoritative request metadata.
const (
	headerAccount        = "Castwave-Account"
	headerVersion        = "Castwave-Version"
	headerIdempotencyKey = "Idempotency-Key"
)

// requestContext is the per-attempt logging record for one logical call. It
// is updated by replacement, never in place: each response derives a fresh
// copy so a retry already in flight keeps logging consistent data.
type requestContext struct {
	account        string
	apiVersion     string
	idempotencyKey string
	method         string
	path           string
	query          string
	body           string
}

// withResponseHeaders returns a copy with account, API version and
// idempotency key overwritten from the response headers, which are
// authoritative over locally configured values (the server reports the
// version it actually served). A nil header set returns the context
// unchanged.
func (r requestContext) withResponseHeaders(h http.Header) requestContext {
	if h == nil {
		return r
	}
	next := r
	if v := h.Get(headerAccount); v != "" {
		next.account = v
	}
	if v := h.Get(headerVersion); v != "" {
		next.apiVersion = v
	}
	if v := h.Get(headerIdempotencyKey); v != "" {
		next.idempotencyKey = v
	}
	return next
}

// fields attaches the context to a log event. The API key never appears
// here.
func (r requestContext) fields(e *zerolog.Event) *zerolog.Event {
	e = e.Str("method", r.method).Str("path", r.path)
	if r.query != "" {
		e = e.Str("query", r.query)
	}
	if r.account != "" {
		e = e.Str("account", r.account)
	}
	if r.apiVersion != "" {
		e = e.Str("api_version", r.apiVersion)
	}
	if r.idempotencyKey != "" {
		e = e.Str("idempotency_key", r.idempotencyKey)
	}
	return e
}
