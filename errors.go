package castwave

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes reported on typed errors. Stable across releases; match on
// these (or on the concrete error types with errors.As) rather than on
// message text.
const (
	codeAPIError       = "api_error"
	codeAuthentication = "authentication_error"
	codePermission     = "permission_error"
	codeInvalidRequest = "invalid_request_error"
	codeRateLimit      = "rate_limit_error"
	codeConnection     = "api_connection_error"
)

// apiErrorBase carries the wire-level facts shared by every error derived
// from a completed HTTP response.
type apiErrorBase struct {
	// StatusCode is the HTTP status of the response, or 0 for errors raised
	// locally before dispatch.
	StatusCode int
	// Header holds the response headers, when a response exists.
	Header http.Header
	// RawBody is the unparsed response body.
	RawBody []byte
	// Payload is the decoded error body, when it decoded.
	Payload map[string]any
	// ErrCode identifies the error kind; one of the code constants above.
	ErrCode string
	// Message is the human-readable description from the error payload.
	Message string
	// Response is the normalized response that triggered the error, when one
	// exists.
	Response *Response
}

func (e *apiErrorBase) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("castwave: %s: %s", e.ErrCode, e.Message)
	}
	return fmt.Sprintf("castwave: %s: %s (status %d)", e.ErrCode, e.Message, e.StatusCode)
}

// Code returns the stable error code.
func (e *apiErrorBase) Code() string { return e.ErrCode }

// APIError is the generic API failure: any status outside the specifically
// mapped set, or a response body that could not be decoded.
type APIError struct{ apiErrorBase }

// AuthenticationError covers HTTP 401 and locally rejected API keys
// (missing, or containing whitespace). Local key errors are never sent over
// the wire and have StatusCode 0.
type AuthenticationError struct{ apiErrorBase }

// PermissionError covers HTTP 403.
type PermissionError struct{ apiErrorBase }

// InvalidRequestError covers HTTP 400, 404 and 422.
type InvalidRequestError struct{ apiErrorBase }

// RateLimitError covers HTTP 429.
type RateLimitError struct{ apiErrorBase }

// APIConnectionError is the transport-failure branch of the taxonomy: the
// request never completed as an HTTP exchange. It is raised only after the
// retry policy has given up.
type APIConnectionError struct {
	// Message includes a failure-specific remediation hint, with the retry
	// count appended when any retries were attempted.
	Message string
	// Retries is the number of retries attempted before giving up.
	Retries int

	cause error
}

func (e *APIConnectionError) Error() string {
	return "castwave: " + codeConnection + ": " + e.Message
}

// Code returns the stable error code.
func (e *APIConnectionError) Code() string { return codeConnection }

// Unwrap exposes the underlying transport failure.
func (e *APIConnectionError) Unwrap() error { return e.cause }

// authenticationKeyError builds the local, pre-dispatch key validation error.
func authenticationKeyError(message string) *AuthenticationError {
	return &AuthenticationError{apiErrorBase{
		ErrCode: codeAuthentication,
		Message: message,
	}}
}

// responseError classifies a completed non-2xx response into a typed error.
// The body is decoded first; when it cannot be decoded, the raw status and
// body surface on a generic APIError rather than being swallowed.
func responseError(resp *Response) error {
	payload, ok := decodeErrorPayload(resp.RawBody)
	if !ok {
		return &APIError{apiErrorBase{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			RawBody:    resp.RawBody,
			ErrCode:    codeAPIError,
			Message:    fmt.Sprintf("invalid response body from API (status %d): %q", resp.StatusCode, resp.RawBody),
			Response:   resp,
		}}
	}

	base := apiErrorBase{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		RawBody:    resp.RawBody,
		Payload:    payload,
		Message:    payloadMessage(payload, resp.StatusCode),
		Response:   resp,
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		base.ErrCode = codeInvalidRequest
		return &InvalidRequestError{base}
	case http.StatusUnauthorized:
		base.ErrCode = codeAuthentication
		return &AuthenticationError{base}
	case http.StatusForbidden:
		base.ErrCode = codePermission
		return &PermissionError{base}
	case http.StatusTooManyRequests:
		base.ErrCode = codeRateLimit
		return &RateLimitError{base}
	default:
		base.ErrCode = codeAPIError
		return &APIError{base}
	}
}

func decodeErrorPayload(body []byte) (map[string]any, bool) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// payloadMessage pulls the human-readable message out of an error payload,
// accepting both the flat {"message": ...} and nested {"error": {...}}
// shapes the API has used.
func payloadMessage(payload map[string]any, status int) string {
	if s, ok := payload["message"].(string); ok && s != "" {
		return s
	}
	if nested, ok := payload["error"].(map[string]any); ok {
		if s, ok := nested["message"].(string); ok && s != "" {
			return s
		}
	}
	if s, ok := payload["error"].(string); ok && s != "" {
		return s
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// connectionError classifies a transport failure, matched exhaustively over
// the closed kind set, into an APIConnectionError with a remediation hint.
func connectionError(terr *transportError, retries int) *APIConnectionError {
	var msg string
	switch terr.kind {
	case transportTimeout:
		msg = fmt.Sprintf("timed out while talking to Castwave (%v); check your network, or raise the configured timeouts for slow operations", terr.cause)
	case transportConnectionFailed:
		msg = fmt.Sprintf("could not connect to Castwave (%v); the connection was refused or reset, check your network and the configured base URL", terr.cause)
	case transportTLSFailure:
		msg = fmt.Sprintf("could not verify Castwave's TLS certificate (%v); check your CA bundle and that no proxy is intercepting TLS", terr.cause)
	default:
		msg = fmt.Sprintf("unexpected failure while talking to Castwave (%v)", terr.cause)
	}
	if retries > 0 {
		msg = fmt.Sprintf("%s (after %d network retries)", msg, retries)
	}
	return &APIConnectionError{
		Message: msg,
		Retries: retries,
		cause:   terr,
	}
}
