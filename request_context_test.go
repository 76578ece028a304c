package castwave

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithResponseHeadersDerivesCopy(t *testing.T) {
	original := requestContext{
		account:        "acct_local",
		apiVersion:     "2026-06-01",
		idempotencyKey: "key_local",
		method:         http.MethodPost,
		path:           "/v1/episodes",
	}

	h := http.Header{}
	h.Set(headerAccount, "acct_server")
	h.Set(headerVersion, "2026-07-15")
	h.Set(headerIdempotencyKey, "key_server")

	derived := original.withResponseHeaders(h)

	assert.Equal(t, "acct_server", derived.account)
	assert.Equal(t, "2026-07-15", derived.apiVersion)
	assert.Equal(t, "key_server", derived.idempotencyKey)

	// The original record is untouched; an in-flight retry keeps logging
	// the values it started with.
	assert.Equal(t, "acct_local", original.account)
	assert.Equal(t, "2026-06-01", original.apiVersion)
	assert.Equal(t, "key_local", original.idempotencyKey)
}

func TestWithResponseHeadersPartialAndNil(t *testing.T) {
	original := requestContext{
		account:    "acct_local",
		apiVersion: "2026-06-01",
		method:     http.MethodGet,
		path:       "/v1/ping",
	}

	assert.Equal(t, original, original.withResponseHeaders(nil))

	h := http.Header{}
	h.Set(headerVersion, "2026-07-15")
	derived := original.withResponseHeaders(h)
	assert.Equal(t, "acct_local", derived.account, "absent headers keep local values")
	assert.Equal(t, "2026-07-15", derived.apiVersion)
}

func TestFieldsOmitsEmptyAndNeverLogsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	rctx := requestContext{
		method: http.MethodGet,
		path:   "/v1/episodes",
		query:  "limit=5",
	}
	rctx.fields(logger.Info()).Msg("request started")

	out := buf.String()
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/v1/episodes"`)
	assert.Contains(t, out, `"query":"limit=5"`)
	assert.NotContains(t, out, "account")
	assert.NotContains(t, out, "idempotency_key")
	assert.NotContains(t, out, "Authorization")
}
