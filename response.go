package castwave

import (
	"encoding/json"
	"net/http"
)

// Response is the normalized result of a completed API call. It is immutable
// once constructed.
type Response struct {
	// StatusCode is the HTTP status.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// RawBody is the unparsed response body.
	RawBody []byte
	// Data is the decoded JSON body. Nil for empty bodies and for error
	// responses that never reached decoding.
	Data map[string]any
}

// newResponse builds a Response from already-read wire data, decoding the
// body. A decode failure returns the partially built response alongside the
// error so the classifier can still report status and raw body.
func newResponse(status int, header http.Header, body []byte) (*Response, error) {
	resp := &Response{
		StatusCode: status,
		Header:     header.Clone(),
		RawBody:    body,
	}
	if len(body) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(body, &resp.Data); err != nil {
		return resp, err
	}
	return resp, nil
}
