package castwave

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"
)

// Backend is the injected transport the executor dispatches through. It must
// return either a completed HTTP response or a *transportError-normalized
// failure; implementations built on net/http get that normalization from
// httpBackend.
type Backend interface {
	Do(req *http.Request) (*http.Response, error)
}

// transportErrorKind is the closed set of transport failure classes. The
// retry policy and classifier switch over it exhaustively.
type transportErrorKind int

const (
	transportTimeout transportErrorKind = iota
	transportConnectionFailed
	transportTLSFailure
	transportOther
)

func (k transportErrorKind) String() string {
	switch k {
	case transportTimeout:
		return "timeout"
	case transportConnectionFailed:
		return "connection_failed"
	case transportTLSFailure:
		return "tls_failure"
	default:
		return "other"
	}
}

// transportError is the canonical shape every transport-level failure is
// normalized into before it reaches the executor.
type transportError struct {
	kind  transportErrorKind
	cause error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.kind, e.cause)
}

func (e *transportError) Unwrap() error { return e.cause }

// httpBackend adapts an *http.Client to the Backend interface, normalizing
// its error values at the boundary so the core never type-sniffs net/http
// internals.
type httpBackend struct {
	client *http.Client
}

func (b *httpBackend) Do(req *http.Request) (*http.Response, error) {
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, normalizeTransportFailure(err)
	}
	return resp, nil
}

// normalizeTransportFailure maps a net/http error onto the closed transport
// failure set. TLS is checked before the generic timeout test because some
// TLS handshake failures also report Timeout().
func normalizeTransportFailure(err error) *transportError {
	var certErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) || errors.As(err, &recordErr) {
		return &transportError{kind: transportTLSFailure, cause: err}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &transportError{kind: transportTimeout, cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &transportError{kind: transportTimeout, cause: err}
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return &transportError{kind: transportConnectionFailed, cause: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return &transportError{kind: transportConnectionFailed, cause: err}
	}

	return &transportError{kind: transportOther, cause: err}
}

// newHTTPBackend builds the default backend from the configuration: a
// persistent-connection transport with the configured proxy, TLS settings
// and open/read timeouts.
func newHTTPBackend(cfg Config) (*httpBackend, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	if cfg.CABundle != "" {
		pem, err := os.ReadFile(cfg.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("CA bundle %s contains no usable certificates", cfg.CABundle)
		}
		tlsConfig.RootCAs = pool
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.OpenTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   cfg.OpenTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &httpBackend{client: &http.Client{Transport: transport}}, nil
}
