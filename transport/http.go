package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"golang.org/x/net/http2"
)

// newHTTPClient builds the client shared by every transport of a factory.
func newHTTPClient(cfg Config) (*http.Client, error) {
	base := http.DefaultTransport.(*http.Transport).Clone()

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		base.TLSClientConfig = tlsCfg
	}
	if cfg.HTTP2 {
		if _, err := http2.ConfigureTransports(base); err != nil {
			return nil, fmt.Errorf("transport: configure http2: %w", err)
		}
	}

	var rt http.RoundTripper = base
	if auth := cfg.Auth.Build(); auth != nil {
		rt = &authRoundTripper{next: base, auth: auth}
	}
	return &http.Client{Transport: rt, Timeout: cfg.Timeout}, nil
}

// authRoundTripper applies credentials to every outbound request, including
// retries issued by wrapping clients.
type authRoundTripper struct {
	next http.RoundTripper
	auth Authenticator
}

func (a *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if err := a.auth.Authorize(clone); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, NewRequestError(err)
	}
	return a.next.RoundTrip(clone)
}

type httpFactory struct {
	client  *http.Client
	headers map[string]string
}

func newHTTPFactory(cfg Config) (*httpFactory, error) {
	client, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &httpFactory{client: client, headers: cfg.Headers}, nil
}

func (f *httpFactory) NewTransport() (Transport, error) {
	return &httpTransport{client: f.client, headers: f.headers}, nil
}

type httpTransport struct {
	client  *http.Client
	headers map[string]string
	closed  atomic.Bool
}

func (t *httpTransport) Send(ctx context.Context, req Request) (*Response, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	httpReq, err := newHTTPRequest(ctx, req, t.headers)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classify(ctx, err)
	}
	return readResponse(resp)
}

// Close releases the transport. Pooled connections stay with the factory.
func (t *httpTransport) Close() error {
	t.closed.Store(true)
	return nil
}

func newHTTPRequest(ctx context.Context, req Request, defaults map[string]string) (*http.Request, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URI, body)
	if err != nil {
		return nil, NewRequestError(err)
	}
	mergeHeaders(httpReq.Header, defaults, req.Headers)
	return httpReq, nil
}
