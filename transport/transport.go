// Package transport sends raw requests to a remote REST resource.
//
// A Factory hands out one Transport per call; the caller closes it when the
// call completes. Three drivers share the same configuration:
//
//	http       net/http, optionally HTTP/2 (golang.org/x/net/http2)
//	resty      go-resty/resty
//	retryable  hashicorp/go-retryablehttp, retrying connection failures and 5xx
//
// Drivers never interpret status codes: every response that arrives, including
// 4xx and 5xx, is returned as a *Response. Only failures to obtain a response
// are returned as a *Error.
package transport

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// Request is an outbound request built fresh for every call.
type Request struct {
	Method  string
	URI     string
	Body    []byte
	Headers map[string]string
}

// Response is a fully read response.
type Response struct {
	// StatusCode is the numeric HTTP status.
	StatusCode int
	// Status is the status line as received, e.g. "404 Not Found".
	Status string
	// ContentType is the declared media type without parameters, or "".
	ContentType string
	Headers     map[string]string
	Body        []byte
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport sends requests. A Transport is used for a single call and closed
// afterwards; Send after Close fails.
type Transport interface {
	Send(ctx context.Context, req Request) (*Response, error)
	Close() error
}

// Factory produces a Transport per call.
type Factory interface {
	NewTransport() (Transport, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func() (Transport, error)

// NewTransport calls f.
func (f FactoryFunc) NewTransport() (Transport, error) { return f() }

// Driver names accepted by Config.Driver.
const (
	DriverHTTP      = "http"
	DriverResty     = "resty"
	DriverRetryable = "retryable"
)

// Drivers lists the accepted driver names.
func Drivers() []string {
	return []string{DriverHTTP, DriverResty, DriverRetryable}
}

// NewFactory builds the factory for cfg.Driver after applying defaults and
// validating cfg.
func NewFactory(cfg Config) (Factory, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case DriverHTTP:
		return newHTTPFactory(cfg)
	case DriverResty:
		return newRestyFactory(cfg)
	case DriverRetryable:
		return newRetryableFactory(cfg)
	default:
		return nil, fmt.Errorf("transport: unknown driver %q", cfg.Driver)
	}
}

// readResponse drains and closes resp.Body.
func readResponse(resp *http.Response) (*Response, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}
	return newResponse(resp.StatusCode, resp.Status, resp.Header, body), nil
}

func newResponse(code int, status string, h http.Header, body []byte) *Response {
	return &Response{
		StatusCode:  code,
		Status:      status,
		ContentType: mediaType(h.Get("Content-Type")),
		Headers:     flattenHeaders(h),
		Body:        body,
	}
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(mt))
	}
	return mt
}

// flattenHeaders keeps the first value of each header.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

// mergeHeaders applies defaults first so request headers win.
func mergeHeaders(dst http.Header, defaults, headers map[string]string) {
	for k, v := range defaults {
		dst.Set(k, v)
	}
	for k, v := range headers {
		dst.Set(k, v)
	}
}
