package proxy

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/kbukum/dataproxy/transport"
)

const baseURI = "http://api.test/customers"

type customer struct {
	ID      int    `json:"ID" xml:"ID"`
	Name    string `json:"Name,omitempty" xml:"Name,omitempty"`
	Version int    `json:"Version,omitempty" xml:"Version,omitempty"`
}

func (c customer) EntityID() int { return c.ID }

// stubFactory answers every request with respond and records requests and
// transport lifecycles.
type stubFactory struct {
	respond func(req transport.Request) (*transport.Response, error)

	mu       sync.Mutex
	requests []transport.Request
	opened   atomic.Int32
	closed   atomic.Int32
}

func newStub(status int, contentType, body string) *stubFactory {
	return &stubFactory{respond: func(transport.Request) (*transport.Response, error) {
		return stubResponse(status, contentType, body), nil
	}}
}

func stubResponse(status int, contentType, body string) *transport.Response {
	return &transport.Response{
		StatusCode:  status,
		Status:      http.StatusText(status),
		ContentType: contentType,
		Headers:     map[string]string{},
		Body:        []byte(body),
	}
}

func (f *stubFactory) NewTransport() (transport.Transport, error) {
	f.opened.Add(1)
	return &stubTransport{f: f}, nil
}

func (f *stubFactory) lastRequest() transport.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return transport.Request{}
	}
	return f.requests[len(f.requests)-1]
}

type stubTransport struct {
	f      *stubFactory
	closed bool
}

func (t *stubTransport) Send(_ context.Context, req transport.Request) (*transport.Response, error) {
	t.f.mu.Lock()
	t.f.requests = append(t.f.requests, req)
	t.f.mu.Unlock()
	return t.f.respond(req)
}

func (t *stubTransport) Close() error {
	if !t.closed {
		t.closed = true
		t.f.closed.Add(1)
	}
	return nil
}

// recorder counts hook invocations.
type recorder struct {
	observed  atomic.Int32
	formatted atomic.Int32

	mu   sync.Mutex
	last any
}

func (r *recorder) options() []Option {
	return []Option{
		WithObserver(ObserverFunc(func(_ context.Context, _ *transport.Response, decoded any) {
			r.observed.Add(1)
			r.mu.Lock()
			r.last = decoded
			r.mu.Unlock()
		})),
		WithErrorFormatter(ErrorFormatterFunc(func(raw string) string {
			r.formatted.Add(1)
			return "formatted: " + raw
		})),
	}
}

func (r *recorder) lastDecoded() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
