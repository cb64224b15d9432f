package transport

import (
	"context"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type restyFactory struct {
	client *resty.Client
}

func newRestyFactory(cfg Config) (*restyFactory, error) {
	hc, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	client := resty.NewWithClient(hc).
		SetTimeout(cfg.Timeout).
		SetHeaders(cfg.Headers)
	return &restyFactory{client: client}, nil
}

func (f *restyFactory) NewTransport() (Transport, error) {
	return &restyTransport{client: f.client}, nil
}

type restyTransport struct {
	client *resty.Client
	closed atomic.Bool
}

func (t *restyTransport) Send(ctx context.Context, req Request) (*Response, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	r := t.client.R().
		SetContext(ctx).
		SetHeaders(req.Headers)
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URI)
	if err != nil {
		return nil, classify(ctx, err)
	}
	return newResponse(resp.StatusCode(), resp.Status(), resp.Header(), resp.Body()), nil
}

func (t *restyTransport) Close() error {
	t.closed.Store(true)
	return nil
}
