package transport

import (
	"context"
	"sync/atomic"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/kbukum/dataproxy/logger"
)

type retryableFactory struct {
	client  *retryablehttp.Client
	headers map[string]string
}

func newRetryableFactory(cfg Config) (*retryableFactory, error) {
	hc, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	client := retryablehttp.NewClient()
	client.HTTPClient = hc
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = cfg.RetryWaitMin
	client.RetryWaitMax = cfg.RetryWaitMax
	client.Logger = leveledLogger{log: logger.Get("transport")}
	// Hand the last response back instead of an error so that status
	// classification stays with the caller.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &retryableFactory{client: client, headers: cfg.Headers}, nil
}

func (f *retryableFactory) NewTransport() (Transport, error) {
	return &retryableTransport{client: f.client, headers: f.headers}, nil
}

type retryableTransport struct {
	client  *retryablehttp.Client
	headers map[string]string
	closed  atomic.Bool
}

func (t *retryableTransport) Send(ctx context.Context, req Request) (*Response, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	var body interface{}
	if req.Body != nil {
		body = req.Body
	}
	r, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URI, body)
	if err != nil {
		return nil, NewRequestError(err)
	}
	mergeHeaders(r.Header, t.headers, req.Headers)

	resp, err := t.client.Do(r)
	if err != nil {
		return nil, classify(ctx, err)
	}
	return readResponse(resp)
}

func (t *retryableTransport) Close() error {
	t.closed.Store(true)
	return nil
}

// leveledLogger routes retryablehttp's logging to the structured logger.
type leveledLogger struct {
	log *logger.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Error(msg, logger.Fields(kv...)) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Debug(msg, logger.Fields(kv...)) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug(msg, logger.Fields(kv...)) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Warn(msg, logger.Fields(kv...)) }
