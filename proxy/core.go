package proxy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/dataproxy/codec"
	"github.com/kbukum/dataproxy/errors"
	"github.com/kbukum/dataproxy/invoke"
	"github.com/kbukum/dataproxy/logger"
	"github.com/kbukum/dataproxy/transport"
	"github.com/kbukum/dataproxy/validation"
)

const instrumentationName = "github.com/kbukum/dataproxy/proxy"

// HeaderRequestID carries the per-call request id.
const HeaderRequestID = "X-Request-ID"

// Core is the request/response pipeline shared by every operation against one
// resource. It holds no mutable state and is safe for concurrent use.
type Core struct {
	resource  Resource
	factory   transport.Factory
	codec     codec.Codec
	observer  Observer
	formatter ErrorFormatter
	strategy  invoke.Strategy
	log       *logger.Logger

	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewCore validates the resource URI and builds a pipeline around factory.
func NewCore(resource string, factory transport.Factory, opts ...Option) (*Core, error) {
	if err := validation.New().AbsoluteURL("resource", resource).Err(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, errors.MissingField("factory")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter(instrumentationName)
	requests, err := meter.Int64Counter("dataproxy.requests",
		metric.WithDescription("Proxy calls by operation and outcome"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("dataproxy: create request counter: %w", err)
	}
	duration, err := meter.Float64Histogram("dataproxy.request.duration",
		metric.WithDescription("Proxy call duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("dataproxy: create duration histogram: %w", err)
	}

	return &Core{
		resource:  Resource{BaseURI: strings.TrimRight(resource, "/")},
		factory:   factory,
		codec:     o.codec,
		observer:  o.observer,
		formatter: o.formatter,
		strategy:  o.strategy,
		log:       o.log,
		tracer:    o.tracerProvider.Tracer(instrumentationName),
		requests:  requests,
		duration:  duration,
	}, nil
}

// Resource returns the addressed collection.
func (c *Core) Resource() Resource { return c.resource }

// URI joins path-escaped segments onto the collection URI.
func (c *Core) URI(segments ...string) string { return c.resource.URI(segments...) }

// Codec returns the active codec.
func (c *Core) Codec() codec.Codec { return c.codec }

// Strategy returns the strategy used by blocking calls.
func (c *Core) Strategy() invoke.Strategy { return c.strategy }

// IsLatencyProne reports that every operation crosses the network.
func (c *Core) IsLatencyProne() bool { return true }

// SupportsTransactions reports that calls cannot join a local transaction.
func (c *Core) SupportsTransactions() bool { return false }

// onSuccess handles a 2xx response whose content type the codec accepts.
type onSuccess func(ctx context.Context, resp *transport.Response) error

// send runs one call: encode, acquire a transport, send, then either hand a
// negotiated 2xx response to handle or classify the failure. The transport
// is closed before send returns.
func (c *Core) send(ctx context.Context, op, method, uri string, body any, handle onSuccess) (err error) {
	requestID := uuid.NewString()
	ctx = logger.ContextWithRequestID(ctx, requestID)
	ctx, span := c.tracer.Start(ctx, "dataproxy."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("dataproxy.operation", op),
			attribute.String("http.request.method", method),
			attribute.String("url.full", uri),
			attribute.String("dataproxy.request_id", requestID),
		))
	start := time.Now()
	status := 0
	defer func() { c.finish(ctx, span, op, method, uri, status, start, err) }()

	req := transport.Request{
		Method: method,
		URI:    uri,
		Headers: map[string]string{
			"Accept":        c.codec.MediaType(),
			HeaderRequestID: requestID,
		},
	}
	if body != nil {
		data, encErr := c.codec.Encode(body)
		if encErr != nil {
			return fmt.Errorf("dataproxy: encode request: %w", encErr)
		}
		req.Body = data
		req.Headers["Content-Type"] = c.codec.MediaType()
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(req.Headers))

	tr, err := c.factory.NewTransport()
	if err != nil {
		return fmt.Errorf("dataproxy: acquire transport: %w", err)
	}
	defer func() {
		if cerr := tr.Close(); cerr != nil {
			c.log.WithContext(ctx).Warn("transport close failed", logger.ErrorFields(op, cerr))
		}
	}()

	resp, err := tr.Send(ctx, req)
	if err != nil {
		return err
	}
	status = resp.StatusCode

	if !resp.IsSuccess() {
		return Classify(resp).Err(c.formatter)
	}
	if len(resp.Body) > 0 && !c.codec.Accepts(resp.ContentType) {
		return errors.UnsupportedContent(resp.ContentType, c.codec.Name())
	}
	return handle(ctx, resp)
}

// finish records the span, metrics and log entry for one call.
func (c *Core) finish(ctx context.Context, span trace.Span, op, method, uri string, status int, start time.Time, err error) {
	elapsed := time.Since(start)
	result := outcomeLabel(status, err)

	attrs := metric.WithAttributes(
		attribute.String("dataproxy.operation", op),
		attribute.String("http.request.method", method),
		attribute.String("dataproxy.outcome", result),
	)
	c.requests.Add(ctx, 1, attrs)
	c.duration.Record(ctx, elapsed.Seconds(), attrs)

	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	fields := logger.ExchangeFields(method, uri, status, elapsed)
	fields[logger.FieldOperation] = op
	fields[logger.FieldCodec] = c.codec.Name()
	fields[logger.FieldStrategy] = c.strategy.Name()
	if sc := span.SpanContext(); sc.IsValid() {
		fields[logger.FieldTraceID] = sc.TraceID().String()
		fields[logger.FieldSpanID] = sc.SpanID().String()
	}
	log := c.log.WithContext(ctx)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn("proxy call failed", logger.MergeWithError(fields, err))
	} else {
		span.SetStatus(codes.Ok, "")
		log.Debug("proxy call completed", fields)
	}
	span.End()
}

// outcomeLabel names a call result for metrics.
func outcomeLabel(status int, err error) string {
	switch {
	case err == nil:
		return KindSuccess.String()
	case errors.IsUnsupportedContent(err):
		return "unsupported_content"
	case status == 0:
		return "transport_error"
	case status >= 200 && status < 300:
		return "decode_error"
	default:
		return Classify(&transport.Response{StatusCode: status}).Kind.String()
	}
}

// call performs one operation and decodes a 2xx body into Out. Without
// decode the body is ignored and the observer receives nil.
func call[Out any](ctx context.Context, c *Core, op, method, uri string, body any, decode bool) (Out, error) {
	var out Out
	err := c.send(ctx, op, method, uri, body, func(ctx context.Context, resp *transport.Response) error {
		if !decode {
			c.observer.Observe(ctx, resp, nil)
			return nil
		}
		if len(resp.Body) > 0 {
			if err := c.codec.Decode(resp.Body, &out); err != nil {
				return fmt.Errorf("dataproxy: decode response: %w", err)
			}
		}
		c.observer.Observe(ctx, resp, out)
		return nil
	})
	if err != nil {
		var zero Out
		return zero, err
	}
	return out, nil
}

func callAsync[Out any](ctx context.Context, c *Core, op, method, uri string, body any, decode bool) *invoke.Future[Out] {
	return invoke.Go(func() (Out, error) {
		return call[Out](ctx, c, op, method, uri, body, decode)
	})
}
