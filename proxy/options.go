package proxy

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/dataproxy/codec"
	"github.com/kbukum/dataproxy/invoke"
	"github.com/kbukum/dataproxy/logger"
)

type options struct {
	codec          codec.Codec
	observer       Observer
	formatter      ErrorFormatter
	strategy       invoke.Strategy
	log            *logger.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func defaultOptions() options {
	return options{
		codec:          codec.Default(),
		observer:       nopObserver{},
		formatter:      identityFormatter{},
		strategy:       invoke.Default(),
		log:            logger.Get("dataproxy"),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
}

// Option configures a Core.
type Option func(*options)

// WithCodec sets the codec for request and response bodies. Defaults to JSON.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithObserver sets the hook called after every successful decode.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithErrorFormatter sets the hook applied to 400, 404, 409 and 501 bodies.
func WithErrorFormatter(f ErrorFormatter) Option {
	return func(o *options) {
		if f != nil {
			o.formatter = f
		}
	}
}

// WithSyncStrategy sets how blocking methods wait for their asynchronous
// counterparts. Defaults to invoke.DirectWait.
func WithSyncStrategy(s invoke.Strategy) Option {
	return func(o *options) {
		if s != nil {
			o.strategy = s
		}
	}
}

// WithLogger sets the logger. Defaults to the "dataproxy" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}
