package proxy

import (
	"context"

	"github.com/kbukum/dataproxy/transport"
)

// Observer inspects every successfully decoded response. It cannot veto or
// alter the result. decoded is nil for operations without a value.
type Observer interface {
	Observe(ctx context.Context, resp *transport.Response, decoded any)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, resp *transport.Response, decoded any)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, resp *transport.Response, decoded any) {
	f(ctx, resp, decoded)
}

// ErrorFormatter rewrites raw server error text before it becomes the message
// of a classified error.
type ErrorFormatter interface {
	Format(raw string) string
}

// ErrorFormatterFunc adapts a function to ErrorFormatter.
type ErrorFormatterFunc func(raw string) string

// Format calls f.
func (f ErrorFormatterFunc) Format(raw string) string { return f(raw) }

type nopObserver struct{}

func (nopObserver) Observe(context.Context, *transport.Response, any) {}

type identityFormatter struct{}

func (identityFormatter) Format(raw string) string { return raw }
