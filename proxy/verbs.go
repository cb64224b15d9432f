package proxy

import (
	"context"
	"net/http"

	"github.com/kbukum/dataproxy/invoke"
)

// The helpers below run the same pipeline as Proxy against arbitrary URIs,
// typically built with Core.URI, for endpoints beyond plain CRUD.

// GetAsync issues a GET and decodes the body into Out.
func GetAsync[Out any](ctx context.Context, c *Core, uri string) *invoke.Future[Out] {
	return callAsync[Out](ctx, c, "get", http.MethodGet, uri, nil, true)
}

// Get is the blocking form of GetAsync.
func Get[Out any](ctx context.Context, c *Core, uri string) (Out, error) {
	return invoke.Invoke(c.strategy, func() *invoke.Future[Out] { return GetAsync[Out](ctx, c, uri) })
}

// PostAsync sends in with POST and decodes the body into Out.
func PostAsync[In, Out any](ctx context.Context, c *Core, uri string, in In) *invoke.Future[Out] {
	return callAsync[Out](ctx, c, "post", http.MethodPost, uri, in, true)
}

// Post is the blocking form of PostAsync.
func Post[In, Out any](ctx context.Context, c *Core, uri string, in In) (Out, error) {
	return invoke.Invoke(c.strategy, func() *invoke.Future[Out] { return PostAsync[In, Out](ctx, c, uri, in) })
}

// PutAsync sends in with PUT and decodes the body into Out.
func PutAsync[In, Out any](ctx context.Context, c *Core, uri string, in In) *invoke.Future[Out] {
	return callAsync[Out](ctx, c, "put", http.MethodPut, uri, in, true)
}

// Put is the blocking form of PutAsync.
func Put[In, Out any](ctx context.Context, c *Core, uri string, in In) (Out, error) {
	return invoke.Invoke(c.strategy, func() *invoke.Future[Out] { return PutAsync[In, Out](ctx, c, uri, in) })
}

// DeleteAsync issues a DELETE and ignores any 2xx body.
func DeleteAsync(ctx context.Context, c *Core, uri string) *invoke.Future[struct{}] {
	return callAsync[struct{}](ctx, c, "delete", http.MethodDelete, uri, nil, false)
}

// Delete is the blocking form of DeleteAsync.
func Delete(ctx context.Context, c *Core, uri string) error {
	return invoke.InvokeVoid(c.strategy, func() *invoke.Future[struct{}] { return DeleteAsync(ctx, c, uri) })
}
