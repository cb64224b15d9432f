// Package proxy treats a remote REST resource as a local repository.
//
// A Proxy performs CRUD calls against one collection URI, delegates the
// network round trip to a transport.Factory, decodes 2xx bodies with a codec
// and turns failure statuses into typed errors:
//
//	400 -> errors.ErrService
//	409 -> errors.ErrConcurrency
//	404 -> errors.ErrNotFound
//	501 -> errors.ErrNotImplemented
//
// Any other failure status is returned as a *transport.Error. A 2xx body
// whose declared content type the codec cannot decode fails with
// errors.ErrUnsupportedContent.
//
// Each operation has an asynchronous form returning an *invoke.Future and a
// blocking form derived from it through the configured invoke.Strategy. Both
// forms fail with the same error value.
package proxy

import (
	"context"
	"net/http"

	"github.com/kbukum/dataproxy/invoke"
	"github.com/kbukum/dataproxy/transport"
)

// Entity is any value identified by a key of type K.
type Entity[K comparable] interface {
	EntityID() K
}

// Operation names used in logs, spans and metrics.
const (
	OpGetAll  = "get_all"
	OpGetByID = "get_by_id"
	OpInsert  = "insert"
	OpUpdate  = "update"
	OpDelete  = "delete"
)

// Proxy performs CRUD operations for entities of type T keyed by K.
type Proxy[T Entity[K], K comparable] struct {
	core *Core
}

// New creates a proxy for the collection at resource.
func New[T Entity[K], K comparable](resource string, factory transport.Factory, opts ...Option) (*Proxy[T, K], error) {
	core, err := NewCore(resource, factory, opts...)
	if err != nil {
		return nil, err
	}
	return &Proxy[T, K]{core: core}, nil
}

// Core exposes the shared pipeline for custom endpoints of the resource.
func (p *Proxy[T, K]) Core() *Core { return p.core }

// IsLatencyProne reports that every operation crosses the network.
func (p *Proxy[T, K]) IsLatencyProne() bool { return p.core.IsLatencyProne() }

// SupportsTransactions reports that calls cannot join a local transaction.
func (p *Proxy[T, K]) SupportsTransactions() bool { return p.core.SupportsTransactions() }

func (p *Proxy[T, K]) itemURI(id K) (string, error) {
	key, err := FormatKey(id)
	if err != nil {
		return "", err
	}
	return p.core.URI(key), nil
}

// GetAllAsync fetches the whole collection.
func (p *Proxy[T, K]) GetAllAsync(ctx context.Context) *invoke.Future[[]T] {
	return callAsync[[]T](ctx, p.core, OpGetAll, http.MethodGet, p.core.resource.Collection(), nil, true)
}

// GetAll fetches the whole collection, blocking until it arrives.
func (p *Proxy[T, K]) GetAll(ctx context.Context) ([]T, error) {
	return invoke.Invoke(p.core.strategy, func() *invoke.Future[[]T] { return p.GetAllAsync(ctx) })
}

// GetByIDAsync fetches one entity.
func (p *Proxy[T, K]) GetByIDAsync(ctx context.Context, id K) *invoke.Future[T] {
	uri, err := p.itemURI(id)
	if err != nil {
		return invoke.Failed[T](err)
	}
	return callAsync[T](ctx, p.core, OpGetByID, http.MethodGet, uri, nil, true)
}

// GetByID fetches one entity, blocking until it arrives.
func (p *Proxy[T, K]) GetByID(ctx context.Context, id K) (T, error) {
	return invoke.Invoke(p.core.strategy, func() *invoke.Future[T] { return p.GetByIDAsync(ctx, id) })
}

// InsertAsync posts entity to the collection and returns the stored entity,
// including any server-assigned key.
func (p *Proxy[T, K]) InsertAsync(ctx context.Context, entity T) *invoke.Future[T] {
	return callAsync[T](ctx, p.core, OpInsert, http.MethodPost, p.core.resource.Collection(), entity, true)
}

// Insert is the blocking form of InsertAsync.
func (p *Proxy[T, K]) Insert(ctx context.Context, entity T) (T, error) {
	return invoke.Invoke(p.core.strategy, func() *invoke.Future[T] { return p.InsertAsync(ctx, entity) })
}

// UpdateAsync puts entity to the item URI derived from its key.
func (p *Proxy[T, K]) UpdateAsync(ctx context.Context, entity T) *invoke.Future[T] {
	uri, err := p.itemURI(entity.EntityID())
	if err != nil {
		return invoke.Failed[T](err)
	}
	return callAsync[T](ctx, p.core, OpUpdate, http.MethodPut, uri, entity, true)
}

// Update is the blocking form of UpdateAsync.
func (p *Proxy[T, K]) Update(ctx context.Context, entity T) (T, error) {
	return invoke.Invoke(p.core.strategy, func() *invoke.Future[T] { return p.UpdateAsync(ctx, entity) })
}

// DeleteAsync deletes one entity. Any 2xx response body is ignored.
func (p *Proxy[T, K]) DeleteAsync(ctx context.Context, id K) *invoke.Future[struct{}] {
	uri, err := p.itemURI(id)
	if err != nil {
		return invoke.Failed[struct{}](err)
	}
	return callAsync[struct{}](ctx, p.core, OpDelete, http.MethodDelete, uri, nil, false)
}

// Delete is the blocking form of DeleteAsync.
func (p *Proxy[T, K]) Delete(ctx context.Context, id K) error {
	return invoke.InvokeVoid(p.core.strategy, func() *invoke.Future[struct{}] { return p.DeleteAsync(ctx, id) })
}
