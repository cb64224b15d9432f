// Package invoke runs asynchronous operations and adapts them to blocking
// calls.
//
// Every operation has an asynchronous primitive returning a *Future. The
// blocking form is derived from it through a Strategy, which decides where
// the primitive runs while the caller waits:
//
//	v, err := invoke.Invoke(invoke.Default(), func() *invoke.Future[Customer] {
//		return p.GetByIDAsync(ctx, 42)
//	})
//
// Whatever the strategy, a failed future's error reaches the caller as the
// identical value, so errors.Is, errors.As and == behave the same for both
// forms.
package invoke

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Awaitable is the untyped view of a Future used by strategies.
type Awaitable interface {
	Done() <-chan struct{}
	Wait() error
}

// Future is the eventual result of an operation. It completes exactly once.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn on a new goroutine. A panic in fn fails the future with a
// *PanicError.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = newPanicError(r)
			}
		}()
		f.val, f.err = fn()
	}()
	return f
}

// Resolved returns a future already completed with v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: v}
	close(f.done)
	return f
}

// Failed returns a future already completed with err.
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done is closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until completion and returns the failure, if any.
func (f *Future[T]) Wait() error {
	<-f.done
	return f.err
}

// Result blocks until completion and returns the value and failure.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.val, f.err
}

// Await is Result bounded by ctx. When ctx ends first the operation keeps
// running and ctx.Err() is returned.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// PanicError reports a panic recovered from an operation.
type PanicError struct {
	Value any
	Stack []byte
}

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("invoke: operation panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
