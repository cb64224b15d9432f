package invoke

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Strategy runs the thunk producing an asynchronous operation and blocks
// until that operation completes.
type Strategy interface {
	Name() string
	Run(thunk func() Awaitable) error
}

// DirectWait starts the operation on the calling goroutine and waits for it.
type DirectWait struct{}

func (DirectWait) Name() string { return "direct" }

func (DirectWait) Run(thunk func() Awaitable) error {
	return thunk().Wait()
}

// Detached starts the operation on a separate goroutine so nothing the
// thunk does before its first suspension runs on the caller's stack. Panics
// in the thunk are returned as *PanicError.
type Detached struct{}

func (Detached) Name() string { return "detached" }

func (Detached) Run(thunk func() Awaitable) error {
	var g errgroup.Group
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = newPanicError(r)
			}
		}()
		return thunk().Wait()
	})
	return g.Wait()
}

// Default returns DirectWait.
func Default() Strategy { return DirectWait{} }

// ByName returns the strategy for "direct" or "detached"; "" means Default.
func ByName(name string) (Strategy, error) {
	switch name {
	case "", "direct":
		return DirectWait{}, nil
	case "detached":
		return Detached{}, nil
	default:
		return nil, fmt.Errorf("invoke: unknown strategy %q (available: direct, detached)", name)
	}
}

// Names lists the strategy names accepted by ByName.
func Names() []string { return []string{"direct", "detached"} }
