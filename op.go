package minisdk

import (
	"context"
	"sync"
)

// closedChan is returned by Done on a nil *Op.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Op is the completion handle of an SDK operation. It resolves once every
// side effect of the operation (token persistence, log delivery) has run, or
// immediately if the operation was dropped because the SDK is closed.
//
// A nil *Op behaves as an already resolved handle.
type Op struct {
	done chan struct{}
	once sync.Once
}

func newOp() *Op {
	return &Op{done: make(chan struct{})}
}

func (o *Op) resolve() {
	o.once.Do(func() { close(o.done) })
}

// Done returns a channel that is closed when the operation completes.
func (o *Op) Done() <-chan struct{} {
	if o == nil {
		return closedChan
	}
	return o.done
}

// Wait blocks until the operation completes or ctx is done. Operations
// themselves never fail, so the only possible error is ctx.Err().
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitAll waits for every op in order, stopping at the first context error.
func WaitAll(ctx context.Context, ops ...*Op) error {
	for _, op := range ops {
		if err := op.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
