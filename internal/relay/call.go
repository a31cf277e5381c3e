// Package relay bounds calls into collaborators that may never answer.
package relay

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is the sentinel a call settles with when no reply arrives in time
var ErrTimeout = errors.New("relay: collaborator did not reply in time")

// Pending is a result that settles exactly once
type Pending[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewPending returns an unsettled result
func NewPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

// Settle stores the outcome. Only the first call has any effect; it reports
// whether this call was the one that settled.
func (p *Pending[T]) Settle(value T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.value = value
		p.err = err
		settled = true
		close(p.done)
	})
	return settled
}

// Done is closed once the result has settled
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Result blocks until the result has settled
func (p *Pending[T]) Result() (T, error) {
	<-p.done
	return p.value, p.err
}

// Call runs fn and races it against timeout. The returned result settles
// exactly once. fn keeps running after a timeout; its late reply is dropped.
func Call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	p := NewPending[T]()

	go func() {
		v, err := fn(ctx)
		p.Settle(v, err)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case <-p.Done():
	case <-timer.C:
		p.Settle(zero, ErrTimeout)
	case <-ctx.Done():
		p.Settle(zero, ctx.Err())
	}

	return p.Result()
}
