// Package future provides a single-assignment future/promise pair. A promise
// is resolved at most once, with exactly one of a value, an error or a
// cancellation; every resolution path competes through try-setters so
// concurrent attempts are harmless.
package future

import (
	"context"
	"errors"
	"sync"
)

// Kind identifies the terminal state of a future.
type Kind string

const (
	// Pending indicates the future has not resolved yet
	Pending Kind = "pending"
	// Succeeded indicates the future resolved with a value
	Succeeded Kind = "succeeded"
	// Failed indicates the future resolved with an error
	Failed Kind = "failed"
	// Cancelled indicates the future was cancelled before producing a result
	Cancelled Kind = "cancelled"
)

// ErrCancelled is the sentinel all cancellation errors unwrap to.
var ErrCancelled = errors.New("future was cancelled")

// CancelledError reports the cancellation of a specific future.
type CancelledError struct {
	Future any
}

func (e *CancelledError) Error() string {
	return "future was cancelled"
}

func (e *CancelledError) Unwrap() error {
	return ErrCancelled
}

// Outcome is the closed set of terminal states a future can reach.
type Outcome[T any] struct {
	kind  Kind
	value T
	err   error
}

func (o Outcome[T]) Kind() Kind {
	return o.kind
}

// Value returns the resolved value if the outcome is Succeeded.
func (o Outcome[T]) Value() T {
	return o.value
}

// Err returns the failure if the outcome is Failed.
func (o Outcome[T]) Err() error {
	return o.err
}

type continuation[T any] struct {
	fn          func(*Future[T])
	synchronous bool
}

type ContinuationOption func(*continuationOptions)

type continuationOptions struct {
	synchronous bool
}

// ExecuteSynchronously requests that the continuation runs on the goroutine
// that resolves the promise (or the registering goroutine if the future has
// already resolved), instead of being dispatched onto its own goroutine.
func ExecuteSynchronously() ContinuationOption {
	return func(o *continuationOptions) {
		o.synchronous = true
	}
}

type PromiseOption func(*promiseOptions)

type promiseOptions struct {
	asyncState any
}

// WithAsyncState attaches an opaque caller-owned value to the future for
// bookkeeping. It is retrievable via Future.AsyncState.
func WithAsyncState(state any) PromiseOption {
	return func(o *promiseOptions) {
		o.asyncState = state
	}
}

// Promise is the resolving side of a future. All setters are try-setters:
// the first to run wins, later attempts report false and change nothing.
type Promise[T any] struct {
	f *Future[T]
}

func NewPromise[T any](options ...PromiseOption) *Promise[T] {
	opts := promiseOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	return &Promise[T]{
		f: &Future[T]{
			done:       make(chan struct{}),
			asyncState: opts.asyncState,
		},
	}
}

// Future returns the read side of the promise.
func (p *Promise[T]) Future() *Future[T] {
	return p.f
}

func (p *Promise[T]) TrySetValue(value T) bool {
	return p.f.tryResolve(Outcome[T]{kind: Succeeded, value: value})
}

func (p *Promise[T]) TrySetError(err error) bool {
	return p.f.tryResolve(Outcome[T]{kind: Failed, err: err})
}

func (p *Promise[T]) TrySetCancelled() bool {
	return p.f.tryResolve(Outcome[T]{kind: Cancelled})
}

// Future is a computation that eventually reaches exactly one terminal state.
// Once resolved its outcome is immutable.
type Future[T any] struct {
	mu            sync.Mutex
	outcome       Outcome[T]
	resolved      bool
	continuations []continuation[T]

	done       chan struct{}
	asyncState any
}

// Resolved reports whether the future has reached a terminal state. It is
// monotonic; once true it stays true.
func (f *Future[T]) Resolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Outcome returns the terminal state of the future, or an Outcome with
// Kind() == Pending when the future has not resolved yet.
func (f *Future[T]) Outcome() Outcome[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.resolved {
		return Outcome[T]{kind: Pending}
	}
	return f.outcome
}

// Done returns a channel that closes when the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// AsyncState returns the opaque value attached via WithAsyncState, if any.
func (f *Future[T]) AsyncState() any {
	return f.asyncState
}

// Await blocks until the future resolves or ctx is done. A failed future
// returns its error, a cancelled future returns a CancelledError.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}

	outcome := f.Outcome()
	switch outcome.Kind() {
	case Succeeded:
		return outcome.Value(), nil
	case Failed:
		var zero T
		return zero, outcome.Err()
	default:
		var zero T
		return zero, &CancelledError{Future: f}
	}
}

// OnResolved registers fn to run exactly once when the future resolves. If
// the future has already resolved, fn is dispatched immediately. Without the
// ExecuteSynchronously option the continuation runs on its own goroutine.
func (f *Future[T]) OnResolved(fn func(*Future[T]), options ...ContinuationOption) {
	opts := continuationOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	f.mu.Lock()
	if !f.resolved {
		f.continuations = append(f.continuations, continuation[T]{fn: fn, synchronous: opts.synchronous})
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	f.dispatch(continuation[T]{fn: fn, synchronous: opts.synchronous})
}

func (f *Future[T]) tryResolve(outcome Outcome[T]) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}

	f.outcome = outcome
	f.resolved = true
	continuations := f.continuations
	f.continuations = nil
	close(f.done)
	// Continuations run outside the lock so a synchronous continuation can
	// safely call back into the future.
	f.mu.Unlock()

	for _, c := range continuations {
		f.dispatch(c)
	}

	return true
}

func (f *Future[T]) dispatch(c continuation[T]) {
	if c.synchronous {
		c.fn(f)
		return
	}
	go c.fn(f)
}
