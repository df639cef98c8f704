package portage

import (
	"context"
	"fmt"
	"sync"

	"github.com/ducka/go-portage/future"
	"github.com/ducka/go-portage/instrumentation"
	"github.com/ducka/go-portage/observe"
)

type FutureBridgeOption func(options *futureBridgeOptions)

type futureBridgeOptions struct {
	ctx        context.Context
	asyncState any
}

// WithCancellation cancels the resulting future and unsubscribes from the
// source when ctx is done, unless the source has already terminated.
func WithCancellation(ctx context.Context) FutureBridgeOption {
	if ctx == nil {
		panic("ctx should not be nil")
	}

	return func(options *futureBridgeOptions) {
		options.ctx = ctx
	}
}

// WithAsyncState attaches an opaque caller-owned value to the resulting
// future, retrievable via its AsyncState method.
func WithAsyncState(state any) FutureBridgeOption {
	return func(options *futureBridgeOptions) {
		options.asyncState = state
	}
}

// ToFuture subscribes to source and returns a future that resolves with the
// stream's last emitted value on completion, fails with the stream's error
// or with ErrNoElements when the stream completes empty, and is cancelled
// when the WithCancellation context fires before the stream terminates.
// Whichever of those happens first wins; the others become no-ops.
//
// ToFuture never panics for cancellation or empty-stream cases, and the
// returned future always reaches a terminal state provided the source
// eventually terminates or the cancellation context fires. A source whose
// Subscribe panics synchronously fails the future instead of unwinding
// through ToFuture.
func ToFuture[T any](source observe.Observable[T], options ...FutureBridgeOption) *future.Future[T] {
	if source == nil {
		panic("source should not be nil")
	}

	opts := futureBridgeOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	promise := future.NewPromise[T](future.WithAsyncState(opts.asyncState))
	bridge := &futureObserver[T]{promise: promise}

	if opts.ctx != nil {
		bridge.stopCancellation = context.AfterFunc(opts.ctx, bridge.cancel)
	}

	if err := trySubscribe(source, bridge); err != nil {
		instrumentation.Logging().Warn("to_future", "subscribe failed: "+err.Error())
		promise.TrySetError(err)
		bridge.release()
	}

	return promise.Future()
}

// trySubscribe attaches the bridging observer, converting a synchronous
// panic from Subscribe into an error so the caller always gets a future.
func trySubscribe[T any](source observe.Observable[T], bridge *futureObserver[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if recovered, ok := r.(error); ok {
				err = recovered
				return
			}
			err = fmt.Errorf("subscribe panicked: %v", r)
		}
	}()

	bridge.attach(source.Subscribe(bridge))
	return nil
}

// futureObserver bridges one subscription onto one promise. The value fields
// are only touched by the producer's serialized notifications; the
// subscription holder is shared with the cancellation callback and guarded.
type futureObserver[T any] struct {
	promise *future.Promise[T]

	last     T
	hasValue bool

	stopCancellation func() bool

	mu       sync.Mutex
	sub      *observe.Subscription
	released bool
}

func (o *futureObserver[T]) OnNext(v T) {
	// Only the last value before completion resolves the future.
	o.last = v
	o.hasValue = true
}

func (o *futureObserver[T]) OnError(err error) {
	o.promise.TrySetError(err)
	o.release()
}

func (o *futureObserver[T]) OnComplete() {
	if o.hasValue {
		o.promise.TrySetValue(o.last)
	} else {
		o.promise.TrySetError(ErrNoElements)
	}
	o.release()
}

// attach records the subscription token, or disposes it straight away when
// cancellation or a terminal notification won the race before the token was
// captured.
func (o *futureObserver[T]) attach(sub *observe.Subscription) {
	o.mu.Lock()
	if o.released {
		o.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	o.sub = sub
	o.mu.Unlock()
}

// cancel runs when the cancellation context fires: unsubscribe first so the
// producer releases its resources, then race to mark the future cancelled.
func (o *futureObserver[T]) cancel() {
	o.releaseSubscription()
	o.promise.TrySetCancelled()
}

// release tears down both the cancellation registration and the
// subscription. It is called from every terminal branch.
func (o *futureObserver[T]) release() {
	if o.stopCancellation != nil {
		o.stopCancellation()
	}
	o.releaseSubscription()
}

func (o *futureObserver[T]) releaseSubscription() {
	o.mu.Lock()
	sub := o.sub
	o.sub = nil
	o.released = true
	o.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}
