package observe

import (
	"sync"

	"github.com/ducka/go-portage/instrumentation"
)

type (
	OnNextFunc[T any] func(v T)
	OnErrorFunc       func(err error)
	OnCompleteFunc    func()
)

// Observer receives the notifications of a subscription. After OnError or
// OnComplete has been delivered, no further calls are made for that
// subscription.
type Observer[T any] interface {
	OnNext(v T)
	OnError(err error)
	OnComplete()
}

type SubscribeOption func(options *subscribeOptions)

type subscribeOptions struct {
	onError    OnErrorFunc
	onComplete OnCompleteFunc
}

func WithOnError(onError OnErrorFunc) SubscribeOption {
	return func(options *subscribeOptions) {
		options.onError = onError
	}
}

func WithOnComplete(onComplete OnCompleteFunc) SubscribeOption {
	return func(options *subscribeOptions) {
		options.onComplete = onComplete
	}
}

// NewObserver builds an Observer from callbacks. Omitted callbacks default
// to no-ops.
func NewObserver[T any](onNext OnNextFunc[T], options ...SubscribeOption) Observer[T] {
	opts := &subscribeOptions{
		onError:    func(err error) {},
		onComplete: func() {},
	}

	for _, opt := range options {
		opt(opts)
	}

	if onNext == nil {
		onNext = func(v T) {}
	}

	return &callbackObserver[T]{
		next:     onNext,
		err:      opts.onError,
		complete: opts.onComplete,
	}
}

type callbackObserver[T any] struct {
	next     OnNextFunc[T]
	err      OnErrorFunc
	complete OnCompleteFunc
}

func (o *callbackObserver[T]) OnNext(v T) {
	o.next(v)
}

func (o *callbackObserver[T]) OnError(err error) {
	o.err(err)
}

func (o *callbackObserver[T]) OnComplete() {
	o.complete()
}

// safeObserver enforces the observer contract for a single subscription: at
// most one terminal notification, and nothing after the subscription has
// been disposed. Notifications are delivered outside its lock.
type safeObserver[T any] struct {
	dest     Observer[T]
	activity string

	mu   sync.Mutex
	done bool
}

func newSafeObserver[T any](dest Observer[T], activity string) *safeObserver[T] {
	return &safeObserver[T]{dest: dest, activity: activity}
}

func (o *safeObserver[T]) OnNext(v T) {
	o.mu.Lock()
	if o.done {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	instrumentation.Metrics().Incr(o.activity, "value_emitted", 1)
	o.dest.OnNext(v)
}

func (o *safeObserver[T]) OnError(err error) {
	if !o.terminate() {
		return
	}

	instrumentation.Metrics().Incr(o.activity, "error_emitted", 1)
	o.dest.OnError(err)
}

func (o *safeObserver[T]) OnComplete() {
	if !o.terminate() {
		return
	}

	instrumentation.Metrics().Incr(o.activity, "sequence_completed", 1)
	o.dest.OnComplete()
}

func (o *safeObserver[T]) detach() {
	o.terminate()
}

func (o *safeObserver[T]) terminate() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return false
	}
	o.done = true
	return true
}
