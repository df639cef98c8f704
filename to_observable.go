package portage

import (
	"github.com/ducka/go-portage/future"
	"github.com/ducka/go-portage/observe"
	"github.com/ducka/go-portage/scheduler"
)

type ObservableBridgeOption func(options *observableBridgeOptions)

type observableBridgeOptions struct {
	scheduler scheduler.Scheduler
}

// WithScheduler delivers the resulting observable's notifications via the
// supplied scheduler.
func WithScheduler(s scheduler.Scheduler) ObservableBridgeOption {
	if s == nil {
		panic("scheduler should not be nil")
	}

	return func(options *observableBridgeOptions) {
		options.scheduler = s
	}
}

// ToObservable exposes the eventual resolution of f as a single-value
// observable. The future is evaluated once regardless of subscriber count;
// every subscriber, including ones that attach after resolution, observes
// the same terminal notification. Disposing a subscription detaches that
// observer only; the future itself keeps running.
//
// A future that is already resolved produces an already-terminal observable
// directly, delivered synchronously or via the supplied scheduler. A pending
// future is multicast through a replay subject fed by a continuation.
func ToObservable[T any](f *future.Future[T], options ...ObservableBridgeOption) observe.Observable[T] {
	if f == nil {
		panic("future should not be nil")
	}

	opts := observableBridgeOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	if f.Resolved() {
		return resolvedObservable(f, deliveryScheduler(opts))
	}

	subject := observe.NewReplaySubject[T](observe.WithActivityName("to_observable"))

	if opts.scheduler != nil {
		// The scheduler already controls downstream delivery through
		// ObserveOn, so the continuation is asked to relay synchronously on
		// the resolving goroutine and skip one scheduling hop.
		f.OnResolved(func(resolved *future.Future[T]) {
			relayOutcome(resolved, subject)
		}, future.ExecuteSynchronously())

		return observe.ObserveOn[T](subject, opts.scheduler)
	}

	f.OnResolved(func(resolved *future.Future[T]) {
		relayOutcome(resolved, subject)
	})

	return subject
}

// ToUnitObservable follows the same rules as ToObservable with the payload
// fixed to observe.Unit, for futures whose result carries no information.
func ToUnitObservable[T any](f *future.Future[T], options ...ObservableBridgeOption) observe.Observable[observe.Unit] {
	if f == nil {
		panic("future should not be nil")
	}

	opts := observableBridgeOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	if f.Resolved() {
		switch outcome := f.Outcome(); outcome.Kind() {
		case future.Succeeded:
			return observe.Value(observe.Unit{}, observe.WithScheduler(deliveryScheduler(opts)))
		case future.Failed:
			return observe.Throw[observe.Unit](innerError(outcome.Err()), observe.WithScheduler(deliveryScheduler(opts)))
		case future.Cancelled:
			return observe.Throw[observe.Unit](&future.CancelledError{Future: f}, observe.WithScheduler(deliveryScheduler(opts)))
		default:
			panic("resolved future reported a pending outcome")
		}
	}

	subject := observe.NewReplaySubject[observe.Unit](observe.WithActivityName("to_observable"))

	relay := func(resolved *future.Future[T]) {
		relayOutcome(resolved, unitSink[T]{dest: subject})
	}

	if opts.scheduler != nil {
		f.OnResolved(relay, future.ExecuteSynchronously())
		return observe.ObserveOn[observe.Unit](subject, opts.scheduler)
	}

	f.OnResolved(relay)

	return subject
}

func resolvedObservable[T any](f *future.Future[T], s scheduler.Scheduler) observe.Observable[T] {
	switch outcome := f.Outcome(); outcome.Kind() {
	case future.Succeeded:
		return observe.Value(outcome.Value(), observe.WithScheduler(s))
	case future.Failed:
		return observe.Throw[T](innerError(outcome.Err()), observe.WithScheduler(s))
	case future.Cancelled:
		return observe.Throw[T](&future.CancelledError{Future: f}, observe.WithScheduler(s))
	default:
		panic("resolved future reported a pending outcome")
	}
}

func deliveryScheduler(opts observableBridgeOptions) scheduler.Scheduler {
	if opts.scheduler != nil {
		return opts.scheduler
	}
	return scheduler.Immediate()
}

// unitSink forwards a future's terminal sequence with the value replaced by
// the unit payload.
type unitSink[T any] struct {
	dest observe.Observer[observe.Unit]
}

func (s unitSink[T]) OnNext(T) {
	s.dest.OnNext(observe.Unit{})
}

func (s unitSink[T]) OnError(err error) {
	s.dest.OnError(err)
}

func (s unitSink[T]) OnComplete() {
	s.dest.OnComplete()
}
