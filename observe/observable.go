// Package observe provides a minimal push-based observable: a producer that
// emits zero or more values followed by a single terminal error or
// completion, executed independently for every subscriber.
package observe

import (
	"context"
	"fmt"
	"time"

	"github.com/ducka/go-portage/instrumentation"
	"github.com/robfig/cron/v3"
)

type (
	// ProducerFunc emits notifications for one subscription. It should stop
	// emitting once ctx is done, and deliver at most one terminal
	// notification.
	ProducerFunc[T any] func(ctx context.Context, downstream Observer[T])

	StopFunc func()
)

// Unit is the payload of streams that carry a signal but no value.
type Unit struct{}

// Observable is a push-based sequence. Every call to Subscribe triggers an
// independent execution of the underlying producer.
type Observable[T any] interface {
	// Subscribe attaches an observer and returns the token that severs the
	// link. Disposing the token stops delivery to this observer; it does not
	// affect other subscribers.
	Subscribe(observer Observer[T]) *Subscription
}

// Producer observes items produced by a callback function
func Producer[T any](producer ProducerFunc[T], opts ...ObservableOption) Observable[T] {
	return newObservable[T](producer, opts...)
}

// Empty is an observable that emits nothing. This observable completes immediately.
func Empty[T any](opts ...ObservableOption) Observable[T] {
	return newObservable[T](func(ctx context.Context, downstream Observer[T]) {
		downstream.OnComplete()
	}, opts...)
}

// Value is an observable that emits a single item and completes
func Value[T any](value T, opts ...ObservableOption) Observable[T] {
	return newObservable[T](func(ctx context.Context, downstream Observer[T]) {
		downstream.OnNext(value)
		downstream.OnComplete()
	}, opts...)
}

// Throw is an observable that terminates immediately with err
func Throw[T any](err error, opts ...ObservableOption) Observable[T] {
	return newObservable[T](func(ctx context.Context, downstream Observer[T]) {
		downstream.OnError(err)
	}, opts...)
}

// Array is an observable that emits items from an array
func Array[T any](items []T, opts ...ObservableOption) Observable[T] {
	return newObservable[T](func(ctx context.Context, downstream Observer[T]) {
		for _, item := range items {
			select {
			case <-ctx.Done():
				downstream.OnError(ctx.Err())
				return
			default:
			}
			downstream.OnNext(item)
		}
		downstream.OnComplete()
	}, opts...)
}

// Cron is an observable that emits items on a specified cron schedule
func Cron(cronPattern string, opts ...ObservableOption) (Observable[time.Time], StopFunc) {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)

	schedule, err := parser.Parse(cronPattern)
	if err != nil {
		panic(fmt.Errorf("failed to parse cron pattern: %v", err))
	}

	stopCh := make(chan struct{})
	stopper := func() {
		close(stopCh)
	}

	return newObservable[time.Time](
		func(ctx context.Context, downstream Observer[time.Time]) {
			for {
				next := schedule.Next(time.Now())
				select {
				case <-time.After(time.Until(next)):
					downstream.OnNext(next)
				case <-stopCh:
					downstream.OnComplete()
					return
				case <-ctx.Done():
					downstream.OnError(ctx.Err())
					return
				}
			}
		},
		opts...,
	), stopper
}

// Timer is an observable that emits items on a specified interval
func Timer(interval time.Duration, opts ...ObservableOption) (Observable[time.Time], StopFunc) {
	stopCh := make(chan struct{})
	stopper := func() {
		close(stopCh)
	}

	return newObservable[time.Time](
		func(ctx context.Context, downstream Observer[time.Time]) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case t := <-ticker.C:
					downstream.OnNext(t)
				case <-stopCh:
					downstream.OnComplete()
					return
				case <-ctx.Done():
					downstream.OnError(ctx.Err())
					return
				}
			}
		},
		opts...,
	), stopper
}

func newObservable[T any](producer ProducerFunc[T], options ...ObservableOption) Observable[T] {
	opts := newOptions()
	for _, opt := range options {
		opt(&opts)
	}

	return &observable[T]{
		opts:     opts,
		producer: producer,
	}
}

type observable[T any] struct {
	opts     observableOptions
	producer ProducerFunc[T]
}

func (o *observable[T]) Subscribe(observer Observer[T]) *Subscription {
	if observer == nil {
		panic("observer should not be nil")
	}

	ctx, cancel := context.WithCancel(o.opts.context())
	sink := newSafeObserver(observer, o.opts.activity)

	sub := newSubscription(func() {
		cancel()
		sink.detach()
	})

	instrumentation.Logging().Debug(o.opts.activity, "subscription "+sub.ID()+" created")
	instrumentation.Metrics().Incr(o.opts.activity, "subscription_created", 1)

	run := func() {
		defer cancel()
		o.producer(ctx, sink)
	}

	if o.opts.scheduler != nil {
		o.opts.scheduler.Schedule(run)
	} else {
		go run()
	}

	return sub
}
