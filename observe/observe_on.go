package observe

import (
	"github.com/ducka/go-portage/scheduler"
)

// ObserveOn re-delivers every notification of source via the supplied
// scheduler. Notification order is preserved as long as the scheduler runs
// its tasks serially (Immediate and Trampoline do; Goroutine does not).
func ObserveOn[T any](source Observable[T], s scheduler.Scheduler) Observable[T] {
	if source == nil {
		panic("source should not be nil")
	}
	if s == nil {
		panic("scheduler should not be nil")
	}

	return &observeOnObservable[T]{source: source, scheduler: s}
}

type observeOnObservable[T any] struct {
	source    Observable[T]
	scheduler scheduler.Scheduler
}

func (o *observeOnObservable[T]) Subscribe(observer Observer[T]) *Subscription {
	if observer == nil {
		panic("observer should not be nil")
	}

	return o.source.Subscribe(NewObserver(
		func(v T) {
			o.scheduler.Schedule(func() {
				observer.OnNext(v)
			})
		},
		WithOnError(func(err error) {
			o.scheduler.Schedule(func() {
				observer.OnError(err)
			})
		}),
		WithOnComplete(func() {
			o.scheduler.Schedule(func() {
				observer.OnComplete()
			})
		}),
	))
}
