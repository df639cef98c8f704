package observe

import (
	"context"

	"github.com/ducka/go-portage/scheduler"
	"github.com/ducka/go-portage/utils"
)

type ObservableOption func(options *observableOptions)

type observableOptions struct {
	ctxs      []context.Context
	scheduler scheduler.Scheduler
	activity  string
}

func newOptions() observableOptions {
	return observableOptions{
		activity: "observable",
	}
}

// WithContext scopes every subscription of the observable to ctx. The option
// can be supplied more than once; the contexts are combined and the
// subscription ends when any of them does.
func WithContext(ctx context.Context) ObservableOption {
	return func(options *observableOptions) {
		options.ctxs = append(options.ctxs, ctx)
	}
}

// WithScheduler delivers the producer's notifications via the supplied
// scheduler instead of a dedicated goroutine per subscription.
func WithScheduler(s scheduler.Scheduler) ObservableOption {
	if s == nil {
		panic("scheduler should not be nil")
	}

	return func(options *observableOptions) {
		options.scheduler = s
	}
}

// WithActivityName labels the observable in logs and metrics.
func WithActivityName(activity string) ObservableOption {
	return func(options *observableOptions) {
		options.activity = activity
	}
}

func (o observableOptions) context() context.Context {
	return utils.CombinedContexts(o.ctxs...)
}
