// Package portage bridges two asynchronous models: the single-assignment
// future (package future) and the push-based observable (package observe).
//
// ToObservable exposes a future's eventual resolution as a single-value
// stream that replays its terminal notification to any number of late
// subscribers. ToFuture subscribes to an observable and resolves a future
// with the stream's last value. Both directions deliver exactly one terminal
// event per consumer, survive concurrent completion and cancellation, and
// never leak the underlying subscription.
package portage

import (
	"errors"
)

// ErrNoElements is the failure of a future whose source observable completed
// without emitting a value.
var ErrNoElements = errors.New("observable sequence contains no elements")

// innerError unwraps one level of an aggregate (errors.Join-style) failure,
// so the destination's error channel carries the underlying cause rather
// than the envelope. Non-aggregate errors pass through unchanged.
func innerError(err error) error {
	if agg, ok := err.(interface{ Unwrap() []error }); ok {
		if wrapped := agg.Unwrap(); len(wrapped) > 0 {
			return wrapped[0]
		}
	}
	return err
}
