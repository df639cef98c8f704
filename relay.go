package portage

import (
	"github.com/ducka/go-portage/future"
	"github.com/ducka/go-portage/observe"
)

// relayOutcome maps a resolved future's terminal state onto an observer as
// exactly one terminal sequence: value then completion, or a single error.
// A cancelled future becomes a CancelledError, since streams have no native
// cancellation state.
//
// The relay is stateless and must only be invoked once the future has
// resolved; a pending future is a bug in the caller.
func relayOutcome[T any](f *future.Future[T], dest observe.Observer[T]) {
	switch outcome := f.Outcome(); outcome.Kind() {
	case future.Succeeded:
		dest.OnNext(outcome.Value())
		dest.OnComplete()
	case future.Failed:
		dest.OnError(innerError(outcome.Err()))
	case future.Cancelled:
		dest.OnError(&future.CancelledError{Future: f})
	default:
		panic("relay invoked before the future resolved")
	}
}
