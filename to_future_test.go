package portage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ducka/go-portage/future"
	"github.com/ducka/go-portage/observe"
	"github.com/ducka/go-portage/testutils"
	"github.com/ducka/go-portage/utils"
	"github.com/stretchr/testify/assert"
)

func TestToFutureResolution(t *testing.T) {
	t.Run("When the stream emits {1, 2, 3} and completes", func(t *testing.T) {
		sut := ToFuture[int](observe.Array([]int{1, 2, 3}))

		v, err := sut.Await(context.Background())

		t.Run("Then the future resolves with the last value", func(t *testing.T) {
			assert.NoError(t, err)
			assert.Equal(t, 3, v)
		})
	})

	t.Run("When the stream completes without emitting", func(t *testing.T) {
		sut := ToFuture[int](observe.Empty[int]())

		_, err := sut.Await(context.Background())

		t.Run("Then the future fails with a no-elements error instead of hanging", func(t *testing.T) {
			assert.ErrorIs(t, err, ErrNoElements)
		})
	})

	t.Run("When the stream errors after emitting values", func(t *testing.T) {
		expected := errors.New("boom")
		sut := ToFuture[int](observe.Producer[int](func(ctx context.Context, downstream observe.Observer[int]) {
			downstream.OnNext(1)
			downstream.OnNext(2)
			downstream.OnError(expected)
		}))

		_, err := sut.Await(context.Background())

		t.Run("Then the future fails with that error and no value is delivered", func(t *testing.T) {
			assert.ErrorIs(t, err, expected)
			assert.Equal(t, future.Failed, sut.Outcome().Kind())
		})
	})

	t.Run("When the source's subscribe panics synchronously", func(t *testing.T) {
		expected := errors.New("eager failure")

		var sut *future.Future[int]
		assert.NotPanics(t, func() {
			sut = ToFuture[int](eagerFailObservable{err: expected})
		})

		_, err := sut.Await(context.Background())

		t.Run("Then the failure is redirected into the future", func(t *testing.T) {
			assert.ErrorIs(t, err, expected)
		})
	})

	t.Run("When async state is attached", func(t *testing.T) {
		sut := ToFuture[int](observe.Array([]int{1}), WithAsyncState("bookkeeping"))

		t.Run("Then the state rides on the returned future", func(t *testing.T) {
			assert.Equal(t, "bookkeeping", sut.AsyncState())
		})
	})

	t.Run("When the source is missing", func(t *testing.T) {
		t.Run("Then ToFuture panics immediately", func(t *testing.T) {
			assert.Panics(t, func() { ToFuture[int](nil) })
		})
	})
}

func TestToFutureCancellation(t *testing.T) {
	t.Run("When the cancellation context fires before the stream terminates", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		firstDelivered := make(chan struct{})
		unsubscribed := make(chan struct{})

		source := observe.Producer[int](func(producerCtx context.Context, downstream observe.Observer[int]) {
			downstream.OnNext(1)
			close(firstDelivered)

			select {
			case <-producerCtx.Done():
				close(unsubscribed)
			case <-time.After(time.Second):
			}
		})

		sut := ToFuture[int](source, WithCancellation(ctx))

		<-firstDelivered
		cancel()

		_, err := sut.Await(context.Background())

		t.Run("Then the future is cancelled", func(t *testing.T) {
			assert.ErrorIs(t, err, future.ErrCancelled)
			assert.Equal(t, future.Cancelled, sut.Outcome().Kind())
		})

		t.Run("Then the stream subscription is released", func(t *testing.T) {
			select {
			case <-unsubscribed:
			case <-time.After(time.Second):
				t.Error("cancellation did not unsubscribe from the stream")
			}
		})
	})

	t.Run("When cancellation fires after the stream already resolved the future", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		sut := ToFuture[int](observe.Array([]int{1, 2, 3}), WithCancellation(ctx))

		v, err := sut.Await(context.Background())
		cancel()

		t.Run("Then the original resolution is kept", func(t *testing.T) {
			assert.NoError(t, err)
			assert.Equal(t, 3, v)
			assert.Equal(t, future.Succeeded, sut.Outcome().Kind())
		})
	})
}

func TestToFutureConcurrentTermination(t *testing.T) {
	t.Run("When completion and cancellation race", func(t *testing.T) {
		iterations := 50

		for i := 0; i < iterations; i++ {
			subject := observe.NewReplaySubject[int]()
			ctx, cancel := context.WithCancel(context.Background())

			sut := ToFuture[int](subject, WithCancellation(ctx))

			sync1 := testutils.NewConcurrencySync(2)
			wg := &sync.WaitGroup{}
			wg.Add(2)

			go func() {
				defer wg.Done()
				sync1.Checkpoint()
				subject.OnNext(1)
				subject.OnComplete()
			}()

			go func() {
				defer wg.Done()
				sync1.Checkpoint()
				cancel()
			}()

			sync1.Release()
			assert.True(t, utils.WaitFor(wg, time.Second))

			awaitCtx, awaitCancel := context.WithTimeout(context.Background(), time.Second)
			_, _ = sut.Await(awaitCtx)
			awaitCancel()

			t.Run("Then the future reaches exactly one terminal state", func(t *testing.T) {
				kind := sut.Outcome().Kind()
				assert.Contains(t, []future.Kind{future.Succeeded, future.Cancelled}, kind)
			})
		}
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("When a future is converted to a stream and back", func(t *testing.T) {
		promise := future.NewPromise[int]()

		sut := ToFuture[int](ToObservable(promise.Future()))

		promise.TrySetValue(7)
		v, err := sut.Await(context.Background())

		t.Run("Then the terminal outcome survives the round trip", func(t *testing.T) {
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
		})
	})

	t.Run("When a failed future is converted to a stream and back", func(t *testing.T) {
		expected := errors.New("boom")
		promise := future.NewPromise[int]()
		promise.TrySetError(expected)

		sut := ToFuture[int](ToObservable(promise.Future()))

		_, err := sut.Await(context.Background())

		t.Run("Then the failure survives the round trip", func(t *testing.T) {
			assert.ErrorIs(t, err, expected)
		})
	})

	t.Run("When a cancelled future is converted to a stream and back", func(t *testing.T) {
		promise := future.NewPromise[int]()
		promise.TrySetCancelled()

		sut := ToFuture[int](ToObservable(promise.Future()))

		_, err := sut.Await(context.Background())

		t.Run("Then the failure remains cancellation flavored", func(t *testing.T) {
			assert.ErrorIs(t, err, future.ErrCancelled)
		})
	})
}

// eagerFailObservable fails during subscription setup, before a subscription
// token exists.
type eagerFailObservable struct {
	err error
}

func (o eagerFailObservable) Subscribe(observer observe.Observer[int]) *observe.Subscription {
	panic(o.err)
}
