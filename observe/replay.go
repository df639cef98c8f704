package observe

import (
	"sync"

	"github.com/ducka/go-portage/instrumentation"
)

// ReplaySubject is a multicast sink that remembers its last value and its
// single terminal notification. Live subscribers receive notifications as
// they arrive; subscribers that attach after termination are replayed the
// buffered value (if any) followed by the terminal notification.
//
// The terminal notification is idempotent: the first OnError or OnComplete
// wins and everything after it is ignored. Observers are always notified
// outside the subject's lock.
type ReplaySubject[T any] struct {
	activity string

	mu        sync.Mutex
	observers map[string]Observer[T]
	last      T
	hasValue  bool
	terminal  Notification[T]
}

var (
	_ Observer[any]   = (*ReplaySubject[any])(nil)
	_ Observable[any] = (*ReplaySubject[any])(nil)
)

func NewReplaySubject[T any](opts ...ObservableOption) *ReplaySubject[T] {
	options := newOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &ReplaySubject[T]{
		activity:  options.activity,
		observers: make(map[string]Observer[T]),
	}
}

func (s *ReplaySubject[T]) OnNext(v T) {
	s.mu.Lock()
	if s.terminal != nil {
		s.mu.Unlock()
		return
	}
	s.last = v
	s.hasValue = true
	observers := s.snapshot()
	s.mu.Unlock()

	for _, observer := range observers {
		observer.OnNext(v)
	}
}

func (s *ReplaySubject[T]) OnError(err error) {
	s.terminate(Error[T](err))
}

func (s *ReplaySubject[T]) OnComplete() {
	s.terminate(Complete[T]())
}

// Subscribe attaches an observer. When the subject has already terminated
// the observer immediately receives the buffered value (if any) and the
// terminal notification, and the returned subscription is inert.
func (s *ReplaySubject[T]) Subscribe(observer Observer[T]) *Subscription {
	if observer == nil {
		panic("observer should not be nil")
	}

	s.mu.Lock()
	if terminal := s.terminal; terminal != nil {
		hasValue, last := s.hasValue, s.last
		// Terminal state is immutable, so replay can happen outside the lock.
		s.mu.Unlock()

		if hasValue {
			observer.OnNext(last)
		}
		Dispatch(terminal, observer)
		return newSubscription(nil)
	}

	sub := newSubscription(nil)
	s.observers[sub.ID()] = observer
	sub.onUnsubscribe = func() {
		s.mu.Lock()
		delete(s.observers, sub.ID())
		s.mu.Unlock()
	}
	s.mu.Unlock()

	instrumentation.Metrics().Incr(s.activity, "subscription_created", 1)

	return sub
}

func (s *ReplaySubject[T]) terminate(terminal Notification[T]) {
	s.mu.Lock()
	if s.terminal != nil {
		s.mu.Unlock()
		return
	}
	s.terminal = terminal
	observers := s.snapshot()
	s.observers = nil
	s.mu.Unlock()

	for _, observer := range observers {
		Dispatch(terminal, observer)
	}
}

func (s *ReplaySubject[T]) snapshot() []Observer[T] {
	observers := make([]Observer[T], 0, len(s.observers))
	for _, observer := range s.observers {
		observers = append(observers, observer)
	}
	return observers
}
