package observe

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription represents an active link between an observable and an
// observer, and owns the right to sever it.
type Subscription struct {
	id            string
	once          sync.Once
	onUnsubscribe func()
}

func newSubscription(onUnsubscribe func()) *Subscription {
	return &Subscription{
		id:            uuid.NewString(),
		onUnsubscribe: onUnsubscribe,
	}
}

func (s *Subscription) ID() string {
	return s.id
}

// Unsubscribe severs the link. It is idempotent and safe to call from
// multiple goroutines.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.onUnsubscribe != nil {
			s.onUnsubscribe()
		}
	})
}
