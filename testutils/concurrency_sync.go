package testutils

import (
	"sync"
)

// ConcurrencySync releases a set of concurrently running goroutines through
// a checkpoint at the same moment, so races between them are actually
// exercised rather than serialized by goroutine startup order.
type ConcurrencySync struct {
	ready sync.WaitGroup
	start chan struct{}

	mu   sync.Mutex
	hits int
}

func NewConcurrencySync(participants int) *ConcurrencySync {
	if participants < 1 {
		panic("participants must be greater than 0")
	}

	s := &ConcurrencySync{start: make(chan struct{})}
	s.ready.Add(participants)
	return s
}

// Checkpoint blocks the calling goroutine until every participant has
// arrived and Release has been called.
func (s *ConcurrencySync) Checkpoint() {
	s.mu.Lock()
	s.hits++
	s.mu.Unlock()

	s.ready.Done()
	<-s.start
}

// Release waits for all participants to reach the checkpoint, then lets them
// all run.
func (s *ConcurrencySync) Release() {
	s.ready.Wait()
	close(s.start)
}

// HitCount returns the number of times the checkpoint has been hit.
func (s *ConcurrencySync) HitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}
