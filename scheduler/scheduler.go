// Package scheduler abstracts when and where a unit of work executes.
package scheduler

import (
	"sync"
)

type Scheduler interface {
	// Schedule runs a task now or queues it on some execution context.
	Schedule(task func())
}

// Immediate returns a scheduler that runs tasks synchronously on the calling
// goroutine. This is the default used for already-terminal observables.
func Immediate() Scheduler {
	return immediateScheduler{}
}

type immediateScheduler struct{}

func (immediateScheduler) Schedule(task func()) {
	task()
}

// Goroutine returns a scheduler that runs each task on its own goroutine.
// Ordering between tasks is not preserved.
func Goroutine() Scheduler {
	return goroutineScheduler{}
}

type goroutineScheduler struct{}

func (goroutineScheduler) Schedule(task func()) {
	go task()
}

// Trampoline returns a scheduler that runs tasks in FIFO order on the
// goroutine that scheduled the first of them. Tasks scheduled reentrantly
// are queued rather than nested, keeping the call stack flat.
func Trampoline() Scheduler {
	return &trampolineScheduler{}
}

type trampolineScheduler struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

func (s *trampolineScheduler) Schedule(task func()) {
	s.mu.Lock()
	s.queue = append(s.queue, task)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		next()
	}
}
