package observable

import "sync"

type Subscription[T any] <-chan T

// Subscriber is a bounded, non-blocking event buffer. Emit never waits for
// the reader; items that do not fit are dropped.
type Subscriber[T any] struct {
	access    sync.RWMutex
	buffer    chan T
	done      chan struct{}
	closeOnce sync.Once
}

func NewSubscriber[T any](size int) *Subscriber[T] {
	return &Subscriber[T]{
		buffer: make(chan T, size),
		done:   make(chan struct{}),
	}
}

// Emit queues item and reports whether it was accepted.
func (s *Subscriber[T]) Emit(item T) bool {
	s.access.RLock()
	defer s.access.RUnlock()
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.buffer <- item:
		return true
	default:
		return false
	}
}

// Close stops accepting items. Items already queued can still be read; the
// subscription channel is closed after them.
func (s *Subscriber[T]) Close() error {
	s.closeOnce.Do(func() {
		s.access.Lock()
		close(s.done)
		close(s.buffer)
		s.access.Unlock()
	})
	return nil
}

func (s *Subscriber[T]) Subscription() (subscription Subscription[T], done <-chan struct{}) {
	return s.buffer, s.done
}
