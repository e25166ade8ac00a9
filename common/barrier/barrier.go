// Package barrier provides a reusable rendezvous point for a fixed number of
// goroutines.
package barrier

import "sync"

type Barrier struct {
	access  sync.Mutex
	parties int
	arrived int
	release chan struct{}
}

func New(parties int) *Barrier {
	if parties < 1 {
		panic("barrier: parties must be positive")
	}
	return &Barrier{
		parties: parties,
		release: make(chan struct{}),
	}
}

// Wait blocks until all parties have called Wait, then releases them
// together and resets the barrier for the next generation. It reports
// whether the caller was the last to arrive.
func (b *Barrier) Wait() bool {
	b.access.Lock()
	b.arrived++
	if b.arrived == b.parties {
		close(b.release)
		b.arrived = 0
		b.release = make(chan struct{})
		b.access.Unlock()
		return true
	}
	release := b.release
	b.access.Unlock()
	<-release
	return false
}
