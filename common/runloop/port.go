package runloop

import "sync"

// Port is a Source that forwards work to whichever loop it is scheduled on.
// Send holds work back until the port is scheduled for the first time, the
// way a native port queues messages before its source joins a loop. Once
// the port has been cancelled, work is dropped.
type Port struct {
	access    sync.Mutex
	loop      *Loop
	ready     chan struct{}
	readyOnce sync.Once
}

func NewPort() *Port {
	return &Port{ready: make(chan struct{})}
}

func (p *Port) Schedule(loop *Loop) {
	p.access.Lock()
	p.loop = loop
	p.access.Unlock()
	p.readyOnce.Do(func() { close(p.ready) })
}

func (p *Port) Cancel(loop *Loop) {
	p.access.Lock()
	if p.loop == loop {
		p.loop = nil
	}
	p.access.Unlock()
	p.Close()
}

// Close releases senders waiting for a first schedule that will never come.
func (p *Port) Close() {
	p.readyOnce.Do(func() { close(p.ready) })
}

func (p *Port) Loop() *Loop {
	p.access.Lock()
	defer p.access.Unlock()
	return p.loop
}

// Post queues fn on the scheduled loop without waiting.
func (p *Port) Post(fn func()) bool {
	loop := p.Loop()
	if loop == nil {
		return false
	}
	return loop.Post(fn)
}

// Send runs fn on the scheduled loop and waits for it, first waiting for
// the port to be scheduled if it never was.
func (p *Port) Send(fn func()) bool {
	<-p.ready
	loop := p.Loop()
	if loop == nil {
		return false
	}
	return loop.Send(fn)
}
