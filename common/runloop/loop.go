// Package runloop implements a single-threaded run loop in Go, with the
// retain/release and source scheduling model of a native run loop.
package runloop

import (
	"sync"
	"sync/atomic"
)

// Source is an input source that feeds work into the loops it is scheduled on.
type Source interface {
	Schedule(loop *Loop)
	Cancel(loop *Loop)
}

type task struct {
	run func()
	// closed if the task is discarded by Stop before it starts
	dropped chan struct{}
}

type Loop struct {
	access   sync.Mutex
	tasks    []*task
	sources  map[Source]struct{}
	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	retains  atomic.Int64
	total    atomic.Int64
	releases atomic.Int64
}

func New() *Loop {
	return &Loop{
		sources: make(map[Source]struct{}),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
}

func (l *Loop) Retain() {
	l.retains.Add(1)
	l.total.Add(1)
}

func (l *Loop) Release() {
	l.releases.Add(1)
	if l.retains.Add(-1) < 0 {
		panic("runloop: release without matching retain")
	}
}

// RetainCount is the number of retains not yet released.
func (l *Loop) RetainCount() int64 {
	return l.retains.Load()
}

// Retains is the total number of Retain calls.
func (l *Loop) Retains() int64 {
	return l.total.Load()
}

// Releases is the total number of Release calls.
func (l *Loop) Releases() int64 {
	return l.releases.Load()
}

// AddSource schedules source on the loop. Values that are not a Source are
// ignored.
func (l *Loop) AddSource(source any) {
	s, isSource := source.(Source)
	if !isSource {
		return
	}
	l.access.Lock()
	l.sources[s] = struct{}{}
	l.access.Unlock()
	s.Schedule(l)
}

func (l *Loop) RemoveSource(source any) {
	s, isSource := source.(Source)
	if !isSource {
		return
	}
	l.access.Lock()
	_, loaded := l.sources[s]
	delete(l.sources, s)
	l.access.Unlock()
	if loaded {
		s.Cancel(l)
	}
}

func (l *Loop) Sources() int {
	l.access.Lock()
	defer l.access.Unlock()
	return len(l.sources)
}

// Post queues fn to run on the loop goroutine. It fails once the loop has
// been stopped.
func (l *Loop) Post(fn func()) bool {
	return l.post(&task{run: fn})
}

func (l *Loop) post(t *task) bool {
	l.access.Lock()
	if l.Stopped() {
		l.access.Unlock()
		return false
	}
	l.tasks = append(l.tasks, t)
	l.access.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Send runs fn on the loop goroutine and waits for it. It reports whether
// fn ran: false means the loop stopped before fn started. Work that has
// started always finishes, even if Stop is called meanwhile. Send must not
// be called from the loop goroutine.
func (l *Loop) Send(fn func()) bool {
	done := make(chan struct{})
	t := &task{
		run: func() {
			defer close(done)
			fn()
		},
		dropped: make(chan struct{}),
	}
	if !l.post(t) {
		return false
	}
	select {
	case <-done:
		return true
	case <-t.dropped:
		return false
	}
}

// Run executes posted work until Stop is called. A loop stopped before Run
// returns immediately. Work runs one piece at a time; a stop requested while
// work is running takes effect when it returns.
func (l *Loop) Run() {
	for {
		select {
		case <-l.stop:
			return
		case <-l.wake:
		}
		for {
			t := l.pop()
			if t == nil {
				break
			}
			t.run()
			if l.Stopped() {
				return
			}
		}
	}
}

// pop hands the next task to Run, which runs it without checking for a
// stop first.
func (l *Loop) pop() *task {
	l.access.Lock()
	defer l.access.Unlock()
	if len(l.tasks) == 0 {
		return nil
	}
	t := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return t
}

// Stop requests Run to return. It is safe to call from any goroutine and
// more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.access.Lock()
		close(l.stop)
		for _, t := range l.tasks {
			if t.dropped != nil {
				close(t.dropped)
			}
		}
		l.tasks = nil
		l.access.Unlock()
	})
}

func (l *Loop) Stopped() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}
