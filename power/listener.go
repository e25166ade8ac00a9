// Package power delivers system sleep and wake notifications to a Handler,
// and lets the handler veto an impending sleep.
package power

import (
	"sync"

	"github.com/sagernet/naptime/common/barrier"
	"github.com/sagernet/naptime/common/runloop"

	"github.com/sirupsen/logrus"
)

// Listener is one subscription to system power events. Close it to
// unsubscribe.
type Listener struct {
	closeOnce sync.Once
	logger    logrus.Ext1FieldLogger
	// retained lets Close stop the worker's run loop
	runLoop *runloop.Ref[RunLoop]
	// closed when the worker has torn down and exited
	done chan struct{}
}

type startResult struct {
	runLoop RunLoop
	err     error
}

// New starts a worker thread that registers for power notifications and
// dispatches them to handler. It returns once the worker is registered and
// about to run its loop, or with an *Error if registration failed.
//
// The handler is owned by the worker from then on and is never called from
// the caller's goroutine.
func New(handler Handler, opts ...Option) (*Listener, error) {
	if handler == nil {
		return nil, newError("missing handler")
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	results := make(chan startResult, 1)
	ready := barrier.New(2)
	done := make(chan struct{})
	w := &worker{
		platform: o.platform,
		handler:  handler,
		logger:   o.logger,
		results:  results,
		ready:    ready,
		done:     done,
	}
	go w.run()

	result := <-results
	if result.err != nil {
		<-done
		return nil, result.err
	}
	runLoop := runloop.Acquire(result.runLoop)
	ready.Wait()

	return &Listener{
		logger:  o.logger,
		runLoop: runLoop,
		done:    done,
	}, nil
}

// Close stops the run loop and waits for the worker to exit. Once Close
// returns no handler method is running or will be called again. Close is
// safe to call more than once, and after the loop has already stopped.
func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		if l.runLoop != nil {
			l.runLoop.Value().Stop()
			l.runLoop.Release()
			l.runLoop = nil
		}
		if l.done != nil {
			<-l.done
			l.done = nil
		}
		l.logger.Debug("listener closed")
	})
	return nil
}
