package power

import (
	"runtime"

	"github.com/sagernet/naptime/common/arena"
	"github.com/sagernet/naptime/common/barrier"
	"github.com/sagernet/naptime/common/runloop"

	"github.com/sirupsen/logrus"
)

// workerStates holds the state of every running worker. The handle of a
// worker's cell is the refCon passed through the platform callback.
var workerStates arena.Arena[workerState]

type workerState struct {
	platform   Platform
	handler    Handler
	logger     logrus.Ext1FieldLogger
	connection Connection
}

type worker struct {
	platform Platform
	handler  Handler
	logger   logrus.Ext1FieldLogger
	results  chan<- startResult
	ready    *barrier.Barrier
	done     chan<- struct{}
}

func (w *worker) run() {
	defer close(w.done)
	// The native run loop belongs to the OS thread. The thread is never
	// unlocked, so it exits together with this goroutine and its loop.
	runtime.LockOSThread()

	runLoop := runloop.Acquire(w.platform.CurrentRunLoop())
	defer runLoop.Release()

	state := &workerState{
		platform: w.platform,
		handler:  w.handler,
		logger:   w.logger,
	}
	handle := workerStates.Insert(state)
	defer workerStates.Remove(handle)

	// The callback cannot fire before the port's source is added to the
	// loop, so the connection can be stored after registration returns.
	connection, port, notifier := w.platform.RegisterForSystemPower(uintptr(handle), systemPowerEventHandler)
	if connection == 0 {
		w.results <- startResult{err: newError("IORegisterForSystemPower failed. code=", hex32(uint32(connection)))}
		return
	}
	state.connection = connection

	w.results <- startResult{runLoop: runLoop.Value()}
	w.results = nil
	w.ready.Wait()

	source := port.RunLoopSource()
	runLoop.Value().AddSource(source)
	w.logger.Debug("starting run loop")
	runLoop.Value().Run()
	w.logger.Debug("run loop done")
	runLoop.Value().RemoveSource(source)

	if ret := w.platform.DeregisterForSystemPower(&notifier); ret != ReturnSuccess {
		w.logger.Warn("IODeregisterForSystemPower failed. ret=", ret)
	}
	if ret := w.platform.ServiceClose(connection); ret != ReturnSuccess {
		w.logger.Warn("IOServiceClose failed. ret=", ret)
	}
	port.Destroy()
	w.logger.Trace("run loop thread exiting")
}
