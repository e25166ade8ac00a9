package power

// Connection is the root power domain connection returned by registration.
// Zero means registration failed.
type Connection uint32

// Notifier is the notification object returned by registration, needed to
// deregister.
type Notifier uint32

// RunLoopSource is an input source owned by a NotificationPort. Its
// concrete type is private to the Platform that produced it.
type RunLoopSource = any

// RunLoop is a handle to the native event loop of one thread.
//
// Retain and Release are manual reference counting; every Retain must be
// matched by exactly one Release. Run blocks until Stop is called from any
// goroutine holding a retained reference. A Stop that happens before Run is
// not lost.
type RunLoop interface {
	Retain()
	Release()
	AddSource(source RunLoopSource)
	RemoveSource(source RunLoopSource)
	Run()
	Stop()
}

type NotificationPort interface {
	RunLoopSource() RunLoopSource
	Destroy()
}

// InterestCallback receives power messages. It is invoked on the thread of
// the run loop the notification port's source was added to.
type InterestCallback func(refCon uintptr, service uint32, messageType MessageType, argument MessageArgument)

// Platform is the operating system power management and run loop API.
type Platform interface {
	// CurrentRunLoop returns the run loop of the calling thread, without
	// retaining it.
	CurrentRunLoop() RunLoop
	// RegisterForSystemPower subscribes callback to system power messages,
	// passing refCon back on every call. Callbacks are not delivered until
	// the port's source is added to a run loop. A zero Connection means
	// failure; the port and notifier are then invalid.
	RegisterForSystemPower(refCon uintptr, callback InterestCallback) (Connection, NotificationPort, Notifier)
	DeregisterForSystemPower(notifier *Notifier) Return
	AllowPowerChange(connection Connection, argument MessageArgument) Return
	CancelPowerChange(connection Connection, argument MessageArgument) Return
	ServiceClose(connection Connection) Return
}
