//go:build windows

package power

import (
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/sagernet/naptime/common/runloop"

	"golang.org/x/sys/windows"
)

var (
	modpowrprof                                  = windows.NewLazySystemDLL("powrprof.dll")
	procPowerRegisterSuspendResumeNotification   = modpowrprof.NewProc("PowerRegisterSuspendResumeNotification")
	procPowerUnregisterSuspendResumeNotification = modpowrprof.NewProc("PowerUnregisterSuspendResumeNotification")
)

const (
	PBT_APMSUSPEND         uint32 = 4
	PBT_APMRESUMESUSPEND   uint32 = 7
	PBT_APMRESUMEAUTOMATIC uint32 = 18
)

const _DEVICE_NOTIFY_CALLBACK = 2

type _DEVICE_NOTIFY_SUBSCRIBE_PARAMETERS struct {
	callback uintptr
	context  uintptr
}

// Callbacks made by windows.NewCallback are never freed, so all
// registrations share one and are told apart by their context value.
var (
	suspendResumeCallback     uintptr
	suspendResumeCallbackOnce sync.Once
	suspendResumePorts        sync.Map
	suspendResumeNextID       atomic.Uint32
)

// Windows has no sleep query on this feed and does not wait for an
// acknowledgement, so only will-sleep, will-power-on and has-powered-on
// messages are produced, and allow/cancel always succeed.
type windowsPlatform struct{}

// NativePlatform returns the power API of the running operating system.
func NativePlatform() (Platform, error) {
	if err := procPowerRegisterSuspendResumeNotification.Find(); err != nil {
		return nil, ErrUnsupportedPlatform // Windows 7
	}
	if err := procPowerUnregisterSuspendResumeNotification.Find(); err != nil {
		return nil, ErrUnsupportedPlatform
	}
	return windowsPlatform{}, nil
}

// CurrentRunLoop returns a new loop; the worker calls it once, on the
// thread that will run it.
func (windowsPlatform) CurrentRunLoop() RunLoop {
	return runloop.New()
}

func (windowsPlatform) RegisterForSystemPower(refCon uintptr, callback InterestCallback) (Connection, NotificationPort, Notifier) {
	suspendResumeCallbackOnce.Do(func() {
		suspendResumeCallback = windows.NewCallback(suspendResumeProc)
	})
	id := suspendResumeNextID.Add(1)
	port := &suspendResumePort{
		Port:     runloop.NewPort(),
		id:       id,
		refCon:   refCon,
		callback: callback,
	}
	port.params = _DEVICE_NOTIFY_SUBSCRIBE_PARAMETERS{
		callback: suspendResumeCallback,
		context:  uintptr(id),
	}
	suspendResumePorts.Store(uintptr(id), port)
	r1, _, _ := syscall.SyscallN(
		procPowerRegisterSuspendResumeNotification.Addr(),
		_DEVICE_NOTIFY_CALLBACK,
		uintptr(unsafe.Pointer(&port.params)),
		uintptr(unsafe.Pointer(&port.handle)),
	)
	if r1 != 0 {
		suspendResumePorts.Delete(uintptr(id))
		return 0, nil, 0
	}
	return Connection(id), port, Notifier(id)
}

func (windowsPlatform) DeregisterForSystemPower(notifier *Notifier) Return {
	value, loaded := suspendResumePorts.LoadAndDelete(uintptr(*notifier))
	if !loaded {
		return ReturnSuccess
	}
	*notifier = 0
	r1, _, _ := syscall.SyscallN(procPowerUnregisterSuspendResumeNotification.Addr(), value.(*suspendResumePort).handle)
	return Return(r1)
}

func (windowsPlatform) AllowPowerChange(Connection, MessageArgument) Return {
	return ReturnSuccess
}

func (windowsPlatform) CancelPowerChange(Connection, MessageArgument) Return {
	return ReturnSuccess
}

func (windowsPlatform) ServiceClose(Connection) Return {
	return ReturnSuccess
}

type suspendResumePort struct {
	*runloop.Port
	id       uint32
	refCon   uintptr
	callback InterestCallback
	params   _DEVICE_NOTIFY_SUBSCRIBE_PARAMETERS
	handle   uintptr
}

func (p *suspendResumePort) RunLoopSource() RunLoopSource {
	return p.Port
}

func (p *suspendResumePort) Destroy() {
	suspendResumePorts.Delete(uintptr(p.id))
	p.Port.Close()
}

func suspendResumeProc(context uintptr, changeType uint32, setting uintptr) uintptr {
	value, loaded := suspendResumePorts.Load(context)
	if !loaded {
		return 0
	}
	port := value.(*suspendResumePort)
	var messageType MessageType
	switch changeType {
	case PBT_APMSUSPEND:
		messageType = MessageSystemWillSleep
	case PBT_APMRESUMEAUTOMATIC:
		messageType = MessageSystemWillPowerOn
	case PBT_APMRESUMESUSPEND:
		messageType = MessageSystemHasPoweredOn
	default:
		return 0
	}
	// Block until the handler has run, so a suspend is not let through
	// before the worker has seen it.
	port.Send(func() {
		port.callback(port.refCon, 0, messageType, MessageArgument(setting))
	})
	return 0
}
