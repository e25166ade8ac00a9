//go:build darwin && cgo

package power

/*
#cgo LDFLAGS: -framework CoreFoundation -framework IOKit

#include <stdint.h>
#include <CoreFoundation/CoreFoundation.h>
#include <IOKit/IOKitLib.h>
#include <IOKit/pwr_mgt/IOPMLib.h>

extern void goSystemPowerCallback(uintptr_t refCon, io_service_t service, natural_t messageType, uintptr_t messageArgument);

static void systemPowerCallback(void *refCon, io_service_t service, natural_t messageType, void *messageArgument) {
	goSystemPowerCallback((uintptr_t)refCon, service, messageType, (uintptr_t)messageArgument);
}

static io_connect_t registerForSystemPower(uintptr_t refCon, IONotificationPortRef *port, io_object_t *notifier) {
	return IORegisterForSystemPower((void *)refCon, port, systemPowerCallback, notifier);
}

static IOReturn allowPowerChange(io_connect_t connection, uintptr_t argument) {
	return IOAllowPowerChange(connection, (intptr_t)argument);
}

static IOReturn cancelPowerChange(io_connect_t connection, uintptr_t argument) {
	return IOCancelPowerChange(connection, (intptr_t)argument);
}

static void retainRunLoop(CFRunLoopRef runLoop) {
	CFRetain(runLoop);
}

static void releaseRunLoop(CFRunLoopRef runLoop) {
	CFRelease(runLoop);
}

static void addPortSource(CFRunLoopRef runLoop, IONotificationPortRef port) {
	CFRunLoopAddSource(runLoop, IONotificationPortGetRunLoopSource(port), kCFRunLoopCommonModes);
}

static void removePortSource(CFRunLoopRef runLoop, IONotificationPortRef port) {
	CFRunLoopRemoveSource(runLoop, IONotificationPortGetRunLoopSource(port), kCFRunLoopCommonModes);
}

static SInt32 runDefaultMode(CFTimeInterval seconds) {
	return CFRunLoopRunInMode(kCFRunLoopDefaultMode, seconds, 0);
}
*/
import "C"

import (
	"sync/atomic"
	"time"
)

// CFRunLoopStop is lost if it arrives before the loop starts running, so
// Run drives the loop in slices and checks for a recorded stop in between.
const runLoopSlice = time.Second

type darwinPlatform struct{}

// NativePlatform returns the power API of the running operating system.
func NativePlatform() (Platform, error) {
	return darwinPlatform{}, nil
}

func (darwinPlatform) CurrentRunLoop() RunLoop {
	return &cfRunLoop{ref: C.CFRunLoopGetCurrent()}
}

// RegisterForSystemPower ignores callback: IOKit needs a C function
// pointer, and the cgo trampoline always forwards to
// systemPowerEventHandler, the only callback a Listener registers.
func (darwinPlatform) RegisterForSystemPower(refCon uintptr, _ InterestCallback) (Connection, NotificationPort, Notifier) {
	var (
		port     C.IONotificationPortRef
		notifier C.io_object_t
	)
	connection := C.registerForSystemPower(C.uintptr_t(refCon), &port, &notifier)
	if connection == 0 {
		return 0, nil, 0
	}
	return Connection(connection), &ioNotificationPort{ref: port}, Notifier(notifier)
}

func (darwinPlatform) DeregisterForSystemPower(notifier *Notifier) Return {
	object := C.io_object_t(*notifier)
	ret := Return(C.IODeregisterForSystemPower(&object))
	*notifier = Notifier(object)
	return ret
}

func (darwinPlatform) AllowPowerChange(connection Connection, argument MessageArgument) Return {
	return Return(C.allowPowerChange(C.io_connect_t(connection), C.uintptr_t(argument)))
}

func (darwinPlatform) CancelPowerChange(connection Connection, argument MessageArgument) Return {
	return Return(C.cancelPowerChange(C.io_connect_t(connection), C.uintptr_t(argument)))
}

func (darwinPlatform) ServiceClose(connection Connection) Return {
	return Return(C.IOServiceClose(C.io_connect_t(connection)))
}

type cfRunLoop struct {
	ref     C.CFRunLoopRef
	stopped atomic.Bool
}

func (l *cfRunLoop) Retain() {
	C.retainRunLoop(l.ref)
}

func (l *cfRunLoop) Release() {
	C.releaseRunLoop(l.ref)
}

func (l *cfRunLoop) AddSource(source RunLoopSource) {
	if port, isPort := source.(*ioNotificationPort); isPort {
		C.addPortSource(l.ref, port.ref)
	}
}

func (l *cfRunLoop) RemoveSource(source RunLoopSource) {
	if port, isPort := source.(*ioNotificationPort); isPort {
		C.removePortSource(l.ref, port.ref)
	}
}

func (l *cfRunLoop) Run() {
	for !l.stopped.Load() {
		C.runDefaultMode(C.CFTimeInterval(runLoopSlice.Seconds()))
	}
}

func (l *cfRunLoop) Stop() {
	l.stopped.Store(true)
	C.CFRunLoopStop(l.ref)
}

type ioNotificationPort struct {
	ref C.IONotificationPortRef
}

func (p *ioNotificationPort) RunLoopSource() RunLoopSource {
	return p
}

func (p *ioNotificationPort) Destroy() {
	C.IONotificationPortDestroy(p.ref)
}
