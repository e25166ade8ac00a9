// Package powertest provides an in-memory power.Platform for tests.
package powertest

import (
	"sync"

	"github.com/sagernet/naptime/common/runloop"
	"github.com/sagernet/naptime/power"
)

type AckKind int

const (
	AckAllow AckKind = iota
	AckCancel
)

func (k AckKind) String() string {
	if k == AckCancel {
		return "cancel"
	}
	return "allow"
}

// Ack is one AllowPowerChange or CancelPowerChange call.
type Ack struct {
	Kind       AckKind
	Connection power.Connection
	Argument   power.MessageArgument
}

// Platform simulates the IOKit power API on top of runloop.Loop. Messages
// are delivered with Deliver, on the loop of the most recent registration.
type Platform struct {
	access           sync.Mutex
	failRegistration bool
	allowReturn      power.Return
	cancelReturn     power.Return
	nextConnection   power.Connection
	loops            []*runloop.Loop
	port             *Port
	acks             []Ack
	deregistered     int
	serviceClosed    int
	portsDestroyed   int
}

var _ power.Platform = (*Platform)(nil)

func New() *Platform {
	return &Platform{nextConnection: 0x1000}
}

// FailRegistration makes later registrations return a zero connection.
func (p *Platform) FailRegistration(fail bool) {
	p.access.Lock()
	defer p.access.Unlock()
	p.failRegistration = fail
}

// SetAckReturns sets the status returned by AllowPowerChange and
// CancelPowerChange.
func (p *Platform) SetAckReturns(allow, cancel power.Return) {
	p.access.Lock()
	defer p.access.Unlock()
	p.allowReturn = allow
	p.cancelReturn = cancel
}

func (p *Platform) CurrentRunLoop() power.RunLoop {
	loop := runloop.New()
	p.access.Lock()
	p.loops = append(p.loops, loop)
	p.access.Unlock()
	return loop
}

func (p *Platform) RegisterForSystemPower(refCon uintptr, callback power.InterestCallback) (power.Connection, power.NotificationPort, power.Notifier) {
	p.access.Lock()
	defer p.access.Unlock()
	if p.failRegistration {
		return 0, nil, 0
	}
	p.nextConnection++
	port := &Port{
		Port:       runloop.NewPort(),
		platform:   p,
		refCon:     refCon,
		callback:   callback,
		connection: p.nextConnection,
	}
	p.port = port
	return port.connection, port, power.Notifier(port.connection)
}

func (p *Platform) DeregisterForSystemPower(notifier *power.Notifier) power.Return {
	p.access.Lock()
	defer p.access.Unlock()
	p.deregistered++
	*notifier = 0
	return power.ReturnSuccess
}

func (p *Platform) AllowPowerChange(connection power.Connection, argument power.MessageArgument) power.Return {
	p.access.Lock()
	defer p.access.Unlock()
	p.acks = append(p.acks, Ack{AckAllow, connection, argument})
	return p.allowReturn
}

func (p *Platform) CancelPowerChange(connection power.Connection, argument power.MessageArgument) power.Return {
	p.access.Lock()
	defer p.access.Unlock()
	p.acks = append(p.acks, Ack{AckCancel, connection, argument})
	return p.cancelReturn
}

func (p *Platform) ServiceClose(power.Connection) power.Return {
	p.access.Lock()
	defer p.access.Unlock()
	p.serviceClosed++
	return power.ReturnSuccess
}

// Deliver sends a message to the most recently registered listener and
// waits for the callback to return. A message sent before the worker has
// added the port to its loop waits for it. It reports whether the callback
// ran; it did not if there was no registration, the port was already
// removed from its loop, or the loop stopped before the message was taken.
func (p *Platform) Deliver(messageType power.MessageType, argument power.MessageArgument) bool {
	p.access.Lock()
	port := p.port
	p.access.Unlock()
	if port == nil {
		return false
	}
	return port.Send(func() {
		port.callback(port.refCon, 0, messageType, argument)
	})
}

// Loop returns the most recent run loop handed out, or nil.
func (p *Platform) Loop() *runloop.Loop {
	p.access.Lock()
	defer p.access.Unlock()
	if len(p.loops) == 0 {
		return nil
	}
	return p.loops[len(p.loops)-1]
}

// ForceStop stops the most recent run loop without going through the
// listener.
func (p *Platform) ForceStop() {
	if loop := p.Loop(); loop != nil {
		loop.Stop()
	}
}

// Connection returns the connection of the most recent registration.
func (p *Platform) Connection() power.Connection {
	p.access.Lock()
	defer p.access.Unlock()
	if p.port == nil {
		return 0
	}
	return p.port.connection
}

func (p *Platform) Acks() []Ack {
	p.access.Lock()
	defer p.access.Unlock()
	return append([]Ack(nil), p.acks...)
}

func (p *Platform) Deregistered() int {
	p.access.Lock()
	defer p.access.Unlock()
	return p.deregistered
}

func (p *Platform) ServiceClosed() int {
	p.access.Lock()
	defer p.access.Unlock()
	return p.serviceClosed
}

func (p *Platform) PortsDestroyed() int {
	p.access.Lock()
	defer p.access.Unlock()
	return p.portsDestroyed
}

// Port is the notification port of one registration.
type Port struct {
	*runloop.Port
	platform   *Platform
	refCon     uintptr
	callback   power.InterestCallback
	connection power.Connection
}

func (p *Port) RunLoopSource() power.RunLoopSource {
	return p.Port
}

func (p *Port) Destroy() {
	p.Port.Close()
	p.platform.access.Lock()
	defer p.platform.access.Unlock()
	p.platform.portsDestroyed++
}
