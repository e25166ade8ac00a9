package pause

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sagernet/naptime/common/x/list"
)

type defaultManager struct {
	ctx          context.Context
	access       sync.Mutex
	devicePause  chan struct{}
	devicePaused atomic.Bool
	callbacks    list.List[Callback]
}

// NewDefaultManager returns an active manager. WaitActive gives up when ctx
// is done.
func NewDefaultManager(ctx context.Context) Manager {
	devicePauseChan := make(chan struct{})
	close(devicePauseChan)
	return &defaultManager{
		ctx:         ctx,
		devicePause: devicePauseChan,
	}
}

func (d *defaultManager) DevicePause() {
	d.access.Lock()
	select {
	case <-d.devicePause:
		d.devicePaused.Store(true)
		d.devicePause = make(chan struct{})
	default:
		d.access.Unlock()
		return
	}
	callbacks := d.callbacks.Array()
	d.access.Unlock()
	emit(callbacks, EventDevicePaused)
}

func (d *defaultManager) DeviceWake() {
	d.access.Lock()
	select {
	case <-d.devicePause:
		d.access.Unlock()
		return
	default:
		d.devicePaused.Store(false)
		close(d.devicePause)
	}
	callbacks := d.callbacks.Array()
	d.access.Unlock()
	emit(callbacks, EventDeviceWake)
}

// DevicePauseChan is closed while the device is active.
func (d *defaultManager) DevicePauseChan() <-chan struct{} {
	d.access.Lock()
	defer d.access.Unlock()
	return d.devicePause
}

func (d *defaultManager) RegisterCallback(callback Callback) *list.Element[Callback] {
	d.access.Lock()
	defer d.access.Unlock()
	return d.callbacks.PushBack(callback)
}

func (d *defaultManager) UnregisterCallback(element *list.Element[Callback]) {
	d.access.Lock()
	defer d.access.Unlock()
	d.callbacks.Remove(element)
}

func (d *defaultManager) IsPaused() bool {
	return d.devicePaused.Load()
}

func (d *defaultManager) WaitActive() {
	select {
	case <-d.DevicePauseChan():
	case <-d.ctx.Done():
	}
}

func emit(callbacks []Callback, event int) {
	for _, callback := range callbacks {
		callback(event)
	}
}
