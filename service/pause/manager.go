package pause

import "github.com/sagernet/naptime/common/x/list"

const (
	EventDevicePaused = iota
	EventDeviceWake
)

type Callback = func(event int)

type Manager interface {
	DevicePause()
	DeviceWake()
	DevicePauseChan() <-chan struct{}
	IsPaused() bool
	WaitActive()
	RegisterCallback(callback Callback) *list.Element[Callback]
	UnregisterCallback(element *list.Element[Callback])
}
