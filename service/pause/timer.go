package pause

import (
	"time"

	"github.com/sagernet/naptime/common/x/list"
)

// RegisterTicker stops ticker while the device is paused and resets it to
// duration on wake, calling resume first if it is set.
func RegisterTicker(manager Manager, ticker *time.Ticker, duration time.Duration, resume func()) *list.Element[Callback] {
	if manager.IsPaused() {
		ticker.Stop()
	}
	return manager.RegisterCallback(func(event int) {
		switch event {
		case EventDevicePaused:
			ticker.Stop()
		case EventDeviceWake:
			if resume != nil {
				resume()
			}
			ticker.Reset(duration)
		}
	})
}
