package pause

import "github.com/sagernet/naptime/power"

type powerHandler struct {
	power.NopHandler
	manager Manager
}

// NewHandler returns a power.Handler that pauses manager when the system
// goes to sleep and wakes it when the system powers back on. It never
// denies a sleep.
func NewHandler(manager Manager) power.Handler {
	return &powerHandler{manager: manager}
}

func (h *powerHandler) Sleep() {
	h.manager.DevicePause()
}

func (h *powerHandler) Wake() {
	h.manager.DeviceWake()
}
