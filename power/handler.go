package power

type SleepQueryResponse int

const (
	Allow SleepQueryResponse = iota
	Deny
)

func (r SleepQueryResponse) String() string {
	switch r {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// Handler receives power events. Methods are called one at a time from the
// listener's worker thread, and each must return before the next message is
// dispatched. The system waits about 30 seconds for a sleep to be
// acknowledged, so slow work belongs elsewhere.
type Handler interface {
	// SleepQuery is called when the system asks whether it may sleep.
	SleepQuery() SleepQueryResponse
	// SleepFailed is called when a sleep was vetoed, by this or another
	// process.
	SleepFailed()
	// Sleep is called when the system has committed to sleeping.
	Sleep()
	// Wake is called when the system has powered back on.
	Wake()
}

// NopHandler allows every sleep and ignores every event. Embed it to
// implement only the methods you need.
type NopHandler struct{}

func (NopHandler) SleepQuery() SleepQueryResponse { return Allow }
func (NopHandler) SleepFailed()                   {}
func (NopHandler) Sleep()                         {}
func (NopHandler) Wake()                          {}

// HandlerFuncs adapts plain functions to a Handler. Nil fields behave like
// NopHandler.
type HandlerFuncs struct {
	OnSleepQuery  func() SleepQueryResponse
	OnSleepFailed func()
	OnSleep       func()
	OnWake        func()
}

func (h HandlerFuncs) SleepQuery() SleepQueryResponse {
	if h.OnSleepQuery == nil {
		return Allow
	}
	return h.OnSleepQuery()
}

func (h HandlerFuncs) SleepFailed() {
	if h.OnSleepFailed != nil {
		h.OnSleepFailed()
	}
}

func (h HandlerFuncs) Sleep() {
	if h.OnSleep != nil {
		h.OnSleep()
	}
}

func (h HandlerFuncs) Wake() {
	if h.OnWake != nil {
		h.OnWake()
	}
}

type multiHandler []Handler

// Multi fans every event out to handlers in order. A sleep query is denied
// if any handler denies it; every handler is still asked.
func Multi(handlers ...Handler) Handler {
	var flat multiHandler
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		if nested, isMulti := handler.(multiHandler); isMulti {
			flat = append(flat, nested...)
		} else {
			flat = append(flat, handler)
		}
	}
	return flat
}

func (m multiHandler) SleepQuery() SleepQueryResponse {
	response := Allow
	for _, handler := range m {
		if handler.SleepQuery() == Deny {
			response = Deny
		}
	}
	return response
}

func (m multiHandler) SleepFailed() {
	for _, handler := range m {
		handler.SleepFailed()
	}
}

func (m multiHandler) Sleep() {
	for _, handler := range m {
		handler.Sleep()
	}
}

func (m multiHandler) Wake() {
	for _, handler := range m {
		handler.Wake()
	}
}
