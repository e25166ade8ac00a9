package power

import "github.com/sagernet/naptime/common/observable"

type Event int

const (
	EventSleepQuery Event = iota
	EventSleepFailed
	EventSleep
	EventWake
)

func (e Event) String() string {
	switch e {
	case EventSleepQuery:
		return "sleep_query"
	case EventSleepFailed:
		return "sleep_failed"
	case EventSleep:
		return "sleep"
	case EventWake:
		return "wake"
	default:
		return "unknown"
	}
}

type notifyHandler struct {
	subscriber *observable.Subscriber[Event]
	response   SleepQueryResponse
}

// Notify returns a Handler that emits every event to subscriber and answers
// sleep queries with response. Emitting never blocks the worker; events are
// dropped while the subscriber's buffer is full.
func Notify(subscriber *observable.Subscriber[Event], response SleepQueryResponse) Handler {
	return &notifyHandler{subscriber, response}
}

func (h *notifyHandler) SleepQuery() SleepQueryResponse {
	h.subscriber.Emit(EventSleepQuery)
	return h.response
}

func (h *notifyHandler) SleepFailed() {
	h.subscriber.Emit(EventSleepFailed)
}

func (h *notifyHandler) Sleep() {
	h.subscriber.Emit(EventSleep)
}

func (h *notifyHandler) Wake() {
	h.subscriber.Emit(EventWake)
}
