package power

import "fmt"

// Error is returned by New when the listener could not be started.
type Error struct {
	message string
}

func (e *Error) Error() string {
	return e.message
}

func newError(message ...any) *Error {
	return &Error{fmt.Sprint(message...)}
}

var ErrUnsupportedPlatform = newError("power events are not supported on this platform")
