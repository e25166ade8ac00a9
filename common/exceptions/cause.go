package exceptions

import "errors"

// Cast walks the chain of err and returns the first error of type T.
func Cast[T error](err error) (T, bool) {
	var target T
	if errors.As(err, &target) {
		return target, true
	}
	return target, false
}
