package runloop

import "sync/atomic"

// Retainer is a manually reference counted resource.
type Retainer interface {
	Retain()
	Release()
}

// Ref is a single retain taken on a Retainer. Each Ref gives its retain
// back at most once, no matter how many times Release is called.
type Ref[T Retainer] struct {
	target   T
	released atomic.Bool
}

func Acquire[T Retainer](target T) *Ref[T] {
	target.Retain()
	return &Ref[T]{target: target}
}

func (r *Ref[T]) Value() T {
	return r.target
}

// Release drops the retain and reports whether this call did so.
func (r *Ref[T]) Release() bool {
	if !r.released.CompareAndSwap(false, true) {
		return false
	}
	r.target.Release()
	return true
}
