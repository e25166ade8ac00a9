// Package arena stores values behind integer handles that can cross a C
// boundary as opaque user data.
//
// A value is checked out for exclusive use and checked back in afterwards.
// Checking out never releases the value; only Remove does.
package arena

import "sync"

type Handle uintptr

type cell[T any] struct {
	value      *T
	checkedOut bool
}

type Arena[T any] struct {
	access sync.Mutex
	next   Handle
	cells  map[Handle]*cell[T]
}

// Insert stores value and returns its handle. Handles are never zero.
func (a *Arena[T]) Insert(value *T) Handle {
	a.access.Lock()
	defer a.access.Unlock()
	if a.cells == nil {
		a.cells = make(map[Handle]*cell[T])
	}
	a.next++
	if a.next == 0 {
		a.next++
	}
	a.cells[a.next] = &cell[T]{value: value}
	return a.next
}

// Checkout returns the value for exclusive use. It fails if the handle is
// unknown or the value is already checked out.
func (a *Arena[T]) Checkout(handle Handle) (*T, bool) {
	a.access.Lock()
	defer a.access.Unlock()
	c, loaded := a.cells[handle]
	if !loaded || c.checkedOut {
		return nil, false
	}
	c.checkedOut = true
	return c.value, true
}

// Checkin returns a checked out value to the arena.
func (a *Arena[T]) Checkin(handle Handle) {
	a.access.Lock()
	defer a.access.Unlock()
	if c, loaded := a.cells[handle]; loaded {
		c.checkedOut = false
	}
}

// Remove deletes the cell and returns its value. A checked out value is not
// removed.
func (a *Arena[T]) Remove(handle Handle) (*T, bool) {
	a.access.Lock()
	defer a.access.Unlock()
	c, loaded := a.cells[handle]
	if !loaded || c.checkedOut {
		return nil, false
	}
	delete(a.cells, handle)
	return c.value, true
}

func (a *Arena[T]) Len() int {
	a.access.Lock()
	defer a.access.Unlock()
	return len(a.cells)
}
