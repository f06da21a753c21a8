package chai

import (
	"reflect"

	"github.com/kanye-quest/CHAI/accel"
)

// HostPtr is the single-space owning pointer: one host instance, a shared
// reference counter, no accelerator interaction. The zero value is the null
// pointer (nil counter, UseCount 0).
//
// Not goroutine-safe: one lineage belongs to one host goroutine.
type HostPtr[T any] struct {
	host T
	refs *int
}

// NewHostPtr takes ownership of v and starts a lineage with count 1.
func NewHostPtr[T any](v T) HostPtr[T] {
	refs := 1
	return HostPtr[T]{host: v, refs: &refs}
}

// Clone shares ownership: the counter goes up by one and the new copy
// resolves to the same instance.
func (p HostPtr[T]) Clone() HostPtr[T] {
	if p.refs != nil {
		*p.refs++
	}
	return p
}

// Assign releases the current target and adopts a clone of other.
// Assigning a pointer to itself is a no-op.
func (p *HostPtr[T]) Assign(other HostPtr[T]) {
	if p.refs != nil && p.refs == other.refs {
		return
	}
	p.Release()
	*p = other.Clone()
}

// Release drops this copy's ownership. When the count reaches zero the
// counter is retired and the host instance's Drop hook runs, exactly once.
// The receiver becomes the null pointer, so releasing the same variable
// twice is harmless.
func (p *HostPtr[T]) Release() {
	if p.refs == nil {
		return
	}
	*p.refs--
	if *p.refs == 0 {
		if d, ok := any(p.host).(Dropper); ok {
			d.Drop()
		}
	}
	*p = HostPtr[T]{}
}

// Resolve returns the host instance in every context; a host pointer has
// only one space. Taking the context parameter keeps resolution uniform
// across the pointer strategies.
func (p HostPtr[T]) Resolve(*accel.TaskContext) T {
	return p.host
}

// Get returns the host instance; shorthand for Resolve(nil).
func (p HostPtr[T]) Get() T {
	return p.host
}

// UseCount returns the number of live copies in the lineage, or 0 for the
// null pointer.
func (p HostPtr[T]) UseCount() int {
	if p.refs == nil {
		return 0
	}
	return *p.refs
}

// IsNil reports whether the pointer holds no instance.
func (p HostPtr[T]) IsNil() bool {
	return p.refs == nil || isNilValue(any(p.host))
}

// isNilValue reports whether v is nil or a nil-valued reference type.
// Instances managed by these pointers are expected to be pointer-backed.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
