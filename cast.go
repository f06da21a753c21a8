package chai

import (
	"fmt"
)

// Casts are aliasing constructions: the result shares the original lineage's
// counter and recomputes the held instance for the target type. Casting a
// null pointer yields a null pointer.

// StaticPointerCast converts the host instance to T. The U-to-T relationship
// is a static contract: violating it panics, it is a programming error, not
// a recoverable condition.
func StaticPointerCast[T any, U any](p HostPtr[U]) HostPtr[T] {
	if p.refs == nil {
		return HostPtr[T]{}
	}
	t, ok := any(p.host).(T)
	if !ok {
		panic(fmt.Sprintf("chai: static cast of %T to incompatible type", p.host))
	}
	*p.refs++
	return HostPtr[T]{host: t, refs: p.refs}
}

// DynamicPointerCast converts the host instance to T with a runtime check,
// returning the null pointer when the instance is not a T. Only the Host
// strategy has a dynamic cast; the device has no runtime type identification,
// so no equivalent exists for ManagedPtr or DevicePtr.
func DynamicPointerCast[T any, U any](p HostPtr[U]) HostPtr[T] {
	if p.refs == nil {
		return HostPtr[T]{}
	}
	t, ok := any(p.host).(T)
	if !ok {
		return HostPtr[T]{}
	}
	*p.refs++
	return HostPtr[T]{host: t, refs: p.refs}
}

// ConstPointerCast converts between a mutable interface view and its
// read-only counterpart of the same object. Mechanically a checked
// conversion, like StaticPointerCast.
func ConstPointerCast[T any, U any](p HostPtr[U]) HostPtr[T] {
	return StaticPointerCast[T](p)
}

// ReinterpretPointerCast aliases the lineage with no relationship validation
// at the cast boundary. If the instance does not satisfy T the result holds
// the zero T; using it is the caller's gamble, as reinterpretation always is.
func ReinterpretPointerCast[T any, U any](p HostPtr[U]) HostPtr[T] {
	if p.refs == nil {
		return HostPtr[T]{}
	}
	t, _ := any(p.host).(T)
	*p.refs++
	return HostPtr[T]{host: t, refs: p.refs}
}
