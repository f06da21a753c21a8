//go:build !noaccel

package chai

import (
	"fmt"

	"github.com/kanye-quest/CHAI/accel"
)

// Managed and device casts recompute the host side locally and the device
// side by launching a device task that performs the equivalent conversion
// against the device-resident instance, awaited before the cast returns.
// The device address is never re-derived by host-side reinterpretation.
//
// There is deliberately no DynamicManagedCast or DynamicDeviceCast: the
// device has no runtime type identification, so attempting one is a compile
// error rather than a runtime surprise.

// StaticManagedCast converts both instances to T. The host conversion is a
// static contract (panic on violation); the device conversion runs on the
// device and its failure surfaces as an error.
func StaticManagedCast[T any, U any](p ManagedPtr[U]) (ManagedPtr[T], error) {
	if p.refs == nil {
		return ManagedPtr[T]{}, nil
	}
	t, ok := any(p.host).(T)
	if !ok {
		panic(fmt.Sprintf("chai: static cast of %T to incompatible type", p.host))
	}
	addr, err := accel.Convert[T](p.d, p.dev)
	if err != nil {
		return ManagedPtr[T]{}, err
	}
	p.incref()
	return ManagedPtr[T]{host: t, dev: addr, d: p.d, refs: p.refs, args: p.args}, nil
}

// ConstManagedCast converts both instances between a mutable interface view
// and its read-only counterpart; mechanically StaticManagedCast.
func ConstManagedCast[T any, U any](p ManagedPtr[U]) (ManagedPtr[T], error) {
	return StaticManagedCast[T](p)
}

// ReinterpretManagedCast aliases both instances with no validation at the
// cast boundary. A host instance that does not satisfy T becomes the zero T;
// the device alias defers its check to resolution.
func ReinterpretManagedCast[T any, U any](p ManagedPtr[U]) (ManagedPtr[T], error) {
	if p.refs == nil {
		return ManagedPtr[T]{}, nil
	}
	t, _ := any(p.host).(T)
	addr, err := accel.ConvertUnchecked(p.d, p.dev)
	if err != nil {
		return ManagedPtr[T]{}, err
	}
	p.incref()
	return ManagedPtr[T]{host: t, dev: addr, d: p.d, refs: p.refs, args: p.args}, nil
}

// StaticDeviceCast converts the device instance to T on the device.
func StaticDeviceCast[T any, U any](p DevicePtr[U]) (DevicePtr[T], error) {
	if p.refs == nil {
		return DevicePtr[T]{}, nil
	}
	addr, err := accel.Convert[T](p.d, p.dev)
	if err != nil {
		return DevicePtr[T]{}, err
	}
	*p.refs++
	return DevicePtr[T]{dev: addr, d: p.d, refs: p.refs}, nil
}

// ConstDeviceCast converts the device instance between a mutable view and
// its read-only counterpart; mechanically StaticDeviceCast.
func ConstDeviceCast[T any, U any](p DevicePtr[U]) (DevicePtr[T], error) {
	return StaticDeviceCast[T](p)
}

// ReinterpretDeviceCast aliases the device instance with no validation at
// the cast boundary.
func ReinterpretDeviceCast[T any, U any](p DevicePtr[U]) (DevicePtr[T], error) {
	if p.refs == nil {
		return DevicePtr[T]{}, nil
	}
	addr, err := accel.ConvertUnchecked(p.d, p.dev)
	if err != nil {
		return DevicePtr[T]{}, err
	}
	*p.refs++
	return DevicePtr[T]{dev: addr, d: p.d, refs: p.refs}, nil
}
