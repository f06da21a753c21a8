//go:build !noaccel

package chai

import (
	"github.com/kanye-quest/CHAI/accel"
)

// DevicePtr is the device-only owning pointer: counter bookkeeping happens on
// the host, but the instance lives on the device and resolves only inside
// device tasks. The zero value is the null pointer. No deferred-resource
// hook; nothing host-side exists to keep in step.
type DevicePtr[T any] struct {
	dev  accel.Address
	d    *accel.Device
	refs *int
}

// NewDevicePtr takes ownership of a device address obtained from a prior
// device-side allocation and starts a lineage with count 1. Most callers
// want MakeDevice instead.
func NewDevicePtr[T any](d *accel.Device, dev accel.Address) DevicePtr[T] {
	refs := 1
	return DevicePtr[T]{dev: dev, d: d, refs: &refs}
}

// Clone shares ownership; host-side bookkeeping only.
func (p DevicePtr[T]) Clone() DevicePtr[T] {
	if p.refs != nil {
		*p.refs++
	}
	return p
}

// Assign releases the current target and adopts a clone of other.
func (p *DevicePtr[T]) Assign(other DevicePtr[T]) error {
	if p.refs != nil && p.refs == other.refs {
		return nil
	}
	if err := p.Release(); err != nil {
		return err
	}
	*p = other.Clone()
	return nil
}

// Release drops this copy's ownership. When the count reaches zero a device
// task destroys the device instance and Release waits for it to complete.
// The receiver becomes the null pointer afterwards.
func (p *DevicePtr[T]) Release() error {
	if p.refs == nil {
		return nil
	}
	*p.refs--
	var err error
	if *p.refs == 0 {
		err = accel.Destroy(p.d, p.dev)
	}
	*p = DevicePtr[T]{}
	return err
}

// Resolve returns the device-resident instance when called inside a device
// task. On the host (nil context) there is nothing to resolve: the zero T
// comes back.
func (p DevicePtr[T]) Resolve(tc *accel.TaskContext) T {
	var zero T
	if tc == nil {
		return zero
	}
	v, ok := tc.Get(p.dev)
	if !ok {
		return zero
	}
	return v.(T)
}

// DeviceAddress returns the address of the device instance.
func (p DevicePtr[T]) DeviceAddress() accel.Address {
	return p.dev
}

// Device returns the device the instance lives on.
func (p DevicePtr[T]) Device() *accel.Device {
	return p.d
}

// UseCount returns the number of live copies in the lineage, or 0 for the
// null pointer.
func (p DevicePtr[T]) UseCount() int {
	if p.refs == nil {
		return 0
	}
	return *p.refs
}

// IsNil reports whether the device address is absent.
func (p DevicePtr[T]) IsNil() bool {
	return p.refs == nil || p.dev == 0
}
