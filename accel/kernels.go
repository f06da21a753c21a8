package accel

import (
	"fmt"
	"reflect"

	cerrors "github.com/kanye-quest/CHAI/errors"
)

// The functions below are the device-side halves of pointer lifecycle
// operations. Each one is a single task submitted through Do and awaited, so
// to the calling host goroutine they are ordinary synchronous calls.

// Construct runs ctor on the device worker and places the result in the
// arena, returning its address.
func Construct[T any](d *Device, ctor func() T) (Address, error) {
	var addr Address
	err := d.Do(func(tc *TaskContext) error {
		addr = tc.Place(ctor())
		return nil
	})
	return addr, err
}

// ConstructFromFactory runs the user factory on the device worker. The
// factory result must satisfy T; that contract is checked here, at the
// construction boundary, and nowhere later.
func ConstructFromFactory[T any, U any](d *Device, f func() U) (Address, error) {
	var addr Address
	err := d.Do(func(tc *TaskContext) error {
		v := f()
		if _, ok := any(v).(T); !ok {
			return cerrors.New(cerrors.PhaseConstruct, cerrors.KindTypeMismatch).
				HostType(fmt.Sprintf("%T", v)).
				DeviceType(typeName[T]()).
				Detail("factory result does not satisfy target type").
				Build()
		}
		addr = tc.Place(v)
		return nil
	})
	return addr, err
}

// Destroy removes the object at addr, together with any aliases, on the
// device worker. If the object implements Dropper its Drop hook runs on the
// worker before the entry is released. Destroying address 0 is a no-op.
func Destroy(d *Device, addr Address) error {
	if addr == 0 {
		return nil
	}
	return d.Do(func(tc *TaskContext) error {
		v, ok := tc.Remove(addr)
		if !ok {
			return cerrors.NotFound(cerrors.PhaseTeardown, "device address", uint32(addr))
		}
		if dr, ok := v.(Dropper); ok {
			dr.Drop()
		}
		return nil
	})
}

// Convert re-derives a device address for the object at addr as type T.
// The conversion happens on the device worker against the device-resident
// instance; the result aliases the original object and shares its lifetime.
// Converting address 0 yields address 0.
func Convert[T any](d *Device, addr Address) (Address, error) {
	if addr == 0 {
		return 0, nil
	}
	var out Address
	err := d.Do(func(tc *TaskContext) error {
		v, ok := tc.Get(addr)
		if !ok {
			return cerrors.NotFound(cerrors.PhaseCast, "device address", uint32(addr))
		}
		t, ok := v.(T)
		if !ok {
			return cerrors.New(cerrors.PhaseCast, cerrors.KindTypeMismatch).
				HostType(fmt.Sprintf("%T", v)).
				DeviceType(typeName[T]()).
				Detail("device instance does not satisfy target type").
				Build()
		}
		out = tc.PlaceAlias(addr, t)
		return nil
	})
	return out, err
}

// ConvertUnchecked aliases the object at addr without any type check; the
// assertion is deferred to resolution and may fail there instead.
func ConvertUnchecked(d *Device, addr Address) (Address, error) {
	if addr == 0 {
		return 0, nil
	}
	var out Address
	err := d.Do(func(tc *TaskContext) error {
		v, ok := tc.Get(addr)
		if !ok {
			return cerrors.NotFound(cerrors.PhaseCast, "device address", uint32(addr))
		}
		out = tc.PlaceAlias(addr, v)
		return nil
	})
	return out, err
}

// Dropper is optionally implemented by device-resident values that need a
// teardown hook; Drop runs on the device worker during Destroy.
type Dropper interface {
	Drop()
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
