//go:build !noaccel

package chai

import (
	"fmt"

	"github.com/kanye-quest/CHAI/accel"
	cerrors "github.com/kanye-quest/CHAI/errors"
	"github.com/kanye-quest/CHAI/registry"
)

// MakeManaged constructs one logical object in both spaces: the constructor
// runs once on the host and once inside a device task, producing two
// independent instances that start out equivalent. The device task is
// awaited before MakeManaged returns. The instances are never synchronized
// afterwards except through registered arguments.
func MakeManaged[T any](d *accel.Device, ctor func() T) (ManagedPtr[T], error) {
	host := ctor()
	addr, err := accel.Construct(d, ctor)
	if err != nil {
		return ManagedPtr[T]{}, err
	}
	return NewManagedPtr(d, host, addr), nil
}

// MakeManagedWithArguments is MakeManaged plus registration of the deferred
// payload, the way construction argument capture normally happens.
func MakeManagedWithArguments[T any](d *accel.Device, ctor func() T, args ...Argument) (ManagedPtr[T], error) {
	p, err := MakeManaged(d, ctor)
	if err != nil {
		return p, err
	}
	p.RegisterArguments(args...)
	return p, nil
}

// MakeManagedFromFactory obtains both instances from a user factory whose
// result type U must satisfy T, checked at the construction boundary on both
// sides. The factory runs once on the host and once on the device.
func MakeManagedFromFactory[T any, U any](d *accel.Device, f func() U) (ManagedPtr[T], error) {
	v := f()
	host, ok := any(v).(T)
	if !ok {
		return ManagedPtr[T]{}, cerrors.New(cerrors.PhaseConstruct, cerrors.KindTypeMismatch).
			HostType(fmt.Sprintf("%T", v)).
			Detail("factory result does not satisfy target type").
			Build()
	}
	addr, err := accel.ConstructFromFactory[T, U](d, f)
	if err != nil {
		return ManagedPtr[T]{}, err
	}
	return NewManagedPtr(d, host, addr), nil
}

// MakeDevice constructs the device instance only, via an awaited device
// task, and wraps its address.
func MakeDevice[T any](d *accel.Device, ctor func() T) (DevicePtr[T], error) {
	addr, err := accel.Construct(d, ctor)
	if err != nil {
		return DevicePtr[T]{}, err
	}
	return NewDevicePtr[T](d, addr), nil
}

// MakeDeviceFromFactory obtains the device instance from a user factory
// whose result type U must satisfy T.
func MakeDeviceFromFactory[T any, U any](d *accel.Device, f func() U) (DevicePtr[T], error) {
	addr, err := accel.ConstructFromFactory[T, U](d, f)
	if err != nil {
		return DevicePtr[T]{}, err
	}
	return NewDevicePtr[T](d, addr), nil
}

// FromRecord builds a ManagedPtr from an externally obtained pair: a host
// instance plus its registry record naming the device counterpart. The
// record's address is trusted; whoever registered it vouched for the
// equivalence of the two instances.
func FromRecord[T any](d *accel.Device, host T, rec registry.Record) ManagedPtr[T] {
	return NewManagedPtr(d, host, rec.Address)
}
