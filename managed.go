//go:build !noaccel

package chai

import (
	"github.com/kanye-quest/CHAI/accel"
)

// ManagedPtr is the dual-space owning pointer: one logical object represented
// by a host instance and a device instance, reference-counted on the host
// only. The two instances are independent; keeping their values equivalent is
// the caller's job, the type only checks types at construction and cast
// boundaries. The zero value is the null pointer.
//
// Resolve picks the local instance for the executing context, so the same
// expression works on either side of the fence:
//
//	p.Resolve(nil).Scale(out)  // host
//	p.Resolve(tc).Scale(out)   // inside a device task
//
// Not goroutine-safe: one lineage belongs to one host goroutine. Copies made
// on the device (a ManagedPtr captured by a task closure) never touch the
// counter; it is host state the device cannot be assumed to reach.
type ManagedPtr[T any] struct {
	host T
	dev  accel.Address
	d    *accel.Device
	refs *int
	args *argList
}

// NewManagedPtr takes ownership of an already-constructed (host instance,
// device address) pair and starts a lineage with count 1. Most callers want
// MakeManaged instead.
func NewManagedPtr[T any](d *accel.Device, host T, dev accel.Address) ManagedPtr[T] {
	refs := 1
	return ManagedPtr[T]{host: host, dev: dev, d: d, refs: &refs, args: &argList{}}
}

// RegisterArguments installs the deferred-resource payload for the lineage:
// every subsequent reference-count increment fires each argument's ReplayCopy
// hook, and the final release fires each Release hook before the host
// instance is dropped. Calling it again replaces the payload lineage-wide.
func (p ManagedPtr[T]) RegisterArguments(args ...Argument) {
	p.args.set(args)
}

// Clone shares ownership on the host: the counter goes up by one and the
// payload's copy hooks replay, letting nested resources run their own
// synchronization. Results of the replay are discarded; only the side
// effects matter.
func (p ManagedPtr[T]) Clone() ManagedPtr[T] {
	p.incref()
	return p
}

// Assign releases the current target and adopts a clone of other.
// Assigning a pointer to itself is a no-op.
func (p *ManagedPtr[T]) Assign(other ManagedPtr[T]) error {
	if p.refs != nil && p.refs == other.refs {
		return nil
	}
	if err := p.Release(); err != nil {
		return err
	}
	*p = other.Clone()
	return nil
}

// Release drops this copy's ownership. When the count reaches zero the
// payload release hooks run, the host instance's Drop hook runs, and a
// device task destroys the device instance; Release does not return until
// that task has completed. Teardown happens exactly once per lineage. The
// receiver becomes the null pointer afterwards.
func (p *ManagedPtr[T]) Release() error {
	if p.refs == nil {
		return nil
	}
	*p.refs--
	var err error
	if *p.refs == 0 {
		p.args.release()
		if dr, ok := any(p.host).(Dropper); ok {
			dr.Drop()
		}
		err = accel.Destroy(p.d, p.dev)
	}
	*p = ManagedPtr[T]{}
	return err
}

// Resolve returns the instance local to the executing context: the host
// instance when tc is nil, the device-resident instance when called inside a
// device task. Resolving a null or destroyed address yields the zero T.
func (p ManagedPtr[T]) Resolve(tc *accel.TaskContext) T {
	if tc == nil {
		return p.host
	}
	v, ok := tc.Get(p.dev)
	if !ok {
		var zero T
		return zero
	}
	return v.(T)
}

// Get returns the host instance; shorthand for Resolve(nil).
func (p ManagedPtr[T]) Get() T {
	return p.host
}

// DeviceAddress returns the address of the device instance.
func (p ManagedPtr[T]) DeviceAddress() accel.Address {
	return p.dev
}

// Device returns the device this pointer's remote instance lives on.
func (p ManagedPtr[T]) Device() *accel.Device {
	return p.d
}

// UseCount returns the number of live copies in the lineage, or 0 for the
// null pointer.
func (p ManagedPtr[T]) UseCount() int {
	if p.refs == nil {
		return 0
	}
	return *p.refs
}

// IsNil reports whether the host instance is absent.
func (p ManagedPtr[T]) IsNil() bool {
	return p.refs == nil || isNilValue(any(p.host))
}

func (p ManagedPtr[T]) incref() {
	if p.refs == nil {
		return
	}
	*p.refs++
	p.args.replay()
}
