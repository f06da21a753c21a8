package chai

import (
	"fmt"

	cerrors "github.com/kanye-quest/CHAI/errors"
)

// MakeHost constructs a host instance and wraps it in a fresh lineage.
// Constructibility is the constructor's signature: if you can write the
// func() T, the factory accepts it.
func MakeHost[T any](ctor func() T) HostPtr[T] {
	return NewHostPtr(ctor())
}

// MakeHostFromFactory obtains the instance from a user factory whose result
// type U must satisfy T. The relationship is checked here, at the
// construction boundary.
func MakeHostFromFactory[T any, U any](f func() U) (HostPtr[T], error) {
	v := f()
	t, ok := any(v).(T)
	if !ok {
		return HostPtr[T]{}, cerrors.New(cerrors.PhaseConstruct, cerrors.KindTypeMismatch).
			HostType(fmt.Sprintf("%T", v)).
			Detail("factory result does not satisfy target type").
			Build()
	}
	return NewHostPtr(t), nil
}
