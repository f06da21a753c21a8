//go:build !noaccel

package chai

// EqualManaged reports whether two managed pointers refer to the same host
// instance. Identity, not value: pointers built from separate MakeManaged
// calls are unequal even when the objects hold equal values.
func EqualManaged[T any, U any](a ManagedPtr[T], b ManagedPtr[U]) bool {
	return sameInstance(any(a.host), any(b.host), a.refs, b.refs)
}

// EqualDevice reports whether two device pointers name the same
// device-resident object, seeing through cast aliases. Null pointers compare
// equal only to each other.
func EqualDevice[T any, U any](a DevicePtr[T], b DevicePtr[U]) bool {
	if a.dev == 0 || b.dev == 0 {
		return a.dev == 0 && b.dev == 0
	}
	if a.d == nil || a.d != b.d {
		return false
	}
	return a.d.SameObject(a.dev, b.dev)
}

// EqualManagedOnDevice is the device-context comparison for managed
// pointers: it compares device addresses, seeing through cast aliases.
func EqualManagedOnDevice[T any, U any](a ManagedPtr[T], b ManagedPtr[U]) bool {
	if a.dev == 0 || b.dev == 0 {
		return a.dev == 0 && b.dev == 0
	}
	if a.d == nil || a.d != b.d {
		return false
	}
	return a.d.SameObject(a.dev, b.dev)
}
