package chai

import (
	"reflect"
)

// Identity comparison: two pointers are equal when they refer to the same
// underlying instance, never when they merely hold equal values. A pointer
// compares equal to null exactly when it holds no instance.

// Equal reports whether two host pointers refer to the same host instance.
func Equal[T any, U any](a HostPtr[T], b HostPtr[U]) bool {
	return sameInstance(any(a.host), any(b.host), a.refs, b.refs)
}

func sameInstance(a, b any, aRefs, bRefs *int) bool {
	aNil := aRefs == nil || isNilValue(a)
	bNil := bRefs == nil || isNilValue(b)
	if aNil || bNil {
		return aNil && bNil
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.Pointer && rb.Kind() == reflect.Pointer {
		return ra.Pointer() == rb.Pointer()
	}
	// Non-pointer instances have no address of their own to compare, so
	// identity falls back to the lineage: clones and cast aliases share the
	// counter, distinct constructions never do. Two equal values from
	// separate lineages stay unequal.
	return aRefs == bRefs
}
