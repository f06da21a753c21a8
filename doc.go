// Package chai provides owning pointers that let one logical object be
// represented by two physically distinct instances, one resident in host
// memory and one resident in accelerator memory, with the correct local
// instance selected wherever the pointer is resolved.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	CHAI/            Root package with the owning pointer types, factories and casts
//	├── accel/       The accelerator: single-worker device, object arena, linear memory
//	├── array/       Dual-resident resizable element buffers
//	├── registry/    Optional table mapping host instances to device records
//	└── errors/      Structured error types for debugging
//
// # Quick Start
//
// Construct one logical object in both spaces and use it in either:
//
//	dev := accel.Open(nil)
//	defer dev.Close()
//
//	p, err := chai.MakeManaged[Base](dev, func() Base { return NewDerived(2) })
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Release()
//
//	p.Get().Scale(values)              // host instance
//	dev.Do(func(tc *accel.TaskContext) error {
//	    p.Resolve(tc).Scale(values)    // device instance, same expression shape
//	    return nil
//	})
//
// # Ownership Model
//
// Pointers are modeled after shared ownership with an explicit lifecycle,
// since Go has no copy constructors or destructors: Clone is the copy (+1 on
// the shared counter), Release is the destructor (-1; teardown at zero), and
// Assign releases the current target before adopting a clone of another.
// All copies sharing one counter form a lineage; the underlying instances are
// released exactly once, by whichever copy drops the count to zero.
//
// The counter is deliberately not atomic. A lineage must be mutated from a
// single host goroutine; if that assumption ever changes, the counter has to
// become atomic or lock-guarded, which is a behavioral hardening, not a
// transparent swap.
//
// # Strategies
//
// Three pointer types span different spaces:
//
//   - HostPtr: host instance only, no accelerator interaction
//   - ManagedPtr: host and device instances for one logical object
//   - DevicePtr: device instance only, resolvable only inside device tasks
//
// Building with -tags noaccel removes ManagedPtr and DevicePtr along with
// their factories and casts, leaving the host-only surface.
//
// # Synchronization
//
// The host and device instances of a ManagedPtr are never synchronized
// automatically. The one exception is nested resources registered via
// RegisterArguments: their copy hooks replay on every reference-count
// increment and their release hooks run on final release.
package chai
