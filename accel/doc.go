// Package accel models the accelerator: a separate execution context with its
// own object arena and its own linear byte memory, neither of which shares an
// address space with the host.
//
// Host code reaches the accelerator only by submitting a task:
//
//	dev := accel.Open(nil)
//	defer dev.Close()
//
//	err := dev.Do(func(tc *accel.TaskContext) error {
//		// runs on the device worker; tc is the only way in
//		return nil
//	})
//
// Do blocks until the task has completed, so construction, destruction and
// casts that go through the device are synchronous from the caller's
// perspective despite running on a separate worker.
//
// # Object arena
//
// Device-resident objects live in an arena and are named by an Address
// (Address 0 is reserved and always invalid). Aliasing entries created by
// casts share the lifetime of the object they alias: destroying any address
// of a group removes the whole group.
//
// # Memory backends
//
// Raw device bytes live behind the Memory interface, whose method set is
// compatible with wazero's api.Memory. Two backends are provided: SliceMemory
// (in-process pages) and GuestMemory (the exported linear memory of a minimal
// WebAssembly module, a genuinely separate address space).
package accel
