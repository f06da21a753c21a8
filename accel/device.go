package accel

import (
	"sync"

	"go.uber.org/zap"

	cerrors "github.com/kanye-quest/CHAI/errors"
)

// Config holds configuration for device creation.
type Config struct {
	// Memory sets the byte memory backend. nil means a fresh SliceMemory of
	// one page with no growth limit.
	Memory Memory

	// QueueDepth sets how many submitted tasks may be waiting for the worker.
	// 0 means a default of 16.
	QueueDepth int
}

// Device is the accelerator: one worker goroutine, an object arena and a
// linear byte memory. Everything submitted through Do runs on the worker in
// submission order; nothing else ever touches device state.
type Device struct {
	tasks chan deviceTask
	arena *Arena
	mem   Memory
	alloc *Allocator

	closeMu sync.RWMutex
	closed  bool
	drained chan struct{}
}

type deviceTask struct {
	fn   func(*TaskContext) error
	done chan error
}

// Open starts a device worker. cfg may be nil.
func Open(cfg *Config) *Device {
	var mem Memory
	depth := 16
	if cfg != nil {
		mem = cfg.Memory
		if cfg.QueueDepth > 0 {
			depth = cfg.QueueDepth
		}
	}
	if mem == nil {
		mem = NewSliceMemory(1, 0)
	}

	d := &Device{
		tasks:   make(chan deviceTask, depth),
		arena:   NewArena(),
		mem:     mem,
		alloc:   NewAllocator(mem),
		drained: make(chan struct{}),
	}
	go d.run()
	Logger().Debug("device opened", zap.Int("queue_depth", depth))
	return d
}

func (d *Device) run() {
	tc := &TaskContext{dev: d}
	for t := range d.tasks {
		t.done <- t.fn(tc)
	}
	close(d.drained)
}

// Do submits fn to the device worker and blocks until it has completed.
// This is the only road from host code to device state: a construct, destroy
// or cast that needs the device goes through exactly one Do round trip.
func (d *Device) Do(fn func(*TaskContext) error) error {
	d.closeMu.RLock()
	if d.closed {
		d.closeMu.RUnlock()
		return cerrors.Closed(cerrors.PhaseLaunch, "device")
	}
	t := deviceTask{fn: fn, done: make(chan error, 1)}
	d.tasks <- t
	d.closeMu.RUnlock()

	return <-t.done
}

// Synchronize waits until every task submitted so far has completed.
func (d *Device) Synchronize() error {
	return d.Do(func(*TaskContext) error { return nil })
}

// Close stops the worker after the queued tasks have drained.
// Subsequent Do calls fail with a closed error.
func (d *Device) Close() error {
	d.closeMu.Lock()
	if d.closed {
		d.closeMu.Unlock()
		return nil
	}
	d.closed = true
	close(d.tasks)
	d.closeMu.Unlock()

	<-d.drained
	Logger().Debug("device closed", zap.Int("live_objects", d.arena.Len()))
	return nil
}

// Stats reports device occupancy.
type Stats struct {
	Objects     int
	MemoryBytes uint32
	Alloc       AllocStats
}

// Stats returns a snapshot of device occupancy. Safe to call from the host
// while tasks run.
func (d *Device) Stats() Stats {
	return Stats{
		Objects:     d.arena.Len(),
		MemoryBytes: d.mem.Size(),
		Alloc:       d.alloc.Stats(),
	}
}

// Allocator returns the device byte allocator, for collaborators that keep
// raw element buffers in device memory.
func (d *Device) Allocator() *Allocator {
	return d.alloc
}

// SameObject reports whether two device addresses name the same underlying
// object, directly or through cast aliases.
func (d *Device) SameObject(x, y Address) bool {
	return d.arena.SameObject(x, y)
}

// TaskContext is handed to every task and is the device-side view: the arena
// and memory are reachable only through it.
type TaskContext struct {
	dev *Device
}

// Place stores a device-resident object and returns its address.
func (tc *TaskContext) Place(v any) Address {
	return tc.dev.arena.Place(v)
}

// PlaceAlias stores an aliasing view of the object at of.
func (tc *TaskContext) PlaceAlias(of Address, v any) Address {
	return tc.dev.arena.PlaceAlias(of, v)
}

// Get retrieves the device-resident object at addr.
func (tc *TaskContext) Get(addr Address) (any, bool) {
	return tc.dev.arena.Get(addr)
}

// Remove drops the object at addr and every alias of it.
func (tc *TaskContext) Remove(addr Address) (any, bool) {
	return tc.dev.arena.Remove(addr)
}

// Memory returns the device byte memory.
func (tc *TaskContext) Memory() Memory {
	return tc.dev.mem
}
