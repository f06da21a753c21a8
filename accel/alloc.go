package accel

import (
	"sync"

	"fortio.org/safecast"

	cerrors "github.com/kanye-quest/CHAI/errors"
)

const allocAlign = 8

// Allocator hands out byte ranges of a Memory. Freed blocks go to a free
// list and are reused first-fit; adjacent free blocks are not coalesced.
// Offset 0 is never handed out, so it can stand in for a null device buffer.
type Allocator struct {
	mem   Memory
	next  uint32
	freed []allocBlock
	inUse map[uint32]uint32

	mu         sync.Mutex
	liveBytes  uint32
	peakBytes  uint32
	allocCount uint64
}

type allocBlock struct {
	off  uint32
	size uint32
}

// NewAllocator creates an allocator over mem.
func NewAllocator(mem Memory) *Allocator {
	return &Allocator{
		mem:   mem,
		next:  allocAlign, // keep offset 0 unused
		inUse: make(map[uint32]uint32),
	}
}

// Alloc returns the offset of a block of at least size bytes, growing the
// underlying memory when needed.
func (a *Allocator) Alloc(size uint32) (uint32, error) {
	if size == 0 {
		return 0, cerrors.InvalidInput(cerrors.PhaseAlloc, "zero-size allocation")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	size = align(size)

	for i, b := range a.freed {
		if b.size >= size {
			a.freed = append(a.freed[:i], a.freed[i+1:]...)
			if rest := b.size - size; rest >= allocAlign {
				a.freed = append(a.freed, allocBlock{off: b.off + size, size: rest})
			} else {
				size = b.size
			}
			a.take(b.off, size)
			return b.off, nil
		}
	}

	off := a.next
	end := uint64(off) + uint64(size)
	if end > uint64(a.mem.Size()) {
		needed, err := safecast.Conv[uint32]((end - uint64(a.mem.Size()) + PageSize - 1) / PageSize)
		if err != nil {
			return 0, cerrors.Overflow(cerrors.PhaseAlloc, end, "uint32")
		}
		if _, ok := a.mem.Grow(needed); !ok {
			return 0, cerrors.AllocationFailed(cerrors.PhaseAlloc, size)
		}
	}
	a.next = off + size
	a.take(off, size)
	return off, nil
}

// Free returns the block at off to the free list.
func (a *Allocator) Free(off uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	size, ok := a.inUse[off]
	if !ok {
		return cerrors.NotFound(cerrors.PhaseAlloc, "allocation at offset", off)
	}
	delete(a.inUse, off)
	a.liveBytes -= size
	a.freed = append(a.freed, allocBlock{off: off, size: size})
	return nil
}

// Realloc moves the block at off to a new block of newSize bytes, copying
// the old contents (truncated if shrinking).
func (a *Allocator) Realloc(off, newSize uint32) (uint32, error) {
	a.mu.Lock()
	oldSize, ok := a.inUse[off]
	a.mu.Unlock()
	if !ok {
		return 0, cerrors.NotFound(cerrors.PhaseAlloc, "allocation at offset", off)
	}

	newOff, err := a.Alloc(newSize)
	if err != nil {
		return 0, err
	}

	n := oldSize
	if newSize < n {
		n = newSize
	}
	if data, ok := a.mem.Read(off, n); ok {
		a.mem.Write(newOff, data)
	}

	if err := a.Free(off); err != nil {
		return 0, err
	}
	return newOff, nil
}

// Stats reports allocator usage.
type AllocStats struct {
	LiveBytes  uint32
	PeakBytes  uint32
	AllocCount uint64
	FreeBlocks int
}

// Stats returns a snapshot of allocator usage.
func (a *Allocator) Stats() AllocStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AllocStats{
		LiveBytes:  a.liveBytes,
		PeakBytes:  a.peakBytes,
		AllocCount: a.allocCount,
		FreeBlocks: len(a.freed),
	}
}

// take assumes the lock is held.
func (a *Allocator) take(off, size uint32) {
	a.inUse[off] = size
	a.liveBytes += size
	if a.liveBytes > a.peakBytes {
		a.peakBytes = a.liveBytes
	}
	a.allocCount++
}

func align(n uint32) uint32 {
	return (n + allocAlign - 1) &^ (allocAlign - 1)
}
