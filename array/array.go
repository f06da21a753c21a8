package array

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"github.com/kanye-quest/CHAI/accel"
	cerrors "github.com/kanye-quest/CHAI/errors"
)

// Element constrains array contents to fixed-width numerics with a defined
// device byte layout (little-endian).
type Element interface {
	~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Array is a resizable element buffer that can span both spaces: the host
// residency is an ordinary slice, the device residency a byte range in the
// device's linear memory. The two move in step only when told to (Push,
// Pull, ReplayCopy); indexed access always touches the local residency.
type Array[T Element] struct {
	host    []T
	dev     *accel.Device
	devOff  uint32 // device byte offset; 0 means no device residency
	space   accel.Space
	isSlice bool
	log     *zap.Logger
}

// New creates an unallocated array bound to a device.
func New[T Element](d *accel.Device) *Array[T] {
	return &Array[T]{dev: d, log: accel.Logger()}
}

// NewWithSize creates and allocates in one step.
func NewWithSize[T Element](d *accel.Device, count int, space accel.Space) (*Array[T], error) {
	a := New[T](d)
	if err := a.Allocate(count, space); err != nil {
		return nil, err
	}
	return a, nil
}

// Allocate sizes the array for count elements in the given space. SpaceHost
// allocates the host slice only; SpaceDevice additionally reserves device
// bytes (the host slice stays as the staging buffer). Allocating a slice
// view is a no-op.
func (a *Array[T]) Allocate(count int, space accel.Space) error {
	if a.isSlice {
		return nil
	}
	if count < 0 {
		return cerrors.InvalidInput(cerrors.PhaseAlloc, "negative element count")
	}

	a.host = make([]T, count)
	a.space = space

	if space == accel.SpaceDevice {
		byteLen, err := a.byteLen(count)
		if err != nil {
			return err
		}
		off, err := a.dev.Allocator().Alloc(byteLen)
		if err != nil {
			return err
		}
		a.devOff = off
	}

	a.log.Debug("array allocated",
		zap.Int("count", count),
		zap.String("space", space.String()),
	)
	return nil
}

// Reallocate resizes to newCount elements, preserving the prefix in both
// residencies. Reallocating a slice view is a no-op.
func (a *Array[T]) Reallocate(newCount int) error {
	if a.isSlice {
		return nil
	}
	if newCount < 0 {
		return cerrors.InvalidInput(cerrors.PhaseAlloc, "negative element count")
	}

	next := make([]T, newCount)
	copy(next, a.host)
	a.host = next

	if a.devOff != 0 {
		byteLen, err := a.byteLen(newCount)
		if err != nil {
			return err
		}
		off, err := a.dev.Allocator().Realloc(a.devOff, byteLen)
		if err != nil {
			return err
		}
		a.devOff = off
	}
	return nil
}

// Free drops both residencies. Slice views are never freed.
func (a *Array[T]) Free() error {
	if a.isSlice {
		return nil
	}
	a.host = nil
	if a.devOff != 0 {
		off := a.devOff
		a.devOff = 0
		return a.dev.Allocator().Free(off)
	}
	return nil
}

// Size returns the element count.
func (a *Array[T]) Size() int {
	return len(a.host)
}

// At returns the host-resident element at i.
func (a *Array[T]) At(i int) T {
	return a.host[i]
}

// Set writes the host-resident element at i.
func (a *Array[T]) Set(i int, v T) {
	a.host[i] = v
}

// HostData returns the host residency for bulk access.
func (a *Array[T]) HostData() []T {
	return a.host
}

// Slice returns a view of count elements starting at offset. Views share the
// host residency, have no device residency of their own and are never freed.
func (a *Array[T]) Slice(offset, count int) (*Array[T], error) {
	if offset < 0 || count < 0 || offset+count > len(a.host) {
		return nil, cerrors.OutOfBounds(cerrors.PhaseResolve, offset+count, len(a.host))
	}
	return &Array[T]{
		host:    a.host[offset : offset+count],
		dev:     a.dev,
		isSlice: true,
		log:     a.log,
	}, nil
}

// Push copies the host contents into the device residency via an awaited
// device task. A no-op without device residency.
func (a *Array[T]) Push() error {
	if a.devOff == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, a.host); err != nil {
		return cerrors.Wrap(cerrors.PhaseLaunch, cerrors.KindInvalidInput, err, "encode elements")
	}
	off := a.devOff
	return a.dev.Do(func(tc *accel.TaskContext) error {
		if !tc.Memory().Write(off, buf.Bytes()) {
			return cerrors.OutOfBounds(cerrors.PhaseLaunch, int(off)+buf.Len(), int(tc.Memory().Size()))
		}
		return nil
	})
}

// Pull copies the device residency back into the host slice via an awaited
// device task. A no-op without device residency.
func (a *Array[T]) Pull() error {
	if a.devOff == 0 {
		return nil
	}

	byteLen, err := a.byteLen(len(a.host))
	if err != nil {
		return err
	}
	off := a.devOff
	var data []byte
	err = a.dev.Do(func(tc *accel.TaskContext) error {
		view, ok := tc.Memory().Read(off, byteLen)
		if !ok {
			return cerrors.OutOfBounds(cerrors.PhaseLaunch, int(off)+int(byteLen), int(tc.Memory().Size()))
		}
		data = append([]byte(nil), view...)
		return nil
	})
	if err != nil {
		return err
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, a.host); err != nil {
		return cerrors.Wrap(cerrors.PhaseResolve, cerrors.KindInvalidInput, err, "decode elements")
	}
	return nil
}

// ReplayCopy implements the deferred-resource copy hook: replaying the
// array's copy semantics pushes the host contents to the device. Errors are
// logged, not returned; the hook fires for its side effects only.
func (a *Array[T]) ReplayCopy() {
	if err := a.Push(); err != nil {
		a.log.Warn("array replay copy failed", zap.Error(err))
	}
}

// Release implements the deferred-resource release hook.
func (a *Array[T]) Release() {
	if err := a.Free(); err != nil {
		a.log.Warn("array release failed", zap.Error(err))
	}
}

func (a *Array[T]) byteLen(count int) (uint32, error) {
	var zero T
	size := binary.Size(zero)
	n, err := safecast.Conv[uint32](count * size)
	if err != nil {
		return 0, cerrors.Overflow(cerrors.PhaseAlloc, count, "uint32")
	}
	if n == 0 {
		// the allocator rejects zero-size blocks; keep a minimal residency
		n = uint32(size)
	}
	return n, nil
}

// String describes the array's residencies.
func (a *Array[T]) String() string {
	return fmt.Sprintf("array[%d elems, %s, dev@%d]", len(a.host), a.space, a.devOff)
}
