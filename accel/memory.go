package accel

// PageSize is the granularity of Memory growth, matching a WebAssembly page.
const PageSize = 65536

// Memory is linear device byte memory. The method set is compatible with
// wazero's api.Memory, so a guest linear memory satisfies it directly.
//
// Read returns a view into the memory, not a copy; the view is valid until
// the next Grow.
type Memory interface {
	// Size returns the current size in bytes.
	Size() uint32

	// Grow extends the memory by deltaPages pages and returns the previous
	// size in pages. ok is false if the limit would be exceeded.
	Grow(deltaPages uint32) (previousPages uint32, ok bool)

	// Read returns byteCount bytes starting at offset, or false if the range
	// is out of bounds.
	Read(offset, byteCount uint32) ([]byte, bool)

	// Write writes v at offset, or returns false if the range is out of bounds.
	Write(offset uint32, v []byte) bool
}

// SliceMemory is the in-process Memory backend: a page-granular Go slice.
type SliceMemory struct {
	buf      []byte
	maxPages uint32
}

// NewSliceMemory creates a SliceMemory with the given initial size and limit,
// both in pages. maxPages 0 means no limit.
func NewSliceMemory(pages, maxPages uint32) *SliceMemory {
	return &SliceMemory{
		buf:      make([]byte, int(pages)*PageSize),
		maxPages: maxPages,
	}
}

// Size returns the current size in bytes.
func (m *SliceMemory) Size() uint32 {
	return uint32(len(m.buf))
}

// Grow extends the memory by deltaPages pages.
func (m *SliceMemory) Grow(deltaPages uint32) (uint32, bool) {
	prev := uint32(len(m.buf)) / PageSize
	if m.maxPages > 0 && prev+deltaPages > m.maxPages {
		return 0, false
	}
	m.buf = append(m.buf, make([]byte, int(deltaPages)*PageSize)...)
	return prev, true
}

// Read returns a view of byteCount bytes at offset.
func (m *SliceMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	if !m.inRange(offset, byteCount) {
		return nil, false
	}
	return m.buf[offset : offset+byteCount : offset+byteCount], true
}

// Write copies v into memory at offset.
func (m *SliceMemory) Write(offset uint32, v []byte) bool {
	if !m.inRange(offset, uint32(len(v))) {
		return false
	}
	copy(m.buf[offset:], v)
	return true
}

func (m *SliceMemory) inRange(offset, byteCount uint32) bool {
	end := uint64(offset) + uint64(byteCount)
	return end <= uint64(len(m.buf))
}
