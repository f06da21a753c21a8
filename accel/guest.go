package accel

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	cerrors "github.com/kanye-quest/CHAI/errors"
)

// guestModuleWasm is the encoding of a minimal module whose only feature is
// an exported linear memory:
//
//	(module (memory (export "memory") 1))
var guestModuleWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version 1
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 memory, min 1 page
	0x07, 0x0a, 0x01, // export section: 1 export
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', // "memory"
	0x02, 0x00, // memory index 0
}

// GuestMemory is a Memory backend living inside a WebAssembly instance.
// Unlike SliceMemory, its bytes are held by the guest, not by Go: the host
// can only reach them through the Memory methods, which makes the separation
// between the two spaces real rather than simulated.
type GuestMemory struct {
	runtime wazero.Runtime
	module  api.Module
	mem     api.Memory
}

var _ Memory = (*GuestMemory)(nil)

// NewGuestMemory instantiates the embedded module and exposes its linear
// memory. maxPages 0 uses the wazero default limit.
func NewGuestMemory(ctx context.Context, maxPages uint32) (*GuestMemory, error) {
	cfg := wazero.NewRuntimeConfig()
	if maxPages > 0 {
		cfg = cfg.WithMemoryLimitPages(maxPages)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, cfg)
	mod, err := rt.Instantiate(ctx, guestModuleWasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, cerrors.Wrap(cerrors.PhaseAlloc, cerrors.KindAllocation, err, "instantiate guest memory module")
	}

	mem := mod.Memory()
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, cerrors.InvalidInput(cerrors.PhaseAlloc, "guest module exports no memory")
	}

	return &GuestMemory{runtime: rt, module: mod, mem: mem}, nil
}

// Size returns the current size in bytes.
func (g *GuestMemory) Size() uint32 { return g.mem.Size() }

// Grow extends the guest memory by deltaPages pages.
func (g *GuestMemory) Grow(deltaPages uint32) (uint32, bool) { return g.mem.Grow(deltaPages) }

// Read returns a view of byteCount bytes at offset.
func (g *GuestMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	return g.mem.Read(offset, byteCount)
}

// Write copies v into guest memory at offset.
func (g *GuestMemory) Write(offset uint32, v []byte) bool { return g.mem.Write(offset, v) }

// Close tears down the guest instance. The memory must not be used afterwards.
func (g *GuestMemory) Close(ctx context.Context) error {
	return g.runtime.Close(ctx)
}
