package accel

import (
	"sync"
)

// Address names a device-resident object. Address 0 is reserved and always
// invalid, mirroring a null device pointer.
type Address uint32

// Arena is the device-side object table. Objects are stored as interface
// values; aliasing entries (created by device-side casts) reference the same
// underlying object and share its lifetime.
type Arena struct {
	entries  []arenaSlot
	freeList []Address
	mu       sync.RWMutex
}

type arenaSlot struct {
	value any
	root  Address
	valid bool
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		entries:  make([]arenaSlot, 0, 64),
		freeList: make([]Address, 0, 16),
	}
}

// Place stores a value and returns its address.
func (a *Arena) Place(v any) Address {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.place(v, 0)
}

// PlaceAlias stores a value that aliases the object at of. The new entry is
// removed together with its root: destroying either address drops both.
// Returns 0 if of is not a live address.
func (a *Arena) PlaceAlias(of Address, v any) Address {
	a.mu.Lock()
	defer a.mu.Unlock()

	root, ok := a.rootOf(of)
	if !ok {
		return 0
	}
	return a.place(v, root)
}

// place assumes the lock is held. root 0 means the entry is its own root.
func (a *Arena) place(v any, root Address) Address {
	e := arenaSlot{value: v, root: root, valid: true}

	if n := len(a.freeList); n > 0 {
		addr := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		if root == 0 {
			e.root = addr
		}
		a.entries[addr-1] = e
		return addr
	}

	a.entries = append(a.entries, e)
	addr := Address(len(a.entries))
	if root == 0 {
		a.entries[addr-1].root = addr
	}
	return addr
}

// Get retrieves the value at addr.
func (a *Arena) Get(addr Address) (any, bool) {
	if addr == 0 {
		return nil, false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	idx := int(addr) - 1
	if idx >= len(a.entries) || !a.entries[idx].valid {
		return nil, false
	}
	return a.entries[idx].value, true
}

// Remove drops the object at addr together with every entry aliasing it.
// It returns the root entry's value.
func (a *Arena) Remove(addr Address) (any, bool) {
	if addr == 0 {
		return nil, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	root, ok := a.rootOf(addr)
	if !ok {
		return nil, false
	}

	rootValue := a.entries[root-1].value
	for i := range a.entries {
		if a.entries[i].valid && a.entries[i].root == root {
			a.entries[i] = arenaSlot{}
			a.freeList = append(a.freeList, Address(i+1))
		}
	}
	return rootValue, true
}

// Len returns the number of live entries, aliases included.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := 0
	for i := range a.entries {
		if a.entries[i].valid {
			n++
		}
	}
	return n
}

// SameObject reports whether x and y name the same underlying object,
// directly or through aliasing entries.
func (a *Arena) SameObject(x, y Address) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rx, okx := a.rootOf(x)
	ry, oky := a.rootOf(y)
	return okx && oky && rx == ry
}

// rootOf assumes at least a read lock is held.
func (a *Arena) rootOf(addr Address) (Address, bool) {
	idx := int(addr) - 1
	if addr == 0 || idx >= len(a.entries) || !a.entries[idx].valid {
		return 0, false
	}
	return a.entries[idx].root, true
}
