package accel

import (
	"bytes"
	"testing"
)

func TestSliceMemory_ReadWrite(t *testing.T) {
	m := NewSliceMemory(1, 0)

	if m.Size() != PageSize {
		t.Fatalf("Size = %d, want %d", m.Size(), PageSize)
	}

	data := []byte{1, 2, 3, 4}
	if !m.Write(100, data) {
		t.Fatal("Write failed")
	}

	got, ok := m.Read(100, 4)
	if !ok || !bytes.Equal(got, data) {
		t.Fatalf("Read = %v, %v", got, ok)
	}
}

func TestSliceMemory_Bounds(t *testing.T) {
	m := NewSliceMemory(1, 0)

	if m.Write(PageSize-2, []byte{1, 2, 3}) {
		t.Error("Write past end succeeded")
	}
	if _, ok := m.Read(PageSize-2, 4); ok {
		t.Error("Read past end succeeded")
	}
	// Zero-length access at the boundary is fine.
	if _, ok := m.Read(PageSize, 0); !ok {
		t.Error("zero-length Read at boundary failed")
	}
}

func TestSliceMemory_Grow(t *testing.T) {
	m := NewSliceMemory(1, 2)

	prev, ok := m.Grow(1)
	if !ok || prev != 1 {
		t.Fatalf("Grow = %d, %v", prev, ok)
	}
	if m.Size() != 2*PageSize {
		t.Fatalf("Size = %d after Grow", m.Size())
	}

	if _, ok := m.Grow(1); ok {
		t.Error("Grow past maxPages succeeded")
	}
}

func TestSliceMemory_GrowPreservesContents(t *testing.T) {
	m := NewSliceMemory(1, 0)
	m.Write(8, []byte{0xAA, 0xBB})

	if _, ok := m.Grow(3); !ok {
		t.Fatal("Grow failed")
	}

	got, ok := m.Read(8, 2)
	if !ok || got[0] != 0xAA || got[1] != 0xBB {
		t.Fatalf("contents lost across Grow: %v, %v", got, ok)
	}
}
