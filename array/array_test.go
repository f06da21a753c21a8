package array

import (
	"testing"

	"github.com/kanye-quest/CHAI/accel"
)

func TestArray_HostOnly(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, err := NewWithSize[int32](d, 4, accel.SpaceHost)
	if err != nil {
		t.Fatalf("NewWithSize: %v", err)
	}
	defer a.Free()

	if a.Size() != 4 {
		t.Fatalf("Size = %d, want 4", a.Size())
	}
	a.Set(2, 42)
	if a.At(2) != 42 {
		t.Fatalf("At(2) = %d, want 42", a.At(2))
	}

	// No device residency: transfers are no-ops.
	if err := a.Push(); err != nil {
		t.Errorf("Push: %v", err)
	}
	if err := a.Pull(); err != nil {
		t.Errorf("Pull: %v", err)
	}
}

func TestArray_PushPull(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, err := NewWithSize[int64](d, 5, accel.SpaceDevice)
	if err != nil {
		t.Fatalf("NewWithSize: %v", err)
	}
	defer a.Free()

	for i := 0; i < a.Size(); i++ {
		a.Set(i, int64(i*i))
	}
	if err := a.Push(); err != nil {
		t.Fatalf("Push: %v", err)
	}

	// Clobber the host side, then pull the device contents back.
	for i := 0; i < a.Size(); i++ {
		a.Set(i, -1)
	}
	if err := a.Pull(); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	for i := 0; i < a.Size(); i++ {
		if a.At(i) != int64(i*i) {
			t.Fatalf("At(%d) = %d after Pull, want %d", i, a.At(i), i*i)
		}
	}
}

func TestArray_DeviceMutation(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, err := NewWithSize[float64](d, 3, accel.SpaceDevice)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Free()

	a.Set(0, 1.5)
	a.Set(1, 2.5)
	a.Set(2, 3.5)
	if err := a.Push(); err != nil {
		t.Fatal(err)
	}

	// A device task reading the residency sees the pushed bytes.
	stats := d.Stats()
	if stats.Alloc.LiveBytes == 0 {
		t.Error("no device bytes live after Allocate")
	}
	if err := a.Pull(); err != nil {
		t.Fatal(err)
	}
	if a.At(1) != 2.5 {
		t.Errorf("At(1) = %v, want 2.5", a.At(1))
	}
}

func TestArray_Reallocate(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, err := NewWithSize[uint32](d, 2, accel.SpaceDevice)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Free()

	a.Set(0, 10)
	a.Set(1, 20)
	if err := a.Push(); err != nil {
		t.Fatal(err)
	}

	if err := a.Reallocate(4); err != nil {
		t.Fatalf("Reallocate: %v", err)
	}
	if a.Size() != 4 {
		t.Fatalf("Size = %d after Reallocate, want 4", a.Size())
	}
	// The prefix survives in both residencies.
	if a.At(0) != 10 || a.At(1) != 20 {
		t.Errorf("host prefix lost: %d, %d", a.At(0), a.At(1))
	}
	if err := a.Pull(); err != nil {
		t.Fatal(err)
	}
	if a.At(0) != 10 || a.At(1) != 20 {
		t.Errorf("device prefix lost: %d, %d", a.At(0), a.At(1))
	}
}

func TestArray_NegativeCount(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a := New[int32](d)
	if err := a.Allocate(-1, accel.SpaceHost); err == nil {
		t.Error("negative Allocate succeeded")
	}
	if err := a.Reallocate(-1); err == nil {
		t.Error("negative Reallocate succeeded")
	}
}

func TestArray_Slice(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, err := NewWithSize[int32](d, 6, accel.SpaceHost)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Free()
	for i := 0; i < 6; i++ {
		a.Set(i, int32(i))
	}

	v, err := a.Slice(2, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if v.Size() != 3 || v.At(0) != 2 {
		t.Fatalf("view Size = %d, At(0) = %d", v.Size(), v.At(0))
	}

	// Views share host storage with the parent.
	v.Set(0, 99)
	if a.At(2) != 99 {
		t.Error("write through the view not visible in the parent")
	}

	// Lifecycle operations on views are no-ops.
	if err := v.Free(); err != nil {
		t.Errorf("Free on view: %v", err)
	}
	if v.Size() != 3 {
		t.Error("Free emptied the view")
	}

	if _, err := a.Slice(4, 5); err == nil {
		t.Error("out-of-range Slice succeeded")
	}
}

func TestArray_FreeReleasesDeviceBytes(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, err := NewWithSize[int64](d, 8, accel.SpaceDevice)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Free(); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if live := d.Stats().Alloc.LiveBytes; live != 0 {
		t.Errorf("LiveBytes = %d after Free, want 0", live)
	}
	// Double free is a no-op once the residency is gone.
	if err := a.Free(); err != nil {
		t.Errorf("second Free: %v", err)
	}
}

func TestArray_AsDeferredResource(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, err := NewWithSize[int32](d, 2, accel.SpaceDevice)
	if err != nil {
		t.Fatal(err)
	}

	a.Set(0, 7)
	a.ReplayCopy()

	a.Set(0, 0)
	if err := a.Pull(); err != nil {
		t.Fatal(err)
	}
	if a.At(0) != 7 {
		t.Errorf("At(0) = %d after replay and Pull, want 7", a.At(0))
	}

	a.Release()
	if live := d.Stats().Alloc.LiveBytes; live != 0 {
		t.Errorf("LiveBytes = %d after Release, want 0", live)
	}
}
