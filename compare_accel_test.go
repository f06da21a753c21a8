//go:build !noaccel

package chai

import (
	"testing"

	"github.com/kanye-quest/CHAI/accel"
)

func TestEqualManaged(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, _ := MakeManaged(d, func() *scaleBy { return &scaleBy{factor: 2} })
	defer a.Release()
	b, _ := MakeManaged(d, func() *scaleBy { return &scaleBy{factor: 2} })
	defer b.Release()

	clone := a.Clone()
	defer clone.Release()

	if !EqualManaged(a, clone) {
		t.Error("a != clone of a")
	}
	if EqualManaged(a, b) {
		t.Error("distinct lineages with equal values compare equal")
	}

	var null ManagedPtr[*scaleBy]
	if !EqualManaged(null, ManagedPtr[*scaleBy]{}) {
		t.Error("null != null")
	}
	if EqualManaged(a, null) {
		t.Error("live pointer compares equal to null")
	}
}

func TestEqualManaged_ValueInstances(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, _ := MakeManaged(d, func() int { return 5 })
	defer a.Release()
	b, _ := MakeManaged(d, func() int { return 5 })
	defer b.Release()

	if EqualManaged(a, b) {
		t.Error("distinct lineages with equal values compare equal")
	}

	clone := a.Clone()
	defer clone.Release()
	if !EqualManaged(a, clone) {
		t.Error("a != clone of a")
	}
}

func TestEqualManaged_AcrossCast(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	p, _ := MakeManaged(d, func() *scaleBy { return &scaleBy{factor: 2} })
	defer p.Release()

	up, err := StaticManagedCast[transform](p)
	if err != nil {
		t.Fatal(err)
	}
	defer up.Release()

	if !EqualManaged(p, up) {
		t.Error("pointer != its cast alias")
	}
	if !EqualManagedOnDevice(p, up) {
		t.Error("device addresses of a cast alias do not compare equal")
	}
}

func TestEqualDevice(t *testing.T) {
	d := accel.Open(nil)
	defer d.Close()

	a, _ := MakeDevice(d, func() *scaleBy { return &scaleBy{factor: 1} })
	defer a.Release()
	b, _ := MakeDevice(d, func() *scaleBy { return &scaleBy{factor: 1} })
	defer b.Release()

	clone := a.Clone()
	defer clone.Release()

	if !EqualDevice(a, clone) {
		t.Error("a != clone of a")
	}
	if EqualDevice(a, b) {
		t.Error("distinct device objects compare equal")
	}

	up, err := StaticDeviceCast[transform](a)
	if err != nil {
		t.Fatal(err)
	}
	defer up.Release()
	if !EqualDevice(a, up) {
		t.Error("pointer != its cast alias")
	}

	var null DevicePtr[*scaleBy]
	if !EqualDevice(null, DevicePtr[*scaleBy]{}) {
		t.Error("null != null")
	}
	if EqualDevice(a, null) {
		t.Error("live pointer compares equal to null")
	}
}

func TestEqualDevice_DifferentDevices(t *testing.T) {
	d1 := accel.Open(nil)
	defer d1.Close()
	d2 := accel.Open(nil)
	defer d2.Close()

	a, _ := MakeDevice(d1, func() *scaleBy { return &scaleBy{} })
	defer a.Release()
	b, _ := MakeDevice(d2, func() *scaleBy { return &scaleBy{} })
	defer b.Release()

	if EqualDevice(a, b) {
		t.Error("objects on different devices compare equal")
	}
}
