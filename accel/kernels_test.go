package accel

import (
	"errors"
	"testing"

	cerrors "github.com/kanye-quest/CHAI/errors"
)

type shape interface {
	Area() int
}

type square struct {
	side    int
	dropped *int
}

func (s *square) Area() int { return s.side * s.side }
func (s *square) Drop() {
	if s.dropped != nil {
		*s.dropped++
	}
}

type circle struct{ r int }

func (c *circle) Area() int { return 3 * c.r * c.r }

func TestConstructDestroy(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	var drops int
	addr, err := Construct(d, func() *square {
		return &square{side: 4, dropped: &drops}
	})
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if addr == 0 {
		t.Fatal("Construct returned the null address")
	}
	if d.Stats().Objects != 1 {
		t.Fatalf("Objects = %d, want 1", d.Stats().Objects)
	}

	if err := Destroy(d, addr); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if drops != 1 {
		t.Errorf("Drop ran %d times, want 1", drops)
	}
	if d.Stats().Objects != 0 {
		t.Errorf("Objects = %d after Destroy, want 0", d.Stats().Objects)
	}
}

func TestDestroy_NullAndMissing(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	if err := Destroy(d, 0); err != nil {
		t.Errorf("Destroy(0) = %v, want nil", err)
	}

	err := Destroy(d, Address(99))
	want := &cerrors.Error{Phase: cerrors.PhaseTeardown, Kind: cerrors.KindNotFound}
	if !errors.Is(err, want) {
		t.Errorf("Destroy(missing) = %v, want phase=teardown kind=not_found", err)
	}
}

func TestConstructFromFactory(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	addr, err := ConstructFromFactory[shape](d, func() *square {
		return &square{side: 2}
	})
	if err != nil {
		t.Fatalf("ConstructFromFactory: %v", err)
	}

	err = d.Do(func(tc *TaskContext) error {
		v, ok := tc.Get(addr)
		if !ok {
			t.Error("constructed object missing from arena")
			return nil
		}
		if got := v.(shape).Area(); got != 4 {
			t.Errorf("Area = %d, want 4", got)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestConstructFromFactory_TypeMismatch(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	_, err := ConstructFromFactory[*circle](d, func() *square {
		return &square{side: 2}
	})
	want := &cerrors.Error{Phase: cerrors.PhaseConstruct, Kind: cerrors.KindTypeMismatch}
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want phase=construct kind=type_mismatch", err)
	}
	if d.Stats().Objects != 0 {
		t.Errorf("rejected construction left %d objects", d.Stats().Objects)
	}
}

func TestConvert(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	var drops int
	addr, err := Construct(d, func() *square {
		return &square{side: 3, dropped: &drops}
	})
	if err != nil {
		t.Fatal(err)
	}

	up, err := Convert[shape](d, addr)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if up == addr {
		t.Error("Convert returned the original address, want an alias")
	}
	if !d.SameObject(addr, up) {
		t.Error("converted address does not alias the original")
	}

	// The alias group dies together; Drop fires once.
	if err := Destroy(d, up); err != nil {
		t.Fatalf("Destroy via alias: %v", err)
	}
	if drops != 1 {
		t.Errorf("Drop ran %d times, want 1", drops)
	}
	if d.Stats().Objects != 0 {
		t.Errorf("Objects = %d, want 0", d.Stats().Objects)
	}
}

func TestConvert_Mismatch(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	addr, _ := Construct(d, func() *square { return &square{side: 1} })

	_, err := Convert[*circle](d, addr)
	want := &cerrors.Error{Phase: cerrors.PhaseCast, Kind: cerrors.KindTypeMismatch}
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want phase=cast kind=type_mismatch", err)
	}
}

func TestConvert_Null(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	addr, err := Convert[shape](d, 0)
	if err != nil || addr != 0 {
		t.Errorf("Convert(0) = %d, %v, want 0, nil", addr, err)
	}

	addr, err = ConvertUnchecked(d, 0)
	if err != nil || addr != 0 {
		t.Errorf("ConvertUnchecked(0) = %d, %v, want 0, nil", addr, err)
	}
}

func TestConvertUnchecked(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	addr, _ := Construct(d, func() *square { return &square{side: 1} })

	// No type check: an incompatible target still yields an alias.
	alias, err := ConvertUnchecked(d, addr)
	if err != nil {
		t.Fatalf("ConvertUnchecked: %v", err)
	}
	if !d.SameObject(addr, alias) {
		t.Error("unchecked alias does not share identity with the original")
	}
}
