package accel

import (
	"errors"
	"testing"

	cerrors "github.com/kanye-quest/CHAI/errors"
)

func TestDevice_DoRunsAndBlocks(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	ran := false
	err := d.Do(func(tc *TaskContext) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	// Do is synchronous: the write above happened before Do returned.
	if !ran {
		t.Fatal("task did not run before Do returned")
	}
}

func TestDevice_TasksOrdered(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		if err := d.Do(func(tc *TaskContext) error {
			order = append(order, i)
			return nil
		}); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d", i, v)
		}
	}
}

func TestDevice_DoError(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	boom := errors.New("boom")
	if err := d.Do(func(tc *TaskContext) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Do error = %v, want boom", err)
	}
}

func TestDevice_ClosedDoFails(t *testing.T) {
	d := Open(nil)
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Closing twice is fine.
	if err := d.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	err := d.Do(func(tc *TaskContext) error { return nil })
	if !errors.Is(err, &cerrors.Error{Phase: cerrors.PhaseLaunch, Kind: cerrors.KindClosed}) {
		t.Fatalf("Do after Close = %v, want closed error", err)
	}
}

func TestDevice_Synchronize(t *testing.T) {
	d := Open(&Config{QueueDepth: 4})
	defer d.Close()

	if err := d.Synchronize(); err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
}

func TestDevice_Stats(t *testing.T) {
	d := Open(nil)
	defer d.Close()

	if err := d.Do(func(tc *TaskContext) error {
		tc.Place("a")
		tc.Place("b")
		return nil
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	s := d.Stats()
	if s.Objects != 2 {
		t.Errorf("Objects = %d, want 2", s.Objects)
	}
	if s.MemoryBytes != PageSize {
		t.Errorf("MemoryBytes = %d, want one page", s.MemoryBytes)
	}
}
