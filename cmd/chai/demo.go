package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	chai "github.com/kanye-quest/CHAI"
	"github.com/kanye-quest/CHAI/accel"
	"github.com/kanye-quest/CHAI/array"
	"github.com/kanye-quest/CHAI/registry"
)

// scaler is the demo's polymorphic surface: the concrete type is chosen at
// construction, resolution picks the space-local instance.
type scaler interface {
	Scale(in []int64) []int64
	Name() string
}

type multiplier struct {
	factor int64
}

func (m *multiplier) Name() string { return fmt.Sprintf("multiplier(x%d)", m.factor) }

func (m *multiplier) Scale(in []int64) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = v * m.factor
	}
	return out
}

func newDemoCmd() *cobra.Command {
	var (
		factor int64
		guest  bool
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run one dual-space object through both execution contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), factor, guest)
		},
	}
	cmd.Flags().Int64Var(&factor, "factor", 2, "scale factor for the demo kernel")
	cmd.Flags().BoolVar(&guest, "guest", false, "back device memory with a WebAssembly guest")
	return cmd
}

func runDemo(ctx context.Context, factor int64, guest bool) error {
	heading := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen)

	var cfg *accel.Config
	if guest {
		gm, err := accel.NewGuestMemory(ctx, 64)
		if err != nil {
			return err
		}
		defer gm.Close(ctx)
		cfg = &accel.Config{Memory: gm}
		heading.Println("== device memory: WebAssembly guest ==")
	}

	d := accel.Open(cfg)
	defer d.Close()

	heading.Println("== construct in both spaces ==")
	p, err := chai.MakeManagedFromFactory[scaler](d, func() *multiplier {
		return &multiplier{factor: factor}
	})
	if err != nil {
		return err
	}
	fmt.Printf("kernel: %s  use_count=%d  device_addr=%d\n",
		p.Resolve(nil).Name(), p.UseCount(), p.DeviceAddress())

	// A device-resident element buffer rides along as a deferred resource:
	// every ownership copy replays its host-to-device push.
	buf, err := array.NewWithSize[int64](d, 5, accel.SpaceDevice)
	if err != nil {
		return err
	}
	for i := 0; i < buf.Size(); i++ {
		buf.Set(i, int64(i*i))
	}
	p.RegisterArguments(buf)

	heading.Println("== resolve per context ==")
	in := buf.HostData()

	hostOut := p.Resolve(nil).Scale(in)
	fmt.Printf("host:   %v -> %v\n", in, hostOut)

	var devOut []int64
	var devName string
	err = d.Do(func(tc *accel.TaskContext) error {
		k := p.Resolve(tc)
		devName = k.Name()
		devOut = k.Scale(in)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("device: %v -> %v  (%s)\n", in, devOut, devName)

	heading.Println("== share, cast, compare ==")
	q := p.Clone()
	fmt.Printf("after clone: use_count=%d (array pushed again)\n", p.UseCount())

	if chai.EqualManaged(p, q) {
		ok.Println("clone resolves to the same host instance")
	}
	if chai.EqualManagedOnDevice(p, q) {
		ok.Println("clone names the same device object")
	}

	// Round-trip through the registry: hand the device counterpart to code
	// that only has the host instance.
	registry.Register(p.Get(), registry.Record{
		Address: p.DeviceAddress(),
		Space:   accel.SpaceDevice,
	})
	if rec, found := registry.Lookup(p.Get()); found {
		fmt.Printf("registry: host instance -> device address %d\n", rec.Address)
	}
	registry.Deregister(p.Get())

	heading.Println("== tear down once ==")
	if err := q.Release(); err != nil {
		return err
	}
	fmt.Printf("after releasing the clone: use_count=%d\n", p.UseCount())
	if err := p.Release(); err != nil {
		return err
	}

	st := d.Stats()
	fmt.Printf("device objects live: %d, bytes live: %d\n", st.Objects, st.Alloc.LiveBytes)
	if st.Objects == 0 && st.Alloc.LiveBytes == 0 {
		ok.Println("everything reclaimed")
	}
	return nil
}
