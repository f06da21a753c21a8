package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	chai "github.com/kanye-quest/CHAI"
	"github.com/kanye-quest/CHAI/accel"
	"github.com/kanye-quest/CHAI/array"
)

// benchConfig is the TOML-configurable workload shape. One lineage belongs to
// one goroutine, so parallelism happens across independent devices.
type benchConfig struct {
	Workers    int `toml:"workers"`
	Lineages   int `toml:"lineages"`
	Clones     int `toml:"clones"`
	Elements   int `toml:"elements"`
	QueueDepth int `toml:"queue_depth"`
}

func defaultBenchConfig() benchConfig {
	return benchConfig{
		Workers:  4,
		Lineages: 200,
		Clones:   8,
		Elements: 64,
	}
}

// benchReport is the msgpack-serializable result snapshot.
type benchReport struct {
	Config     benchConfig   `msgpack:"config"`
	Elapsed    time.Duration `msgpack:"elapsed_ns"`
	Constructs int           `msgpack:"constructs"`
	Replays    int64         `msgpack:"replays"`
}

func newBenchCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drive many pointer lineages through construct/clone/release cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultBenchConfig()
			if configPath != "" {
				if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			return runBench(cfg, outPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML workload config")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write a msgpack report to this file")
	return cmd
}

func runBench(cfg benchConfig, outPath string) error {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	start := time.Now()
	var g errgroup.Group
	replays := make([]int64, cfg.Workers)

	perWorker := cfg.Lineages / cfg.Workers
	if perWorker == 0 {
		perWorker = 1
	}

	for w := 0; w < cfg.Workers; w++ {
		w := w
		g.Go(func() error {
			// Each worker owns its device and its lineages outright.
			d := accel.Open(&accel.Config{QueueDepth: cfg.QueueDepth})
			defer d.Close()

			for i := 0; i < perWorker; i++ {
				if err := runLineage(d, cfg, &replays[w]); err != nil {
					return err
				}
			}
			if st := d.Stats(); st.Objects != 0 {
				return fmt.Errorf("worker %d leaked %d device objects", w, st.Objects)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var totalReplays int64
	for _, r := range replays {
		totalReplays += r
	}
	rep := benchReport{
		Config:     cfg,
		Elapsed:    time.Since(start),
		Constructs: perWorker * cfg.Workers,
		Replays:    totalReplays,
	}

	bold := color.New(color.Bold)
	bold.Printf("lineages: %d  clones each: %d  workers: %d\n",
		rep.Constructs, cfg.Clones, cfg.Workers)
	fmt.Printf("elapsed: %v  argument replays: %d\n", rep.Elapsed, rep.Replays)
	perOp := rep.Elapsed / time.Duration(rep.Constructs*(cfg.Clones+1))
	fmt.Printf("per lifecycle op: %v\n", perOp)

	if outPath != "" {
		data, err := msgpack.Marshal(rep)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("report written to %s\n", outPath)
	}
	return nil
}

func runLineage(d *accel.Device, cfg benchConfig, replays *int64) error {
	p, err := chai.MakeManaged(d, func() *multiplier {
		return &multiplier{factor: 3}
	})
	if err != nil {
		return err
	}

	buf, err := array.NewWithSize[int64](d, cfg.Elements, accel.SpaceDevice)
	if err != nil {
		return err
	}
	p.RegisterArguments(buf)

	clones := make([]chai.ManagedPtr[*multiplier], cfg.Clones)
	for i := range clones {
		clones[i] = p.Clone()
		*replays++
	}
	for i := range clones {
		if err := clones[i].Release(); err != nil {
			return err
		}
	}
	return p.Release()
}
