package main

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	chai "github.com/kanye-quest/CHAI"
	"github.com/kanye-quest/CHAI/accel"
	"github.com/kanye-quest/CHAI/array"
)

var (
	statsTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	statsValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	statsHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// statsSnapshot is the msgpack-serializable view written on exit.
type statsSnapshot struct {
	Objects    int    `msgpack:"objects"`
	Memory     uint32 `msgpack:"memory_bytes"`
	LiveBytes  uint32 `msgpack:"live_bytes"`
	PeakBytes  uint32 `msgpack:"peak_bytes"`
	AllocCount uint64 `msgpack:"alloc_count"`
	Cycles     uint64 `msgpack:"cycles"`
}

func newStatsCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Watch device occupancy live while a workload churns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(outPath)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write a msgpack snapshot on exit")
	return cmd
}

func runStats(outPath string) error {
	d := accel.Open(nil)
	defer d.Close()

	m := newStatsModel(d)
	go m.churn()

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}
	close(m.stop)
	<-m.stopped

	if outPath != "" {
		st := d.Stats()
		snap := statsSnapshot{
			Objects:    st.Objects,
			Memory:     st.MemoryBytes,
			LiveBytes:  st.Alloc.LiveBytes,
			PeakBytes:  st.Alloc.PeakBytes,
			AllocCount: st.Alloc.AllocCount,
			Cycles:     m.cycles.Load(),
		}
		data, err := msgpack.Marshal(snap)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("snapshot written to %s\n", outPath)
	}
	return nil
}

type statsModel struct {
	dev     *accel.Device
	spin    spinner.Model
	stats   accel.Stats
	stop    chan struct{}
	stopped chan struct{}
	cycles  atomic.Uint64

	// written by the churn goroutine, read by the render loop
	workErr atomic.Pointer[error]
}

type statsTickMsg struct{}

func newStatsModel(d *accel.Device) *statsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &statsModel{
		dev:     d,
		spin:    sp,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// churn runs the workload: one goroutine, one lineage at a time, so the
// counters on screen move while every ownership rule still holds.
func (m *statsModel) churn() {
	defer close(m.stopped)
	for {
		select {
		case <-m.stop:
			return
		default:
		}

		p, err := chai.MakeManaged(m.dev, func() *multiplier {
			return &multiplier{factor: 2}
		})
		if err != nil {
			m.workErr.Store(&err)
			return
		}
		buf, err := array.NewWithSize[int64](m.dev, 128, accel.SpaceDevice)
		if err != nil {
			m.workErr.Store(&err)
			return
		}
		p.RegisterArguments(buf)

		q := p.Clone()
		q.Release()
		if err := p.Release(); err != nil {
			m.workErr.Store(&err)
			return
		}
		m.cycles.Add(1)
		time.Sleep(5 * time.Millisecond)
	}
}

func statsTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return statsTickMsg{}
	})
}

func (m *statsModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, statsTick())
}

func (m *statsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case statsTickMsg:
		m.stats = m.dev.Stats()
		return m, statsTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *statsModel) View() string {
	var b strings.Builder

	b.WriteString(statsTitleStyle.Render("Device Occupancy"))
	b.WriteString(" ")
	b.WriteString(m.spin.View())
	b.WriteString("\n\n")

	if ep := m.workErr.Load(); ep != nil {
		b.WriteString(fmt.Sprintf("workload stopped: %v\n\n", *ep))
	}

	row := func(label string, value any) {
		b.WriteString(statsLabelStyle.Render(fmt.Sprintf("%-16s", label)))
		b.WriteString(statsValueStyle.Render(fmt.Sprintf("%v", value)))
		b.WriteString("\n")
	}
	row("objects", m.stats.Objects)
	row("memory bytes", m.stats.MemoryBytes)
	row("live bytes", m.stats.Alloc.LiveBytes)
	row("peak bytes", m.stats.Alloc.PeakBytes)
	row("allocations", m.stats.Alloc.AllocCount)
	row("cycles", m.cycles.Load())

	b.WriteString("\n")
	b.WriteString(statsHelpStyle.Render("q quit"))
	return b.String()
}
