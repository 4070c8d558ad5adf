package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StageCollector records stages in start order. The report lists each
// completed stage with its duration and ends with the total.
type StageCollector struct {
	mu     sync.Mutex
	stages []*stage
}

type stage struct {
	name     string
	start    time.Time
	duration time.Duration
	done     bool
}

// NewStageCollector creates an empty collector.
func NewStageCollector() *StageCollector {
	return &StageCollector{}
}

// Start begins timing a named stage.
func (c *StageCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &stage{name: name, start: time.Now()}
	c.stages = append(c.stages, s)
	return &stageTimer{collector: c, stage: s}
}

// Report writes one line per completed stage plus a total.
func (c *StageCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	width := len("total")
	for _, s := range c.stages {
		if len(s.name) > width {
			width = len(s.name)
		}
	}

	var total time.Duration
	for _, s := range c.stages {
		if !s.done {
			continue
		}
		total += s.duration
		fmt.Fprintf(w, "%-*s %s\n", width, s.name, formatDuration(s.duration))
	}
	fmt.Fprintf(w, "%-*s %s\n", width, "total", formatDuration(total))
}

type stageTimer struct {
	collector *StageCollector
	stage     *stage
}

func (t *stageTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if !t.stage.done {
		t.stage.duration = time.Since(t.stage.start)
		t.stage.done = true
	}
}

// formatDuration rounds to a readable precision: microseconds under a
// millisecond, otherwise tenths of milliseconds.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(100 * time.Microsecond).String()
}
