// Package telemetry provides lightweight stage timing for pipeline runs.
//
// A Collector travels through context so that stages can be instrumented
// without changing signatures. When no collector is present, timing calls
// are no-ops.
//
//	collector := telemetry.NewStageCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.Start(ctx, "decode")
//	// ... work ...
//	timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector records stage timings.
type Collector interface {
	// Start begins timing a named stage.
	Start(name string) Timer

	// Report writes the recorded stages to w.
	Report(w io.Writer)
}

// Timer tracks one running stage.
type Timer interface {
	// End stops the timer and records the duration.
	End()
}

// WithCollector attaches a collector to a context.
func WithCollector(ctx context.Context, c Collector) context.Context {
	return context.WithValue(ctx, collectorKey, c)
}

// FromContext extracts the collector, or a no-op one when absent.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(collectorKey).(Collector); ok {
		return c
	}
	return noopCollector{}
}

// Start begins timing a stage against the context's collector.
func Start(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}

type noopCollector struct{}

func (noopCollector) Start(string) Timer { return noopTimer{} }
func (noopCollector) Report(io.Writer)   {}

type noopTimer struct{}

func (noopTimer) End() {}
