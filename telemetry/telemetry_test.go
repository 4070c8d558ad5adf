package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestStart_NoCollectorIsNoop(t *testing.T) {
	timer := Start(context.Background(), "decode")
	timer.End()
	timer.End()
}

func TestStageCollector(t *testing.T) {
	collector := NewStageCollector()
	ctx := WithCollector(context.Background(), collector)

	Start(ctx, "decode").End()
	Start(ctx, "classify").End()
	unfinished := Start(ctx, "match")

	var buf strings.Builder
	collector.Report(&buf)
	report := buf.String()

	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	assert.Equal(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "decode"))
	assert.True(t, strings.HasPrefix(lines[1], "classify"))
	assert.True(t, strings.HasPrefix(lines[2], "total"))
	assert.False(t, strings.Contains(report, "match"))

	unfinished.End()
	buf.Reset()
	collector.Report(&buf)
	assert.True(t, strings.Contains(buf.String(), "match"))
}

func TestStageTimer_EndIsIdempotent(t *testing.T) {
	collector := NewStageCollector()
	timer := collector.Start("decode")
	timer.End()
	first := collector.stages[0].duration
	timer.End()
	assert.Equal(t, collector.stages[0].duration, first)
}

func TestFromContext_ReturnsAttachedCollector(t *testing.T) {
	collector := NewStageCollector()
	ctx := WithCollector(context.Background(), collector)
	assert.True(t, FromContext(ctx) == Collector(collector))
}
