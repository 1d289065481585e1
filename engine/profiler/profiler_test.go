package profiler

import (
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCountsByReason(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(time.Hour))

	p.Record(trigger.ReasonLoad, time.Millisecond)
	p.Record(trigger.ReasonControlChange, time.Millisecond)
	p.Record(trigger.ReasonControlChange, time.Millisecond)
	p.Record(trigger.ReasonResize, time.Millisecond)

	assert.Equal(t, uint64(1), p.Redraws(trigger.ReasonLoad))
	assert.Equal(t, uint64(2), p.Redraws(trigger.ReasonControlChange))
	assert.Equal(t, uint64(1), p.Redraws(trigger.ReasonResize))
	assert.Equal(t, uint64(4), p.Frames())
}

func TestRecordLogsAfterInterval(t *testing.T) {
	var lines []string
	p := NewProfiler(WithUpdateInterval(0), WithLogger(func(format string, v ...any) {
		lines = append(lines, fmt.Sprintf(format, v...))
	}))

	assert.True(t, p.Record(trigger.ReasonLoad, 2*time.Millisecond))
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[Profiler] Redraws: 1 (load=1 control=0 resize=0)")
	assert.Contains(t, lines[0], "avg 2ms")
}

func TestRecordQuietWithinInterval(t *testing.T) {
	logged := 0
	p := NewProfiler(WithUpdateInterval(time.Hour), WithLogger(func(string, ...any) { logged++ }))

	for range 10 {
		assert.False(t, p.Record(trigger.ReasonControlChange, time.Millisecond))
	}
	assert.Zero(t, logged)
}
