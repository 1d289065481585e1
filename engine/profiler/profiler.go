package profiler

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
)

// Profiler counts redraws by the reason that triggered them and tracks frame encode time
// and memory statistics. Rendering is event driven, so stats are logged from Record once
// the update interval has elapsed rather than on a timer.
type Profiler struct {
	mu *sync.Mutex

	redraws        map[trigger.Reason]uint64
	frames         uint64
	intervalFrames int
	intervalTime   time.Duration
	maxFrameTime   time.Duration

	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	logf func(format string, v ...any)
}

// ProfilerOption configures a Profiler during construction.
type ProfilerOption func(*Profiler)

// WithUpdateInterval sets how often stats are logged. Defaults to 1 second.
//
// Parameters:
//   - interval: the minimum time between log lines
//
// Returns:
//   - ProfilerOption: a function that applies the interval option to a Profiler
func WithUpdateInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = interval
	}
}

// WithLogger replaces log.Printf as the stats sink.
//
// Parameters:
//   - logf: a printf-style logging function
//
// Returns:
//   - ProfilerOption: a function that applies the logger option to a Profiler
func WithLogger(logf func(format string, v ...any)) ProfilerOption {
	return func(p *Profiler) {
		p.logf = logf
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: variadic list of ProfilerOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		redraws:        make(map[trigger.Reason]uint64),
		lastTime:       time.Now(),
		updateInterval: time.Second,
		logf:           log.Printf,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Record notes one redraw caused by reason that took frameTime to encode and present.
// Logs performance statistics when the update interval has elapsed since the last log.
//
// Parameters:
//   - reason: why the frame was drawn
//   - frameTime: how long the frame took
//
// Returns:
//   - bool: true if stats were logged by this call
func (p *Profiler) Record(reason trigger.Reason, frameTime time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.redraws[reason]++
	p.frames++
	p.intervalFrames++
	p.intervalTime += frameTime
	p.maxFrameTime = max(p.maxFrameTime, frameTime)

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
	}

	avg := p.intervalTime / time.Duration(p.intervalFrames)
	p.logf("[Profiler] Redraws: %d (%s) | Frame: avg %s, max %s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs) | Sys: %.2f MB",
		p.frames, p.breakdown(), avg, p.maxFrameTime, allocMB, allocRateMB, gcCount-p.lastGCCount, lastPauseUs, sysMB)

	p.intervalFrames = 0
	p.intervalTime = 0
	p.maxFrameTime = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Redraws returns how many redraws reason has caused.
//
// Parameters:
//   - reason: the trigger reason
//
// Returns:
//   - uint64: the redraw count
func (p *Profiler) Redraws(reason trigger.Reason) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.redraws[reason]
}

// Frames returns the total number of recorded redraws.
//
// Returns:
//   - uint64: the frame count
func (p *Profiler) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// breakdown formats the per-reason counts in reason order. Caller must hold the mutex.
func (p *Profiler) breakdown() string {
	parts := make([]string, 0, 3)
	for _, r := range []trigger.Reason{trigger.ReasonLoad, trigger.ReasonControlChange, trigger.ReasonResize} {
		parts = append(parts, fmt.Sprintf("%s=%d", r, p.redraws[r]))
	}
	return strings.Join(parts, " ")
}
