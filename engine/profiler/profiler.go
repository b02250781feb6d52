// package profiler reports frame rate, packing load and memory statistics at a fixed interval.
package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-sdf/common"
)

// FrameStats summarizes the packing work of one frame across all rendered scenes.
type FrameStats struct {
	Scenes      int
	Shapes      int
	UsedSlots   int
	Diagnostics int
	PackTime    time.Duration
}

// Report is one interval's worth of statistics.
type Report struct {
	FPS          float64
	AvgShapes    float64
	AvgSlots     float64
	Diagnostics  int
	MaxPackTime  time.Duration
	HeapMB       float64
	AllocRateMBs float64
	NumGC        uint32
}

// Profiler tracks frame rate, packing load and memory statistics for performance monitoring.
// Outputs a Report to the structured logger at a configurable interval.
type Profiler struct {
	frameCount     int
	shapeSum       int
	slotSum        int
	diagnostics    int
	maxPackTime    time.Duration
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	now            func() time.Time
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - interval: report interval, values <= 0 default to 1 second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per frame with that frame's stats.
// Logs a Report when the update interval has elapsed.
//
// Parameters:
//   - stats: the frame's packing stats
//
// Returns:
//   - Report: the interval report, zero if none was produced
//   - bool: true if a report was produced this tick
func (p *Profiler) Tick(stats FrameStats) (Report, bool) {
	p.frameCount++
	p.shapeSum += stats.Shapes
	p.slotSum += stats.UsedSlots
	p.diagnostics += stats.Diagnostics
	p.maxPackTime = max(p.maxPackTime, stats.PackTime)

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Report{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	frames := float64(p.frameCount)
	r := Report{
		FPS:          frames / elapsed.Seconds(),
		AvgShapes:    float64(p.shapeSum) / frames,
		AvgSlots:     float64(p.slotSum) / frames,
		Diagnostics:  p.diagnostics,
		MaxPackTime:  p.maxPackTime,
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMBs: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		NumGC:        p.memStats.NumGC,
	}

	common.Logger().Info("profiler",
		slog.Float64("fps", r.FPS),
		slog.Float64("shapes", r.AvgShapes),
		slog.Float64("slots", r.AvgSlots),
		slog.Int("diagnostics", r.Diagnostics),
		slog.Duration("max_pack", r.MaxPackTime),
		slog.Float64("heap_mb", r.HeapMB),
		slog.Float64("alloc_mb_s", r.AllocRateMBs),
		slog.Uint64("gc", uint64(r.NumGC)),
	)

	p.frameCount = 0
	p.shapeSum = 0
	p.slotSum = 0
	p.diagnostics = 0
	p.maxPackTime = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return r, true
}
