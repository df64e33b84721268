package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer/buffer_sync"
)

// Snapshot is one reporting interval of frame, memory and buffer upload statistics.
type Snapshot struct {
	FPS     float64
	HeapMB  float64
	SysMB   float64
	NumGC   uint32
	Elapsed time.Duration

	// Uploads and UploadedBytes count buffer uploads during the interval.
	Uploads       uint64
	UploadedBytes uint64
	// LiveBuffers is the number of device buffers allocated at the end of the interval.
	LiveBuffers int
}

// Profiler tracks frame rate, memory and buffer sync statistics.
// It logs a Snapshot through slog every interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats

	stats     func() buffer_sync.Stats
	lastStats buffer_sync.Stats

	now    func() time.Time
	logger *slog.Logger
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: optional configuration functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         common.ComponentLogger("profiler"),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	if p.stats != nil {
		p.lastStats = p.stats()
	}
	return p
}

// Tick should be called once per frame.
// When the update interval has elapsed it logs and returns a Snapshot of the interval.
//
// Returns:
//   - Snapshot: the statistics of the finished interval
//   - bool: true if an interval finished this tick
func (p *Profiler) Tick() (Snapshot, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Snapshot{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	snap := Snapshot{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		NumGC:   p.memStats.NumGC,
		Elapsed: elapsed,
	}

	if p.stats != nil {
		s := p.stats()
		snap.Uploads = s.Uploads - p.lastStats.Uploads
		snap.UploadedBytes = s.UploadedBytes - p.lastStats.UploadedBytes
		snap.LiveBuffers = s.Live
		p.lastStats = s
	}

	p.logger.Info("frame stats",
		slog.Float64("fps", snap.FPS),
		slog.Float64("heap_mb", snap.HeapMB),
		slog.Float64("sys_mb", snap.SysMB),
		slog.Uint64("gc", uint64(snap.NumGC)),
		slog.Uint64("uploads", snap.Uploads),
		slog.Uint64("uploaded_bytes", snap.UploadedBytes),
		slog.Int("live_buffers", snap.LiveBuffers),
	)

	p.frameCount = 0
	p.lastTime = currentTime
	return snap, true
}
