package profiler

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer/buffer_sync"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often a Snapshot is produced. Non-positive values keep the default.
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithStatsSource reports buffer uploads from the given counters, usually Renderer.Stats.
//
// Parameters:
//   - stats: returns the current BufferSync counters
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithStatsSource(stats func() buffer_sync.Stats) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.stats = stats
	}
}

// WithLogger sets the logger snapshots are written to.
func WithLogger(l *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}
