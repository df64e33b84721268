package engine

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/window"
)

// engine implements the Engine interface.
type engine struct {
	mu sync.Mutex

	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool
	profileInterval  time.Duration

	updateCallback func(deltaTime float32)
	drawCalls      []renderer.DrawCall

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time

	quit   atomic.Bool
	logger *slog.Logger
}

// Engine drives the frame loop on the window's thread.
//
// Every frame runs in a fixed order: the update callback mutates vertex buffers, the renderer syncs
// every buffer the draw list references, the draw list is encoded, and the frame is presented.
// Mutations therefore always complete before the sync that uploads them.
type Engine interface {
	// Window returns the underlying window.
	Window() window.Window

	// Renderer returns the renderer frames are drawn with.
	Renderer() renderer.Renderer

	// SetUpdateCallback registers the function called at the start of each frame.
	// Use it for vertex buffer mutations and animation.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetUpdateCallback(callback func(deltaTime float32))

	// SetDrawCalls replaces the draw list encoded each frame, in order.
	//
	// Parameters:
	//   - calls: the draw calls
	SetDrawCalls(calls ...renderer.DrawCall)

	// EnableProfiler enables frame and upload statistics in the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frame runs one frame: update, sync, draw, present.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - error: a sync or frame acquisition error, or the joined draw errors
	Frame(deltaTime float32) error

	// Run drives Frame from the window message loop and blocks until the window closes or Quit is called.
	// It then releases the renderer and closes the window.
	Run()

	// Quit stops Run after the current frame. Safe to call multiple times and from any goroutine.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine. A window and a renderer are required to Run;
// Frame only needs the renderer.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profileInterval: time.Second,
		logger:          common.ComponentLogger("engine"),
	}
	for _, opt := range options {
		opt(e)
	}

	profilerOpts := []profiler.ProfilerBuilderOption{profiler.WithInterval(e.profileInterval)}
	if e.renderer != nil {
		profilerOpts = append(profilerOpts, profiler.WithStatsSource(e.renderer.Stats))
	}
	e.profiler = profiler.NewProfiler(profilerOpts...)

	if e.window != nil && e.renderer != nil {
		e.window.SetResizeCallback(e.renderer.Resize)
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) SetUpdateCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updateCallback = callback
}

func (e *engine) SetDrawCalls(calls ...renderer.DrawCall) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drawCalls = append([]renderer.DrawCall(nil), calls...)
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) Frame(deltaTime float32) error {
	e.mu.Lock()
	update := e.updateCallback
	calls := e.drawCalls
	profiling := e.profilingEnabled
	e.mu.Unlock()

	if update != nil {
		update(deltaTime)
	}

	if err := e.renderer.SyncBuffers(calls...); err != nil {
		return err
	}
	if err := e.renderer.BeginFrame(); err != nil {
		return err
	}

	var drawErr error
	for _, call := range calls {
		if err := e.renderer.Draw(call); err != nil {
			drawErr = errors.Join(drawErr, err)
		}
	}
	e.renderer.EndFrame()
	e.renderer.Present()

	if profiling {
		e.profiler.Tick()
	}
	return drawErr
}

// tick is the window update callback.
func (e *engine) tick() {
	if e.quit.Load() {
		if err := e.window.Close(); err != nil {
			e.logger.Warn("failed to close window", slog.Any("error", err))
		}
		return
	}

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	if err := e.Frame(dt); err != nil {
		e.logger.Warn("frame failed", slog.Any("error", err))
	}

	e.mu.Lock()
	limit := e.renderFrameLimit
	e.mu.Unlock()
	if limit > 0 {
		if remaining := limit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) Run() {
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(e.tick)
	e.window.ProcessMessages()

	e.renderer.Shutdown()
	if err := e.window.Close(); err != nil && !errors.Is(err, window.ErrNotInitialized) {
		e.logger.Warn("failed to close window", slog.Any("error", err))
	}
	e.logger.Info("engine stopped")
}

func (e *engine) Quit() {
	e.quit.Store(true)
}
