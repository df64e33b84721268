package renderer

import (
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer/buffer_sync"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// indexedDraw is the index buffer half of a backend draw.
type indexedDraw struct {
	buffer *wgpu.Buffer
	format wgpu.IndexFormat
	count  uint32
}

// RendererBackend is the GPU API the Renderer drives.
// It owns the device buffers behind BufferSync, so it also implements buffer_sync.Device.
type RendererBackend interface {
	buffer_sync.Device

	// ConfigureSurface (re)configures the swapchain and the multisample target for a surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode; it takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the GPU render pipeline for p from its shaders and bound vertex layouts.
	//
	// Parameters:
	//   - p: the pipeline; its vertex layouts must already be set
	//
	// Returns:
	//   - error: an error if shader module or pipeline creation fails
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// Draw encodes one draw in the current render pass.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - vertex: the device buffers bound to vertex slots 0..n-1
	//   - index: the index buffer, or nil for a non-indexed draw
	//   - vertexCount: the vertex count of a non-indexed draw
	//   - instanceCount: the number of instances
	//
	// Returns:
	//   - error: an error if no frame is in progress
	Draw(p pipeline.Pipeline, vertex []*wgpu.Buffer, index *indexedDraw, vertexCount, instanceCount uint32) error

	// EndFrame ends the render pass and submits the frame's commands, after any queued buffer writes.
	EndFrame()

	// Present presents the surface and releases the swapchain texture.
	Present()

	// Release frees the surface, device, adapter and instance.
	Release()
}
