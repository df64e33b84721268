package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer/buffer_sync"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/vertex_buffer"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrPipelineNotFound is returned when a draw names an unregistered pipeline.
	ErrPipelineNotFound = errors.New("pipeline not found")
	// ErrMissingShader is returned when a render pipeline lacks a vertex or fragment shader.
	ErrMissingShader = errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	// ErrSlotCountMismatch is returned when a draw binds a different number of vertex buffers than the pipeline declares.
	ErrSlotCountMismatch = errors.New("vertex buffer count does not match pipeline slots")
	// ErrNoVertexBuffers is returned for a draw with no vertex buffers.
	ErrNoVertexBuffers = errors.New("draw call has no vertex buffers")
)

// DrawCall describes one draw: the pipeline, the buffers bound to its vertex slots, and an optional index buffer.
type DrawCall struct {
	PipelineKey string
	// Vertex holds the buffers for vertex slots 0..n-1, in the order the pipeline declared them.
	Vertex []vertex_buffer.VertexBuffer
	// Index is optional; without it the draw is non-indexed over the per-vertex buffer count.
	Index vertex_buffer.IndexBuffer
	// InstanceCount of 0 uses the element count of the first per-instance buffer, or 1 if there is none.
	InstanceCount uint32
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	bufferSync  buffer_sync.BufferSync
	logger      *slog.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
	partialUploads       bool
	validateShaders      bool
}

// Renderer draws vertex and index buffers through registered pipelines and keeps their
// device copies current through a BufferSync.
//
// A frame is BeginFrame, any number of Draw calls, EndFrame, Present. Draw syncs every buffer
// it binds before encoding, so CPU-side mutations made before the draw are visible to it.
type Renderer interface {
	// RegisterPipeline binds the pipeline's vertex buffer slots to its vertex shader inputs,
	// creates the GPU pipeline, and caches it by key. A key that is already registered is skipped.
	//
	// Parameters:
	//   - p: the Pipeline to register
	//
	// Returns:
	//   - error: ErrMissingShader, a binding error from BindLayouts, or a backend error
	RegisterPipeline(p pipeline.Pipeline) error

	// Pipeline retrieves the cached Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// SyncBuffers uploads every dirty or unallocated buffer referenced by the draw calls.
	//
	// Parameters:
	//   - calls: the draw calls whose buffers to sync
	//
	// Returns:
	//   - error: the first sync error
	SyncBuffers(calls ...DrawCall) error

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// Draw syncs the call's buffers and encodes it in the current render pass.
	//
	// Parameters:
	//   - call: the draw to encode
	//
	// Returns:
	//   - error: ErrPipelineNotFound, ErrNoVertexBuffers, ErrSlotCountMismatch, a sync error, or ErrNoFrame
	Draw(call DrawCall) error

	// EndFrame ends the render pass and submits the frame to the GPU.
	EndFrame()

	// Present presents the surface to the display. Must be called once per frame after EndFrame.
	Present()

	// Release frees the device buffer of a vertex or index buffer. The buffer cannot be drawn again.
	//
	// Parameters:
	//   - id: the buffer ID
	Release(id common.BufferID)

	// Stats returns the BufferSync counters.
	//
	// Returns:
	//   - buffer_sync.Stats: the counters
	Stats() buffer_sync.Stats

	// BufferSync returns the renderer's BufferSync.
	BufferSync() buffer_sync.BufferSync

	// Resize reconfigures the surface for a new size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the present mode. A call to Resize is required for it to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Shutdown releases every device buffer and pipeline, then the backend.
	Shutdown()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer drawing into the window's surface.
// It panics if no GPU adapter or device is available.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - w: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) Renderer {
	r := newRenderer(options...)
	r.backendType = backendType

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.clearColor)
	}

	r.attach()
	r.backend.ConfigureSurface(w.Width(), w.Height())
	return r
}

// newRenderer applies options to a renderer with defaults; the caller sets the backend and calls attach.
func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		presentMode:   PresentModeVSync,
		msaa:          MSAA4x,
		clearColor:    wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		logger:        common.ComponentLogger("renderer"),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) attach() {
	r.backend.SetPresentMode(r.presentMode)
	r.bufferSync = buffer_sync.NewBufferSync(r.backend, buffer_sync.WithPartialUploads(r.partialUploads))
}

func (r *renderer) RegisterPipeline(p pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := p.PipelineKey()
	if _, exists := r.pipelineCache[key]; exists {
		return nil
	}

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return fmt.Errorf("pipeline %q: %w", key, ErrMissingShader)
	}

	if r.validateShaders {
		for _, s := range []shader.Shader{vertexShader, fragmentShader} {
			if err := shader.Validate(s.Source()); err != nil {
				return fmt.Errorf("pipeline %q: %w", key, err)
			}
		}
	}

	slots := p.VertexBuffers()
	layouts := make([]wgpu.VertexBufferLayout, len(slots))
	for i, entries := range slots {
		vbl, err := BindLayouts(entries, vertexShader.Locations())
		if err != nil {
			return fmt.Errorf("pipeline %q slot %d: %w", key, i, err)
		}
		layouts[i] = vbl
	}
	p.SetVertexLayouts(layouts)

	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return err
	}
	r.pipelineCache[key] = p
	r.logger.Debug("registered pipeline", slog.String("key", key), slog.Int("slots", len(slots)))
	return nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) SyncBuffers(calls ...DrawCall) error {
	for _, call := range calls {
		if _, _, err := r.syncCall(call); err != nil {
			return err
		}
	}
	return nil
}

// syncCall syncs every buffer of call and returns their device buffers.
func (r *renderer) syncCall(call DrawCall) ([]*wgpu.Buffer, *wgpu.Buffer, error) {
	vertex := make([]*wgpu.Buffer, len(call.Vertex))
	for i, vb := range call.Vertex {
		h, err := r.bufferSync.Sync(vb, buffer_sync.UsageVertex)
		if err != nil {
			return nil, nil, err
		}
		vertex[i], _ = h.(*wgpu.Buffer)
	}

	if call.Index == nil {
		return vertex, nil, nil
	}
	h, err := r.bufferSync.Sync(call.Index, buffer_sync.UsageIndex)
	if err != nil {
		return nil, nil, err
	}
	index, _ := h.(*wgpu.Buffer)
	return vertex, index, nil
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(call DrawCall) error {
	p := r.Pipeline(call.PipelineKey)
	if p == nil {
		return fmt.Errorf("%q: %w", call.PipelineKey, ErrPipelineNotFound)
	}
	if len(call.Vertex) == 0 {
		return fmt.Errorf("%q: %w", call.PipelineKey, ErrNoVertexBuffers)
	}
	if len(call.Vertex) != len(p.VertexBuffers()) {
		return fmt.Errorf("%q: %d buffers for %d slots: %w", call.PipelineKey, len(call.Vertex), len(p.VertexBuffers()), ErrSlotCountMismatch)
	}

	vertex, index, err := r.syncCall(call)
	if err != nil {
		return err
	}

	var indexed *indexedDraw
	if call.Index != nil {
		indexed = &indexedDraw{
			buffer: index,
			format: IndexFormat(call.Index.Format()),
			count:  uint32(call.Index.Count()),
		}
	}

	vertexCount, instanceCount := drawCounts(call)
	return r.backend.Draw(p, vertex, indexed, vertexCount, instanceCount)
}

// drawCounts derives the non-indexed vertex count and the instance count of a call.
func drawCounts(call DrawCall) (uint32, uint32) {
	var vertexCount, instanceCount uint32
	for _, vb := range call.Vertex {
		if vb.Instanced() {
			if instanceCount == 0 {
				instanceCount = uint32(vb.VertexCount())
			}
		} else if vertexCount == 0 {
			vertexCount = uint32(vb.VertexCount())
		}
	}
	if call.InstanceCount > 0 {
		instanceCount = call.InstanceCount
	}
	if instanceCount == 0 {
		instanceCount = 1
	}
	return vertexCount, instanceCount
}

// IndexFormat converts an index buffer format to its WebGPU equivalent.
//
// Parameters:
//   - f: the index buffer format
//
// Returns:
//   - wgpu.IndexFormat: the WebGPU index format
func IndexFormat(f vertex_buffer.IndexFormat) wgpu.IndexFormat {
	if f == vertex_buffer.IndexFormatUint32 {
		return wgpu.IndexFormatUint32
	}
	return wgpu.IndexFormatUint16
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release(id common.BufferID) {
	r.bufferSync.Release(id)
}

func (r *renderer) Stats() buffer_sync.Stats {
	return r.bufferSync.Stats()
}

func (r *renderer) BufferSync() buffer_sync.BufferSync {
	return r.bufferSync
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Shutdown() {
	r.bufferSync.ReleaseAll()

	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()

	r.backend.Release()
}
