package buffer_sync

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/layout"
)

// uploadAlignment is the granularity WebGPU requires for buffer write offsets and sizes.
const uploadAlignment = 4

// BufferSync keeps one device buffer per CPU-side buffer ID current.
//
// The first Sync of an ID allocates the device buffer with the full contents.
// Later Syncs upload only when the CPU buffer is dirty and then clear the dirty flag.
// Release frees the device buffer; the ID is then permanently released.
type BufferSync interface {
	// Sync ensures the device mirror of b exists and matches its bytes.
	//
	// Parameters:
	//   - b: the CPU-side buffer
	//   - usage: how the device buffer will be bound, used only on allocation
	//
	// Returns:
	//   - Handle: the device buffer
	//   - error: ErrInvalidID, ErrReleased, or a wrapped device error
	Sync(b Syncable, usage Usage) (Handle, error)

	// State returns the lifecycle state of b's device mirror.
	//
	// Parameters:
	//   - b: the CPU-side buffer
	//
	// Returns:
	//   - State: the current state
	State(b Syncable) State

	// Handle returns the device buffer allocated for an ID.
	//
	// Parameters:
	//   - id: the buffer ID
	//
	// Returns:
	//   - Handle: the device buffer
	//   - bool: false if no device buffer is allocated for id
	Handle(id common.BufferID) (Handle, bool)

	// Release frees the device buffer of an ID and marks the ID released.
	// Releasing an ID that was never allocated still marks it released.
	//
	// Parameters:
	//   - id: the buffer ID
	Release(id common.BufferID)

	// ReleaseAll frees every allocated device buffer.
	ReleaseAll()

	// Stats returns a snapshot of the device work performed so far.
	//
	// Returns:
	//   - Stats: the counters
	Stats() Stats
}

// mirror is the device-side record of one buffer ID.
type mirror struct {
	handle Handle
	size   int
	usage  Usage
}

// bufferSync is the implementation of the BufferSync interface.
type bufferSync struct {
	mu       sync.Mutex
	device   Device
	mirrors  map[common.BufferID]*mirror
	released map[common.BufferID]struct{}

	partialUploads bool
	logger         *slog.Logger
	stats          Stats
}

var _ BufferSync = &bufferSync{}

// NewBufferSync creates a new BufferSync mirroring buffers onto device.
//
// Parameters:
//   - device: the device that allocates and updates buffers
//   - options: optional configuration functions
//
// Returns:
//   - BufferSync: the new BufferSync
func NewBufferSync(device Device, options ...BufferSyncBuilderOption) BufferSync {
	s := &bufferSync{
		device:   device,
		mirrors:  make(map[common.BufferID]*mirror),
		released: make(map[common.BufferID]struct{}),
		logger:   common.ComponentLogger("buffer_sync"),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *bufferSync) Sync(b Syncable, usage Usage) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := b.ID()
	if !id.Valid() {
		return nil, fmt.Errorf("sync %q: %w", b.Label(), ErrInvalidID)
	}
	if _, ok := s.released[id]; ok {
		return nil, fmt.Errorf("sync %q (id %d): %w", b.Label(), id, ErrReleased)
	}

	m, ok := s.mirrors[id]
	if !ok {
		return s.allocate(b, usage)
	}
	if !b.Dirty() {
		return m.handle, nil
	}
	if err := s.upload(b, m); err != nil {
		return nil, err
	}
	return m.handle, nil
}

// allocate creates the device buffer with the full contents of b.
func (s *bufferSync) allocate(b Syncable, usage Usage) (Handle, error) {
	data := b.Bytes()
	h, err := s.device.CreateBuffer(b.Label(), usage, data)
	if err != nil {
		s.logger.Error("device buffer allocation failed",
			slog.Uint64("id", uint64(b.ID())), slog.String("label", b.Label()), slog.Any("error", err))
		return nil, fmt.Errorf("failed to create device buffer %q: %w", b.Label(), err)
	}

	s.mirrors[b.ID()] = &mirror{handle: h, size: len(data), usage: usage}
	b.ClearDirty()

	s.stats.Allocations++
	s.stats.Uploads++
	s.stats.UploadedBytes += uint64(len(data))
	s.stats.Live++
	s.logger.Debug("allocated device buffer",
		slog.Uint64("id", uint64(b.ID())), slog.String("label", b.Label()),
		slog.String("usage", usage.String()), slog.Int("bytes", len(data)))
	return h, nil
}

// upload writes the changed contents of b into its existing device buffer.
func (s *bufferSync) upload(b Syncable, m *mirror) error {
	data := b.Bytes()
	lo, hi := 0, len(data)
	if s.partialUploads {
		if dlo, dhi, ok := b.DirtyRange(); ok {
			lo = alignDown(dlo, uploadAlignment)
			hi = min(layout.Align(dhi, uploadAlignment), len(data))
		}
	}

	if err := s.device.WriteBuffer(m.handle, uint64(lo), data[lo:hi]); err != nil {
		s.logger.Error("device buffer upload failed",
			slog.Uint64("id", uint64(b.ID())), slog.String("label", b.Label()), slog.Any("error", err))
		return fmt.Errorf("failed to write device buffer %q: %w", b.Label(), err)
	}
	b.ClearDirty()

	s.stats.Uploads++
	s.stats.UploadedBytes += uint64(hi - lo)
	return nil
}

func (s *bufferSync) State(b Syncable) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.released[b.ID()]; ok {
		return StateReleased
	}
	if _, ok := s.mirrors[b.ID()]; !ok {
		return StateUnallocated
	}
	if b.Dirty() {
		return StateDirty
	}
	return StateClean
}

func (s *bufferSync) Handle(id common.BufferID) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mirrors[id]
	if !ok {
		return nil, false
	}
	return m.handle, true
}

func (s *bufferSync) Release(id common.BufferID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.release(id)
}

func (s *bufferSync) release(id common.BufferID) {
	if m, ok := s.mirrors[id]; ok {
		s.device.ReleaseBuffer(m.handle)
		delete(s.mirrors, id)
		s.stats.Releases++
		s.stats.Live--
		s.logger.Debug("released device buffer",
			slog.Uint64("id", uint64(id)), slog.String("usage", m.usage.String()), slog.Int("bytes", m.size))
	}
	s.released[id] = struct{}{}
}

func (s *bufferSync) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.mirrors {
		s.release(id)
	}
}

func (s *bufferSync) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

func alignDown(v, a int) int {
	return v - v%a
}
