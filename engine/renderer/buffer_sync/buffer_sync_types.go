package buffer_sync

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
)

var (
	// ErrReleased is returned when a released buffer is synchronized again.
	// Buffer IDs are never reused, so this always indicates a use after release.
	ErrReleased = errors.New("buffer has been released")
	// ErrInvalidID is returned for a buffer whose ID was not minted by common.NextBufferID.
	ErrInvalidID = errors.New("buffer has no valid id")
)

// State is the lifecycle state of a buffer's device-side mirror.
type State int

const (
	// StateUnallocated means no device buffer exists yet.
	StateUnallocated State = iota
	// StateClean means the device buffer matches the CPU bytes.
	StateClean
	// StateDirty means the device buffer exists but the CPU bytes changed since the last upload.
	StateDirty
	// StateReleased means the device buffer was freed; the ID can never be allocated again.
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateUnallocated:
		return "unallocated"
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Usage selects how a device buffer will be bound.
type Usage int

const (
	// UsageVertex marks a buffer bound with SetVertexBuffer.
	UsageVertex Usage = iota
	// UsageIndex marks a buffer bound with SetIndexBuffer.
	UsageIndex
)

func (u Usage) String() string {
	if u == UsageIndex {
		return "index"
	}
	return "vertex"
}

// Handle is an opaque device buffer returned by a Device.
type Handle any

// Syncable is a CPU-side buffer whose contents are mirrored on the device.
// Both vertex_buffer.VertexBuffer and vertex_buffer.IndexBuffer satisfy it.
type Syncable interface {
	ID() common.BufferID
	Label() string
	Bytes() []byte
	Dirty() bool
	ClearDirty()
	DirtyRange() (int, int, bool)
}

// Device is the subset of a GPU device needed to mirror buffers.
// The renderer backend implements it; tests substitute a recording fake.
type Device interface {
	// CreateBuffer allocates a device buffer initialized with data.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - usage: how the buffer will be bound
	//   - data: the initial contents
	//
	// Returns:
	//   - Handle: the device buffer
	//   - error: if allocation fails
	CreateBuffer(label string, usage Usage, data []byte) (Handle, error)

	// WriteBuffer uploads data into an existing device buffer at offset.
	//
	// Parameters:
	//   - h: the device buffer
	//   - offset: byte offset into the device buffer, a multiple of 4
	//   - data: the bytes to upload
	//
	// Returns:
	//   - error: if the upload fails
	WriteBuffer(h Handle, offset uint64, data []byte) error

	// ReleaseBuffer frees a device buffer.
	//
	// Parameters:
	//   - h: the device buffer
	ReleaseBuffer(h Handle)
}

// Stats counts device work performed by a BufferSync.
type Stats struct {
	Allocations   uint64
	Uploads       uint64
	UploadedBytes uint64
	Releases      uint64
	// Live is the number of device buffers currently allocated.
	Live int
}
