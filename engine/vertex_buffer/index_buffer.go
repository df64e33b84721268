package vertex_buffer

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
)

// ErrEmptyIndices is returned when an index buffer is created without indices.
var ErrEmptyIndices = errors.New("index buffer requires at least one index")

// IndexFormat is the element width of an index buffer.
type IndexFormat int

const (
	// IndexFormatUint16 stores each index in 2 bytes.
	IndexFormatUint16 IndexFormat = iota
	// IndexFormatUint32 stores each index in 4 bytes.
	IndexFormatUint32
)

// Size returns the byte width of one index.
func (f IndexFormat) Size() int {
	if f == IndexFormatUint32 {
		return 4
	}
	return 2
}

func (f IndexFormat) String() string {
	if f == IndexFormatUint32 {
		return "uint32"
	}
	return "uint16"
}

// IndexBuffer owns packed little-endian indices and tracks changes like a VertexBuffer.
type IndexBuffer interface {
	// ID returns the identity minted when the buffer was created.
	ID() common.BufferID

	// Label returns the debug label of the buffer.
	Label() string

	// Bytes returns the packed indices.
	// The slice aliases the buffer's storage and must not be modified by the caller.
	Bytes() []byte

	// Format returns the width of each index.
	Format() IndexFormat

	// Count returns the number of indices.
	Count() int

	// Dirty reports whether the indices changed since the last ClearDirty.
	Dirty() bool

	// ClearDirty marks the current contents as mirrored on the device.
	ClearDirty()

	// DirtyRange returns the smallest byte range covering every change since the last ClearDirty.
	DirtyRange() (int, int, bool)

	// Index returns the index at position i.
	//
	// Parameters:
	//   - i: the position
	//
	// Returns:
	//   - uint32: the index value
	//   - bool: false if i is out of range
	Index(i int) (uint32, bool)

	// SetIndex overwrites the index at position i.
	//
	// Parameters:
	//   - i: the position
	//   - value: the new index value
	//
	// Returns:
	//   - bool: false if i is out of range or value does not fit the format
	SetIndex(i int, value uint32) bool
}

// indexBuffer is the implementation of the IndexBuffer interface.
type indexBuffer struct {
	id     common.BufferID
	label  string
	format IndexFormat
	raw    []byte
	count  int

	dirty            bool
	dirtyLo, dirtyHi int
}

var _ IndexBuffer = &indexBuffer{}

func newIndexBuffer(format IndexFormat, count int, options []IndexBufferBuilderOption) (*indexBuffer, error) {
	if count == 0 {
		return nil, ErrEmptyIndices
	}
	ib := &indexBuffer{
		id:     common.NextBufferID(),
		format: format,
		raw:    make([]byte, count*format.Size()),
		count:  count,
	}
	ib.label = fmt.Sprintf("index-buffer-%d", ib.id)
	for _, opt := range options {
		opt(ib)
	}
	ib.dirty, ib.dirtyLo, ib.dirtyHi = true, 0, len(ib.raw)
	return ib, nil
}

// NewIndexBuffer8 creates an index buffer from 8-bit indices.
// WebGPU has no 8-bit index format, so the indices are widened to 16 bits.
//
// Parameters:
//   - indices: the indices
//   - options: optional configuration functions
//
// Returns:
//   - IndexBuffer: the new, dirty buffer
//   - error: ErrEmptyIndices if indices is empty
func NewIndexBuffer8(indices []uint8, options ...IndexBufferBuilderOption) (IndexBuffer, error) {
	ib, err := newIndexBuffer(IndexFormatUint16, len(indices), options)
	if err != nil {
		return nil, err
	}
	for i, v := range indices {
		binary.LittleEndian.PutUint16(ib.raw[i*2:], uint16(v))
	}
	return ib, nil
}

// NewIndexBuffer16 creates an index buffer from 16-bit indices.
//
// Parameters:
//   - indices: the indices
//   - options: optional configuration functions
//
// Returns:
//   - IndexBuffer: the new, dirty buffer
//   - error: ErrEmptyIndices if indices is empty
func NewIndexBuffer16(indices []uint16, options ...IndexBufferBuilderOption) (IndexBuffer, error) {
	ib, err := newIndexBuffer(IndexFormatUint16, len(indices), options)
	if err != nil {
		return nil, err
	}
	for i, v := range indices {
		binary.LittleEndian.PutUint16(ib.raw[i*2:], v)
	}
	return ib, nil
}

// NewIndexBuffer32 creates an index buffer from 32-bit indices.
//
// Parameters:
//   - indices: the indices
//   - options: optional configuration functions
//
// Returns:
//   - IndexBuffer: the new, dirty buffer
//   - error: ErrEmptyIndices if indices is empty
func NewIndexBuffer32(indices []uint32, options ...IndexBufferBuilderOption) (IndexBuffer, error) {
	ib, err := newIndexBuffer(IndexFormatUint32, len(indices), options)
	if err != nil {
		return nil, err
	}
	for i, v := range indices {
		binary.LittleEndian.PutUint32(ib.raw[i*4:], v)
	}
	return ib, nil
}

func (ib *indexBuffer) ID() common.BufferID {
	return ib.id
}

func (ib *indexBuffer) Label() string {
	return ib.label
}

func (ib *indexBuffer) Bytes() []byte {
	return ib.raw
}

func (ib *indexBuffer) Format() IndexFormat {
	return ib.format
}

func (ib *indexBuffer) Count() int {
	return ib.count
}

func (ib *indexBuffer) Dirty() bool {
	return ib.dirty
}

func (ib *indexBuffer) ClearDirty() {
	ib.dirty = false
	ib.dirtyLo, ib.dirtyHi = 0, 0
}

func (ib *indexBuffer) DirtyRange() (int, int, bool) {
	if !ib.dirty {
		return 0, 0, false
	}
	return ib.dirtyLo, ib.dirtyHi, true
}

func (ib *indexBuffer) Index(i int) (uint32, bool) {
	if i < 0 || i >= ib.count {
		return 0, false
	}
	if ib.format == IndexFormatUint32 {
		return binary.LittleEndian.Uint32(ib.raw[i*4:]), true
	}
	return uint32(binary.LittleEndian.Uint16(ib.raw[i*2:])), true
}

func (ib *indexBuffer) SetIndex(i int, value uint32) bool {
	if i < 0 || i >= ib.count {
		return false
	}
	size := ib.format.Size()
	at := i * size
	if ib.format == IndexFormatUint32 {
		binary.LittleEndian.PutUint32(ib.raw[at:], value)
	} else {
		if value > 0xffff {
			return false
		}
		binary.LittleEndian.PutUint16(ib.raw[at:], uint16(value))
	}

	if !ib.dirty {
		ib.dirty, ib.dirtyLo, ib.dirtyHi = true, at, at+size
	} else {
		ib.dirtyLo = min(ib.dirtyLo, at)
		ib.dirtyHi = max(ib.dirtyHi, at+size)
	}
	return true
}

// IndexBufferBuilderOption is a function that configures an indexBuffer.
type IndexBufferBuilderOption func(ib *indexBuffer)

// WithIndexLabel sets the debug label used for the index buffer and its device mirror.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - IndexBufferBuilderOption: a function that applies the label option
func WithIndexLabel(label string) IndexBufferBuilderOption {
	return func(ib *indexBuffer) {
		if label != "" {
			ib.label = label
		}
	}
}
