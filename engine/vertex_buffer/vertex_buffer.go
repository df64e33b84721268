package vertex_buffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/attribute"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/layout"
)

// VertexBuffer owns the packed CPU-side bytes of one or more attributes together with their layout.
// Named mutations patch bytes in place and mark the buffer dirty so its device mirror is refreshed
// at the next synchronization point. Mutation never changes the stride, layout, vertex count or ID.
type VertexBuffer interface {
	// ID returns the identity minted when the buffer was created.
	// It is the key of the buffer's device-side mirror and is never reused.
	//
	// Returns:
	//   - common.BufferID: the buffer identity
	ID() common.BufferID

	// Label returns the debug label of the buffer.
	//
	// Returns:
	//   - string: the label, "vertex-buffer-<id>" unless set with WithLabel
	Label() string

	// Bytes returns the packed little-endian contents, ready to upload.
	// The slice aliases the buffer's storage and must not be modified by the caller.
	//
	// Returns:
	//   - []byte: Stride * VertexCount bytes
	Bytes() []byte

	// Layout returns a copy of the per-attribute layout entries.
	//
	// Returns:
	//   - []layout.Entry: one entry per attribute, in buffer order
	Layout() []layout.Entry

	// Stride returns the byte distance between consecutive vertices.
	//
	// Returns:
	//   - int: the stride in bytes
	Stride() int

	// VertexCount returns the number of vertices (or instances) held.
	//
	// Returns:
	//   - int: the element count shared by every attribute
	VertexCount() int

	// Instanced reports whether the buffer's attributes advance per instance.
	//
	// Returns:
	//   - bool: true if any attribute has a non-zero divisor
	Instanced() bool

	// Dirty reports whether the bytes changed since the last ClearDirty.
	// A newly created buffer is dirty.
	//
	// Returns:
	//   - bool: true if the device mirror is stale
	Dirty() bool

	// ClearDirty marks the current contents as mirrored on the device.
	ClearDirty()

	// DirtyRange returns the smallest byte range covering every change since the last ClearDirty.
	//
	// Returns:
	//   - int: first changed byte
	//   - int: one past the last changed byte
	//   - bool: false if the buffer is clean
	DirtyRange() (int, int, bool)

	// VertexByteOffset returns the byte offset of an attribute for one vertex.
	//
	// Parameters:
	//   - name: the attribute name
	//   - index: the vertex index
	//
	// Returns:
	//   - int: index*stride + offset
	//   - bool: false if no attribute has the name
	VertexByteOffset(name string, index int) (int, bool)

	// SetScalar overwrites the first float component of an attribute for one vertex.
	// Attributes whose components are not floats are left alone and report false.
	//
	// Parameters:
	//   - name: the attribute name
	//   - index: the vertex index
	//   - value: the new component value
	//
	// Returns:
	//   - bool: false if the attribute was not found or the index is out of range
	SetScalar(name string, index int, value float32) bool

	// SetMatrix overwrites a float attribute for one vertex with the first ComponentCount values of m.
	// For a mat4 attribute this writes all 64 bytes of the column-major matrix.
	//
	// Parameters:
	//   - name: the attribute name
	//   - index: the vertex index
	//   - m: column-major matrix values
	//
	// Returns:
	//   - bool: false if the attribute was not found, is not float, or the index is out of range
	SetMatrix(name string, index int, m [16]float32) bool

	// SetElement overwrites one element of an attribute with the first element of v.
	// v must have the attribute's kind.
	//
	// Parameters:
	//   - name: the attribute name
	//   - index: the vertex index
	//   - v: a value holding at least one element of the attribute's kind
	//
	// Returns:
	//   - bool: false if the attribute was not found, the kinds differ, or the index is out of range
	SetElement(name string, index int, v attribute.Value) bool
}

// vertexBuffer is the implementation of the VertexBuffer interface.
type vertexBuffer struct {
	id    common.BufferID
	label string

	raw    []byte
	layout []layout.Entry
	stride int
	count  int

	dirty            bool
	dirtyLo, dirtyHi int
}

var _ VertexBuffer = &vertexBuffer{}

// New plans, packs and wraps the descriptors in a VertexBuffer.
// Construction is atomic: on error no buffer and no ID are produced.
//
// Parameters:
//   - ds: the attribute descriptors; one for a tightly packed buffer, several for an interleaved one
//   - options: optional configuration functions
//
// Returns:
//   - VertexBuffer: the new, dirty buffer
//   - error: a layout or packing error
func New(ds []attribute.Descriptor, options ...VertexBufferBuilderOption) (VertexBuffer, error) {
	entries, count, err := layout.Plan(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to plan vertex layout: %w", err)
	}
	raw, err := Pack(ds, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to pack vertex data: %w", err)
	}

	vb := &vertexBuffer{
		id:      common.NextBufferID(),
		raw:     raw,
		layout:  entries,
		stride:  entries[0].Stride,
		count:   count,
		dirty:   true,
		dirtyLo: 0,
		dirtyHi: len(raw),
	}
	vb.label = fmt.Sprintf("vertex-buffer-%d", vb.id)
	for _, opt := range options {
		opt(vb)
	}
	return vb, nil
}

func (vb *vertexBuffer) ID() common.BufferID {
	return vb.id
}

func (vb *vertexBuffer) Label() string {
	return vb.label
}

func (vb *vertexBuffer) Bytes() []byte {
	return vb.raw
}

func (vb *vertexBuffer) Layout() []layout.Entry {
	out := make([]layout.Entry, len(vb.layout))
	copy(out, vb.layout)
	return out
}

func (vb *vertexBuffer) Stride() int {
	return vb.stride
}

func (vb *vertexBuffer) VertexCount() int {
	return vb.count
}

func (vb *vertexBuffer) Instanced() bool {
	for _, e := range vb.layout {
		if e.Divisor > 0 {
			return true
		}
	}
	return false
}

func (vb *vertexBuffer) Dirty() bool {
	return vb.dirty
}

func (vb *vertexBuffer) ClearDirty() {
	vb.dirty = false
	vb.dirtyLo, vb.dirtyHi = 0, 0
}

func (vb *vertexBuffer) DirtyRange() (int, int, bool) {
	if !vb.dirty {
		return 0, 0, false
	}
	return vb.dirtyLo, vb.dirtyHi, true
}

func (vb *vertexBuffer) VertexByteOffset(name string, index int) (int, bool) {
	e, ok := layout.Find(vb.layout, name)
	if !ok {
		return 0, false
	}
	return index*vb.stride + e.Offset, true
}

func (vb *vertexBuffer) SetScalar(name string, index int, value float32) bool {
	at, ok := vb.floatTarget(name, index)
	if !ok {
		return false
	}
	binary.LittleEndian.PutUint32(vb.raw[at:], math.Float32bits(value))
	vb.markDirty(at, at+4)
	return true
}

func (vb *vertexBuffer) SetMatrix(name string, index int, m [16]float32) bool {
	at, ok := vb.floatTarget(name, index)
	if !ok {
		return false
	}
	e, _ := layout.Find(vb.layout, name)
	n := min(e.ComponentCount, len(m))
	for c := range n {
		binary.LittleEndian.PutUint32(vb.raw[at+c*4:], math.Float32bits(m[c]))
	}
	vb.markDirty(at, at+n*4)
	return true
}

func (vb *vertexBuffer) SetElement(name string, index int, v attribute.Value) bool {
	e, ok := layout.Find(vb.layout, name)
	if !ok || index < 0 || index >= vb.count || v.Count() < 1 {
		return false
	}
	if kind, ok := e.Kind(); !ok || kind != v.Kind() {
		return false
	}
	at := index*vb.stride + e.Offset
	v.EncodeElement(0, vb.raw[at:])
	vb.markDirty(at, at+e.ElementSize())
	return true
}

// floatTarget resolves the byte index of a float attribute for one vertex.
func (vb *vertexBuffer) floatTarget(name string, index int) (int, bool) {
	e, ok := layout.Find(vb.layout, name)
	if !ok || e.ComponentType != attribute.ComponentTypeFloat {
		return 0, false
	}
	if index < 0 || index >= vb.count {
		return 0, false
	}
	return index*vb.stride + e.Offset, true
}

func (vb *vertexBuffer) markDirty(lo, hi int) {
	if !vb.dirty {
		vb.dirty = true
		vb.dirtyLo, vb.dirtyHi = lo, hi
		return
	}
	vb.dirtyLo = min(vb.dirtyLo, lo)
	vb.dirtyHi = max(vb.dirtyHi, hi)
}
