package vertex_buffer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vbuf/engine/attribute"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/layout"
)

// ErrLayoutMismatch is returned when descriptors and layout entries do not describe the same attributes.
var ErrLayoutMismatch = errors.New("descriptors do not match layout")

// Pack serializes descriptors into a single buffer following the planned layout.
// Each vertex v writes attribute i at v*stride + entries[i].Offset; padding bytes stay zero.
//
// Parameters:
//   - ds: the attribute descriptors, all with the same element count
//   - entries: the layout planned for ds, in the same order
//
// Returns:
//   - []byte: stride * count little-endian bytes
//   - error: ErrLayoutMismatch if ds and entries disagree
func Pack(ds []attribute.Descriptor, entries []layout.Entry) ([]byte, error) {
	if len(ds) == 0 || len(ds) != len(entries) {
		return nil, fmt.Errorf("%d descriptors for %d entries: %w", len(ds), len(entries), ErrLayoutMismatch)
	}
	for i, d := range ds {
		e := entries[i]
		if d.Name != e.Name || d.Value.ElementSize() != e.ElementSize() {
			return nil, fmt.Errorf("attribute %q against entry %q: %w", d.Name, e.Name, ErrLayoutMismatch)
		}
	}

	stride := entries[0].Stride
	count := ds[0].Count()

	// A lone tightly packed attribute is the typed array itself.
	if len(ds) == 1 && entries[0].Offset == 0 && stride == entries[0].ElementSize() {
		return ds[0].Value.Encode(), nil
	}

	raw := make([]byte, stride*count)
	for v := range count {
		base := v * stride
		for i, d := range ds {
			d.Value.EncodeElement(v, raw[base+entries[i].Offset:])
		}
	}
	return raw, nil
}

// Unpack reads one attribute back out of a packed buffer.
//
// Parameters:
//   - raw: the packed buffer
//   - e: the layout entry of the attribute to read
//   - count: the number of vertices in raw
//
// Returns:
//   - attribute.Value: the attribute's elements
//   - error: if the entry has no matching kind or raw is too short
func Unpack(raw []byte, e layout.Entry, count int) (attribute.Value, error) {
	kind, ok := e.Kind()
	if !ok {
		return attribute.Value{}, fmt.Errorf("entry %q: %w", e.Name, attribute.ErrInvalidKind)
	}
	if e.Offset > len(raw) {
		return attribute.Value{}, fmt.Errorf("entry %q: %w", e.Name, attribute.ErrShortBuffer)
	}
	return attribute.DecodeStrided(kind, raw[e.Offset:], count, e.Stride)
}
