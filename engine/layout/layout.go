package layout

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vbuf/engine/attribute"
)

var (
	// ErrEmptyAttributes is returned when a layout is requested for zero attributes.
	ErrEmptyAttributes = errors.New("layout requires at least one attribute")
	// ErrVertexCountMismatch is returned when interleaved attributes hold different element counts.
	ErrVertexCountMismatch = errors.New("interleaved attributes have different element counts")
	// ErrDuplicateName is returned when two attributes in one buffer share a name.
	ErrDuplicateName = errors.New("duplicate attribute name")
)

// Entry describes where one attribute lives inside a vertex buffer.
// It carries everything an attribute binder needs to issue a GPU binding.
type Entry struct {
	Name           string
	ComponentCount int
	ComponentType  attribute.ComponentType
	Normalize      bool
	// Offset is the byte offset of the attribute from the start of each vertex.
	Offset int
	// Stride is the byte distance between consecutive vertices, shared by every entry of a buffer.
	Stride  int
	Divisor uint32
	// ColumnCount is 2, 3 or 4 for matrix attributes and 0 otherwise.
	ColumnCount int
}

// ElementSize returns the byte size of one element of the attribute.
func (e Entry) ElementSize() int {
	return e.ComponentCount * e.ComponentType.Size()
}

// End returns the byte offset one past the attribute inside a vertex.
func (e Entry) End() int {
	return e.Offset + e.ElementSize()
}

// Kind returns the attribute kind the entry was planned from.
//
// Returns:
//   - attribute.Kind: the kind
//   - bool: false if the entry does not correspond to a declared kind
func (e Entry) Kind() (attribute.Kind, bool) {
	switch e.ColumnCount {
	case 2:
		return attribute.KindMat2, e.ComponentType == attribute.ComponentTypeFloat && e.ComponentCount == 4
	case 3:
		return attribute.KindMat3, e.ComponentType == attribute.ComponentTypeFloat && e.ComponentCount == 9
	case 4:
		return attribute.KindMat4, e.ComponentType == attribute.ComponentTypeFloat && e.ComponentCount == 16
	}
	return attribute.KindOf(e.ComponentType, e.ComponentCount)
}

// Align rounds value up to the next multiple of alignment.
// An alignment of 0 leaves value unchanged.
//
// Parameters:
//   - value: the value to align
//   - alignment: the required multiple
//
// Returns:
//   - int: the aligned value
func Align(value, alignment int) int {
	if alignment == 0 || value%alignment == 0 {
		return value
	}
	return value + (alignment - value%alignment)
}

func entryFor(d attribute.Descriptor) Entry {
	return Entry{
		Name:           d.Name,
		ComponentCount: d.Value.ComponentCount(),
		ComponentType:  d.Value.ComponentType(),
		Normalize:      d.Normalize,
		Divisor:        d.Divisor,
		ColumnCount:    d.Value.ColumnCount(),
	}
}

// Single lays out a buffer holding one attribute: offset 0, stride equal to the element size.
//
// Parameters:
//   - d: the attribute descriptor
//
// Returns:
//   - Entry: the layout entry
func Single(d attribute.Descriptor) Entry {
	e := entryFor(d)
	e.Stride = e.ElementSize()
	return e
}

// Interleaved lays out several attributes sharing one buffer.
// Attributes keep their given order. Each offset is aligned to the attribute's component size,
// and the shared stride is aligned to the largest component size in the set.
//
// Parameters:
//   - ds: the attribute descriptors, in buffer order
//
// Returns:
//   - []Entry: one entry per descriptor, in the same order
//   - error: ErrEmptyAttributes, ErrDuplicateName, or a descriptor validation error
func Interleaved(ds []attribute.Descriptor) ([]Entry, error) {
	if len(ds) == 0 {
		return nil, ErrEmptyAttributes
	}

	entries := make([]Entry, len(ds))
	seen := make(map[string]struct{}, len(ds))
	offset, maxAlign := 0, 0

	for i, d := range ds {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("attribute %q: %w", d.Name, ErrDuplicateName)
		}
		seen[d.Name] = struct{}{}

		e := entryFor(d)
		align := e.ComponentType.Size()
		maxAlign = max(maxAlign, align)

		offset = Align(offset, align)
		e.Offset = offset
		offset += e.ElementSize()
		entries[i] = e
	}

	stride := Align(offset, maxAlign)
	for i := range entries {
		entries[i].Stride = stride
	}
	return entries, nil
}

// Plan validates the descriptors and lays them out, choosing Single for one
// attribute and Interleaved for several.
//
// Parameters:
//   - ds: the attribute descriptors, in buffer order
//
// Returns:
//   - []Entry: the planned layout
//   - int: the shared element count of the descriptors
//   - error: ErrEmptyAttributes, ErrVertexCountMismatch, ErrDuplicateName, or a descriptor validation error
func Plan(ds []attribute.Descriptor) ([]Entry, int, error) {
	if len(ds) == 0 {
		return nil, 0, ErrEmptyAttributes
	}

	count := ds[0].Count()
	for _, d := range ds[1:] {
		if d.Count() != count {
			return nil, 0, fmt.Errorf("attribute %q has %d elements, %q has %d: %w",
				d.Name, d.Count(), ds[0].Name, count, ErrVertexCountMismatch)
		}
	}

	if len(ds) == 1 {
		if err := ds[0].Validate(); err != nil {
			return nil, 0, err
		}
		return []Entry{Single(ds[0])}, count, nil
	}

	entries, err := Interleaved(ds)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

// Find returns the entry with the given name.
//
// Parameters:
//   - entries: the layout to search
//   - name: the attribute name
//
// Returns:
//   - Entry: the matching entry
//   - bool: false if no entry matches
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
