package layout

import (
	"fmt"
	"sort"
	"testing"

	"github.com/Carmen-Shannon/oxy-vbuf/engine/attribute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroValue builds a value of the given kind holding count zeroed elements.
func zeroValue(t *testing.T, kind attribute.Kind, count int) attribute.Value {
	t.Helper()
	v, err := attribute.Decode(kind, make([]byte, kind.ElementSize()*count), count)
	require.NoError(t, err)
	return v
}

func TestAlign(t *testing.T) {
	tests := []struct {
		value, alignment, want int
	}{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
		{11, 4, 12},
		{3, 2, 4},
		{7, 1, 7},
		{7, 0, 7},
		{0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d", tt.value, tt.alignment), func(t *testing.T) {
			assert.Equal(t, tt.want, Align(tt.value, tt.alignment))
		})
	}
}

func TestInterleavedPositionColor(t *testing.T) {
	position := attribute.NewDescriptor("position", attribute.Vec2s([][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}))
	color := attribute.NewDescriptor("color",
		attribute.UnsignedBytes3([][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 255}}),
		attribute.WithNormalize(true))

	entries, count, err := Plan([]attribute.Descriptor{position, color})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 4, count)

	assert.Equal(t, 0, entries[0].Offset)
	assert.Equal(t, 8, entries[1].Offset)
	assert.Equal(t, 12, entries[0].Stride)
	assert.Equal(t, 12, entries[1].Stride)
	assert.True(t, entries[1].Normalize)
	assert.Equal(t, attribute.ComponentTypeUnsignedByte, entries[1].ComponentType)
	assert.Equal(t, 3, entries[1].ComponentCount)
	assert.Equal(t, 48, entries[0].Stride*count)
}

func TestInterleavedPadsBeforeWiderComponent(t *testing.T) {
	flag := attribute.NewDescriptor("flag", attribute.UnsignedBytes([]uint8{1}))
	weight := attribute.NewDescriptor("weight", attribute.Floats([]float32{1}))
	index := attribute.NewDescriptor("index", attribute.UnsignedShorts([]uint16{1}))

	entries, err := Interleaved([]attribute.Descriptor{flag, weight, index})
	require.NoError(t, err)

	assert.Equal(t, 0, entries[0].Offset)
	assert.Equal(t, 4, entries[1].Offset)
	assert.Equal(t, 8, entries[2].Offset)
	assert.Equal(t, 12, entries[2].Stride)
}

func TestInterleavedBytesOnlyHasNoPadding(t *testing.T) {
	a := attribute.NewDescriptor("a", attribute.UnsignedBytes3([][3]uint8{{1, 2, 3}}))
	b := attribute.NewDescriptor("b", attribute.Bytes([]int8{1}))

	entries, err := Interleaved([]attribute.Descriptor{a, b})
	require.NoError(t, err)
	assert.Equal(t, 3, entries[1].Offset)
	assert.Equal(t, 4, entries[0].Stride)
}

func TestSingle(t *testing.T) {
	for _, kind := range attribute.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			d := attribute.NewDescriptor("a", zeroValue(t, kind, 2), attribute.WithDivisor(1))
			e := Single(d)
			assert.Equal(t, 0, e.Offset)
			assert.Equal(t, kind.ElementSize(), e.Stride)
			assert.Equal(t, uint32(1), e.Divisor)
			assert.Equal(t, kind.ColumnCount(), e.ColumnCount)

			got, ok := e.Kind()
			require.True(t, ok)
			assert.Equal(t, kind, got)

			single, err := Interleaved([]attribute.Descriptor{d})
			require.NoError(t, err)
			assert.Equal(t, []Entry{e}, single)
		})
	}
}

func TestPlanErrors(t *testing.T) {
	two := attribute.NewDescriptor("position", attribute.Vec3s(make([][3]float32, 2)))
	three := attribute.NewDescriptor("normal", attribute.Vec3s(make([][3]float32, 3)))
	empty := attribute.NewDescriptor("uv", attribute.Vec2s(nil))

	tests := []struct {
		name string
		ds   []attribute.Descriptor
		want error
	}{
		{"no attributes", nil, ErrEmptyAttributes},
		{"count mismatch", []attribute.Descriptor{two, three}, ErrVertexCountMismatch},
		{"zero length single", []attribute.Descriptor{empty}, attribute.ErrEmptyValue},
		{"zero length interleaved", []attribute.Descriptor{empty, attribute.NewDescriptor("w", attribute.Floats(nil))}, attribute.ErrEmptyValue},
		{"duplicate name", []attribute.Descriptor{two, two}, ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, _, err := Plan(tt.ds)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, entries)
		})
	}

	_, err := Interleaved(nil)
	assert.ErrorIs(t, err, ErrEmptyAttributes)
}

// checkInvariants asserts alignment and non-overlapping coverage of a planned layout.
func checkInvariants(t *testing.T, entries []Entry) {
	t.Helper()
	stride := entries[0].Stride

	type span struct{ lo, hi int }
	spans := make([]span, 0, len(entries))
	for _, e := range entries {
		size := e.ComponentType.Size()
		assert.Equal(t, stride, e.Stride)
		assert.Zero(t, e.Offset%size, "offset of %s", e.Name)
		assert.Zero(t, e.Stride%size, "stride for %s", e.Name)
		assert.LessOrEqual(t, e.End(), stride)
		spans = append(spans, span{e.Offset, e.End()})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i-1].hi, spans[i].lo, "ranges overlap")
	}
}

func TestInterleavedInvariantsPairs(t *testing.T) {
	kinds := attribute.Kinds()
	for _, a := range kinds {
		for _, b := range kinds {
			entries, err := Interleaved([]attribute.Descriptor{
				attribute.NewDescriptor("a", zeroValue(t, a, 1)),
				attribute.NewDescriptor("b", zeroValue(t, b, 1)),
			})
			require.NoError(t, err)
			checkInvariants(t, entries)
		}
	}
}

func TestInterleavedInvariantsTriples(t *testing.T) {
	kinds := []attribute.Kind{
		attribute.KindUnsignedByte, attribute.KindByte3, attribute.KindShort,
		attribute.KindUnsignedShort3, attribute.KindVec3, attribute.KindMat3, attribute.KindInt2,
	}
	for _, a := range kinds {
		for _, b := range kinds {
			for _, c := range kinds {
				entries, err := Interleaved([]attribute.Descriptor{
					attribute.NewDescriptor("a", zeroValue(t, a, 1)),
					attribute.NewDescriptor("b", zeroValue(t, b, 1)),
					attribute.NewDescriptor("c", zeroValue(t, c, 1)),
				})
				require.NoError(t, err)
				checkInvariants(t, entries)
			}
		}
	}
}

func TestColumns(t *testing.T) {
	mat4 := Single(attribute.NewDescriptor("transform", attribute.Mat4s(make([][16]float32, 1))))
	cols := mat4.Columns()
	require.Len(t, cols, 4)
	for i, c := range cols {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, 4, c.ComponentCount)
		assert.Equal(t, i*16, c.Offset)
	}

	entries, err := Interleaved([]attribute.Descriptor{
		attribute.NewDescriptor("tint", attribute.UnsignedBytes4([][4]uint8{{}})),
		attribute.NewDescriptor("basis", attribute.Mat3s(make([][9]float32, 1))),
	})
	require.NoError(t, err)
	cols = entries[1].Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, []ColumnBinding{
		{Index: 0, ComponentCount: 3, Offset: 4},
		{Index: 1, ComponentCount: 3, Offset: 16},
		{Index: 2, ComponentCount: 3, Offset: 28},
	}, cols)

	plain := entries[0].Columns()
	assert.Equal(t, []ColumnBinding{{Index: 0, ComponentCount: 4, Offset: 0}}, plain)
}

func TestFind(t *testing.T) {
	entries := []Entry{{Name: "position"}, {Name: "color", Offset: 8}}

	e, ok := Find(entries, "color")
	require.True(t, ok)
	assert.Equal(t, 8, e.Offset)

	_, ok = Find(entries, "normal")
	assert.False(t, ok)
}
