package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-vbuf/engine/attribute"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/layout"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(t *testing.T, ds ...attribute.Descriptor) []layout.Entry {
	t.Helper()
	entries, _, err := layout.Plan(ds)
	require.NoError(t, err)
	return entries
}

func TestBindLayoutsInterleaved(t *testing.T) {
	entries := plan(t,
		attribute.NewDescriptor("position", attribute.Vec2s([][2]float32{{0, 0}, {1, 1}})),
		attribute.NewDescriptor("color", attribute.UnsignedBytes4([][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 255}}), attribute.WithNormalize(true)),
	)

	vbl, err := BindLayouts(entries, shader.Locations{"position": 0, "color": 1})
	require.NoError(t, err)

	assert.Equal(t, uint64(12), vbl.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, vbl.StepMode)
	assert.Equal(t, []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatUnorm8x4, Offset: 8, ShaderLocation: 1},
	}, vbl.Attributes)
}

func TestBindLayoutsMatrixColumns(t *testing.T) {
	entries := plan(t,
		attribute.NewDescriptor("transform", attribute.Mat4s(make([][16]float32, 3)), attribute.WithDivisor(1)),
	)

	vbl, err := BindLayouts(entries, shader.Locations{"transform_0": 2, "transform_1": 3, "transform_2": 4, "transform_3": 5})
	require.NoError(t, err)

	assert.Equal(t, uint64(64), vbl.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, vbl.StepMode)
	require.Len(t, vbl.Attributes, 4)
	for i, a := range vbl.Attributes {
		assert.Equal(t, wgpu.VertexFormatFloat32x4, a.Format)
		assert.Equal(t, uint64(i*16), a.Offset)
		assert.Equal(t, uint32(2+i), a.ShaderLocation)
	}
}

func TestBindLayoutsSkipsUnconsumed(t *testing.T) {
	entries := plan(t,
		attribute.NewDescriptor("position", attribute.Vec3s([][3]float32{{0, 0, 0}})),
		attribute.NewDescriptor("normal", attribute.Vec3s([][3]float32{{0, 0, 1}})),
	)

	vbl, err := BindLayouts(entries, shader.Locations{"position": 0})
	require.NoError(t, err)
	assert.Equal(t, uint64(24), vbl.ArrayStride)
	require.Len(t, vbl.Attributes, 1)
	assert.Equal(t, uint32(0), vbl.Attributes[0].ShaderLocation)
}

func TestBindLayoutsErrors(t *testing.T) {
	locs := shader.Locations{"a": 0, "b": 1}

	tests := []struct {
		name    string
		entries []layout.Entry
		err     error
	}{
		{
			name:    "empty",
			entries: nil,
			err:     layout.ErrEmptyAttributes,
		},
		{
			name: "divisor above one",
			entries: plan(t,
				attribute.NewDescriptor("a", attribute.Floats([]float32{1}), attribute.WithDivisor(2))),
			err: ErrUnsupportedDivisor,
		},
		{
			name: "three byte components",
			entries: plan(t,
				attribute.NewDescriptor("a", attribute.UnsignedBytes3([][3]uint8{{1, 2, 3}})),
				attribute.NewDescriptor("b", attribute.Floats([]float32{1}))),
			err: ErrUnsupportedFormat,
		},
		{
			name: "mixed step modes",
			entries: plan(t,
				attribute.NewDescriptor("a", attribute.Floats([]float32{1})),
				attribute.NewDescriptor("b", attribute.Floats([]float32{1}), attribute.WithDivisor(1))),
			err: ErrMixedStepModes,
		},
		{
			name: "unaligned stride",
			entries: plan(t,
				attribute.NewDescriptor("a", attribute.Shorts([]int16{1}))),
			err: ErrUnalignedStride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BindLayouts(tt.entries, locs)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestVertexFormat(t *testing.T) {
	f, err := VertexFormat(attribute.ComponentTypeFloat, 3, true)
	require.NoError(t, err)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, f)

	f, err = VertexFormat(attribute.ComponentTypeShort, 2, true)
	require.NoError(t, err)
	assert.Equal(t, wgpu.VertexFormatSnorm16x2, f)

	_, err = VertexFormat(attribute.ComponentTypeInt, 2, true)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = VertexFormat(attribute.ComponentTypeUnsignedShort, 1, false)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
