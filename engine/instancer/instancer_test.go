package instancer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/attribute"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/vertex_buffer"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instanceBuffer(t *testing.T, count int) vertex_buffer.VertexBuffer {
	t.Helper()
	vb, err := vertex_buffer.New([]attribute.Descriptor{
		attribute.NewDescriptor("transform", attribute.Mat4s(make([][16]float32, count)), attribute.WithDivisor(1)),
		attribute.NewDescriptor("tint", attribute.Vec4s(make([][4]float32, count)), attribute.WithDivisor(1)),
	})
	require.NoError(t, err)
	return vb
}

func transformAt(t *testing.T, vb vertex_buffer.VertexBuffer, i int) common.Mat4 {
	t.Helper()
	e := vb.Layout()[0]
	v, err := vertex_buffer.Unpack(vb.Bytes(), e, vb.VertexCount())
	require.NoError(t, err)
	var m common.Mat4
	for c := range m {
		m[c] = float32(v.Component(i, c))
	}
	return m
}

func TestNewInstancerValidatesAttribute(t *testing.T) {
	vb := instanceBuffer(t, 2)

	_, err := NewInstancer(vb, "missing")
	assert.ErrorIs(t, err, ErrAttributeNotFound)

	_, err = NewInstancer(vb, "tint")
	assert.ErrorIs(t, err, ErrNotMat4)

	in, err := NewInstancer(vb, "transform")
	require.NoError(t, err)
	assert.Equal(t, 2, in.Len())
	assert.Equal(t, vb, in.Buffer())

	inst, ok := in.Instance(1)
	require.True(t, ok)
	assert.Equal(t, Instance{ScaleX: 1, ScaleY: 1}, inst)
}

func TestUpdateWritesIdentityByDefault(t *testing.T) {
	vb := instanceBuffer(t, 10)
	vb.ClearDirty()

	in, err := NewInstancer(vb, "transform", WithChunkSize(3), WithWorkers(2))
	require.NoError(t, err)

	assert.Equal(t, 10, in.Update(0.016))
	assert.True(t, vb.Dirty())
	for i := range 10 {
		assert.Equal(t, common.Identity(), transformAt(t, vb, i))
	}
}

func TestUpdateAppliesPlacements(t *testing.T) {
	vb := instanceBuffer(t, 3)
	in, err := NewInstancer(vb, "transform")
	require.NoError(t, err)

	require.True(t, in.Set(1, Instance{X: 0.5, Y: -0.25, Angle: math32.Pi / 2, ScaleX: 2, ScaleY: 2}))
	assert.False(t, in.Set(3, Instance{}))
	_, ok := in.Instance(-1)
	assert.False(t, ok)

	in.Update(0)

	want := common.ModelMatrix(0.5, -0.25, math32.Pi/2, 2, 2)
	assert.True(t, common.ApproxEqual4(want, transformAt(t, vb, 1), 1e-6))
	assert.Equal(t, common.Identity(), transformAt(t, vb, 0))

	got := transformAt(t, vb, 1)
	assert.InDelta(t, 0.5, got[12], 1e-6)
	assert.InDelta(t, -0.25, got[13], 1e-6)
}

func TestUpdateAnimatesInParallel(t *testing.T) {
	vb := instanceBuffer(t, 1000)
	in, err := NewInstancer(vb, "transform",
		WithChunkSize(64),
		WithAnimate(func(i int, t float32, inst Instance) Instance {
			inst.X = float32(i) * t
			return inst
		}),
	)
	require.NoError(t, err)

	in.Update(0.5)
	in.Update(0.5)

	for _, i := range []int{0, 1, 63, 64, 500, 999} {
		inst, ok := in.Instance(i)
		require.True(t, ok)
		assert.InDelta(t, float32(i), inst.X, 1e-3)
		assert.InDelta(t, float32(i), transformAt(t, vb, i)[12], 1e-3)
	}
}
