package common

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBufferID(t *testing.T) {
	a, b := NextBufferID(), NextBufferID()
	assert.True(t, a.Valid())
	assert.Greater(t, b, a)
	assert.False(t, BufferID(0).Valid())
}

func TestComponentLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	// the default logger drops everything
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))

	var out bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&out, nil)))
	ComponentLogger("buffer_sync").Info("allocated", slog.Int("bytes", 48))
	assert.Contains(t, out.String(), "component=buffer_sync")
	assert.Contains(t, out.String(), "bytes=48")

	SetLogger(nil)
	require.NotNil(t, Logger())
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}

func TestMatrices(t *testing.T) {
	id := Identity()
	assert.Equal(t, id, Mul4(id, id))

	tr := Translation(1, 2, 3)
	assert.Equal(t, tr, Mul4(id, tr))
	assert.Equal(t, float32(1), tr[12])
	assert.Equal(t, float32(2), tr[13])
	assert.Equal(t, float32(3), tr[14])

	// a quarter turn maps +x to +y
	r := RotationZ(math32.Pi / 2)
	assert.InDelta(t, 0, r[0], 1e-6)
	assert.InDelta(t, 1, r[1], 1e-6)

	m := ModelMatrix(5, -1, 0, 2, 3)
	assert.True(t, ApproxEqual4(Mul4(Translation(5, -1, 0), Scale(2, 3, 1)), m, 1e-6))
	assert.False(t, ApproxEqual4(m, id, 1e-6))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
