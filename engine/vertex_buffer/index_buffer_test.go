package vertex_buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexBufferFormats(t *testing.T) {
	tests := []struct {
		name   string
		build  func() (IndexBuffer, error)
		format IndexFormat
		bytes  []byte
	}{
		{
			name:   "uint8 widened",
			build:  func() (IndexBuffer, error) { return NewIndexBuffer8([]uint8{0, 1, 255}) },
			format: IndexFormatUint16,
			bytes:  []byte{0, 0, 1, 0, 255, 0},
		},
		{
			name:   "uint16",
			build:  func() (IndexBuffer, error) { return NewIndexBuffer16([]uint16{2, 0x0102}) },
			format: IndexFormatUint16,
			bytes:  []byte{2, 0, 2, 1},
		},
		{
			name:   "uint32",
			build:  func() (IndexBuffer, error) { return NewIndexBuffer32([]uint32{0x01020304}) },
			format: IndexFormatUint32,
			bytes:  []byte{4, 3, 2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ib, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.format, ib.Format())
			assert.Equal(t, tt.bytes, ib.Bytes())
			assert.Equal(t, len(tt.bytes)/tt.format.Size(), ib.Count())
			assert.True(t, ib.Dirty())
			assert.True(t, ib.ID().Valid())
		})
	}
}

func TestIndexBufferEmpty(t *testing.T) {
	_, err := NewIndexBuffer16(nil)
	assert.ErrorIs(t, err, ErrEmptyIndices)
	_, err = NewIndexBuffer8([]uint8{})
	assert.ErrorIs(t, err, ErrEmptyIndices)
	_, err = NewIndexBuffer32(nil)
	assert.ErrorIs(t, err, ErrEmptyIndices)
}

func TestIndexBufferSetIndex(t *testing.T) {
	ib, err := NewIndexBuffer16([]uint16{0, 1, 2, 2, 3, 0}, WithIndexLabel("quad-indices"))
	require.NoError(t, err)
	assert.Equal(t, "quad-indices", ib.Label())
	ib.ClearDirty()

	assert.False(t, ib.SetIndex(6, 1))
	assert.False(t, ib.SetIndex(0, 70000))
	assert.False(t, ib.Dirty())

	require.True(t, ib.SetIndex(4, 7))
	v, ok := ib.Index(4)
	require.True(t, ok)
	assert.Equal(t, uint32(7), v)

	lo, hi, dirty := ib.DirtyRange()
	require.True(t, dirty)
	assert.Equal(t, 8, lo)
	assert.Equal(t, 10, hi)

	_, ok = ib.Index(-1)
	assert.False(t, ok)
}
