package buffer_sync

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/attribute"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/vertex_buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Syncable = (vertex_buffer.VertexBuffer)(nil)
	_ Syncable = (vertex_buffer.IndexBuffer)(nil)
)

type writeCall struct {
	handle int
	offset uint64
	data   []byte
}

// mockDevice records every device call and hands out integer handles.
type mockDevice struct {
	next      int
	creates   []string
	contents  map[int][]byte
	writes    []writeCall
	released  []int
	createErr error
	writeErr  error
}

func newMockDevice() *mockDevice {
	return &mockDevice{contents: make(map[int][]byte)}
}

func (d *mockDevice) CreateBuffer(label string, usage Usage, data []byte) (Handle, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.next++
	d.creates = append(d.creates, label)
	d.contents[d.next] = bytes.Clone(data)
	return d.next, nil
}

func (d *mockDevice) WriteBuffer(h Handle, offset uint64, data []byte) error {
	if d.writeErr != nil {
		return d.writeErr
	}
	id := h.(int)
	d.writes = append(d.writes, writeCall{handle: id, offset: offset, data: bytes.Clone(data)})
	copy(d.contents[id][offset:], data)
	return nil
}

func (d *mockDevice) ReleaseBuffer(h Handle) {
	d.released = append(d.released, h.(int))
	delete(d.contents, h.(int))
}

func instanceBuffer(t *testing.T, count int) vertex_buffer.VertexBuffer {
	t.Helper()
	vb, err := vertex_buffer.New([]attribute.Descriptor{
		attribute.NewDescriptor("transform", attribute.Mat4s(make([][16]float32, count)), attribute.WithDivisor(1)),
	})
	require.NoError(t, err)
	return vb
}

func TestSyncAllocatesOnce(t *testing.T) {
	dev := newMockDevice()
	s := NewBufferSync(dev)
	vb := instanceBuffer(t, 4)

	assert.Equal(t, StateUnallocated, s.State(vb))

	h, err := s.Sync(vb, UsageVertex)
	require.NoError(t, err)
	assert.Equal(t, 1, h)
	assert.Equal(t, StateClean, s.State(vb))
	assert.False(t, vb.Dirty())
	assert.Equal(t, vb.Bytes(), dev.contents[1])

	h2, err := s.Sync(vb, UsageVertex)
	require.NoError(t, err)
	assert.Equal(t, h, h2)
	assert.Len(t, dev.creates, 1)
	assert.Empty(t, dev.writes)

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Allocations)
	assert.Equal(t, uint64(1), stats.Uploads)
	assert.Equal(t, uint64(256), stats.UploadedBytes)
	assert.Equal(t, 1, stats.Live)
}

func TestSyncUploadsWhenDirty(t *testing.T) {
	dev := newMockDevice()
	s := NewBufferSync(dev)
	vb := instanceBuffer(t, 4)

	_, err := s.Sync(vb, UsageVertex)
	require.NoError(t, err)

	require.True(t, vb.SetMatrix("transform", 3, common.Identity()))
	assert.Equal(t, StateDirty, s.State(vb))

	_, err = s.Sync(vb, UsageVertex)
	require.NoError(t, err)
	require.Len(t, dev.writes, 1)
	assert.Equal(t, uint64(0), dev.writes[0].offset)
	assert.Len(t, dev.writes[0].data, 256)
	assert.Equal(t, vb.Bytes(), dev.contents[1])
	assert.Equal(t, StateClean, s.State(vb))

	// idempotent: a second sync without mutation does nothing
	_, err = s.Sync(vb, UsageVertex)
	require.NoError(t, err)
	assert.Len(t, dev.writes, 1)
	assert.False(t, vb.Dirty())
}

func TestSyncPartialUploads(t *testing.T) {
	dev := newMockDevice()
	s := NewBufferSync(dev, WithPartialUploads(true))
	vb := instanceBuffer(t, 8)

	_, err := s.Sync(vb, UsageVertex)
	require.NoError(t, err)

	vb.SetMatrix("transform", 2, common.Translation(1, 2, 3))
	vb.SetScalar("transform", 4, 5)

	_, err = s.Sync(vb, UsageVertex)
	require.NoError(t, err)
	require.Len(t, dev.writes, 1)
	assert.Equal(t, uint64(128), dev.writes[0].offset)
	assert.Len(t, dev.writes[0].data, 4*64+4-128)
	assert.Equal(t, vb.Bytes(), dev.contents[1])
	assert.Equal(t, uint64(512+132), s.Stats().UploadedBytes)
}

func TestSyncPartialUploadAlignsRange(t *testing.T) {
	dev := newMockDevice()
	s := NewBufferSync(dev, WithPartialUploads(true))
	ib, err := vertex_buffer.NewIndexBuffer16([]uint16{0, 1, 2, 2, 3, 0, 4})
	require.NoError(t, err)

	_, err = s.Sync(ib, UsageIndex)
	require.NoError(t, err)

	require.True(t, ib.SetIndex(3, 9))
	_, err = s.Sync(ib, UsageIndex)
	require.NoError(t, err)

	require.Len(t, dev.writes, 1)
	assert.Equal(t, uint64(4), dev.writes[0].offset)
	assert.Len(t, dev.writes[0].data, 4)

	require.True(t, ib.SetIndex(6, 1))
	_, err = s.Sync(ib, UsageIndex)
	require.NoError(t, err)
	require.Len(t, dev.writes, 2)
	assert.Equal(t, uint64(12), dev.writes[1].offset)
	assert.Len(t, dev.writes[1].data, 2)
	assert.Equal(t, ib.Bytes(), dev.contents[1])
}

func TestSyncCreateFailureIsFatal(t *testing.T) {
	dev := newMockDevice()
	dev.createErr = errors.New("out of memory")
	s := NewBufferSync(dev)
	vb := instanceBuffer(t, 1)

	_, err := s.Sync(vb, UsageVertex)
	require.Error(t, err)
	assert.ErrorIs(t, err, dev.createErr)
	assert.Equal(t, StateUnallocated, s.State(vb))
	assert.True(t, vb.Dirty())

	_, ok := s.Handle(vb.ID())
	assert.False(t, ok)
}

func TestSyncWriteFailureKeepsDirty(t *testing.T) {
	dev := newMockDevice()
	s := NewBufferSync(dev)
	vb := instanceBuffer(t, 1)

	_, err := s.Sync(vb, UsageVertex)
	require.NoError(t, err)

	dev.writeErr = errors.New("device lost")
	vb.SetScalar("transform", 0, 2)

	_, err = s.Sync(vb, UsageVertex)
	assert.ErrorIs(t, err, dev.writeErr)
	assert.True(t, vb.Dirty())
	assert.Equal(t, StateDirty, s.State(vb))
}

func TestRelease(t *testing.T) {
	dev := newMockDevice()
	s := NewBufferSync(dev)
	vb := instanceBuffer(t, 1)

	h, err := s.Sync(vb, UsageVertex)
	require.NoError(t, err)

	got, ok := s.Handle(vb.ID())
	require.True(t, ok)
	assert.Equal(t, h, got)

	s.Release(vb.ID())
	assert.Equal(t, []int{1}, dev.released)
	assert.Equal(t, StateReleased, s.State(vb))

	_, err = s.Sync(vb, UsageVertex)
	assert.ErrorIs(t, err, ErrReleased)
	assert.Len(t, dev.creates, 1)

	// releasing twice does not free the device buffer twice
	s.Release(vb.ID())
	assert.Len(t, dev.released, 1)

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Releases)
	assert.Equal(t, 0, stats.Live)
}

func TestReleaseUnallocated(t *testing.T) {
	dev := newMockDevice()
	s := NewBufferSync(dev)
	vb := instanceBuffer(t, 1)

	s.Release(vb.ID())
	assert.Empty(t, dev.released)
	assert.Equal(t, StateReleased, s.State(vb))

	_, err := s.Sync(vb, UsageVertex)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestReleaseAll(t *testing.T) {
	dev := newMockDevice()
	s := NewBufferSync(dev)
	a, b := instanceBuffer(t, 1), instanceBuffer(t, 2)

	_, err := s.Sync(a, UsageVertex)
	require.NoError(t, err)
	_, err = s.Sync(b, UsageVertex)
	require.NoError(t, err)

	s.ReleaseAll()
	assert.ElementsMatch(t, []int{1, 2}, dev.released)
	assert.Equal(t, StateReleased, s.State(a))
	assert.Equal(t, StateReleased, s.State(b))
	assert.Equal(t, 0, s.Stats().Live)
}

// fixedIDBuffer is a Syncable with a caller-chosen ID.
type fixedIDBuffer struct {
	id    common.BufferID
	data  []byte
	dirty bool
}

func (b *fixedIDBuffer) ID() common.BufferID          { return b.id }
func (b *fixedIDBuffer) Label() string                { return "fixed" }
func (b *fixedIDBuffer) Bytes() []byte                { return b.data }
func (b *fixedIDBuffer) Dirty() bool                  { return b.dirty }
func (b *fixedIDBuffer) ClearDirty()                  { b.dirty = false }
func (b *fixedIDBuffer) DirtyRange() (int, int, bool) { return 0, len(b.data), b.dirty }

func TestSyncRejectsInvalidID(t *testing.T) {
	dev := newMockDevice()
	s := NewBufferSync(dev)

	_, err := s.Sync(&fixedIDBuffer{data: []byte{1, 2, 3, 4}, dirty: true}, UsageVertex)
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Empty(t, dev.creates)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unallocated", StateUnallocated.String())
	assert.Equal(t, "clean", StateClean.String())
	assert.Equal(t, "dirty", StateDirty.String())
	assert.Equal(t, "released", StateReleased.String())
}
