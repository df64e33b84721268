package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vbuf/engine/attribute"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/layout"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrUnsupportedDivisor is returned for a divisor other than 0 or 1; WebGPU steps per vertex or per instance only.
	ErrUnsupportedDivisor = errors.New("unsupported attribute divisor")
	// ErrUnsupportedFormat is returned when WebGPU has no vertex format for an attribute.
	ErrUnsupportedFormat = errors.New("unsupported vertex format")
	// ErrMixedStepModes is returned when one buffer mixes per-vertex and per-instance attributes.
	ErrMixedStepModes = errors.New("buffer mixes per-vertex and per-instance attributes")
	// ErrUnalignedStride is returned when a buffer stride is not a multiple of 4.
	ErrUnalignedStride = errors.New("vertex buffer stride must be a multiple of 4")
)

// vertexFormatKey identifies a WebGPU vertex format by its component layout.
type vertexFormatKey struct {
	componentType  attribute.ComponentType
	componentCount int
	normalize      bool
}

var vertexFormats = map[vertexFormatKey]wgpu.VertexFormat{
	{attribute.ComponentTypeByte, 2, false}:          wgpu.VertexFormatSint8x2,
	{attribute.ComponentTypeByte, 4, false}:          wgpu.VertexFormatSint8x4,
	{attribute.ComponentTypeByte, 2, true}:           wgpu.VertexFormatSnorm8x2,
	{attribute.ComponentTypeByte, 4, true}:           wgpu.VertexFormatSnorm8x4,
	{attribute.ComponentTypeUnsignedByte, 2, false}:  wgpu.VertexFormatUint8x2,
	{attribute.ComponentTypeUnsignedByte, 4, false}:  wgpu.VertexFormatUint8x4,
	{attribute.ComponentTypeUnsignedByte, 2, true}:   wgpu.VertexFormatUnorm8x2,
	{attribute.ComponentTypeUnsignedByte, 4, true}:   wgpu.VertexFormatUnorm8x4,
	{attribute.ComponentTypeShort, 2, false}:         wgpu.VertexFormatSint16x2,
	{attribute.ComponentTypeShort, 4, false}:         wgpu.VertexFormatSint16x4,
	{attribute.ComponentTypeShort, 2, true}:          wgpu.VertexFormatSnorm16x2,
	{attribute.ComponentTypeShort, 4, true}:          wgpu.VertexFormatSnorm16x4,
	{attribute.ComponentTypeUnsignedShort, 2, false}: wgpu.VertexFormatUint16x2,
	{attribute.ComponentTypeUnsignedShort, 4, false}: wgpu.VertexFormatUint16x4,
	{attribute.ComponentTypeUnsignedShort, 2, true}:  wgpu.VertexFormatUnorm16x2,
	{attribute.ComponentTypeUnsignedShort, 4, true}:  wgpu.VertexFormatUnorm16x4,
	{attribute.ComponentTypeInt, 1, false}:           wgpu.VertexFormatSint32,
	{attribute.ComponentTypeInt, 2, false}:           wgpu.VertexFormatSint32x2,
	{attribute.ComponentTypeInt, 3, false}:           wgpu.VertexFormatSint32x3,
	{attribute.ComponentTypeInt, 4, false}:           wgpu.VertexFormatSint32x4,
	{attribute.ComponentTypeUnsignedInt, 1, false}:   wgpu.VertexFormatUint32,
	{attribute.ComponentTypeUnsignedInt, 2, false}:   wgpu.VertexFormatUint32x2,
	{attribute.ComponentTypeUnsignedInt, 3, false}:   wgpu.VertexFormatUint32x3,
	{attribute.ComponentTypeUnsignedInt, 4, false}:   wgpu.VertexFormatUint32x4,
	{attribute.ComponentTypeFloat, 1, false}:         wgpu.VertexFormatFloat32,
	{attribute.ComponentTypeFloat, 2, false}:         wgpu.VertexFormatFloat32x2,
	{attribute.ComponentTypeFloat, 3, false}:         wgpu.VertexFormatFloat32x3,
	{attribute.ComponentTypeFloat, 4, false}:         wgpu.VertexFormatFloat32x4,
}

// VertexFormat resolves the WebGPU vertex format for one binding slot.
// Normalize is ignored for float components.
//
// Parameters:
//   - ct: the component type
//   - count: the number of components in the slot
//   - normalize: whether integer components are normalized to [0,1] or [-1,1]
//
// Returns:
//   - wgpu.VertexFormat: the matching format
//   - error: ErrUnsupportedFormat if WebGPU has no such format
func VertexFormat(ct attribute.ComponentType, count int, normalize bool) (wgpu.VertexFormat, error) {
	if ct == attribute.ComponentTypeFloat {
		normalize = false
	}
	f, ok := vertexFormats[vertexFormatKey{ct, count, normalize}]
	if !ok {
		n := ""
		if normalize {
			n = " normalized"
		}
		return wgpu.VertexFormatUndefined, fmt.Errorf("%d x %s%s: %w", count, ct, n, ErrUnsupportedFormat)
	}
	return f, nil
}

// BindLayouts translates the layout of one vertex buffer into a WebGPU vertex buffer layout.
//
// Each entry resolves its base shader location from locations; entries the shader does not consume are skipped.
// Matrix entries are split into one attribute per column at consecutive locations.
// A buffer whose entries all have divisor 0 steps per vertex, divisor 1 per instance.
//
// Parameters:
//   - entries: the entries of one buffer, usually VertexBuffer.Layout()
//   - locations: the vertex shader input locations
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout to bind in a render pipeline's vertex state
//   - error: ErrUnsupportedDivisor, ErrUnsupportedFormat, ErrMixedStepModes, ErrUnalignedStride or layout.ErrEmptyAttributes
func BindLayouts(entries []layout.Entry, locations shader.Locations) (wgpu.VertexBufferLayout, error) {
	if len(entries) == 0 {
		return wgpu.VertexBufferLayout{}, layout.ErrEmptyAttributes
	}

	stride := entries[0].Stride
	if stride%4 != 0 {
		return wgpu.VertexBufferLayout{}, fmt.Errorf("stride %d: %w", stride, ErrUnalignedStride)
	}

	stepMode := wgpu.VertexStepModeVertex
	var attrs []wgpu.VertexAttribute
	for i, e := range entries {
		mode, err := stepModeFor(e)
		if err != nil {
			return wgpu.VertexBufferLayout{}, err
		}
		if i == 0 {
			stepMode = mode
		} else if mode != stepMode {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("attribute %q: %w", e.Name, ErrMixedStepModes)
		}

		base, ok := locations.Location(e.Name)
		if !ok {
			continue
		}

		for _, col := range e.Columns() {
			format, err := VertexFormat(e.ComponentType, col.ComponentCount, e.Normalize)
			if err != nil {
				return wgpu.VertexBufferLayout{}, fmt.Errorf("attribute %q: %w", e.Name, err)
			}
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         format,
				Offset:         uint64(col.Offset),
				ShaderLocation: base + uint32(col.Index),
			})
		}
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(stride),
		StepMode:    stepMode,
		Attributes:  attrs,
	}, nil
}

func stepModeFor(e layout.Entry) (wgpu.VertexStepMode, error) {
	switch e.Divisor {
	case 0:
		return wgpu.VertexStepModeVertex, nil
	case 1:
		return wgpu.VertexStepModeInstance, nil
	default:
		return wgpu.VertexStepModeVertex, fmt.Errorf("attribute %q divisor %d: %w", e.Name, e.Divisor, ErrUnsupportedDivisor)
	}
}
