package attribute

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidKind is returned when a Kind outside the declared set is decoded.
	ErrInvalidKind = errors.New("invalid attribute kind")
	// ErrShortBuffer is returned when a source or destination is too small for the requested elements.
	ErrShortBuffer = errors.New("buffer too small for attribute data")
)

// EncodeElement writes element i of the value into dst in little-endian byte order.
// dst must hold at least ElementSize bytes; bytes past ElementSize are untouched.
//
// Parameters:
//   - i: the element index, 0 <= i < Count
//   - dst: the destination, typically a slice of a packed vertex buffer
func (v Value) EncodeElement(i int, dst []byte) {
	n := v.kind.ComponentCount()
	base := i * n
	_ = dst[v.kind.ElementSize()-1]

	switch v.kind.ComponentType() {
	case ComponentTypeByte:
		for c := range n {
			dst[c] = byte(v.i8[base+c])
		}
	case ComponentTypeUnsignedByte:
		copy(dst[:n], v.u8[base:base+n])
	case ComponentTypeShort:
		for c := range n {
			binary.LittleEndian.PutUint16(dst[c*2:], uint16(v.i16[base+c]))
		}
	case ComponentTypeUnsignedShort:
		for c := range n {
			binary.LittleEndian.PutUint16(dst[c*2:], v.u16[base+c])
		}
	case ComponentTypeInt:
		for c := range n {
			binary.LittleEndian.PutUint32(dst[c*4:], uint32(v.i32[base+c]))
		}
	case ComponentTypeUnsignedInt:
		for c := range n {
			binary.LittleEndian.PutUint32(dst[c*4:], v.u32[base+c])
		}
	case ComponentTypeFloat:
		for c := range n {
			binary.LittleEndian.PutUint32(dst[c*4:], math.Float32bits(v.f32[base+c]))
		}
	}
}

// Encode serializes every element tightly packed, without padding.
//
// Returns:
//   - []byte: Count * ElementSize bytes
func (v Value) Encode() []byte {
	size := v.kind.ElementSize()
	count := v.Count()
	out := make([]byte, size*count)
	for i := range count {
		v.EncodeElement(i, out[i*size:])
	}
	return out
}

// Decode reads count tightly packed little-endian elements of the given kind.
// It is the inverse of Encode.
//
// Parameters:
//   - kind: the kind of each element
//   - src: the packed bytes, at least count * kind.ElementSize() long
//   - count: the number of elements to read
//
// Returns:
//   - Value: the decoded value
//   - error: ErrInvalidKind or ErrShortBuffer
func Decode(kind Kind, src []byte, count int) (Value, error) {
	if !kind.Valid() {
		return Value{}, fmt.Errorf("decode %d: %w", int(kind), ErrInvalidKind)
	}
	size := kind.ElementSize()
	if count < 0 || len(src) < size*count {
		return Value{}, fmt.Errorf("decode %d x %s from %d bytes: %w", count, kind, len(src), ErrShortBuffer)
	}
	return decodeStrided(kind, src, count, size), nil
}

// DecodeStrided reads count elements of the given kind, where element i starts at i*stride.
// It reads one attribute back out of an interleaved buffer whose slice begins at the attribute's offset.
//
// Parameters:
//   - kind: the kind of each element
//   - src: bytes starting at the first element
//   - count: the number of elements
//   - stride: the byte distance between consecutive elements, at least kind.ElementSize()
//
// Returns:
//   - Value: the decoded value
//   - error: ErrInvalidKind or ErrShortBuffer
func DecodeStrided(kind Kind, src []byte, count, stride int) (Value, error) {
	if !kind.Valid() {
		return Value{}, fmt.Errorf("decode %d: %w", int(kind), ErrInvalidKind)
	}
	size := kind.ElementSize()
	if count < 0 || stride < size {
		return Value{}, fmt.Errorf("decode %d x %s with stride %d: %w", count, kind, stride, ErrShortBuffer)
	}
	if count > 0 && len(src) < (count-1)*stride+size {
		return Value{}, fmt.Errorf("decode %d x %s from %d bytes: %w", count, kind, len(src), ErrShortBuffer)
	}
	return decodeStrided(kind, src, count, stride), nil
}

func decodeStrided(kind Kind, src []byte, count, stride int) Value {
	n := kind.ComponentCount()
	v := Value{kind: kind}
	total := n * count

	switch kind.ComponentType() {
	case ComponentTypeByte:
		v.i8 = make([]int8, total)
		for i := range count {
			for c := range n {
				v.i8[i*n+c] = int8(src[i*stride+c])
			}
		}
	case ComponentTypeUnsignedByte:
		v.u8 = make([]uint8, total)
		for i := range count {
			copy(v.u8[i*n:i*n+n], src[i*stride:])
		}
	case ComponentTypeShort:
		v.i16 = make([]int16, total)
		for i := range count {
			for c := range n {
				v.i16[i*n+c] = int16(binary.LittleEndian.Uint16(src[i*stride+c*2:]))
			}
		}
	case ComponentTypeUnsignedShort:
		v.u16 = make([]uint16, total)
		for i := range count {
			for c := range n {
				v.u16[i*n+c] = binary.LittleEndian.Uint16(src[i*stride+c*2:])
			}
		}
	case ComponentTypeInt:
		v.i32 = make([]int32, total)
		for i := range count {
			for c := range n {
				v.i32[i*n+c] = int32(binary.LittleEndian.Uint32(src[i*stride+c*4:]))
			}
		}
	case ComponentTypeUnsignedInt:
		v.u32 = make([]uint32, total)
		for i := range count {
			for c := range n {
				v.u32[i*n+c] = binary.LittleEndian.Uint32(src[i*stride+c*4:])
			}
		}
	case ComponentTypeFloat:
		v.f32 = make([]float32, total)
		for i := range count {
			for c := range n {
				v.f32[i*n+c] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*stride+c*4:]))
			}
		}
	}
	return v
}
