package attribute

// Value is a homogeneous array of attribute elements, one element per vertex or instance.
// Exactly one backing slice is populated, chosen by the kind's component type.
// Elements are stored flat and element-major; matrices are column-major.
type Value struct {
	kind Kind

	i8  []int8
	u8  []uint8
	i16 []int16
	u16 []uint16
	i32 []int32
	u32 []uint32
	f32 []float32
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// ComponentType returns the scalar type of each component.
func (v Value) ComponentType() ComponentType {
	return v.kind.ComponentType()
}

// ComponentCount returns the number of components per element.
func (v Value) ComponentCount() int {
	return v.kind.ComponentCount()
}

// ColumnCount returns the matrix column count, or 0 for non-matrix values.
func (v Value) ColumnCount() int {
	return v.kind.ColumnCount()
}

// ElementSize returns the byte size of one element.
func (v Value) ElementSize() int {
	return v.kind.ElementSize()
}

// Count returns the number of elements (vertices or instances) held.
//
// Returns:
//   - int: the element count, 0 for an empty or zero Value
func (v Value) Count() int {
	if !v.kind.Valid() {
		return 0
	}
	return v.flatLen() / v.kind.ComponentCount()
}

func (v Value) flatLen() int {
	switch v.kind.ComponentType() {
	case ComponentTypeByte:
		return len(v.i8)
	case ComponentTypeUnsignedByte:
		return len(v.u8)
	case ComponentTypeShort:
		return len(v.i16)
	case ComponentTypeUnsignedShort:
		return len(v.u16)
	case ComponentTypeInt:
		return len(v.i32)
	case ComponentTypeUnsignedInt:
		return len(v.u32)
	default:
		return len(v.f32)
	}
}

// Component returns one component of one element widened to float64.
// It is meant for inspection; the codec never goes through float64.
//
// Parameters:
//   - element: the element index
//   - component: the component index within the element
//
// Returns:
//   - float64: the component value
func (v Value) Component(element, component int) float64 {
	i := element*v.kind.ComponentCount() + component
	switch v.kind.ComponentType() {
	case ComponentTypeByte:
		return float64(v.i8[i])
	case ComponentTypeUnsignedByte:
		return float64(v.u8[i])
	case ComponentTypeShort:
		return float64(v.i16[i])
	case ComponentTypeUnsignedShort:
		return float64(v.u16[i])
	case ComponentTypeInt:
		return float64(v.i32[i])
	case ComponentTypeUnsignedInt:
		return float64(v.u32[i])
	default:
		return float64(v.f32[i])
	}
}

func flatten[T any](elems [][]T) []T {
	if len(elems) == 0 {
		return []T{}
	}
	out := make([]T, 0, len(elems)*len(elems[0]))
	for _, e := range elems {
		out = append(out, e...)
	}
	return out
}

func flat2[T any](v [][2]T) []T {
	s := make([][]T, len(v))
	for i := range v {
		s[i] = v[i][:]
	}
	return flatten(s)
}

func flat3[T any](v [][3]T) []T {
	s := make([][]T, len(v))
	for i := range v {
		s[i] = v[i][:]
	}
	return flatten(s)
}

func flat4[T any](v [][4]T) []T {
	s := make([][]T, len(v))
	for i := range v {
		s[i] = v[i][:]
	}
	return flatten(s)
}

func clone[T any](v []T) []T {
	out := make([]T, len(v))
	copy(out, v)
	return out
}

// Floats builds a KindFloat value.
func Floats(v []float32) Value { return Value{kind: KindFloat, f32: clone(v)} }

// Vec2s builds a KindVec2 value.
func Vec2s(v [][2]float32) Value { return Value{kind: KindVec2, f32: flat2(v)} }

// Vec3s builds a KindVec3 value.
func Vec3s(v [][3]float32) Value { return Value{kind: KindVec3, f32: flat3(v)} }

// Vec4s builds a KindVec4 value.
func Vec4s(v [][4]float32) Value { return Value{kind: KindVec4, f32: flat4(v)} }

// Mat2s builds a KindMat2 value from column-major 2x2 matrices.
func Mat2s(v [][4]float32) Value { return Value{kind: KindMat2, f32: flat4(v)} }

// Mat3s builds a KindMat3 value from column-major 3x3 matrices.
func Mat3s(v [][9]float32) Value {
	out := make([]float32, 0, len(v)*9)
	for i := range v {
		out = append(out, v[i][:]...)
	}
	return Value{kind: KindMat3, f32: out}
}

// Mat4s builds a KindMat4 value from column-major 4x4 matrices.
func Mat4s(v [][16]float32) Value {
	out := make([]float32, 0, len(v)*16)
	for i := range v {
		out = append(out, v[i][:]...)
	}
	return Value{kind: KindMat4, f32: out}
}

// Bytes builds a KindByte value.
func Bytes(v []int8) Value { return Value{kind: KindByte, i8: clone(v)} }

// Bytes2 builds a KindByte2 value.
func Bytes2(v [][2]int8) Value { return Value{kind: KindByte2, i8: flat2(v)} }

// Bytes3 builds a KindByte3 value.
func Bytes3(v [][3]int8) Value { return Value{kind: KindByte3, i8: flat3(v)} }

// Bytes4 builds a KindByte4 value.
func Bytes4(v [][4]int8) Value { return Value{kind: KindByte4, i8: flat4(v)} }

// UnsignedBytes builds a KindUnsignedByte value.
func UnsignedBytes(v []uint8) Value { return Value{kind: KindUnsignedByte, u8: clone(v)} }

// UnsignedBytes2 builds a KindUnsignedByte2 value.
func UnsignedBytes2(v [][2]uint8) Value { return Value{kind: KindUnsignedByte2, u8: flat2(v)} }

// UnsignedBytes3 builds a KindUnsignedByte3 value.
func UnsignedBytes3(v [][3]uint8) Value { return Value{kind: KindUnsignedByte3, u8: flat3(v)} }

// UnsignedBytes4 builds a KindUnsignedByte4 value.
func UnsignedBytes4(v [][4]uint8) Value { return Value{kind: KindUnsignedByte4, u8: flat4(v)} }

// Shorts builds a KindShort value.
func Shorts(v []int16) Value { return Value{kind: KindShort, i16: clone(v)} }

// Shorts2 builds a KindShort2 value.
func Shorts2(v [][2]int16) Value { return Value{kind: KindShort2, i16: flat2(v)} }

// Shorts3 builds a KindShort3 value.
func Shorts3(v [][3]int16) Value { return Value{kind: KindShort3, i16: flat3(v)} }

// Shorts4 builds a KindShort4 value.
func Shorts4(v [][4]int16) Value { return Value{kind: KindShort4, i16: flat4(v)} }

// UnsignedShorts builds a KindUnsignedShort value.
func UnsignedShorts(v []uint16) Value { return Value{kind: KindUnsignedShort, u16: clone(v)} }

// UnsignedShorts2 builds a KindUnsignedShort2 value.
func UnsignedShorts2(v [][2]uint16) Value { return Value{kind: KindUnsignedShort2, u16: flat2(v)} }

// UnsignedShorts3 builds a KindUnsignedShort3 value.
func UnsignedShorts3(v [][3]uint16) Value { return Value{kind: KindUnsignedShort3, u16: flat3(v)} }

// UnsignedShorts4 builds a KindUnsignedShort4 value.
func UnsignedShorts4(v [][4]uint16) Value { return Value{kind: KindUnsignedShort4, u16: flat4(v)} }

// Ints builds a KindInt value.
func Ints(v []int32) Value { return Value{kind: KindInt, i32: clone(v)} }

// Ints2 builds a KindInt2 value.
func Ints2(v [][2]int32) Value { return Value{kind: KindInt2, i32: flat2(v)} }

// Ints3 builds a KindInt3 value.
func Ints3(v [][3]int32) Value { return Value{kind: KindInt3, i32: flat3(v)} }

// Ints4 builds a KindInt4 value.
func Ints4(v [][4]int32) Value { return Value{kind: KindInt4, i32: flat4(v)} }

// UnsignedInts builds a KindUnsignedInt value.
func UnsignedInts(v []uint32) Value { return Value{kind: KindUnsignedInt, u32: clone(v)} }

// UnsignedInts2 builds a KindUnsignedInt2 value.
func UnsignedInts2(v [][2]uint32) Value { return Value{kind: KindUnsignedInt2, u32: flat2(v)} }

// UnsignedInts3 builds a KindUnsignedInt3 value.
func UnsignedInts3(v [][3]uint32) Value { return Value{kind: KindUnsignedInt3, u32: flat3(v)} }

// UnsignedInts4 builds a KindUnsignedInt4 value.
func UnsignedInts4(v [][4]uint32) Value { return Value{kind: KindUnsignedInt4, u32: flat4(v)} }
