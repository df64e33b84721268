package attribute

import "fmt"

// Kind is the closed set of attribute value variants.
// Every variant fixes a component type, a component count and, for matrices, a column count.
type Kind int

const (
	KindFloat Kind = iota
	KindVec2
	KindVec3
	KindVec4
	KindMat2
	KindMat3
	KindMat4

	KindByte
	KindByte2
	KindByte3
	KindByte4
	KindUnsignedByte
	KindUnsignedByte2
	KindUnsignedByte3
	KindUnsignedByte4

	KindShort
	KindShort2
	KindShort3
	KindShort4
	KindUnsignedShort
	KindUnsignedShort2
	KindUnsignedShort3
	KindUnsignedShort4

	KindInt
	KindInt2
	KindInt3
	KindInt4
	KindUnsignedInt
	KindUnsignedInt2
	KindUnsignedInt3
	KindUnsignedInt4

	kindCount
)

// Kinds returns every attribute kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := KindFloat; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k names one of the declared variants.
func (k Kind) Valid() bool {
	return k >= KindFloat && k < kindCount
}

// ComponentType returns the scalar type shared by every component of the kind.
func (k Kind) ComponentType() ComponentType {
	switch k {
	case KindFloat, KindVec2, KindVec3, KindVec4, KindMat2, KindMat3, KindMat4:
		return ComponentTypeFloat
	case KindByte, KindByte2, KindByte3, KindByte4:
		return ComponentTypeByte
	case KindUnsignedByte, KindUnsignedByte2, KindUnsignedByte3, KindUnsignedByte4:
		return ComponentTypeUnsignedByte
	case KindShort, KindShort2, KindShort3, KindShort4:
		return ComponentTypeShort
	case KindUnsignedShort, KindUnsignedShort2, KindUnsignedShort3, KindUnsignedShort4:
		return ComponentTypeUnsignedShort
	case KindInt, KindInt2, KindInt3, KindInt4:
		return ComponentTypeInt
	case KindUnsignedInt, KindUnsignedInt2, KindUnsignedInt3, KindUnsignedInt4:
		return ComponentTypeUnsignedInt
	default:
		panic(fmt.Sprintf("attribute: invalid kind %d", int(k)))
	}
}

// ComponentCount returns the number of scalar components in one element of the kind.
// Matrices report rows * columns.
//
// Returns:
//   - int: 1 through 4 for scalars and vectors, 4, 9 or 16 for matrices
func (k Kind) ComponentCount() int {
	switch k {
	case KindFloat, KindByte, KindUnsignedByte, KindShort, KindUnsignedShort, KindInt, KindUnsignedInt:
		return 1
	case KindVec2, KindByte2, KindUnsignedByte2, KindShort2, KindUnsignedShort2, KindInt2, KindUnsignedInt2:
		return 2
	case KindVec3, KindByte3, KindUnsignedByte3, KindShort3, KindUnsignedShort3, KindInt3, KindUnsignedInt3:
		return 3
	case KindVec4, KindByte4, KindUnsignedByte4, KindShort4, KindUnsignedShort4, KindInt4, KindUnsignedInt4:
		return 4
	case KindMat2:
		return 4
	case KindMat3:
		return 9
	case KindMat4:
		return 16
	default:
		panic(fmt.Sprintf("attribute: invalid kind %d", int(k)))
	}
}

// ColumnCount returns the number of binding slots a matrix kind occupies.
//
// Returns:
//   - int: 2, 3 or 4 for matrices, 0 otherwise
func (k Kind) ColumnCount() int {
	switch k {
	case KindMat2:
		return 2
	case KindMat3:
		return 3
	case KindMat4:
		return 4
	default:
		return 0
	}
}

// IsMatrix reports whether the kind is a matrix.
func (k Kind) IsMatrix() bool {
	return k.ColumnCount() > 0
}

// ElementSize returns the byte size of one element of the kind.
func (k Kind) ElementSize() int {
	return k.ComponentCount() * k.ComponentType().Size()
}

// KindOf returns the vector or scalar kind for a component type and count.
// Matrices are not reachable through this function.
//
// Parameters:
//   - ct: the component type
//   - count: the number of components, 1 through 4
//
// Returns:
//   - Kind: the matching kind
//   - bool: false if no kind matches
func KindOf(ct ComponentType, count int) (Kind, bool) {
	if count < 1 || count > 4 {
		return 0, false
	}
	var base Kind
	switch ct {
	case ComponentTypeFloat:
		base = KindFloat
	case ComponentTypeByte:
		base = KindByte
	case ComponentTypeUnsignedByte:
		base = KindUnsignedByte
	case ComponentTypeShort:
		base = KindShort
	case ComponentTypeUnsignedShort:
		base = KindUnsignedShort
	case ComponentTypeInt:
		base = KindInt
	case ComponentTypeUnsignedInt:
		base = KindUnsignedInt
	default:
		return 0, false
	}
	return base + Kind(count-1), true
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	switch k {
	case KindFloat:
		return "float"
	case KindVec2, KindVec3, KindVec4:
		return fmt.Sprintf("vec%d", k.ComponentCount())
	case KindMat2, KindMat3, KindMat4:
		return fmt.Sprintf("mat%d", k.ColumnCount())
	}
	n := k.ComponentCount()
	if n == 1 {
		return k.ComponentType().String()
	}
	return fmt.Sprintf("%s%d", k.ComponentType(), n)
}
