package attribute

// ComponentType identifies the scalar type of each component of an attribute.
type ComponentType int

const (
	// ComponentTypeByte is a signed 8-bit integer.
	ComponentTypeByte ComponentType = iota
	// ComponentTypeUnsignedByte is an unsigned 8-bit integer.
	ComponentTypeUnsignedByte
	// ComponentTypeShort is a signed 16-bit integer.
	ComponentTypeShort
	// ComponentTypeUnsignedShort is an unsigned 16-bit integer.
	ComponentTypeUnsignedShort
	// ComponentTypeInt is a signed 32-bit integer.
	ComponentTypeInt
	// ComponentTypeUnsignedInt is an unsigned 32-bit integer.
	ComponentTypeUnsignedInt
	// ComponentTypeFloat is an IEEE-754 32-bit float.
	ComponentTypeFloat
)

// Size returns the byte size of a single component of this type.
// The size doubles as the component's required alignment inside a vertex.
//
// Returns:
//   - int: 1, 2 or 4
func (c ComponentType) Size() int {
	switch c {
	case ComponentTypeByte, ComponentTypeUnsignedByte:
		return 1
	case ComponentTypeShort, ComponentTypeUnsignedShort:
		return 2
	case ComponentTypeInt, ComponentTypeUnsignedInt, ComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// Signed reports whether the component type is a signed integer.
func (c ComponentType) Signed() bool {
	return c == ComponentTypeByte || c == ComponentTypeShort || c == ComponentTypeInt
}

func (c ComponentType) String() string {
	switch c {
	case ComponentTypeByte:
		return "byte"
	case ComponentTypeUnsignedByte:
		return "ubyte"
	case ComponentTypeShort:
		return "short"
	case ComponentTypeUnsignedShort:
		return "ushort"
	case ComponentTypeInt:
		return "int"
	case ComponentTypeUnsignedInt:
		return "uint"
	case ComponentTypeFloat:
		return "float"
	default:
		return "unknown"
	}
}
