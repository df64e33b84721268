package shader

import "strings"

// Input is one @location input of a vertex entry point.
type Input struct {
	// Name is the parameter or struct member name.
	Name string
	// Location is the value of the @location attribute.
	Location uint32
	// Type is the WGSL type in long form, e.g. "vec3<f32>".
	Type string
}

// Width returns the number of components of the input type.
//
// Returns:
//   - int: 1 for scalars, 2 to 4 for vectors, 0 for anything else
func (in Input) Width() int {
	switch {
	case in.Type == "f32" || in.Type == "i32" || in.Type == "u32" || in.Type == "f16":
		return 1
	case strings.HasPrefix(in.Type, "vec2<"):
		return 2
	case strings.HasPrefix(in.Type, "vec3<"):
		return 3
	case strings.HasPrefix(in.Type, "vec4<"):
		return 4
	default:
		return 0
	}
}

// Locations maps vertex input names to their @location.
type Locations map[string]uint32

// Location resolves an attribute name to its shader location.
// WGSL forbids matrix vertex inputs, so a matrix attribute "m" is declared as
// column inputs "m_0", "m_1", ... and resolves to the location of "m_0".
//
// Parameters:
//   - name: the attribute name
//
// Returns:
//   - uint32: the base location
//   - bool: false if the shader has no input for the name
func (l Locations) Location(name string) (uint32, bool) {
	if loc, ok := l[name]; ok {
		return loc, true
	}
	loc, ok := l[name+"_0"]
	return loc, ok
}

// wgslShorthandTypes expands predeclared vector aliases to their long form.
var wgslShorthandTypes = map[string]string{
	"vec2f": "vec2<f32>",
	"vec3f": "vec3<f32>",
	"vec4f": "vec4<f32>",
	"vec2i": "vec2<i32>",
	"vec3i": "vec3<i32>",
	"vec4i": "vec4<i32>",
	"vec2u": "vec2<u32>",
	"vec3u": "vec3<u32>",
	"vec4u": "vec4<u32>",
	"vec2h": "vec2<f16>",
	"vec3h": "vec3<f16>",
	"vec4h": "vec4<f16>",
}
