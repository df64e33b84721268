package shader

import (
	"fmt"
	"os"
)

// ShaderType identifies the pipeline stage of a shader.
type ShaderType int

const (
	// ShaderTypeCompute indicates a shader containing a @compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	return stageAttribute(t)
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	inputs     []Input
	locations  Locations
}

// Shader is a parsed WGSL shader. Vertex shaders expose their @location inputs so that
// vertex buffer layouts can be bound to them by attribute name.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType retrieves the pipeline stage of the shader.
	//
	// Returns:
	//   - ShaderType: the stage
	ShaderType() ShaderType

	// EntryPoint retrieves the name of the entry point function for the shader's stage.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// Inputs retrieves the vertex inputs sorted by location. Empty for non-vertex shaders.
	//
	// Returns:
	//   - []Input: the @location inputs of the vertex entry point
	Inputs() []Input

	// Locations retrieves the vertex inputs keyed by name.
	//
	// Returns:
	//   - Locations: name to @location
	Locations() Locations
}

var _ Shader = &shader{}

// NewShader parses WGSL source and reflects its entry point and vertex inputs.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage whose entry point is reflected
//   - source: the WGSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: a parse error, or ErrNoEntryPoint
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	r, err := reflectSource(source, shaderType)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
		entryPoint: r.entryPoint,
		inputs:     r.inputs,
		locations:  make(Locations, len(r.inputs)),
	}
	for _, in := range r.inputs {
		s.locations[in.Name] = in.Location
	}
	return s, nil
}

// NewShaderFromFile reads WGSL source from path and parses it with NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage whose entry point is reflected
//   - path: the file path to read WGSL source from
//
// Returns:
//   - Shader: the parsed shader
//   - error: a read or parse error
func NewShaderFromFile(key string, shaderType ShaderType, path string) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read source file %q: %w", key, path, err)
	}
	return NewShader(key, shaderType, string(data))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Inputs() []Input {
	out := make([]Input, len(s.inputs))
	copy(out, s.inputs)
	return out
}

func (s *shader) Locations() Locations {
	return s.locations
}
