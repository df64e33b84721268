package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instancedSource = `
struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) color: vec4f,
    @location(2) transform_0: vec4<f32>,
    @location(3) transform_1: vec4<f32>,
    @location(4) transform_2: vec4<f32>,
    @location(5) transform_3: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexInput, @location(6) weight: f32) -> VertexOutput {
    var out: VertexOutput;
    out.clip = vec4<f32>(in.position * weight, 0.0, 1.0);
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`

func TestNewVertexShader(t *testing.T) {
	s, err := NewShader("instanced", ShaderTypeVertex, instancedSource)
	require.NoError(t, err)

	assert.Equal(t, "instanced", s.Key())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, instancedSource, s.Source())

	inputs := s.Inputs()
	require.Len(t, inputs, 7)
	assert.Equal(t, Input{Name: "position", Location: 0, Type: "vec2<f32>"}, inputs[0])
	assert.Equal(t, Input{Name: "color", Location: 1, Type: "vec4<f32>"}, inputs[1])
	assert.Equal(t, Input{Name: "weight", Location: 6, Type: "f32"}, inputs[6])
	assert.Equal(t, 2, inputs[0].Width())
	assert.Equal(t, 4, inputs[1].Width())
	assert.Equal(t, 1, inputs[6].Width())
}

func TestLocationsResolveMatrixColumns(t *testing.T) {
	s, err := NewShader("instanced", ShaderTypeVertex, instancedSource)
	require.NoError(t, err)

	locs := s.Locations()
	loc, ok := locs.Location("transform")
	require.True(t, ok)
	assert.Equal(t, uint32(2), loc)

	loc, ok = locs.Location("color")
	require.True(t, ok)
	assert.Equal(t, uint32(1), loc)

	_, ok = locs.Location("normal")
	assert.False(t, ok)
}

func TestNewFragmentShader(t *testing.T) {
	s, err := NewShader("instanced-fs", ShaderTypeFragment, instancedSource)
	require.NoError(t, err)
	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.Inputs())
}

func TestNewShaderErrors(t *testing.T) {
	_, err := NewShader("compute", ShaderTypeCompute, instancedSource)
	assert.ErrorIs(t, err, ErrNoEntryPoint)

	dup := `
@vertex
fn main(@location(0) a: vec2<f32>, @location(0) b: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(a + b, 0.0, 1.0);
}
`
	_, err = NewShader("dup", ShaderTypeVertex, dup)
	assert.ErrorIs(t, err, ErrDuplicateLocation)

	_, err = NewShader("broken", ShaderTypeVertex, "fn {")
	assert.Error(t, err)
}

func TestNewShaderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instanced.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(instancedSource), 0o644))

	s, err := NewShaderFromFile("file", ShaderTypeVertex, path)
	require.NoError(t, err)
	assert.Len(t, s.Inputs(), 7)

	_, err = NewShaderFromFile("missing", ShaderTypeVertex, filepath.Join(t.TempDir(), "nope.wgsl"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	src := `
@fragment
fn main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`
	assert.NoError(t, Validate(src))
	assert.Error(t, Validate("fn {"))
}
