package shader

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/wgsl"
)

var (
	// ErrNoEntryPoint is returned when a shader has no entry point for its stage.
	ErrNoEntryPoint = errors.New("shader has no entry point for its stage")
	// ErrDuplicateLocation is returned when two vertex inputs share a @location.
	ErrDuplicateLocation = errors.New("duplicate vertex input location")
)

// stageAttribute returns the WGSL entry point attribute for a shader type.
func stageAttribute(t ShaderType) string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "compute"
	}
}

// reflection is the metadata extracted from a parsed WGSL module.
type reflection struct {
	entryPoint string
	inputs     []Input
}

// reflectSource parses source and extracts the entry point for the stage and, for vertex shaders,
// every @location input reachable from the entry point's parameters.
func reflectSource(source string, t ShaderType) (reflection, error) {
	module, err := naga.Parse(source)
	if err != nil {
		return reflection{}, err
	}

	want := stageAttribute(t)
	var entry *wgsl.FunctionDecl
	for _, fn := range module.Functions {
		if hasAttribute(fn.Attributes, want) {
			entry = fn
			break
		}
	}
	if entry == nil {
		return reflection{}, fmt.Errorf("@%s: %w", want, ErrNoEntryPoint)
	}

	r := reflection{entryPoint: entry.Name}
	if t != ShaderTypeVertex {
		return r, nil
	}

	structs := make(map[string]*wgsl.StructDecl, len(module.Structs))
	for _, s := range module.Structs {
		structs[s.Name] = s
	}

	for _, p := range entry.Params {
		if loc, ok := locationOf(p.Attributes); ok {
			r.inputs = append(r.inputs, Input{Name: p.Name, Location: loc, Type: typeName(p.Type)})
			continue
		}
		named, ok := p.Type.(*wgsl.NamedType)
		if !ok {
			continue
		}
		s, ok := structs[named.Name]
		if !ok {
			continue
		}
		for _, m := range s.Members {
			if loc, ok := locationOf(m.Attributes); ok {
				r.inputs = append(r.inputs, Input{Name: m.Name, Location: loc, Type: typeName(m.Type)})
			}
		}
	}

	sort.Slice(r.inputs, func(i, j int) bool { return r.inputs[i].Location < r.inputs[j].Location })
	for i := 1; i < len(r.inputs); i++ {
		if r.inputs[i].Location == r.inputs[i-1].Location {
			return reflection{}, fmt.Errorf("@location(%d) on %q and %q: %w",
				r.inputs[i].Location, r.inputs[i-1].Name, r.inputs[i].Name, ErrDuplicateLocation)
		}
	}
	return r, nil
}

func hasAttribute(attrs []wgsl.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// locationOf returns the integer argument of a @location attribute.
func locationOf(attrs []wgsl.Attribute) (uint32, bool) {
	for _, a := range attrs {
		if a.Name != "location" || len(a.Args) != 1 {
			continue
		}
		lit, ok := a.Args[0].(*wgsl.Literal)
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseUint(strings.TrimRight(lit.Value, "iu"), 10, 32)
		if err != nil {
			return 0, false
		}
		return uint32(v), true
	}
	return 0, false
}

// typeName renders a WGSL type in long form, expanding shorthand aliases.
func typeName(t wgsl.Type) string {
	named, ok := t.(*wgsl.NamedType)
	if !ok {
		return ""
	}
	if long, ok := wgslShorthandTypes[named.Name]; ok {
		return long
	}
	if len(named.TypeParams) == 0 {
		return named.Name
	}
	params := make([]string, len(named.TypeParams))
	for i, p := range named.TypeParams {
		params[i] = typeName(p)
	}
	return named.Name + "<" + strings.Join(params, ", ") + ">"
}

// Validate parses and lowers WGSL source to catch syntax and type errors before the
// source reaches the GPU driver.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - error: the first parse or lowering error
func Validate(source string) error {
	module, err := naga.Parse(source)
	if err != nil {
		return err
	}
	if _, err := naga.LowerWithSource(module, source); err != nil {
		return fmt.Errorf("lowering error: %w", err)
	}
	return nil
}
