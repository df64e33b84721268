package attribute

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName is returned when a descriptor has no attribute name.
	ErrEmptyName = errors.New("attribute name is empty")
	// ErrEmptyValue is returned when a descriptor carries zero elements.
	ErrEmptyValue = errors.New("attribute value has no elements")
)

// Descriptor is a named attribute stream handed to the layout step.
// Descriptors are values: the vertex buffer serializes them once and never writes back.
type Descriptor struct {
	// Name is the attribute name the shader binds by, e.g. "position".
	Name string
	// Value holds one element per vertex or instance.
	Value Value
	// Normalize maps integer components to [0, 1] or [-1, 1] when read by the shader.
	Normalize bool
	// Divisor is the instancing rate: 0 advances per vertex, N advances every N instances.
	Divisor uint32
}

// NewDescriptor creates a new Descriptor with the provided options.
//
// Parameters:
//   - name: the attribute name
//   - value: the typed element array
//   - options: optional configuration functions
//
// Returns:
//   - Descriptor: the configured descriptor
func NewDescriptor(name string, value Value, options ...DescriptorBuilderOption) Descriptor {
	d := Descriptor{
		Name:  name,
		Value: value,
	}
	for _, opt := range options {
		opt(&d)
	}
	return d
}

// Count returns the number of elements in the descriptor's value.
func (d Descriptor) Count() int {
	return d.Value.Count()
}

// Instanced reports whether the attribute advances per instance.
func (d Descriptor) Instanced() bool {
	return d.Divisor > 0
}

// Validate checks the preconditions for laying out and serializing the descriptor.
//
// Returns:
//   - error: ErrEmptyName, ErrInvalidKind or ErrEmptyValue wrapped with the attribute name
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return ErrEmptyName
	}
	if !d.Value.Kind().Valid() {
		return fmt.Errorf("attribute %q: %w", d.Name, ErrInvalidKind)
	}
	if d.Value.Count() == 0 {
		return fmt.Errorf("attribute %q: %w", d.Name, ErrEmptyValue)
	}
	return nil
}
