package attribute

// DescriptorBuilderOption is a function that configures a Descriptor.
type DescriptorBuilderOption func(d *Descriptor)

// WithNormalize sets whether integer components are normalized when read by the shader.
//
// Parameters:
//   - normalize: true to normalize
//
// Returns:
//   - DescriptorBuilderOption: a function that applies the normalize option
func WithNormalize(normalize bool) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.Normalize = normalize
	}
}

// WithDivisor sets the instancing rate of the attribute.
//
// Parameters:
//   - divisor: 0 for per-vertex data, N to advance every N instances
//
// Returns:
//   - DescriptorBuilderOption: a function that applies the divisor option
func WithDivisor(divisor uint32) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.Divisor = divisor
	}
}
