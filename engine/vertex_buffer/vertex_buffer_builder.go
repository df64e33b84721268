package vertex_buffer

// VertexBufferBuilderOption is a function that configures a vertexBuffer.
type VertexBufferBuilderOption func(vb *vertexBuffer)

// WithLabel sets the debug label used for the buffer and its device mirror.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - VertexBufferBuilderOption: a function that applies the label option
func WithLabel(label string) VertexBufferBuilderOption {
	return func(vb *vertexBuffer) {
		if label != "" {
			vb.label = label
		}
	}
}
