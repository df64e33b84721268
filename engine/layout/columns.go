package layout

// ColumnBinding is one binding slot of an attribute as seen by the shader.
// Non-matrix attributes have exactly one; a matrix has one per column.
type ColumnBinding struct {
	// Index is the column index, added to the attribute's base shader location.
	Index          int
	ComponentCount int
	// Offset is the byte offset of the column from the start of each vertex.
	Offset int
}

// Columns splits the entry into its shader binding slots.
// A matrix with C columns and N components yields C bindings of N/C components,
// spaced (N/C) * component size bytes apart, starting at the entry offset.
//
// Returns:
//   - []ColumnBinding: the binding slots in location order
func (e Entry) Columns() []ColumnBinding {
	if e.ColumnCount == 0 {
		return []ColumnBinding{{Index: 0, ComponentCount: e.ComponentCount, Offset: e.Offset}}
	}

	perColumn := e.ComponentCount / e.ColumnCount
	step := perColumn * e.ComponentType.Size()
	out := make([]ColumnBinding, e.ColumnCount)
	for i := range out {
		out[i] = ColumnBinding{
			Index:          i,
			ComponentCount: perColumn,
			Offset:         e.Offset + i*step,
		}
	}
	return out
}
