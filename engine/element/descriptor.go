package element

// Handle identifies a tracked shape. Handles are assigned in registration order and never reused; 0 is never valid.
type Handle uint64

// ShapeDescriptor is the registry's record of one tracked shape.
// SourceID is a weak reference into the layout provider; the engine never owns or mutates the external shape.
type ShapeDescriptor struct {
	Handle     Handle
	SourceID   string
	LayerIndex int
	Type       Type
}

// RecordSize returns the number of vec4 units the shape occupies in the geometry buffer.
func (d ShapeDescriptor) RecordSize() int {
	return d.Type.RecordSize()
}
