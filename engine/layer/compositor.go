package layer

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
)

// Compositor owns the layer table and keeps each layer's element count in step with the registry.
// The number of layers is fixed at construction. Thread-safe for concurrent access.
type Compositor interface {
	// Recompute recounts ElementsInLayer from shapes ordered by layer index in a single pass.
	// Layers without shapes are zeroed. On error the previous counts are kept.
	//
	// Parameters:
	//   - shapes: the registry's shapes in packing order
	//
	// Returns:
	//   - error: ErrLayerIndexOutOfRange or ErrUnsorted
	Recompute(shapes []element.ShapeDescriptor) error

	// Layers returns a copy of the layer slots.
	Layers() []Layer

	// Len returns the number of layer slots.
	Len() int

	// SetLayer reconfigures the operation and smoothing factor of one slot.
	//
	// Parameters:
	//   - index: the layer index
	//   - op: the operation
	//   - smoothing: the smoothing factor in pixels
	//
	// Returns:
	//   - error: ErrLayerIndexOutOfRange or ErrUnknownOperation
	SetLayer(index int, op Operation, smoothing float32) error

	// Table returns the layer description with smoothing factors divided by the viewport width.
	//
	// Parameters:
	//   - viewportWidth: the drawing area width in pixels
	//
	// Returns:
	//   - Table: the layer table
	Table(viewportWidth float32) Table
}

type compositor struct {
	mu          sync.RWMutex
	layers      []Layer
	numElements int
}

var _ Compositor = &compositor{}

// NewCompositor creates a new Compositor with the given layer slots.
// Panics if layers is empty, longer than MaxLayers or contains an unknown operation, since the evaluator
// cannot run with such a table.
//
// Parameters:
//   - layers: the layer slots; counts are ignored and recomputed
//
// Returns:
//   - Compositor: the newly created Compositor
func NewCompositor(layers []Layer) Compositor {
	if err := Validate(layers); err != nil {
		panic(err)
	}
	c := &compositor{layers: slices.Clone(layers)}
	for i := range c.layers {
		c.layers[i].ElementsInLayer = 0
	}
	return c
}

// Validate checks that a layer table can be used by the evaluator.
//
// Parameters:
//   - layers: the layer slots
//
// Returns:
//   - error: ErrTooManyLayers or ErrUnknownOperation
func Validate(layers []Layer) error {
	if len(layers) == 0 || len(layers) > MaxLayers {
		return fmt.Errorf("%w: %d layers, want 1..%d", ErrTooManyLayers, len(layers), MaxLayers)
	}
	for i, l := range layers {
		if !l.Operation.Valid() {
			return fmt.Errorf("%w: layer %d: %d", ErrUnknownOperation, i, int32(l.Operation))
		}
	}
	return nil
}

func (c *compositor) Recompute(shapes []element.ShapeDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := make([]int, len(c.layers))
	prev := 0
	for i, s := range shapes {
		if s.LayerIndex < 0 || s.LayerIndex >= len(c.layers) {
			return fmt.Errorf("%w: shape %d references layer %d of %d", ErrLayerIndexOutOfRange, s.Handle, s.LayerIndex, len(c.layers))
		}
		if i > 0 && s.LayerIndex < prev {
			return fmt.Errorf("%w: layer %d after %d", ErrUnsorted, s.LayerIndex, prev)
		}
		counts[s.LayerIndex]++
		prev = s.LayerIndex
	}

	for i := range c.layers {
		c.layers[i].ElementsInLayer = counts[i]
	}
	c.numElements = len(shapes)
	common.Logger().Debug("layer: recomputed", "elements", len(shapes), "counts", counts)
	return nil
}

func (c *compositor) Layers() []Layer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.layers)
}

func (c *compositor) Len() int {
	return len(c.layers)
}

func (c *compositor) SetLayer(index int, op Operation, smoothing float32) error {
	if index < 0 || index >= len(c.layers) {
		return fmt.Errorf("%w: %d of %d", ErrLayerIndexOutOfRange, index, len(c.layers))
	}
	if !op.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownOperation, int32(op))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layers[index].Operation = op
	c.layers[index].SmoothingFactor = smoothing
	return nil
}

func (c *compositor) Table(viewportWidth float32) Table {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t := Table{
		NumElements:      c.numElements,
		Operations:       make([]Operation, len(c.layers)),
		ElementsInLayer:  make([]int32, len(c.layers)),
		SmoothingFactors: make([]float32, len(c.layers)),
	}
	for i, l := range c.layers {
		t.Operations[i] = l.Operation
		t.ElementsInLayer[i] = int32(l.ElementsInLayer)
		if viewportWidth > 0 {
			t.SmoothingFactors[i] = l.SmoothingFactor / viewportWidth
		}
	}
	return t
}
