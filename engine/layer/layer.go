// package layer groups packed shapes into an ordered, operator-tagged list of layers that the evaluator
// combines front to back.
package layer

import (
	"errors"
	"fmt"
)

// MaxLayers is the number of layer slots the evaluator's uniform arrays hold.
const MaxLayers = 16

var (
	// ErrLayerIndexOutOfRange is returned when a shape references a layer that does not exist.
	ErrLayerIndexOutOfRange = errors.New("layer: layer index out of range")

	// ErrUnsorted is returned when the compositor is given shapes that are not ordered by layer index.
	ErrUnsorted = errors.New("layer: shapes not ordered by layer index")

	// ErrUnknownOperation is returned for an operation name or value outside the closed set.
	ErrUnknownOperation = errors.New("layer: unknown operation")

	// ErrTooManyLayers is returned when a compositor is configured with more than MaxLayers layers.
	ErrTooManyLayers = errors.New("layer: too many layers")
)

// Operation is the boolean combinator applied to a layer. Its value is the integer written into the
// layer uniform.
type Operation int32

const (
	Union Operation = iota
	Subtraction
	Intersection
	Xor
	SmoothUnion
	SmoothSubtraction
	SmoothIntersection
)

var operationNames = [...]string{
	Union:              "union",
	Subtraction:        "subtraction",
	Intersection:       "intersection",
	Xor:                "xor",
	SmoothUnion:        "smooth-union",
	SmoothSubtraction:  "smooth-subtraction",
	SmoothIntersection: "smooth-intersection",
}

// Valid reports whether op is one of the known operations.
func (op Operation) Valid() bool {
	return op >= Union && int(op) < len(operationNames)
}

// Smooth reports whether the operation blends with a smoothing factor.
func (op Operation) Smooth() bool {
	return op >= SmoothUnion && op <= SmoothIntersection
}

func (op Operation) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Operation(%d)", int32(op))
	}
	return operationNames[op]
}

// ParseOperation resolves a kebab-case operation name such as "smooth-union".
//
// Parameters:
//   - name: the operation name
//
// Returns:
//   - Operation: the matching operation
//   - error: ErrUnknownOperation if the name is not recognized
func ParseOperation(name string) (Operation, error) {
	for i, n := range operationNames {
		if n == name {
			return Operation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Layer is one slot of the layer table.
// SmoothingFactor is in pixels; it is normalized by the viewport width when the table is emitted.
type Layer struct {
	Operation       Operation
	ElementsInLayer int
	SmoothingFactor float32
}

// DefaultLayers returns the default three-layer table: a union base, a smooth union blended over 10px and a
// subtraction layer.
func DefaultLayers() []Layer {
	return []Layer{
		{Operation: Union},
		{Operation: SmoothUnion, SmoothingFactor: 10},
		{Operation: Subtraction},
	}
}

// Table is the per-frame layer description handed to render surfaces as parallel arrays.
type Table struct {
	NumElements      int
	Operations       []Operation
	ElementsInLayer  []int32
	SmoothingFactors []float32
}

// NumLayers returns the number of layer slots.
func (t Table) NumLayers() int {
	return len(t.Operations)
}
