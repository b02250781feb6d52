// package element defines the closed set of SDF primitive types the engine can pack, their fixed record sizes
// and the descriptor the registry keeps for each tracked shape.
package element

import (
	"errors"
	"fmt"
)

// Type is the primitive kind of a shape. Its value is the integer tag written into the geometry record.
type Type int32

const (
	Sphere Type = iota
	BoxSimple
	Box
	RoundBox
	Border
)

// ErrUnknownType is returned for a Type outside the closed set.
var ErrUnknownType = errors.New("element: unknown element type")

// recordSizes holds the number of vec4 units each type occupies in the geometry buffer.
var recordSizes = [...]int{
	Sphere:    4,
	BoxSimple: 4,
	Box:       6,
	RoundBox:  5,
	Border:    5,
}

var typeNames = [...]string{
	Sphere:    "sphere",
	BoxSimple: "box-simple",
	Box:       "box",
	RoundBox:  "round-box",
	Border:    "border",
}

// Valid reports whether t is one of the known element types.
func (t Type) Valid() bool {
	return t >= Sphere && int(t) < len(recordSizes)
}

// RecordSize returns the number of vec4 units a record of this type occupies.
// Returns 0 for an unknown type.
func (t Type) RecordSize() int {
	if !t.Valid() {
		return 0
	}
	return recordSizes[t]
}

// Slots returns the number of 32-bit scalars a record of this type occupies.
func (t Type) Slots() int {
	return t.RecordSize() * 4
}

// Tag returns the integer tag written into the geometry record.
func (t Type) Tag() int32 {
	return int32(t)
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int32(t))
	}
	return typeNames[t]
}

// ParseType resolves a type name such as "round-box" to its Type.
//
// Parameters:
//   - name: the kebab-case type name
//
// Returns:
//   - Type: the matching type
//   - error: ErrUnknownType if the name is not recognized
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Types returns every known element type in tag order.
func Types() []Type {
	out := make([]Type, len(recordSizes))
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// RadiusType selects the corner profile of a Box.
type RadiusType int32

const (
	RadiusSharp RadiusType = iota
	RadiusRound
	RadiusChamfer
)

// ParseRadiusType resolves "sharp", "round" or "chamfer". Anything else yields RadiusSharp and false.
func ParseRadiusType(name string) (RadiusType, bool) {
	switch name {
	case "sharp":
		return RadiusSharp, true
	case "round":
		return RadiusRound, true
	case "chamfer":
		return RadiusChamfer, true
	}
	return RadiusSharp, false
}
