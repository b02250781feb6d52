package element

import "math"

// Params is the type-specific tail of a geometry record.
// The set of implementations is closed: one struct per Type.
type Params interface {
	// Type returns the element type these parameters belong to.
	Type() Type

	// AppendTail appends the tail words of the record, in wire order, to dst.
	//
	// Parameters:
	//   - dst: the destination word slice
	//
	// Returns:
	//   - []uint32: dst extended with the tail words
	AppendTail(dst []uint32) []uint32

	sealed()
}

// SphereParams is the tail of a Sphere record.
type SphereParams struct {
	Radius float32
}

// BoxSimpleParams is the tail of a BoxSimple record.
type BoxSimpleParams struct {
	HalfWidth, HalfHeight, HalfDepth float32
}

// BoxParams is the tail of a Box record. Corner radii are ordered top-left, top-right, bottom-right, bottom-left.
type BoxParams struct {
	HalfWidth, HalfHeight, HalfDepth float32
	Radii                            [4]float32
	RadiusType                       RadiusType
}

// RoundBoxParams is the tail of a RoundBox record.
type RoundBoxParams struct {
	HalfWidth, HalfHeight, HalfDepth float32
	Radius                           float32
}

// BorderParams is the tail of a Border record.
type BorderParams struct {
	HalfWidth, HalfHeight, HalfDepth float32
	Thickness                        float32
	Radius                           float32
}

var (
	_ Params = SphereParams{}
	_ Params = BoxSimpleParams{}
	_ Params = BoxParams{}
	_ Params = RoundBoxParams{}
	_ Params = BorderParams{}
)

func (SphereParams) Type() Type    { return Sphere }
func (BoxSimpleParams) Type() Type { return BoxSimple }
func (BoxParams) Type() Type       { return Box }
func (RoundBoxParams) Type() Type  { return RoundBox }
func (BorderParams) Type() Type    { return Border }

func (SphereParams) sealed()    {}
func (BoxSimpleParams) sealed() {}
func (BoxParams) sealed()       {}
func (RoundBoxParams) sealed()  {}
func (BorderParams) sealed()    {}

func (p SphereParams) AppendTail(dst []uint32) []uint32 {
	return append(dst, math.Float32bits(p.Radius))
}

func (p BoxSimpleParams) AppendTail(dst []uint32) []uint32 {
	return appendFloats(dst, p.HalfWidth, p.HalfHeight, p.HalfDepth)
}

func (p BoxParams) AppendTail(dst []uint32) []uint32 {
	dst = appendFloats(dst, p.HalfWidth, p.HalfHeight, p.HalfDepth)
	dst = appendFloats(dst, p.Radii[:]...)
	return append(dst, uint32(p.RadiusType))
}

func (p RoundBoxParams) AppendTail(dst []uint32) []uint32 {
	return appendFloats(dst, p.HalfWidth, p.HalfHeight, p.HalfDepth, p.Radius)
}

func (p BorderParams) AppendTail(dst []uint32) []uint32 {
	return appendFloats(dst, p.HalfWidth, p.HalfHeight, p.HalfDepth, p.Thickness, p.Radius)
}

func appendFloats(dst []uint32, values ...float32) []uint32 {
	for _, v := range values {
		dst = append(dst, math.Float32bits(v))
	}
	return dst
}
