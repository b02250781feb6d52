// package transform resolves a shape's layout placement and CSS transform description into the inverted
// affine basis the evaluator samples with.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/style"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrSingularTransform is returned when a transform's determinant is too small to invert.
	ErrSingularTransform = errors.New("transform: singular transform")

	// ErrMalformedTransform is returned for a transform description that is not none, matrix() or matrix3d().
	// It wraps style.ErrMalformedStyleValue.
	ErrMalformedTransform = fmt.Errorf("%w: transform", style.ErrMalformedStyleValue)
)

// Offset is the renderer-space translation of a shape's centre, normalized by the viewport width.
type Offset struct {
	X, Y, Z float32
}

// Parse converts a computed transform description into a column-major 4x4 matrix.
// "none" and the empty string yield identity. A 2-D matrix(a, b, c, d, e, f) is lifted to
// [a b 0 0  c d 0 0  0 0 1 0  e f 0 1]; matrix3d takes its 16 values verbatim.
//
// Parameters:
//   - description: the transform description
//
// Returns:
//   - mgl32.Mat4: the parsed matrix
//   - error: ErrMalformedTransform if the description is not recognized
func Parse(description string) (mgl32.Mat4, error) {
	d := strings.TrimSpace(description)
	if d == "" || strings.EqualFold(d, "none") {
		return mgl32.Ident4(), nil
	}

	name, args, err := style.ParseFunction(d)
	if err != nil {
		return mgl32.Mat4{}, fmt.Errorf("%w: %w", ErrMalformedTransform, err)
	}
	values := make([]float32, len(args))
	for i, a := range args {
		if a.Unit != "" && a.Unit != "px" {
			return mgl32.Mat4{}, fmt.Errorf("%w: %q: unsupported unit %s", ErrMalformedTransform, description, a.Unit)
		}
		values[i] = float32(a.Value)
	}

	switch {
	case name == "matrix" && len(values) == 6:
		return Lift2D(values[0], values[1], values[2], values[3], values[4], values[5]), nil
	case name == "matrix3d" && len(values) == 16:
		var m mgl32.Mat4
		copy(m[:], values)
		return m, nil
	}
	return mgl32.Mat4{}, fmt.Errorf("%w: %q: %s with %d values", ErrMalformedTransform, description, name, len(values))
}

// Lift2D embeds a 2-D affine transform in a 4x4 column-major matrix.
func Lift2D(a, b, c, d, e, f float32) mgl32.Mat4 {
	return mgl32.Mat4{
		a, b, 0, 0,
		c, d, 0, 0,
		0, 0, 1, 0,
		e, f, 0, 1,
	}
}

// Placement computes the normalized centre of a layout rectangle. Both axes are divided by the viewport
// width; the z component is the style z offset plus half the shape's depth.
//
// Parameters:
//   - rect: the shape's bounding rectangle in pixels
//   - viewport: the drawing area
//   - depth: the shape's depth in normalized units
//   - z: the shape's z offset in normalized units
//
// Returns:
//   - Offset: the centre in renderer space
func Placement(rect common.Rect, viewport common.Viewport, depth, z float32) Offset {
	halfW := rect.Width / viewport.Width * 0.5
	halfH := rect.Height / viewport.Width * 0.5
	return Offset{
		X: rect.Left/viewport.Width + halfW,
		Y: rect.Top/viewport.Width + halfH,
		Z: z + depth*0.5,
	}
}

// WithTranslation returns m with its translation row replaced by the offset; the linear block is kept.
func WithTranslation(m mgl32.Mat4, o Offset) mgl32.Mat4 {
	m[12], m[13], m[14], m[15] = o.X, o.Y, o.Z, 1
	return m
}

// Resolve parses the description and overwrites its translation with the layout offset.
// Translation carried by the description is discarded; the layout rectangle already reflects it.
//
// Parameters:
//   - description: the transform description
//   - offset: the normalized placement
//
// Returns:
//   - mgl32.Mat4: the forward transform
//   - error: ErrMalformedTransform if the description is not recognized
func Resolve(description string, offset Offset) (mgl32.Mat4, error) {
	m, err := Parse(description)
	if err != nil {
		return mgl32.Mat4{}, err
	}
	return WithTranslation(m, offset), nil
}

// Invert returns the inverse of m using common.SingularEpsilon.
//
// Parameters:
//   - m: the forward transform
//
// Returns:
//   - mgl32.Mat4: the inverse
//   - error: ErrSingularTransform if m is not invertible
func Invert(m mgl32.Mat4) (mgl32.Mat4, error) {
	return InvertEpsilon(m, common.SingularEpsilon)
}

// InvertEpsilon is Invert with a caller-chosen singularity threshold.
func InvertEpsilon(m mgl32.Mat4, epsilon float64) (mgl32.Mat4, error) {
	inv, ok := common.Invert4(m, epsilon)
	if !ok {
		return mgl32.Mat4{}, ErrSingularTransform
	}
	return inv, nil
}

// Basis extracts the 12 scalars of a matrix the geometry record stores: the upper 3x3 block and the
// translation, in the order [m0 m1 m2 m4 | m5 m6 m8 m9 | m10 m12 m13 m14].
func Basis(m mgl32.Mat4) [12]float32 {
	return [12]float32{
		m[0], m[1], m[2], m[4],
		m[5], m[6], m[8], m[9],
		m[10], m[12], m[13], m[14],
	}
}
