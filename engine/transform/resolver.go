package transform

import (
	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Resolver turns layout inputs into the inverted basis of one shape.
type Resolver interface {
	// ResolveInverse resolves the forward transform and inverts it.
	// A malformed description falls back to identity; the error is still returned so the caller can report it.
	//
	// Parameters:
	//   - description: the transform description
	//   - rect: the shape's bounding rectangle in pixels
	//   - viewport: the drawing area
	//   - depth: the shape's depth in normalized units
	//   - z: the shape's z offset in normalized units
	//
	// Returns:
	//   - mgl32.Mat4: the inverse transform, or the zero matrix when singular
	//   - error: ErrMalformedTransform or ErrSingularTransform
	ResolveInverse(description string, rect common.Rect, viewport common.Viewport, depth, z float32) (mgl32.Mat4, error)
}

type resolver struct {
	epsilon float64
}

var _ Resolver = &resolver{}

// NewResolver creates a new Resolver with the given options.
//
// Parameters:
//   - options: variadic list of ResolverBuilderOption functions to configure the Resolver
//
// Returns:
//   - Resolver: the newly created Resolver
func NewResolver(options ...ResolverBuilderOption) Resolver {
	r := &resolver{epsilon: common.SingularEpsilon}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *resolver) ResolveInverse(description string, rect common.Rect, viewport common.Viewport, depth, z float32) (mgl32.Mat4, error) {
	offset := Placement(rect, viewport, depth, z)

	m, parseErr := Parse(description)
	if parseErr != nil {
		m = mgl32.Ident4()
	}
	inv, err := InvertEpsilon(WithTranslation(m, offset), r.epsilon)
	if err != nil {
		return inv, err
	}
	return inv, parseErr
}

// ResolverBuilderOption is a functional option for configuring a Resolver.
// Use the With* functions to create options.
type ResolverBuilderOption func(r *resolver)

// WithEpsilon sets the determinant magnitude below which a transform is treated as singular.
// Non-positive values are ignored.
//
// Parameters:
//   - epsilon: the singularity threshold
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithEpsilon(epsilon float64) ResolverBuilderOption {
	return func(r *resolver) {
		if epsilon > 0 {
			r.epsilon = epsilon
		}
	}
}
