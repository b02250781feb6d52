package scene

import (
	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/packer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/surface"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering. Scenes are active by default.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithCapacity sets the buffer capacity in vec4 record units. Values below 1 are ignored.
//
// Parameters:
//   - capacity: the capacity of the geometry and shading buffers
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCapacity(capacity int) SceneBuilderOption {
	return func(s *scene) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithLayers sets the layer table. The number of layers is fixed for the scene's lifetime.
// An empty list keeps the default table.
//
// Parameters:
//   - layers: the layer slots
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLayers(layers ...layer.Layer) SceneBuilderOption {
	return func(s *scene) {
		if len(layers) > 0 {
			s.layers = layers
		}
	}
}

// WithFallbackColor sets the packed colour used when a shape's colour is missing or malformed.
//
// Parameters:
//   - word: the packed RGBA word
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFallbackColor(word uint32) SceneBuilderOption {
	return func(s *scene) {
		s.fallback = word
	}
}

// WithMaterial sets the shading coefficients used when a shape does not set them.
//
// Parameters:
//   - m: the default material
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaterial(m packer.Material) SceneBuilderOption {
	return func(s *scene) {
		s.material = m
	}
}

// WithSingularEpsilon sets the determinant magnitude below which a transform is treated as singular.
//
// Parameters:
//   - epsilon: the singularity threshold
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSingularEpsilon(epsilon float64) SceneBuilderOption {
	return func(s *scene) {
		if epsilon > 0 {
			s.epsilon = epsilon
		}
	}
}

// WithViewport sets the initial drawing area size in pixels.
//
// Parameters:
//   - width: the width in pixels
//   - height: the height in pixels
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithViewport(width, height float32) SceneBuilderOption {
	return func(s *scene) {
		s.viewport = common.Viewport{Width: width, Height: height}
	}
}

// WithSurfaces registers render surfaces at construction time.
//
// Parameters:
//   - surfaces: the surfaces to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSurfaces(surfaces ...surface.RenderSurface) SceneBuilderOption {
	return func(s *scene) {
		s.surfaces = append(s.surfaces, surfaces...)
	}
}
