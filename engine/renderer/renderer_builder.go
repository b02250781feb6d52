package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithCapacity sizes the geometry and shading uniforms for the given number of vec4 record units.
// It must match the capacity of the scene feeding the renderer.
//
// Parameters:
//   - capacity: record units per buffer
//
// Returns:
//   - RendererBuilderOption: a function that applies the capacity option to a renderer
func WithCapacity(capacity int) RendererBuilderOption {
	return func(r *renderer) {
		if capacity > 0 {
			r.capacity = capacity
		}
	}
}

// WithDrawFunc sets the function recording evaluator draw calls each frame.
//
// Parameters:
//   - draw: the DrawFunc
//
// Returns:
//   - RendererBuilderOption: a function that applies the draw option to a renderer
func WithDrawFunc(draw DrawFunc) RendererBuilderOption {
	return func(r *renderer) {
		r.draw = draw
	}
}

// WithClearColor sets the color the surface is cleared to before drawing.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(c wgpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
