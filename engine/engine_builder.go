package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sdf/engine/scene"
	"github.com/Carmen-Shannon/oxy-sdf/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//   - interval: report interval, <= 0 for the 1 second default
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool, interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		e.profiler = profiler.NewProfiler(interval)
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow attaches a window. The engine follows its framebuffer size and runs its message loop.
//
// Parameters:
//   - w: a created Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithViewport sets the initial viewport for a headless engine.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewport(width, height float32) EngineBuilderOption {
	return func(e *engine) {
		e.viewport = common.Viewport{Width: width, Height: height}
	}
}

// WithScene registers a scene at the given z-index key during engine construction.
//
// Parameters:
//   - key: the z-index determining render order (lower renders first)
//   - s: the Scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scenes[key] = s
	}
}

// WithResizer registers a component that follows viewport changes, usually the renderer.
//
// Parameters:
//   - r: the Resizer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithResizer(r Resizer) EngineBuilderOption {
	return func(e *engine) {
		e.resizers = append(e.resizers, r)
	}
}

// WithPackWorkers sets the number of workers packing scenes in parallel.
//
// Parameters:
//   - n: worker count, values < 1 are ignored
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPackWorkers(n int) EngineBuilderOption {
	return func(e *engine) {
		if n > 0 {
			e.packWorkers = n
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
