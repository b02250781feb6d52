// package engine drives one or more SDF scenes: it packs and uploads every active scene each frame, keeps
// scene viewports in sync with the window, and reports frame statistics.
package engine

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/packer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sdf/engine/scene"
	"github.com/Carmen-Shannon/oxy-sdf/engine/window"
)

// Resizer is anything that must follow the window's framebuffer size, typically a renderer.
type Resizer interface {
	Resize(viewport common.Viewport)
}

// SceneFrame is the result of rendering one scene in a frame.
type SceneFrame struct {
	Key   int
	Name  string
	Frame packer.Frame
	Err   error
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.RWMutex

	tickRateChannel chan time.Duration

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window   window.Window
	viewport common.Viewport
	resizers []Resizer

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32, frames []SceneFrame)

	scenes map[int]scene.Scene

	// packPool packs independent scenes in parallel. Workers are reused across frames.
	packPool    worker.DynamicWorkerPool
	packWorkers int

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point: it owns the scenes, the window and the frame loops.
type Engine interface {
	// Window returns the underlying window, nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables periodic profiling output to the logger.
	EnableProfiler()

	// DisableProfiler disables profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for layout updates driven by application state.
	//
	// Parameters:
	//   - callback: function called at the tick rate with the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds and the per-scene results
	SetRenderCallback(callback func(deltaTime float32, frames []SceneFrame))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key. The scene takes the engine's viewport if one is known.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key, nil if absent.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// AddResizer registers a component that follows viewport changes.
	//
	// Parameters:
	//   - r: the Resizer
	AddResizer(r Resizer)

	// Viewport returns the engine's current viewport.
	//
	// Returns:
	//   - common.Viewport: the viewport
	Viewport() common.Viewport

	// SetViewport pushes a new viewport to every scene and resizer.
	//
	// Parameters:
	//   - viewport: the framebuffer size in pixels
	SetViewport(viewport common.Viewport)

	// RenderFrame renders every active scene once. Scenes are packed in parallel; results are returned in
	// ascending z-index order.
	//
	// Returns:
	//   - []SceneFrame: one result per active scene
	//   - error: the joined scene errors, nil if every scene rendered
	RenderFrame() ([]SceneFrame, error)

	// Run starts the tick and render loops. With a window it runs the message loop until the window
	// closes; headless it blocks until Quit.
	Run()

	// Quit signals all engine goroutines to stop. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.RWMutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		engineTickRate:  time.Second / 60,
		packWorkers:     max(runtime.NumCPU()-1, 1),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(time.Second)
	}
	e.packPool = worker.NewDynamicWorkerPool(e.packWorkers, 256, 1*time.Second)

	if e.window != nil {
		e.viewport = e.window.Viewport()
		e.window.SetResizeCallback(e.SetViewport)
	}
	e.SetViewport(e.viewport)

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()
	common.Logger().Info("engine: run", "scenes", len(e.Scenes()), "headless", e.window == nil)

	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
	common.Logger().Info("engine: stopped")
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel once to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate tick loop until quit.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	_, rate := e.tickSettings()
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if callback, _ := e.tickSettings(); callback != nil {
				callback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// handleRender runs the render loop until quit. A panic inside a frame stops the engine instead of the process.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("engine: render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		frames, err := e.RenderFrame()
		if err != nil {
			common.Logger().Warn("engine: frame failed", "err", err)
		}

		settings := e.renderSettings()
		if settings.callback != nil {
			settings.callback(dt, frames)
		}

		if settings.profiling {
			stats := frameStats(frames)
			stats.PackTime = time.Since(now)
			e.profiler.Tick(stats)
		}

		if settings.limit > 0 {
			if remaining := settings.limit - time.Since(lastRender); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

func (e *engine) RenderFrame() ([]SceneFrame, error) {
	e.mu.RLock()
	keys := make([]int, 0, len(e.scenes))
	for k, s := range e.scenes {
		if s.Active() {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	active := make([]scene.Scene, len(keys))
	for i, k := range keys {
		active[i] = e.scenes[k]
	}
	e.mu.RUnlock()

	results := make([]SceneFrame, len(active))
	if len(active) == 1 {
		results[0] = renderScene(keys[0], active[0])
	} else {
		// A WaitGroup is the per-frame barrier; the pool's own Wait blocks until workers idle-exit.
		var wg sync.WaitGroup
		for i, s := range active {
			wg.Add(1)
			idx, key, sc := i, keys[i], s
			e.packPool.SubmitTask(worker.Task{
				ID: idx,
				Do: func() (any, error) {
					defer wg.Done()
					results[idx] = renderScene(key, sc)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

// renderScene packs and uploads one scene, turning a panic into an error so one bad scene cannot stall the
// frame barrier.
func renderScene(key int, s scene.Scene) (sf SceneFrame) {
	sf = SceneFrame{Key: key, Name: s.Name()}
	defer func() {
		if r := recover(); r != nil {
			sf.Err = fmt.Errorf("scene %s: panic: %v", sf.Name, r)
		}
	}()
	sf.Frame, sf.Err = s.Render()
	return sf
}

// frameStats sums the packing load of a frame.
func frameStats(frames []SceneFrame) profiler.FrameStats {
	stats := profiler.FrameStats{Scenes: len(frames)}
	for _, f := range frames {
		stats.Shapes += f.Frame.NumElements
		stats.UsedSlots += f.Frame.UsedSlots
		stats.Diagnostics += len(f.Frame.Diagnostics)
	}
	return stats
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = true
	e.mu.Unlock()
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = false
	e.mu.Unlock()
}

// SetTickRate sets the engine tick rate. If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	e.mu.RLock()
	running := e.running
	e.mu.RUnlock()

	if !running {
		e.mu.Lock()
		e.engineTickRate = newRate
		e.mu.Unlock()
		return
	}
	// Replace any pending update.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	e.tickCallback = callback
	e.mu.Unlock()
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32, frames []SceneFrame)) {
	e.mu.Lock()
	e.renderCallback = callback
	e.mu.Unlock()
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	limit := time.Duration(0)
	if fps > 0 {
		limit = time.Second / time.Duration(fps)
	}
	e.mu.Lock()
	e.renderFrameLimit = limit
	e.mu.Unlock()
}

// renderSettings is the per-frame snapshot of the settings the render loop reads.
type renderSettings struct {
	callback  func(deltaTime float32, frames []SceneFrame)
	profiling bool
	limit     time.Duration
}

func (e *engine) renderSettings() renderSettings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return renderSettings{callback: e.renderCallback, profiling: e.profilingEnabled, limit: e.renderFrameLimit}
}

func (e *engine) tickSettings() (func(deltaTime float32), time.Duration) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickCallback, e.engineTickRate
}

func (e *engine) AddScene(key int, s scene.Scene) {
	if s == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
	if e.viewport.Valid() {
		s.SetViewport(e.viewport.Width, e.viewport.Height)
	}
	common.Logger().Info("engine: scene added", "key", key, "scene", s.Name())
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) AddResizer(r Resizer) {
	if r == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizers = append(e.resizers, r)
}

func (e *engine) Viewport() common.Viewport {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.viewport
}

func (e *engine) SetViewport(viewport common.Viewport) {
	if !viewport.Valid() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = viewport
	for _, r := range e.resizers {
		r.Resize(viewport)
	}
	for _, s := range e.scenes {
		s.SetViewport(viewport.Width, viewport.Height)
	}
}
