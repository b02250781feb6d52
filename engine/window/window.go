package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a viewport host for an SDF scene. It reports its framebuffer size as a common.Viewport,
// forwards pointer and keyboard input, and hands the renderer a surface descriptor.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration.
	//
	// Parameters:
	//   - callback: function called every iteration
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new viewport
	SetResizeCallback(callback func(viewport common.Viewport))

	// SetKeyDownCallback sets the function called when a key is pressed or repeated.
	//
	// Parameters:
	//   - callback: function receiving the glfw key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetMouseMoveCallback sets the function called when the cursor moves within the window.
	//
	// Parameters:
	//   - callback: function receiving cursor coordinates in framebuffer pixels
	SetMouseMoveCallback(callback func(x, y float32))

	// SetMouseDownCallback sets the function called when the primary mouse button is pressed.
	//
	// Parameters:
	//   - callback: function receiving cursor coordinates in framebuffer pixels
	SetMouseDownCallback(callback func(x, y float32))

	// SurfaceDescriptor returns the wgpu surface descriptor for this window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, nil if the window is not created
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	//
	// Returns:
	//   - bool: true while the window is open
	IsRunning() bool

	// Close destroys the window.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the message loop until the window closes.
	ProcessMessages()

	// Viewport returns the current framebuffer size.
	//
	// Returns:
	//   - common.Viewport: width and height in pixels
	Viewport() common.Viewport
}

// sdfWindow is the implementation of the Window interface.
type sdfWindow struct {
	title string

	// size limits applied to the platform window, 0 means unconstrained
	minWidth  int
	minHeight int
	maxWidth  int
	maxHeight int

	// framebuffer size in pixels, updated on resize
	width  int
	height int

	// contentScale converts cursor coordinates to framebuffer pixels on high-DPI displays.
	contentScale float32

	// internalWindow holds the platform window (glfwWindow).
	internalWindow any

	onUpdate    func()
	onResize    func(viewport common.Viewport)
	onKeyDown   func(keyCode uint32)
	onMouseMove func(x, y float32)
	onMouseDown func(x, y float32)
}

var _ Window = &sdfWindow{}

// NewWindow creates and spawns a platform window.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &sdfWindow{
		title:        "oxy-sdf",
		width:        1280,
		height:       720,
		contentScale: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *sdfWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *sdfWindow) SetResizeCallback(callback func(viewport common.Viewport)) {
	w.onResize = callback
}

func (w *sdfWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *sdfWindow) SetMouseMoveCallback(callback func(x, y float32)) {
	w.onMouseMove = callback
}

func (w *sdfWindow) SetMouseDownCallback(callback func(x, y float32)) {
	w.onMouseDown = callback
}

func (w *sdfWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *sdfWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *sdfWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *sdfWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *sdfWindow) Viewport() common.Viewport {
	return common.Viewport{Width: float32(w.width), Height: float32(w.height)}
}

// resize records a new framebuffer size and notifies the resize callback. Zero sizes (minimized) are ignored.
func (w *sdfWindow) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(w.Viewport())
	}
}
