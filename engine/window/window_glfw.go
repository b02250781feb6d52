package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// limit maps 0 to glfw.DontCare.
func limit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}

// pixelRatio returns framebuffer pixels per screen coordinate, 1 when the window is minimized.
func pixelRatio(win *glfw.Window) float32 {
	fbWidth, _ := win.GetFramebufferSize()
	width, _ := win.GetSize()
	if fbWidth <= 0 || width <= 0 {
		return 1
	}
	return float32(fbWidth) / float32(width)
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newPlatformWindow(w *sdfWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	// WebGPU provides its own graphics API.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %v", err)
	}
	win.SetSizeLimits(limit(w.minWidth), limit(w.minHeight), limit(w.maxWidth), limit(w.maxHeight))

	gw := &glfwWindow{
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		if (action == glfw.Press || action == glfw.Repeat) && w.onKeyDown != nil {
			w.onKeyDown(uint32(key))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft || action != glfw.Press || w.onMouseDown == nil {
			return
		}
		x, y := win.GetCursorPos()
		w.onMouseDown(float32(x)*w.contentScale, float32(y)*w.contentScale)
	})

	// Cursor positions are in screen coordinates; scale them into framebuffer pixels so they
	// line up with the layout rectangles.
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(float32(x)*w.contentScale, float32(y)*w.contentScale)
		}
	})

	// Framebuffer size is in pixels, which is what the surface and the packer work in.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.contentScale = pixelRatio(win)
		w.resize(width, height)
	})

	w.width, w.height = win.GetFramebufferSize()
	w.contentScale = pixelRatio(win)

	return nil
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *sdfWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns whether the GLFW window is still active.
func platformIsRunningCheck(w *sdfWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *sdfWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
func platformProcessMessages(w *sdfWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
