// package renderer uploads packed SDF frames to a WebGPU window surface.
package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/packer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/registry"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sdf/engine/surface"
	"github.com/Carmen-Shannon/oxy-sdf/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrFrameTooLarge is returned when a frame holds more slots than the GPU buffers were sized for.
	ErrFrameTooLarge = errors.New("frame exceeds renderer capacity")
	// ErrSurfaceNotConfigured is returned when a frame is rendered before the surface has a size.
	ErrSurfaceNotConfigured = errors.New("surface not configured")
)

// DrawFunc records the evaluator's draw calls into the frame's render pass. The bind group holds the layer
// table, geometry and shading uniforms at the bind_group_provider Binding* indices.
type DrawFunc func(pass *wgpu.RenderPassEncoder, bindGroup *wgpu.BindGroup)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	provider    bind_group_provider.BindGroupProvider

	capacity int
	viewport common.Viewport
	draw     DrawFunc

	// tableDirty is set until the layer table uniform matches the current viewport.
	tableDirty bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	clearColor           wgpu.Color
}

// Renderer is a RenderSurface backed by a WebGPU window surface.
//
// The Renderer owns three uniform buffers: the layer table, the geometry records and the shading records.
// Layer notifications rewrite the layer table, Upload rewrites only the used prefix of the record buffers
// and then renders one frame through the DrawFunc.
type Renderer interface {
	surface.RenderSurface

	// Resize reconfigures the surface for a new framebuffer size.
	//
	// Parameters:
	//   - viewport: the new framebuffer size in pixels
	Resize(viewport common.Viewport)

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode
	SetPresentMode(mode PresentMode)

	// SetDrawFunc replaces the function recording evaluator draw calls.
	//
	// Parameters:
	//   - draw: the DrawFunc, nil to only clear the surface
	SetDrawFunc(draw DrawFunc)

	// BindGroupProvider returns the provider holding the SDF uniforms.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Device returns the GPU device, for building the evaluator pipeline.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// SurfaceFormat returns the color format of the window surface.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// Capacity returns the record buffer capacity in vec4 record units.
	//
	// Returns:
	//   - int: the capacity
	Capacity() int

	// Release frees every GPU resource held by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the given window.
//
// Parameters:
//   - backendType: the GPU backend
//   - win: the window providing the surface
//   - options: optional configuration
//
// Returns:
//   - Renderer: the renderer, with its uniforms allocated
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	if win == nil {
		panic("renderer: nil window")
	}
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		capacity:    registry.MaxBufferCapacity,
		viewport:    win.Viewport(),
		tableDirty:  true,
		clearColor:  wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}

	// Apply options first so config flags are available before the backend requests an adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.clearColor)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(int(r.viewport.Width), int(r.viewport.Height))

	r.provider = newSDFProvider(r.capacity)
	if err := r.backend.InitBindGroup(r.provider); err != nil {
		panic(fmt.Sprintf("renderer: init bind group: %v", err))
	}
	return r
}

// newSDFProvider sizes the three uniforms for capacity vec4 record units.
func newSDFProvider(capacity int) bind_group_provider.BindGroupProvider {
	return bind_group_provider.NewBindGroupProvider("SDF", layer.GPULayerTableSize, uint64(capacity)*16)
}

func (r *renderer) OnMembershipChanged(table layer.Table) {
	r.writeTable(table)
}

func (r *renderer) OnLayerLayoutChanged(table layer.Table) {
	r.writeTable(table)
}

func (r *renderer) writeTable(table layer.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{tableWrite(r.provider, table, r.viewport)})
	r.tableDirty = false
}

func (r *renderer) Upload(frame packer.Frame, table layer.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	writes, err := frameWrites(r.provider, frame)
	if err != nil {
		return err
	}
	if r.tableDirty {
		writes = append(writes, tableWrite(r.provider, table, r.viewport))
		r.tableDirty = false
	}
	r.backend.WriteBuffers(writes)

	return r.backend.RenderFrame(r.draw, r.provider.BindGroup())
}

func (r *renderer) Resize(viewport common.Viewport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport = viewport
	r.tableDirty = true
	r.backend.ConfigureSurface(int(viewport.Width), int(viewport.Height))
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
	r.backend.ConfigureSurface(int(r.viewport.Width), int(r.viewport.Height))
}

func (r *renderer) SetDrawFunc(draw DrawFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draw = draw
}

func (r *renderer) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return r.provider
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) Capacity() int {
	return r.capacity
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.provider.Release()
	r.backend.Release()
}

// frameWrites returns the writes for the used prefix of the geometry and shading buffers.
//
// Parameters:
//   - p: the provider the writes target
//   - frame: the packed frame
//
// Returns:
//   - []bind_group_provider.BufferWrite: one write per record buffer
//   - error: ErrFrameTooLarge if the used prefix does not fit the buffers
func frameWrites(p bind_group_provider.BindGroupProvider, frame packer.Frame) ([]bind_group_provider.BufferWrite, error) {
	n := uint64(frame.UsedSlots) * 4
	if n > p.BufferSize(bind_group_provider.BindingGeometry) || n > p.BufferSize(bind_group_provider.BindingShading) {
		return nil, fmt.Errorf("%w: %d slots", ErrFrameTooLarge, frame.UsedSlots)
	}
	if n == 0 {
		return nil, nil
	}
	return []bind_group_provider.BufferWrite{
		{Provider: p, Binding: bind_group_provider.BindingGeometry, Data: frame.GeometryBytes()[:n]},
		{Provider: p, Binding: bind_group_provider.BindingShading, Data: frame.ShadingBytes()[:n]},
	}, nil
}

// tableWrite returns the write for the layer table uniform.
func tableWrite(p bind_group_provider.BindGroupProvider, table layer.Table, viewport common.Viewport) bind_group_provider.BufferWrite {
	g := layer.NewGPULayerTable(table, viewport.Width, viewport.Height)
	return bind_group_provider.BufferWrite{
		Provider: p,
		Binding:  bind_group_provider.BindingLayerTable,
		Data:     g.Marshal(),
	}
}
