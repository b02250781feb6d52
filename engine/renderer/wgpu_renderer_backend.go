package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRendererBackend is the WebGPU backend: it owns the device and the window surface, creates the
// SDF uniform buffers and runs one full-surface render pass per frame.
type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swap chain for a new framebuffer size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode
	SetPresentMode(mode PresentMode)

	// InitBindGroup creates the provider's uniform buffers, bind group layout and bind group.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to populate
	//
	// Returns:
	//   - error: error if GPU resource creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider) error

	// WriteBuffers queues the given buffer writes. Writes to bindings without a buffer are skipped.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// RenderFrame acquires the next surface texture, clears it, lets draw record into the pass and
	// presents the result.
	//
	// Parameters:
	//   - draw: records evaluator draw calls, may be nil
	//   - bindGroup: the SDF bind group passed to draw
	//
	// Returns:
	//   - error: error if the surface texture could not be acquired
	RenderFrame(draw DrawFunc, bindGroup *wgpu.BindGroup) error

	// SurfaceFormat returns the configured surface texture format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the format, undefined before ConfigureSurface
	SurfaceFormat() wgpu.TextureFormat

	// Device returns the WGPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Release releases the surface, device, adapter and instance.
	Release()
}

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance      *wgpu.Instance
	adapter       *wgpu.Adapter
	surface       *wgpu.Surface
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	clearColor    wgpu.Color
	configured    bool
}

var _ wgpuRendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, clearColor wgpu.Color) wgpuRendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		clearColor:  clearColor,
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "SDF Device",
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	return b
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	b.configured = true
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	descriptor := provider.LayoutDescriptor()

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		buf := provider.Buffer(binding)
		if buf == nil {
			var err error
			buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s Buffer %d", provider.Label(), binding),
				Size:  provider.BufferSize(binding),
				Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return err
			}
			provider.SetBuffer(binding, buf)
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: entry.Binding,
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil || w.Len() == 0 {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) RenderFrame(draw DrawFunc, bindGroup *wgpu.BindGroup) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured {
		return ErrSurfaceNotConfigured
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: b.clearColor,
			},
		},
	})
	if draw != nil && bindGroup != nil {
		draw(pass, bindGroup)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()

	return nil
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	b.configured = false
}
