package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Binding indices of the SDF evaluator bind group.
const (
	BindingLayerTable = 0
	BindingGeometry   = 1
	BindingShading    = 2
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// sizes holds the requested buffer size in bytes, keyed by binding index.
	sizes map[int]uint64

	// The following fields are GPU allocated resources populated by the Renderer.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized with the Renderer.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the GPU bind group layout created for this provider, or nil if not initialized with the Renderer.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
}

// BindGroupProvider holds the uniform buffers and bind group an SDF evaluator pipeline reads from.
// The Renderer creates the GPU resources from LayoutDescriptor and writes to them through BufferWrite.
//
// Usage pattern:
//  1. Renderer creates a BindGroupProvider sized for the packer capacity
//  2. Renderer calls InitBindGroup(provider) to create buffers, layout and bind group
//  3. Renderer issues BufferWrites for the layer table and the packed frame
//  4. The external evaluator pipeline binds BindGroup() at draw time
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// LayoutDescriptor describes the three uniform bindings of the provider.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	LayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// BufferSize returns the requested size in bytes of the buffer at the given binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the size in bytes, 0 for an unknown binding
	BufferSize(binding int) uint64

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout for this provider.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the created uniform buffer for data writes.
	// Returns nil if GPU resources have not been initialized.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// SetBindGroup stores the bind group created by the Renderer.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout stores the bind group layout created by the Renderer.
	//
	// Parameters:
	//   - bgl: the bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores the buffer created by the Renderer for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	SetBuffer(binding int, buf *wgpu.Buffer)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a provider for the layer table, geometry and shading uniforms.
//
// Parameters:
//   - label: the debug label
//   - layerTableSize: size of the layer table uniform in bytes
//   - recordBufferSize: size of each of the geometry and shading uniforms in bytes
//   - options: optional configuration
//
// Returns:
//   - BindGroupProvider: the provider, with no GPU resources yet
func NewBindGroupProvider(label string, layerTableSize, recordBufferSize uint64, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label: label,
		sizes: map[int]uint64{
			BindingLayerTable: layerTableSize,
			BindingGeometry:   recordBufferSize,
			BindingShading:    recordBufferSize,
		},
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for binding, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, binding)
	}
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, 3)
	for _, binding := range []int{BindingLayerTable, BindingGeometry, BindingShading} {
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: p.sizes[binding],
			},
		})
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   p.label + " Bind Group Layout",
		Entries: entries,
	}
}

func (p *bindGroupProvider) BufferSize(binding int) uint64 {
	return p.sizes[binding]
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
	}
	p.buffers[binding] = buf
}
