package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/config"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layout"
	"github.com/Carmen-Shannon/oxy-sdf/engine/packer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/registry"
	"github.com/Carmen-Shannon/oxy-sdf/engine/style"
	"github.com/Carmen-Shannon/oxy-sdf/engine/surface"
)

// Scene owns one set of tracked SDF shapes together with the registry, layer compositor and buffer packer that
// serve them, and the render surfaces that consume the packed frames.
// Registry changes recompute the layer table and notify every surface before the call returns.
// Scenes can be hot-swapped via the Active flag to switch between different views.
// Thread-safe for concurrent access; mutations and packing never interleave.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Attach starts tracking a shape.
	//
	// Parameters:
	//   - sourceID: the layout provider's identifier for the shape
	//   - t: the element type
	//   - layerIndex: the layer the shape belongs to
	//
	// Returns:
	//   - element.Handle: the handle assigned to the shape
	//   - error: registry.ErrCapacityExceeded, registry.ErrLayerIndexOutOfRange or element.ErrUnknownType
	Attach(sourceID string, t element.Type, layerIndex int) (element.Handle, error)

	// Detach stops tracking a shape.
	//
	// Parameters:
	//   - h: the shape's handle
	//
	// Returns:
	//   - error: registry.ErrUnknownHandle if the handle is not tracked
	Detach(h element.Handle) error

	// SetLayerIndex moves a shape to another layer.
	//
	// Parameters:
	//   - h: the shape's handle
	//   - layerIndex: the new layer index
	//
	// Returns:
	//   - error: registry.ErrUnknownHandle or registry.ErrLayerIndexOutOfRange
	SetLayerIndex(h element.Handle, layerIndex int) error

	// OnLayerIndexChanged re-establishes the shape order after a layer change. Idempotent.
	//
	// Parameters:
	//   - h: the shape's handle
	//
	// Returns:
	//   - error: registry.ErrUnknownHandle if the handle is not tracked
	OnLayerIndexChanged(h element.Handle) error

	// Shape returns the descriptor of a tracked shape.
	//
	// Parameters:
	//   - h: the shape's handle
	//
	// Returns:
	//   - element.ShapeDescriptor: the descriptor
	//   - bool: false if the handle is not tracked
	Shape(h element.Handle) (element.ShapeDescriptor, bool)

	// Shapes returns all tracked shapes in packing order.
	Shapes() []element.ShapeDescriptor

	// Count returns the number of tracked shapes.
	Count() int

	// Usage returns the buffer usage in vec4 record units.
	Usage() int

	// Capacity returns the buffer capacity in vec4 record units.
	Capacity() int

	// Clear stops tracking every shape.
	Clear()

	// Layers returns the layer slots with their current element counts.
	Layers() []layer.Layer

	// SetLayer reconfigures one layer slot and notifies surfaces of the layout change.
	//
	// Parameters:
	//   - index: the layer index
	//   - op: the operation
	//   - smoothing: the smoothing factor in pixels
	//
	// Returns:
	//   - error: layer.ErrLayerIndexOutOfRange or layer.ErrUnknownOperation
	SetLayer(index int, op layer.Operation, smoothing float32) error

	// LayerTable returns the layer table normalized by the current viewport width.
	LayerTable() layer.Table

	// Viewport returns the drawing area size in pixels.
	Viewport() common.Viewport

	// SetViewport resizes the drawing area. Surfaces receive the renormalized layer table.
	//
	// Parameters:
	//   - width: the width in pixels
	//   - height: the height in pixels
	SetViewport(width, height float32)

	// LayoutProvider returns the scene's source of layout and style data.
	LayoutProvider() layout.LayoutProvider

	// SetLayoutProvider replaces the scene's source of layout and style data.
	//
	// Parameters:
	//   - p: the new provider; nil is ignored
	SetLayoutProvider(p layout.LayoutProvider)

	// AddSurface registers a render surface. It immediately receives the current layer table as a
	// membership change.
	//
	// Parameters:
	//   - rs: the surface to add
	AddSurface(rs surface.RenderSurface)

	// RemoveSurface unregisters a render surface.
	//
	// Parameters:
	//   - rs: the surface to remove
	RemoveSurface(rs surface.RenderSurface)

	// PackBuffers packs every tracked shape without uploading.
	//
	// Returns:
	//   - packer.Frame: the packed frame, valid until the next pack
	//   - error: packer.ErrInvalidViewport or registry.ErrCapacityExceeded
	PackBuffers() (packer.Frame, error)

	// Render packs every tracked shape and uploads the frame to every surface.
	// Upload errors from individual surfaces are joined; the remaining surfaces still receive the frame.
	//
	// Returns:
	//   - packer.Frame: the packed frame, valid until the next pack
	//   - error: the pack error or the joined upload errors
	Render() (packer.Frame, error)
}

type scene struct {
	mu     sync.Mutex
	name   string
	active bool

	capacity int
	layers   []layer.Layer
	fallback uint32
	material packer.Material
	epsilon  float64
	viewport common.Viewport

	provider   layout.LayoutProvider
	registry   registry.Registry
	compositor layer.Compositor
	packer     packer.Packer
	surfaces   []surface.RenderSurface
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given name, layout provider and options.
// Defaults to the default three-layer table, registry.MaxBufferCapacity and a zero viewport that must be set
// before rendering. Panics if provider is nil or the layer table is invalid.
//
// Parameters:
//   - name: the scene's identifier
//   - provider: the source of layout and style data
//   - options: variadic list of SceneBuilderOption functions to configure the Scene
//
// Returns:
//   - Scene: the newly created Scene
func NewScene(name string, provider layout.LayoutProvider, options ...SceneBuilderOption) Scene {
	if provider == nil {
		panic("scene: NewScene requires a non-nil LayoutProvider")
	}

	s := &scene{
		name:     name,
		active:   true,
		capacity: registry.MaxBufferCapacity,
		layers:   layer.DefaultLayers(),
		fallback: style.DefaultFallbackColor,
		material: packer.DefaultMaterial,
		epsilon:  common.SingularEpsilon,
		provider: provider,
	}
	var surfaces []surface.RenderSurface
	for _, option := range options {
		option(s)
	}
	surfaces, s.surfaces = s.surfaces, nil

	s.compositor = layer.NewCompositor(s.layers)
	s.registry = registry.NewRegistry(
		registry.WithCapacity(s.capacity),
		registry.WithLayerCount(len(s.layers)),
		registry.WithChangeCallback(s.onRegistryChange),
	)
	s.packer = packer.NewPacker(
		packer.WithCapacity(s.capacity),
		packer.WithFallbackColor(s.fallback),
		packer.WithMaterial(s.material),
		packer.WithSingularEpsilon(s.epsilon),
	)
	for _, rs := range surfaces {
		s.AddSurface(rs)
	}

	common.Logger().Info("scene: created", "name", name, "capacity", s.capacity, "layers", len(s.layers))
	return s
}

// NewSceneFromConfig creates a Scene from a file configuration. Options are applied after the configuration
// and may override it.
//
// Parameters:
//   - cfg: the scene configuration
//   - provider: the source of layout and style data
//   - options: variadic list of SceneBuilderOption functions to configure the Scene
//
// Returns:
//   - Scene: the newly created Scene
//   - error: config.ErrInvalidConfig if cfg does not validate
func NewSceneFromConfig(cfg config.SceneConfig, provider layout.LayoutProvider, options ...SceneBuilderOption) (Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layers, _ := cfg.LayerTable()
	fallback, _ := cfg.Fallback()

	opts := []SceneBuilderOption{
		WithCapacity(cfg.Capacity),
		WithLayers(layers...),
		WithFallbackColor(fallback),
		WithMaterial(packer.Material(cfg.MaterialOrDefault())),
		WithSingularEpsilon(cfg.SingularEpsilon),
	}
	return NewScene(cfg.Name, provider, append(opts, options...)...), nil
}

func (s *scene) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Attach(sourceID string, t element.Type, layerIndex int) (element.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Register(sourceID, t, layerIndex)
}

func (s *scene) Detach(h element.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Unregister(h)
}

func (s *scene) SetLayerIndex(h element.Handle, layerIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.SetLayerIndex(h, layerIndex)
}

func (s *scene) OnLayerIndexChanged(h element.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.OnLayerIndexChanged(h)
}

func (s *scene) Shape(h element.Handle) (element.ShapeDescriptor, bool) {
	return s.registry.Get(h)
}

func (s *scene) Shapes() []element.ShapeDescriptor {
	return s.registry.Sorted()
}

func (s *scene) Count() int {
	return s.registry.Len()
}

func (s *scene) Usage() int {
	return s.registry.Usage()
}

func (s *scene) Capacity() int {
	return s.registry.Capacity()
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Clear()
}

func (s *scene) Layers() []layer.Layer {
	return s.compositor.Layers()
}

func (s *scene) SetLayer(index int, op layer.Operation, smoothing float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.compositor.SetLayer(index, op, smoothing); err != nil {
		return err
	}
	table := s.compositor.Table(s.viewport.Width)
	for _, rs := range s.surfaces {
		rs.OnLayerLayoutChanged(table)
	}
	return nil
}

func (s *scene) LayerTable() layer.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compositor.Table(s.viewport.Width)
}

func (s *scene) Viewport() common.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *scene) SetViewport(width, height float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = common.Viewport{Width: width, Height: height}
	table := s.compositor.Table(width)
	for _, rs := range s.surfaces {
		rs.OnLayerLayoutChanged(table)
	}
}

func (s *scene) LayoutProvider() layout.LayoutProvider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

func (s *scene) SetLayoutProvider(p layout.LayoutProvider) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

func (s *scene) AddSurface(rs surface.RenderSurface) {
	if rs == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surfaces = append(s.surfaces, rs)
	rs.OnMembershipChanged(s.compositor.Table(s.viewport.Width))
}

func (s *scene) RemoveSurface(rs surface.RenderSurface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.surfaces, rs); i >= 0 {
		s.surfaces = slices.Delete(s.surfaces, i, i+1)
	}
}

func (s *scene) PackBuffers() (packer.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.packLocked()
}

func (s *scene) Render() (packer.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame, err := s.packLocked()
	if err != nil {
		return frame, err
	}
	table := s.compositor.Table(s.viewport.Width)
	var errs []error
	for _, rs := range s.surfaces {
		if err := rs.Upload(frame, table); err != nil {
			common.Logger().Warn("scene: upload failed", "scene", s.name, "err", err)
			errs = append(errs, err)
		}
	}
	return frame, errors.Join(errs...)
}

func (s *scene) packLocked() (packer.Frame, error) {
	frame, err := s.packer.Pack(s.registry.Sorted(), s.provider, s.viewport)
	if err != nil {
		return packer.Frame{}, fmt.Errorf("scene %s: %w", s.name, err)
	}
	return frame, nil
}

// onRegistryChange runs synchronously inside Attach, Detach, SetLayerIndex, OnLayerIndexChanged and Clear,
// so s.mu is already held.
func (s *scene) onRegistryChange(kind registry.ChangeKind, d element.ShapeDescriptor) {
	if err := s.compositor.Recompute(s.registry.Sorted()); err != nil {
		common.Logger().Error("scene: layer recompute failed", "scene", s.name, "handle", d.Handle, "err", err)
		return
	}
	table := s.compositor.Table(s.viewport.Width)
	for _, rs := range s.surfaces {
		switch kind {
		case registry.ChangeMembership:
			rs.OnMembershipChanged(table)
		case registry.ChangeLayerLayout:
			rs.OnLayerLayoutChanged(table)
		}
	}
}
