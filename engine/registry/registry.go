// package registry tracks the live set of SDF shapes, keeps them ordered by layer and enforces the
// geometry buffer capacity.
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
)

// MaxBufferCapacity is the default geometry buffer capacity in vec4 record units.
const MaxBufferCapacity = 256

var (
	// ErrCapacityExceeded is returned when registering a shape would overflow the buffer capacity.
	ErrCapacityExceeded = errors.New("registry: buffer capacity exceeded")

	// ErrLayerIndexOutOfRange is returned when a layer index is outside [0, layerCount).
	ErrLayerIndexOutOfRange = errors.New("registry: layer index out of range")

	// ErrUnknownHandle is returned for a handle the registry does not track.
	ErrUnknownHandle = errors.New("registry: unknown handle")
)

// ChangeKind distinguishes the notifications a Registry emits.
type ChangeKind int

const (
	// ChangeMembership is emitted after a shape is registered or unregistered.
	ChangeMembership ChangeKind = iota
	// ChangeLayerLayout is emitted after a shape's layer index changed and the order was re-established.
	ChangeLayerLayout
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeMembership:
		return "membership"
	case ChangeLayerLayout:
		return "layer-layout"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// ChangeCallback is invoked after every successful mutation, outside the registry lock.
type ChangeCallback func(kind ChangeKind, shape element.ShapeDescriptor)

// Registry is the ordered collection of tracked shapes.
// The order is non-decreasing by layer index with ties broken by registration order, and the summed
// record size of all shapes never exceeds the capacity.
// Thread-safe for concurrent access.
type Registry interface {
	// Register adds a new shape. The operation is atomic: on any error the registry is unchanged.
	//
	// Parameters:
	//   - sourceID: the layout provider's identifier for the shape
	//   - t: the element type (immutable for the shape's lifetime)
	//   - layerIndex: the layer the shape belongs to
	//
	// Returns:
	//   - element.Handle: the handle assigned to the shape
	//   - error: element.ErrUnknownType, ErrLayerIndexOutOfRange or ErrCapacityExceeded
	Register(sourceID string, t element.Type, layerIndex int) (element.Handle, error)

	// Unregister removes a shape and releases its capacity.
	//
	// Parameters:
	//   - h: the shape's handle
	//
	// Returns:
	//   - error: ErrUnknownHandle if the handle is not tracked
	Unregister(h element.Handle) error

	// SetLayerIndex moves a shape to another layer and re-establishes the order.
	//
	// Parameters:
	//   - h: the shape's handle
	//   - layerIndex: the new layer index
	//
	// Returns:
	//   - error: ErrUnknownHandle or ErrLayerIndexOutOfRange
	SetLayerIndex(h element.Handle, layerIndex int) error

	// OnLayerIndexChanged re-sorts the registry after a shape's layer index changed and notifies listeners.
	// Idempotent.
	//
	// Parameters:
	//   - h: the shape's handle
	//
	// Returns:
	//   - error: ErrUnknownHandle if the handle is not tracked
	OnLayerIndexChanged(h element.Handle) error

	// Get returns the descriptor for a handle.
	//
	// Parameters:
	//   - h: the shape's handle
	//
	// Returns:
	//   - element.ShapeDescriptor: the descriptor
	//   - bool: false if the handle is not tracked
	Get(h element.Handle) (element.ShapeDescriptor, bool)

	// Sorted returns a copy of all descriptors in packing order.
	//
	// Returns:
	//   - []element.ShapeDescriptor: the descriptors ordered by layer then registration
	Sorted() []element.ShapeDescriptor

	// Len returns the number of tracked shapes.
	Len() int

	// Usage returns the summed record size of all tracked shapes in vec4 units.
	Usage() int

	// Capacity returns the maximum usage in vec4 units.
	Capacity() int

	// LayerCount returns the number of layers indices are validated against.
	LayerCount() int

	// AddChangeCallback registers a listener for mutations.
	//
	// Parameters:
	//   - cb: the callback to invoke
	AddChangeCallback(cb ChangeCallback)

	// Clear removes every shape and resets usage to zero. Emits a single membership notification.
	Clear()
}

type registry struct {
	mu         sync.RWMutex
	shapes     []element.ShapeDescriptor
	usage      int
	capacity   int
	layerCount int
	nextHandle element.Handle
	callbacks  []ChangeCallback
}

var _ Registry = &registry{}

// NewRegistry creates a new Registry with the given options.
// Defaults to MaxBufferCapacity and a single layer.
//
// Parameters:
//   - options: variadic list of RegistryBuilderOption functions to configure the Registry
//
// Returns:
//   - Registry: the newly created Registry
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registry{
		capacity:   MaxBufferCapacity,
		layerCount: 1,
		nextHandle: 1,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Register(sourceID string, t element.Type, layerIndex int) (element.Handle, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %d", element.ErrUnknownType, int32(t))
	}

	r.mu.Lock()
	if err := r.checkLayer(layerIndex); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	size := t.RecordSize()
	if r.usage+size > r.capacity {
		usage := r.usage
		r.mu.Unlock()
		common.Logger().Warn("registry: rejected shape", "source", sourceID, "type", t, "usage", usage, "size", size, "capacity", r.capacity)
		return 0, fmt.Errorf("%w: %s needs %d units, %d of %d in use", ErrCapacityExceeded, t, size, usage, r.capacity)
	}

	d := element.ShapeDescriptor{
		Handle:     r.nextHandle,
		SourceID:   sourceID,
		LayerIndex: layerIndex,
		Type:       t,
	}
	r.nextHandle++
	r.shapes = append(r.shapes, d)
	r.usage += size
	r.sortLocked()
	callbacks := r.callbacks
	r.mu.Unlock()

	common.Logger().Debug("registry: registered shape", "handle", d.Handle, "source", sourceID, "type", t, "layer", layerIndex)
	notify(callbacks, ChangeMembership, d)
	return d.Handle, nil
}

func (r *registry) Unregister(h element.Handle) error {
	r.mu.Lock()
	i := r.indexLocked(h)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	d := r.shapes[i]
	r.shapes = slices.Delete(r.shapes, i, i+1)
	r.usage -= d.RecordSize()
	callbacks := r.callbacks
	r.mu.Unlock()

	common.Logger().Debug("registry: unregistered shape", "handle", h, "source", d.SourceID)
	notify(callbacks, ChangeMembership, d)
	return nil
}

func (r *registry) SetLayerIndex(h element.Handle, layerIndex int) error {
	r.mu.Lock()
	i := r.indexLocked(h)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	if err := r.checkLayer(layerIndex); err != nil {
		r.mu.Unlock()
		return err
	}
	r.shapes[i].LayerIndex = layerIndex
	r.mu.Unlock()

	return r.OnLayerIndexChanged(h)
}

func (r *registry) OnLayerIndexChanged(h element.Handle) error {
	r.mu.Lock()
	i := r.indexLocked(h)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	r.sortLocked()
	d := r.shapes[r.indexLocked(h)]
	callbacks := r.callbacks
	r.mu.Unlock()

	notify(callbacks, ChangeLayerLayout, d)
	return nil
}

func (r *registry) Get(h element.Handle) (element.ShapeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexLocked(h)
	if i < 0 {
		return element.ShapeDescriptor{}, false
	}
	return r.shapes[i], true
}

func (r *registry) Sorted() []element.ShapeDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.shapes)
}

func (r *registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shapes)
}

func (r *registry) Usage() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usage
}

func (r *registry) Capacity() int {
	return r.capacity
}

func (r *registry) LayerCount() int {
	return r.layerCount
}

func (r *registry) AddChangeCallback(cb ChangeCallback) {
	if cb == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(slices.Clip(r.callbacks), cb)
}

func (r *registry) Clear() {
	r.mu.Lock()
	r.shapes = nil
	r.usage = 0
	callbacks := r.callbacks
	r.mu.Unlock()

	notify(callbacks, ChangeMembership, element.ShapeDescriptor{})
}

func (r *registry) checkLayer(layerIndex int) error {
	if layerIndex < 0 || layerIndex >= r.layerCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrLayerIndexOutOfRange, layerIndex, r.layerCount)
	}
	return nil
}

func (r *registry) indexLocked(h element.Handle) int {
	return slices.IndexFunc(r.shapes, func(d element.ShapeDescriptor) bool { return d.Handle == h })
}

// sortLocked orders by layer index, falling back to the handle so ties keep registration order
// regardless of how often a shape has moved between layers.
func (r *registry) sortLocked() {
	slices.SortStableFunc(r.shapes, func(a, b element.ShapeDescriptor) int {
		return cmp.Or(cmp.Compare(a.LayerIndex, b.LayerIndex), cmp.Compare(a.Handle, b.Handle))
	})
}

func notify(callbacks []ChangeCallback, kind ChangeKind, d element.ShapeDescriptor) {
	for _, cb := range callbacks {
		cb(kind, d)
	}
}
