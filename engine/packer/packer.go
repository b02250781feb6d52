// package packer serializes the registry's shapes into the flat geometry and shading buffers the evaluator
// reads as uniform blocks.
package packer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layout"
	"github.com/Carmen-Shannon/oxy-sdf/engine/registry"
	"github.com/Carmen-Shannon/oxy-sdf/engine/style"
	"github.com/Carmen-Shannon/oxy-sdf/engine/transform"
)

// ShadingSlots is the number of scalars a shading record occupies.
const ShadingSlots = 8

// ErrInvalidViewport is returned when packing is attempted with a viewport width that cannot normalize lengths.
var ErrInvalidViewport = errors.New("packer: invalid viewport")

// Material holds the shading coefficients used when a shape does not set them.
type Material struct {
	Kd, Ks, P, Ka float32
}

// DefaultMaterial is a purely diffuse material.
var DefaultMaterial = Material{Kd: 1, Ks: 0, P: 1, Ka: 0}

// Packer owns the geometry and shading buffers and rewrites them once per frame.
// Not safe for concurrent use; the owning scene serializes access.
type Packer interface {
	// Pack writes every shape, in order, into the buffers. Each record starts at the running sum of the
	// previous record sizes; the shading record sits at the same offset in the shading buffer.
	// Problems with individual shapes are reported in Frame.Diagnostics and do not stop the frame.
	//
	// Parameters:
	//   - shapes: the shapes in packing order
	//   - provider: the source of layout and style values
	//   - viewport: the drawing area used to normalize lengths
	//
	// Returns:
	//   - Frame: views of the freshly written buffers, valid until the next call to Pack
	//   - error: registry.ErrCapacityExceeded or ErrInvalidViewport
	Pack(shapes []element.ShapeDescriptor, provider layout.LayoutProvider, viewport common.Viewport) (Frame, error)

	// Capacity returns the buffer capacity in vec4 record units.
	Capacity() int
}

type packer struct {
	capacity int
	geometry []uint32
	shading  []uint32
	fallback uint32
	material Material
	resolver transform.Resolver
	epsilon  float64
	tail     []uint32
}

var _ Packer = &packer{}

// NewPacker creates a new Packer with the given options.
// Defaults to registry.MaxBufferCapacity, transparent black as the colour fallback and DefaultMaterial.
//
// Parameters:
//   - options: variadic list of PackerBuilderOption functions to configure the Packer
//
// Returns:
//   - Packer: the newly created Packer
func NewPacker(options ...PackerBuilderOption) Packer {
	p := &packer{
		capacity: registry.MaxBufferCapacity,
		fallback: style.DefaultFallbackColor,
		material: DefaultMaterial,
		epsilon:  common.SingularEpsilon,
	}
	for _, opt := range options {
		opt(p)
	}
	p.geometry = make([]uint32, p.capacity*4)
	p.shading = make([]uint32, p.capacity*4)
	p.resolver = transform.NewResolver(transform.WithEpsilon(p.epsilon))
	p.tail = make([]uint32, 0, 16)
	return p
}

func (p *packer) Capacity() int {
	return p.capacity
}

func (p *packer) Pack(shapes []element.ShapeDescriptor, provider layout.LayoutProvider, viewport common.Viewport) (Frame, error) {
	if !viewport.Valid() {
		return Frame{}, fmt.Errorf("%w: %vx%v", ErrInvalidViewport, viewport.Width, viewport.Height)
	}

	usage := 0
	for _, s := range shapes {
		if !s.Type.Valid() {
			return Frame{}, fmt.Errorf("packer: shape %d: %w", s.Handle, element.ErrUnknownType)
		}
		usage += s.RecordSize()
	}
	if usage > p.capacity {
		return Frame{}, fmt.Errorf("%w: %d units needed, capacity %d", registry.ErrCapacityExceeded, usage, p.capacity)
	}

	frame := Frame{NumElements: len(shapes)}
	offset := 0
	for _, s := range shapes {
		slots := s.Type.Slots()
		r := &shapeReader{provider: provider, shape: s}
		p.packGeometry(p.geometry[offset:offset+slots], r, viewport)
		p.packShading(p.shading[offset:offset+slots], r)
		for _, err := range r.errs {
			common.Logger().Warn("packer: shape diagnostic", "handle", s.Handle, "source", s.SourceID, "err", err)
			frame.Diagnostics = append(frame.Diagnostics, ShapeError{Handle: s.Handle, SourceID: s.SourceID, Err: err})
		}
		offset += slots
	}

	frame.UsedSlots = offset
	frame.Geometry = p.geometry[:offset]
	frame.Shading = p.shading[:offset]
	return frame, nil
}

// packGeometry writes [12 basis scalars | tag | tail | zero padding] into rec.
// A singular transform still produces a record with a zero basis so layer counts stay aligned with the buffer.
func (p *packer) packGeometry(rec []uint32, r *shapeReader, vp common.Viewport) {
	clear(rec)

	rect := r.rect()
	depth := r.number(style.PropDepth, 0)
	z := r.number(style.PropZ, 0)
	desc := r.transform()

	inv, err := p.resolver.ResolveInverse(desc, rect, vp, depth, z)
	if err != nil {
		r.fail(err)
	}
	basis := transform.Basis(inv)
	for i, v := range basis {
		rec[i] = common.FloatWord(v)
	}
	rec[12] = common.IntWord(r.shape.Type.Tag())

	p.tail = buildParams(r, rect, vp, depth).AppendTail(p.tail[:0])
	copy(rec[13:], p.tail)
}

// packShading writes [diffuse | specular | ambient | kd | ks | p | ka | 1] into rec.
// Words past ShadingSlots are zeroed.
func (p *packer) packShading(rec []uint32, r *shapeReader) {
	clear(rec)
	rec[0] = r.color(style.PropBackgroundColor, p.fallback)
	rec[1] = r.color(style.PropSpecularColor, p.fallback)
	rec[2] = r.color(style.PropAmbientColor, p.fallback)
	rec[3] = common.FloatWord(r.number(style.PropKd, p.material.Kd))
	rec[4] = common.FloatWord(r.number(style.PropKs, p.material.Ks))
	rec[5] = common.FloatWord(r.number(style.PropP, p.material.P))
	rec[6] = common.FloatWord(r.number(style.PropKa, p.material.Ka))
	rec[7] = common.FloatWord(1)
}
