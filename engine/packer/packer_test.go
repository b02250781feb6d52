package packer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layout"
	"github.com/Carmen-Shannon/oxy-sdf/engine/registry"
	"github.com/Carmen-Shannon/oxy-sdf/engine/style"
	"github.com/Carmen-Shannon/oxy-sdf/engine/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewport = common.Viewport{Width: 1000, Height: 500}

func word(f float32) uint32 { return math.Float32bits(f) }

func float(w uint32) float32 { return math.Float32frombits(w) }

func newProvider(t *testing.T, shapes ...layout.Shape) *layout.StaticProvider {
	t.Helper()
	p := layout.NewStaticProvider()
	for _, s := range shapes {
		require.NoError(t, p.Set(s))
	}
	return p
}

func descriptor(h int, id string, typ element.Type, layerIndex int) element.ShapeDescriptor {
	return element.ShapeDescriptor{Handle: element.Handle(h), SourceID: id, Type: typ, LayerIndex: layerIndex}
}

func TestPackSphereRecord(t *testing.T) {
	provider := newProvider(t, layout.Shape{
		ID:        "ball",
		Rect:      common.Rect{Left: 100, Top: 200, Width: 200, Height: 100},
		Transform: "none",
		Style:     "background-color: rgb(255, 0, 0); --depth: 0.2; --z: 0.05; --kd: 0.8; --p: 32",
	})
	p := NewPacker()

	frame, err := p.Pack([]element.ShapeDescriptor{descriptor(1, "ball", element.Sphere, 0)}, provider, viewport)
	require.NoError(t, err)
	require.Empty(t, frame.Diagnostics)
	assert.Equal(t, 16, frame.UsedSlots)
	assert.Equal(t, 1, frame.NumElements)
	require.Len(t, frame.Geometry, 16)

	g := frame.Geometry
	// Identity linear block.
	assert.Equal(t, float32(1), float(g[0]))
	assert.Equal(t, float32(1), float(g[4]))
	assert.Equal(t, float32(1), float(g[8]))
	// Inverse translation of the normalized centre (0.2, 0.25, 0.15).
	assert.InDelta(t, -0.2, float(g[9]), 1e-6)
	assert.InDelta(t, -0.25, float(g[10]), 1e-6)
	assert.InDelta(t, -0.15, float(g[11]), 1e-6)
	assert.Equal(t, uint32(element.Sphere), g[12])
	// Radius falls back to half the normalized width.
	assert.InDelta(t, 0.1, float(g[13]), 1e-6)
	assert.Equal(t, []uint32{0, 0}, g[14:16])

	s := frame.Shading
	assert.Equal(t, uint32(0xFF0000FF), s[0])
	assert.Equal(t, style.DefaultFallbackColor, s[1])
	assert.Equal(t, style.DefaultFallbackColor, s[2])
	assert.Equal(t, float32(0.8), float(s[3]))
	assert.Equal(t, DefaultMaterial.Ks, float(s[4]))
	assert.Equal(t, float32(32), float(s[5]))
	assert.Equal(t, DefaultMaterial.Ka, float(s[6]))
	assert.Equal(t, float32(1), float(s[7]))
}

func TestPackOffsetsFollowRecordSizes(t *testing.T) {
	provider := newProvider(t,
		layout.Shape{ID: "a", Rect: common.Rect{Width: 100, Height: 100}},
		layout.Shape{ID: "b", Rect: common.Rect{Width: 100, Height: 100}, Style: "background-color: rgb(0, 0, 255)"},
		layout.Shape{ID: "c", Rect: common.Rect{Width: 100, Height: 100}, Style: "background-color: rgb(0, 255, 0)"},
	)
	shapes := []element.ShapeDescriptor{
		descriptor(1, "a", element.Sphere, 0),
		descriptor(2, "b", element.Box, 0),
		descriptor(3, "c", element.Border, 1),
	}

	frame, err := NewPacker().Pack(shapes, provider, viewport)
	require.NoError(t, err)
	assert.Equal(t, (4+6+5)*4, frame.UsedSlots)

	assert.Equal(t, uint32(element.Box), frame.Geometry[16+12])
	assert.Equal(t, uint32(element.Border), frame.Geometry[40+12])
	assert.Equal(t, uint32(0x0000FFFF), frame.Shading[16])
	assert.Equal(t, uint32(0x00FF00FF), frame.Shading[40])
}

func TestTagSurvivesFloatView(t *testing.T) {
	provider := newProvider(t, layout.Shape{ID: "x", Rect: common.Rect{Width: 10, Height: 10}})
	p := NewPacker()
	for _, typ := range element.Types() {
		frame, err := p.Pack([]element.ShapeDescriptor{descriptor(1, "x", typ, 0)}, provider, viewport)
		require.NoError(t, err)

		view := frame.GeometryFloats()
		assert.Equal(t, typ.Tag(), common.FloatBitsToInt(view[12]), typ.String())

		bytes := frame.GeometryBytes()
		assert.Equal(t, uint32(typ.Tag()), binary.LittleEndian.Uint32(bytes[12*4:]))
	}
}

func TestPackIsDeterministic(t *testing.T) {
	provider := newProvider(t,
		layout.Shape{ID: "a", Rect: common.Rect{Left: 5, Top: 6, Width: 70, Height: 80}, Transform: "matrix(0.8, 0.6, -0.6, 0.8, 3, 4)", Style: "--depth: 0.1; border-top-left-radius: 4px"},
		layout.Shape{ID: "b", Rect: common.Rect{Left: 50, Top: 60, Width: 20, Height: 30}, Style: "background-color: rgba(1, 2, 3, 0.5); border-width: 2px"},
	)
	shapes := []element.ShapeDescriptor{descriptor(1, "a", element.Box, 0), descriptor(2, "b", element.Border, 0)}

	p := NewPacker()
	first, err := p.Pack(shapes, provider, viewport)
	require.NoError(t, err)
	firstGeometry, firstShading := first.GeometryBytes(), first.ShadingBytes()

	second, err := NewPacker().Pack(shapes, provider, viewport)
	require.NoError(t, err)
	assert.Equal(t, firstGeometry, second.GeometryBytes())
	assert.Equal(t, firstShading, second.ShadingBytes())

	again, err := p.Pack(shapes, provider, viewport)
	require.NoError(t, err)
	assert.Equal(t, firstGeometry, again.GeometryBytes())
}

func TestSingularTransformPacksDegenerateRecord(t *testing.T) {
	provider := newProvider(t,
		layout.Shape{ID: "flat", Rect: common.Rect{Width: 10, Height: 10}, Transform: "matrix(0, 0, 0, 0, 0, 0)", Style: "background-color: rgb(9, 9, 9)"},
		layout.Shape{ID: "ok", Rect: common.Rect{Width: 10, Height: 10}},
	)
	shapes := []element.ShapeDescriptor{descriptor(1, "flat", element.BoxSimple, 0), descriptor(2, "ok", element.Sphere, 0)}

	frame, err := NewPacker().Pack(shapes, provider, viewport)
	require.NoError(t, err)
	require.Len(t, frame.Diagnostics, 1)
	assert.ErrorIs(t, frame.Diagnostics[0], transform.ErrSingularTransform)
	assert.Equal(t, element.Handle(1), frame.Diagnostics[0].Handle)

	assert.Equal(t, make([]uint32, 12), frame.Geometry[:12])
	assert.Equal(t, uint32(element.BoxSimple), frame.Geometry[12])
	assert.InDelta(t, 0.005, float(frame.Geometry[13]), 1e-7)
	assert.Equal(t, uint32(0x090909FF), frame.Shading[0])

	// The next shape is unaffected.
	assert.Equal(t, float32(1), float(frame.Geometry[16]))
	assert.Equal(t, 32, frame.UsedSlots)
}

func TestMalformedValuesFallBack(t *testing.T) {
	provider := newProvider(t, layout.Shape{
		ID:        "bad",
		Rect:      common.Rect{Width: 10, Height: 10},
		Transform: "rotate(12deg)",
		Style:     "background-color: not-a-color; --kd: lots",
	})
	p := NewPacker(WithFallbackColor(0xDEADBEEF), WithMaterial(Material{Kd: 0.5, Ks: 0.25, P: 8, Ka: 0.125}))

	frame, err := p.Pack([]element.ShapeDescriptor{descriptor(7, "bad", element.Sphere, 0)}, provider, viewport)
	require.NoError(t, err)
	require.Len(t, frame.Diagnostics, 3)
	for _, d := range frame.Diagnostics {
		assert.ErrorIs(t, d, style.ErrMalformedStyleValue)
	}
	assert.ErrorIs(t, frame.Diagnostics[0], transform.ErrMalformedTransform)

	// Identity is used in place of the malformed transform.
	assert.Equal(t, float32(1), float(frame.Geometry[0]))
	assert.Equal(t, uint32(0xDEADBEEF), frame.Shading[0])
	assert.Equal(t, uint32(0xDEADBEEF), frame.Shading[1])
	assert.Equal(t, float32(0.5), float(frame.Shading[3]))
	assert.Equal(t, float32(8), float(frame.Shading[5]))
}

func TestDepthIsUnitless(t *testing.T) {
	rect := common.Rect{Left: 100, Top: 200, Width: 200, Height: 100}
	provider := newProvider(t,
		layout.Shape{ID: "plain", Rect: rect, Style: "--z: 0.05; --depth: 0.2"},
		layout.Shape{ID: "px", Rect: rect, Style: "--z: 0.05; --depth: 40px"},
	)
	shapes := []element.ShapeDescriptor{descriptor(1, "plain", element.Sphere, 0), descriptor(2, "px", element.Sphere, 0)}

	frame, err := NewPacker().Pack(shapes, provider, viewport)
	require.NoError(t, err)

	// A trailing unitless depth is read.
	assert.InDelta(t, -0.15, float(frame.Geometry[11]), 1e-6)

	// A length is not a depth: it is reported and the depth falls back to zero.
	require.Len(t, frame.Diagnostics, 1)
	assert.Equal(t, "px", frame.Diagnostics[0].SourceID)
	assert.ErrorIs(t, frame.Diagnostics[0], style.ErrMalformedStyleValue)
	assert.InDelta(t, -0.05, float(frame.Geometry[16+11]), 1e-6)
}

func TestUnknownShapeIsIsolated(t *testing.T) {
	provider := newProvider(t, layout.Shape{ID: "known", Rect: common.Rect{Width: 10, Height: 10}})
	shapes := []element.ShapeDescriptor{descriptor(1, "gone", element.Sphere, 0), descriptor(2, "known", element.Sphere, 0)}

	frame, err := NewPacker().Pack(shapes, provider, viewport)
	require.NoError(t, err)
	assert.Equal(t, 2, frame.NumElements)
	require.NotEmpty(t, frame.Diagnostics)
	for _, d := range frame.Diagnostics {
		assert.Equal(t, "gone", d.SourceID)
	}
	assert.ErrorIs(t, frame.Diagnostics[0], layout.ErrUnknownShape)
}

func TestBoxTail(t *testing.T) {
	provider := newProvider(t, layout.Shape{
		ID:    "card",
		Rect:  common.Rect{Width: 400, Height: 200},
		Style: "--depth: 0.04; border-top-left-radius: 10px; border-top-right-radius: 20px; border-bottom-right-radius: 30px; border-bottom-left-radius: 40px",
	})
	frame, err := NewPacker().Pack([]element.ShapeDescriptor{descriptor(1, "card", element.Box, 0)}, provider, viewport)
	require.NoError(t, err)

	g := frame.Geometry
	assert.InDelta(t, 0.2, float(g[13]), 1e-6)
	assert.InDelta(t, 0.1, float(g[14]), 1e-6)
	assert.InDelta(t, 0.02, float(g[15]), 1e-6)
	assert.InDelta(t, 0.01, float(g[16]), 1e-6)
	assert.InDelta(t, 0.04, float(g[19]), 1e-6)
	assert.Equal(t, uint32(element.RadiusRound), g[20])
	assert.Equal(t, make([]uint32, 3), g[21:24])
}

func TestBorderAndRoundBoxTails(t *testing.T) {
	provider := newProvider(t,
		layout.Shape{ID: "frame", Rect: common.Rect{Width: 100, Height: 100}, Style: "border-width: 5px; --radius: 20px"},
		layout.Shape{ID: "pill", Rect: common.Rect{Width: 100, Height: 50}, Style: "border-top-left-radius: 25px; --radius-type: chamfer"},
	)
	shapes := []element.ShapeDescriptor{descriptor(1, "frame", element.Border, 0), descriptor(2, "pill", element.RoundBox, 0)}
	frame, err := NewPacker().Pack(shapes, provider, viewport)
	require.NoError(t, err)

	g := frame.Geometry
	assert.InDelta(t, 0.005, float(g[16]), 1e-7)
	assert.InDelta(t, 0.02, float(g[17]), 1e-7)
	assert.InDelta(t, 0.025, float(g[20+16]), 1e-7)
}

func TestPackStructuralErrors(t *testing.T) {
	provider := newProvider(t, layout.Shape{ID: "a"})
	p := NewPacker(WithCapacity(4))
	assert.Equal(t, 4, p.Capacity())

	_, err := p.Pack([]element.ShapeDescriptor{descriptor(1, "a", element.Sphere, 0), descriptor(2, "a", element.Sphere, 0)}, provider, viewport)
	assert.ErrorIs(t, err, registry.ErrCapacityExceeded)

	_, err = p.Pack(nil, provider, common.Viewport{})
	assert.ErrorIs(t, err, ErrInvalidViewport)

	_, err = p.Pack([]element.ShapeDescriptor{descriptor(1, "a", element.Type(12), 0)}, provider, viewport)
	assert.ErrorIs(t, err, element.ErrUnknownType)

	frame, err := p.Pack(nil, provider, viewport)
	require.NoError(t, err)
	assert.Zero(t, frame.UsedSlots)
	assert.Empty(t, frame.Geometry)
}

func TestFrameClone(t *testing.T) {
	provider := newProvider(t, layout.Shape{ID: "a", Rect: common.Rect{Width: 10, Height: 10}})
	p := NewPacker()
	shapes := []element.ShapeDescriptor{descriptor(1, "a", element.Sphere, 0)}

	frame, err := p.Pack(shapes, provider, viewport)
	require.NoError(t, err)
	kept := frame.Clone()

	provider.SetRect("a", common.Rect{Width: 500, Height: 10})
	_, err = p.Pack(shapes, provider, viewport)
	require.NoError(t, err)

	assert.InDelta(t, 0.005, float(kept.Geometry[13]), 1e-7)
	assert.InDelta(t, 0.25, float(frame.Geometry[13]), 1e-7)
	assert.Equal(t, word(1), kept.Shading[7])
}
