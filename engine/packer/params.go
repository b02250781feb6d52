package packer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layout"
	"github.com/Carmen-Shannon/oxy-sdf/engine/style"
)

// shapeReader reads one shape's inputs from the provider and collects every error it meets.
// Missing values fall back silently; malformed ones fall back and record an error.
type shapeReader struct {
	provider layout.LayoutProvider
	shape    element.ShapeDescriptor
	errs     []error
}

func (r *shapeReader) fail(err error) {
	r.errs = append(r.errs, err)
}

func (r *shapeReader) rect() common.Rect {
	rect, err := r.provider.BoundingRect(r.shape.SourceID)
	if err != nil {
		r.fail(err)
	}
	return rect
}

func (r *shapeReader) transform() string {
	d, err := r.provider.TransformDescription(r.shape.SourceID)
	if err != nil {
		r.fail(err)
	}
	return d
}

func (r *shapeReader) number(name string, def float32) float32 {
	raw, ok := r.provider.StyleValue(r.shape.SourceID, name)
	if !ok || raw == "" {
		return def
	}
	v, err := style.ParseNumber(raw)
	if err != nil {
		r.fail(fmt.Errorf("%s: %w", name, err))
		return def
	}
	return v
}

// length returns a pixel length normalized by the viewport width and whether the property was set.
func (r *shapeReader) length(name string, vp common.Viewport) (float32, bool) {
	raw, ok := r.provider.StyleValue(r.shape.SourceID, name)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := style.ParseLength(raw)
	if err != nil {
		r.fail(fmt.Errorf("%s: %w", name, err))
		return 0, false
	}
	return v / vp.Width, true
}

func (r *shapeReader) color(name string, fallback uint32) uint32 {
	raw, ok := r.provider.StyleValue(r.shape.SourceID, name)
	if !ok || raw == "" {
		return fallback
	}
	w, err := style.ColorWord(raw, fallback)
	if err != nil {
		r.fail(fmt.Errorf("%s: %w", name, err))
	}
	return w
}

func (r *shapeReader) radiusType(radii [4]float32) element.RadiusType {
	raw, ok := r.provider.StyleValue(r.shape.SourceID, style.PropRadiusType)
	if !ok || raw == "" {
		for _, v := range radii {
			if v > 0 {
				return element.RadiusRound
			}
		}
		return element.RadiusSharp
	}
	rt, ok := element.ParseRadiusType(raw)
	if !ok {
		r.fail(fmt.Errorf("%s: %w: %q", style.PropRadiusType, style.ErrMalformedStyleValue, raw))
	}
	return rt
}

// radius reads --radius, falling back to the top-left border radius.
func (r *shapeReader) radius(vp common.Viewport) float32 {
	if v, ok := r.length(style.PropRadius, vp); ok {
		return v
	}
	v, _ := r.length(style.PropTopLeftRadius, vp)
	return v
}

// buildParams derives the type-specific tail of a record. Half extents are normalized by the viewport width.
func buildParams(r *shapeReader, rect common.Rect, vp common.Viewport, depth float32) element.Params {
	halfW := rect.Width / vp.Width * 0.5
	halfH := rect.Height / vp.Width * 0.5
	halfD := depth * 0.5

	switch r.shape.Type {
	case element.Sphere:
		radius, ok := r.length(style.PropRadius, vp)
		if !ok {
			radius = halfW
		}
		return element.SphereParams{Radius: radius}
	case element.BoxSimple:
		return element.BoxSimpleParams{HalfWidth: halfW, HalfHeight: halfH, HalfDepth: halfD}
	case element.Box:
		var radii [4]float32
		for i, name := range style.CornerRadii {
			radii[i], _ = r.length(name, vp)
		}
		return element.BoxParams{
			HalfWidth: halfW, HalfHeight: halfH, HalfDepth: halfD,
			Radii:      radii,
			RadiusType: r.radiusType(radii),
		}
	case element.RoundBox:
		return element.RoundBoxParams{HalfWidth: halfW, HalfHeight: halfH, HalfDepth: halfD, Radius: r.radius(vp)}
	case element.Border:
		thickness, _ := r.length(style.PropBorderWidth, vp)
		return element.BorderParams{
			HalfWidth: halfW, HalfHeight: halfH, HalfDepth: halfD,
			Thickness: thickness,
			Radius:    r.radius(vp),
		}
	}
	panic(fmt.Sprintf("packer: unhandled element type %v", r.shape.Type))
}
