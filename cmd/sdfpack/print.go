package main

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
	"github.com/Carmen-Shannon/oxy-sdf/engine/packer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/scene"
	"github.com/muesli/termenv"
)

const (
	formatFloat = "float"
	formatHex   = "hex"
)

// printer writes packed frames to a terminal.
type printer struct {
	out    *termenv.Output
	format string
}

func (p *printer) heading(s string) string {
	return p.out.String(s).Bold().Foreground(p.out.Color("#61afef")).String()
}

func (p *printer) dim(s string) string {
	return p.out.String(s).Faint().String()
}

func (p *printer) warn(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#e06c75")).String()
}

func (p *printer) print(sc scene.Scene, frame packer.Frame) {
	vp := sc.Viewport()
	table := sc.LayerTable()

	fmt.Fprintf(p.out, "%s %s  %gx%g  %d shapes  %d/%d units\n",
		p.heading("scene"), sc.Name(), vp.Width, vp.Height, frame.NumElements, frame.UsedSlots/4, sc.Capacity())

	fmt.Fprintln(p.out, p.heading("layers"))
	for i, op := range table.Operations {
		fmt.Fprintf(p.out, "  %2d  %-20s %3d shapes  smoothing %.6g\n", i, op, table.ElementsInLayer[i], table.SmoothingFactors[i])
	}

	shapes := sc.Shapes()
	fmt.Fprintln(p.out, p.heading("geometry"))
	p.records(shapes, frame.Geometry)
	fmt.Fprintln(p.out, p.heading("shading"))
	p.records(shapes, frame.Shading)

	for _, d := range frame.Diagnostics {
		fmt.Fprintln(p.out, p.warn("! "+d.Error()))
	}
}

// records prints each shape's record, one vec4 per line.
func (p *printer) records(shapes []element.ShapeDescriptor, words []uint32) {
	offset := 0
	for _, s := range shapes {
		size := s.Type.RecordSize()
		fmt.Fprintf(p.out, "  %s %s %s\n", p.dim(fmt.Sprintf("@%d", offset)), s.SourceID, p.dim(s.Type.String()))
		for slot := offset; slot < offset+size && (slot+1)*4 <= len(words); slot++ {
			fmt.Fprintf(p.out, "    %s\n", p.vec4(words[slot*4:slot*4+4]))
		}
		offset += size
	}
}

func (p *printer) vec4(w []uint32) string {
	parts := make([]string, len(w))
	floats := common.WordsAsFloat32s(w)
	for i, v := range w {
		if p.format == formatHex {
			parts[i] = fmt.Sprintf("%08x", v)
		} else {
			parts[i] = fmt.Sprintf("%12.6g", floats[i])
		}
	}
	return strings.Join(parts, " ")
}
