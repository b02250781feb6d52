package packer

import (
	"encoding/binary"
	"fmt"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
)

// Frame is the result of one Pack call. Geometry and Shading alias the packer's buffers.
type Frame struct {
	Geometry    []uint32 // first UsedSlots words of the geometry buffer
	Shading     []uint32 // first UsedSlots words of the shading buffer
	UsedSlots   int      // scalar slots used, 4 per record unit
	NumElements int
	Diagnostics []ShapeError
}

// GeometryFloats returns the geometry words reinterpreted as float32 without copying.
func (f Frame) GeometryFloats() []float32 {
	return common.WordsAsFloat32s(f.Geometry)
}

// ShadingFloats returns the shading words reinterpreted as float32 without copying.
func (f Frame) ShadingFloats() []float32 {
	return common.WordsAsFloat32s(f.Shading)
}

// GeometryBytes returns a little-endian copy of the geometry words suitable for GPU upload.
func (f Frame) GeometryBytes() []byte {
	return marshalWords(f.Geometry)
}

// ShadingBytes returns a little-endian copy of the shading words suitable for GPU upload.
func (f Frame) ShadingBytes() []byte {
	return marshalWords(f.Shading)
}

// Clone returns a Frame that owns its buffers.
func (f Frame) Clone() Frame {
	f.Geometry = append([]uint32(nil), f.Geometry...)
	f.Shading = append([]uint32(nil), f.Shading...)
	f.Diagnostics = append([]ShapeError(nil), f.Diagnostics...)
	return f
}

func marshalWords(words []uint32) []byte {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// ShapeError is a problem with one shape that did not stop the frame.
type ShapeError struct {
	Handle   element.Handle
	SourceID string
	Err      error
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("shape %d (%s): %v", e.Handle, e.SourceID, e.Err)
}

func (e ShapeError) Unwrap() error {
	return e.Err
}
