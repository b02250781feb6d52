package layer

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPULayerTableSource is the canonical WGSL definition of the LayerTable uniform.
// Matches GPULayerTable layout exactly (208 bytes, uniform aligned).
//
//go:embed assets/layer_table.wgsl
var GPULayerTableSource string

// GPULayerTableSize is the size of the marshaled layer table in bytes.
const GPULayerTableSize = 16 + 3*MaxLayers*4

// GPULayerTable is the uniform-buffer form of a Table.
// The per-layer arrays are declared as array<vec4<T>, 4> in WGSL so each element is tightly packed.
type GPULayerTable struct {
	NumElements uint32             // offset  0: number of packed shapes
	NumLayers   uint32             // offset  4: number of valid layer slots
	Resolution  [2]float32         // offset  8: viewport size in pixels
	Operations  [MaxLayers]int32   // offset 16: Operation per layer
	Counts      [MaxLayers]int32   // offset 80: ElementsInLayer per layer
	Smoothing   [MaxLayers]float32 // offset 144: normalized smoothing factor per layer
}

// NewGPULayerTable converts a Table into its uniform form. Slots beyond the table are zero.
//
// Parameters:
//   - t: the layer table
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - GPULayerTable: the uniform form
func NewGPULayerTable(t Table, width, height float32) GPULayerTable {
	g := GPULayerTable{
		NumElements: uint32(t.NumElements),
		NumLayers:   uint32(min(t.NumLayers(), MaxLayers)),
		Resolution:  [2]float32{width, height},
	}
	for i := 0; i < int(g.NumLayers); i++ {
		g.Operations[i] = int32(t.Operations[i])
		g.Counts[i] = t.ElementsInLayer[i]
		g.Smoothing[i] = t.SmoothingFactors[i]
	}
	return g
}

// Size returns the size of the GPULayerTable in bytes.
//
// Returns:
//   - int: the struct size in bytes (208)
func (g *GPULayerTable) Size() int {
	return GPULayerTableSize
}

// Marshal serializes the GPULayerTable into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 208-byte buffer ready for GPU upload
func (g *GPULayerTable) Marshal() []byte {
	buf := make([]byte, GPULayerTableSize)
	binary.LittleEndian.PutUint32(buf[0:4], g.NumElements)
	binary.LittleEndian.PutUint32(buf[4:8], g.NumLayers)
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Resolution[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Resolution[1]))
	for i := 0; i < MaxLayers; i++ {
		binary.LittleEndian.PutUint32(buf[16+i*4:], uint32(g.Operations[i]))
		binary.LittleEndian.PutUint32(buf[80+i*4:], uint32(g.Counts[i]))
		binary.LittleEndian.PutUint32(buf[144+i*4:], math.Float32bits(g.Smoothing[i]))
	}
	return buf
}
