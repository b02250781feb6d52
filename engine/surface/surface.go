// package surface defines the render surface the scene hands packed frames to, and an in-memory recorder
// implementation.
package surface

import (
	"github.com/Carmen-Shannon/oxy-sdf/engine/layer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/packer"
)

// RenderSurface consumes packed frames and layer tables. Implementations must copy anything they keep
// beyond the call, since frame buffers are reused by the next pack.
type RenderSurface interface {
	// OnMembershipChanged is called after a shape was attached or detached.
	//
	// Parameters:
	//   - table: the recomputed layer table
	OnMembershipChanged(table layer.Table)

	// OnLayerLayoutChanged is called after a shape moved to another layer.
	//
	// Parameters:
	//   - table: the recomputed layer table
	OnLayerLayoutChanged(table layer.Table)

	// Upload receives one packed frame.
	//
	// Parameters:
	//   - frame: the packed buffers
	//   - table: the layer table for the frame
	//
	// Returns:
	//   - error: error if the upload fails
	Upload(frame packer.Frame, table layer.Table) error
}
