// package layout supplies the per-frame inputs of every shape: its bounding rectangle, its computed style
// values and its transform description.
package layout

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-sdf/common"
)

// ErrUnknownShape is returned when a provider has no record of a shape.
var ErrUnknownShape = errors.New("layout: unknown shape")

// LayoutProvider is the external source of layout and style data. The engine only reads from it.
type LayoutProvider interface {
	// BoundingRect returns the shape's screen-space rectangle in pixels.
	//
	// Parameters:
	//   - shapeID: the shape's identifier
	//
	// Returns:
	//   - common.Rect: the bounding rectangle
	//   - error: ErrUnknownShape if the shape is not known
	BoundingRect(shapeID string) (common.Rect, error)

	// StyleValue returns a computed style value.
	//
	// Parameters:
	//   - shapeID: the shape's identifier
	//   - name: the property name, e.g. "background-color" or "--kd"
	//
	// Returns:
	//   - string: the raw value
	//   - bool: false if the property is not set
	StyleValue(shapeID, name string) (string, bool)

	// TransformDescription returns the computed transform, e.g. "none" or "matrix(1, 0, 0, 1, 0, 0)".
	//
	// Parameters:
	//   - shapeID: the shape's identifier
	//
	// Returns:
	//   - string: the transform description
	//   - error: ErrUnknownShape if the shape is not known
	TransformDescription(shapeID string) (string, error)
}

// Shape is one entry of a layout document.
type Shape struct {
	ID        string            `toml:"id" yaml:"id"`
	Type      string            `toml:"type" yaml:"type"`
	Layer     int               `toml:"layer" yaml:"layer"`
	Rect      common.Rect       `toml:"rect" yaml:"rect"`
	Transform string            `toml:"transform" yaml:"transform"`
	Style     string            `toml:"style" yaml:"style"`
	Styles    map[string]string `toml:"-" yaml:"-"`
}
