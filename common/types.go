// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Rect is an axis-aligned screen-space bounding rectangle in pixels.
type Rect struct {
	Left   float32 `toml:"left" yaml:"left"`
	Top    float32 `toml:"top" yaml:"top"`
	Width  float32 `toml:"width" yaml:"width"`
	Height float32 `toml:"height" yaml:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float32 {
	return r.Left + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float32 {
	return r.Top + r.Height
}

// Viewport is the size of the drawing area in pixels.
// All packed lengths are normalized by Width.
type Viewport struct {
	Width  float32
	Height float32
}

// Valid reports whether the viewport can be used to normalize lengths.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height >= 0
}
