package style

// Style property names read from the layout provider.
const (
	PropBackgroundColor = "background-color"
	PropSpecularColor   = "--specular-color"
	PropAmbientColor    = "--ambient-color"
	PropKd              = "--kd"
	PropKs              = "--ks"
	PropP               = "--p"
	PropKa              = "--ka"
	PropDepth           = "--depth"
	PropZ               = "--z"
	PropRadius          = "--radius"
	PropRadiusType      = "--radius-type"
	PropBorderWidth     = "border-width"
	PropTopLeftRadius   = "border-top-left-radius"
	PropTopRightRadius  = "border-top-right-radius"
	PropBottomRightRad  = "border-bottom-right-radius"
	PropBottomLeftRad   = "border-bottom-left-radius"
)

// CornerRadii lists the corner radius properties in the order a Box record stores them.
var CornerRadii = [4]string{PropTopLeftRadius, PropTopRightRadius, PropBottomRightRad, PropBottomLeftRad}

// ParseNumber parses a unitless number.
//
// Parameters:
//   - s: the style value
//
// Returns:
//   - float32: the number
//   - error: ErrMalformedStyleValue if s is not a plain number
func ParseNumber(s string) (float32, error) {
	a, err := ParseScalar(s)
	if err != nil {
		return 0, err
	}
	if a.Unit != "" {
		return 0, malformed(s, "unexpected unit "+a.Unit)
	}
	return float32(a.Value), nil
}

// ParseLength parses a pixel length. Unitless values are taken as pixels.
//
// Parameters:
//   - s: the style value
//
// Returns:
//   - float32: the length in pixels
//   - error: ErrMalformedStyleValue if s is not a px or unitless number
func ParseLength(s string) (float32, error) {
	a, err := ParseScalar(s)
	if err != nil {
		return 0, err
	}
	if a.Unit != "" && a.Unit != "px" {
		return 0, malformed(s, "unsupported unit "+a.Unit)
	}
	return float32(a.Value), nil
}
