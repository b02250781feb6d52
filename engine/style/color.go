package style

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/chewxy/math32"
)

// DefaultFallbackColor is the packed word used when a colour cannot be parsed: transparent black.
const DefaultFallbackColor uint32 = 0x00000000

// RGBA is an 8-bit per channel colour.
type RGBA struct {
	R, G, B, A uint8
}

// Pack returns the colour as a single word with R in the most significant byte: R<<24 | G<<16 | B<<8 | A.
func (c RGBA) Pack() uint32 {
	return PackRGBA(c)
}

// PackRGBA packs a colour into one 32-bit word, R in the most significant byte.
//
// Parameters:
//   - c: the colour
//
// Returns:
//   - uint32: R<<24 | G<<16 | B<<8 | A
func PackRGBA(c RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// UnpackRGBA is the inverse of PackRGBA.
func UnpackRGBA(w uint32) RGBA {
	return RGBA{R: uint8(w >> 24), G: uint8(w >> 16), B: uint8(w >> 8), A: uint8(w)}
}

// ParseColor parses an rgb() or rgba() computed colour, or the keyword "transparent".
// Channels may be numbers (0..255) or percentages; alpha may be a number (0..1) or a percentage and
// defaults to 1 when absent. Out-of-range values are clamped.
//
// Parameters:
//   - s: the colour string
//
// Returns:
//   - RGBA: the parsed colour
//   - error: ErrMalformedStyleValue if s is not a supported colour
func ParseColor(s string) (RGBA, error) {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, "transparent") {
		return RGBA{}, nil
	}

	name, args, err := ParseFunction(trimmed)
	if err != nil {
		return RGBA{}, err
	}
	if name != "rgb" && name != "rgba" {
		return RGBA{}, malformed(s, "unsupported colour function "+name)
	}
	if len(args) != 3 && len(args) != 4 {
		return RGBA{}, malformed(s, "expected 3 or 4 components")
	}

	var c RGBA
	channels := [3]*uint8{&c.R, &c.G, &c.B}
	for i, dst := range channels {
		v, ok := channel(args[i])
		if !ok {
			return RGBA{}, malformed(s, "bad channel unit "+args[i].Unit)
		}
		*dst = v
	}

	alpha := float32(1)
	if len(args) == 4 {
		switch args[3].Unit {
		case "":
			alpha = float32(args[3].Value)
		case "%":
			alpha = float32(args[3].Value) / 100
		default:
			return RGBA{}, malformed(s, "bad alpha unit "+args[3].Unit)
		}
	}
	c.A = uint8(math32.Round(common.Clamp(alpha, 0, 1) * 255))
	return c, nil
}

// ColorWord parses s and packs it. On failure it returns fallback together with the parse error so the
// caller can record the diagnostic and keep going.
//
// Parameters:
//   - s: the colour string
//   - fallback: the word to use when s is malformed
//
// Returns:
//   - uint32: the packed colour or fallback
//   - error: ErrMalformedStyleValue if s could not be parsed
func ColorWord(s string, fallback uint32) (uint32, error) {
	c, err := ParseColor(s)
	if err != nil {
		return fallback, err
	}
	return c.Pack(), nil
}

func channel(a Arg) (uint8, bool) {
	v := float32(a.Value)
	switch a.Unit {
	case "":
	case "%":
		v = v * 255 / 100
	default:
		return 0, false
	}
	return uint8(math32.Round(common.Clamp(v, 0, 255))), true
}
