package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorWord(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
		err  bool
	}{
		{"rgb(255, 0, 0)", 0xFF0000FF, false},
		{"rgb(255,0,0)", 0xFF0000FF, false},
		{"rgba(0, 128, 255, 0.5)", 0x0080FF80, false},
		{"rgba(10, 20, 30, 0)", 0x0A141E00, false},
		{"rgb(0 128 255 / 50%)", 0x0080FF80, false},
		{"rgb(100%, 0%, 50%)", 0xFF0080FF, false},
		{"RGB(1, 2, 3)", 0x010203FF, false},
		{"rgb(300, -5, 0)", 0xFF0000FF, false},
		{"transparent", 0, false},
		{"not-a-color", DefaultFallbackColor, true},
		{"", DefaultFallbackColor, true},
		{"rgb(1, 2)", DefaultFallbackColor, true},
		{"rgb(1, 2, 3", DefaultFallbackColor, true},
		{"hsl(0, 100%, 50%)", DefaultFallbackColor, true},
		{"rgb(1px, 2, 3)", DefaultFallbackColor, true},
		{"rgb(1, 2, 3) red", DefaultFallbackColor, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ColorWord(c.in, DefaultFallbackColor)
			if c.err {
				assert.ErrorIs(t, err, ErrMalformedStyleValue)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, c.want, got, "got %#08x", got)
		})
	}
}

func TestColorWordCustomFallback(t *testing.T) {
	got, err := ColorWord("garbage", 0xFF00FFFF)
	assert.Error(t, err)
	assert.Equal(t, uint32(0xFF00FFFF), got)
}

func TestPackUnpack(t *testing.T) {
	c := RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x78}
	assert.Equal(t, uint32(0x12345678), c.Pack())
	assert.Equal(t, c, UnpackRGBA(c.Pack()))
}

func TestParseFunction(t *testing.T) {
	name, args, err := ParseFunction("matrix3d(1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1.5e2, -2px, 0, 1)")
	require.NoError(t, err)
	assert.Equal(t, "matrix3d", name)
	require.Len(t, args, 16)
	assert.Equal(t, 150.0, args[12].Value)
	assert.Equal(t, Arg{Value: -2, Unit: "px"}, args[13])

	_, _, err = ParseFunction("none")
	assert.ErrorIs(t, err, ErrMalformedStyleValue)

	_, _, err = ParseFunction("matrix(1, 0; 0)")
	assert.ErrorIs(t, err, ErrMalformedStyleValue)
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber(" 0.25 ")
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), v)

	_, err = ParseNumber("12px")
	assert.ErrorIs(t, err, ErrMalformedStyleValue)

	_, err = ParseNumber("1 2")
	assert.ErrorIs(t, err, ErrMalformedStyleValue)
}

func TestParseLength(t *testing.T) {
	for in, want := range map[string]float32{"12px": 12, "12": 12, "-3.5px": -3.5, "1e1px": 10} {
		v, err := ParseLength(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v, in)
	}

	_, err := ParseLength("2em")
	assert.ErrorIs(t, err, ErrMalformedStyleValue)
}

func TestNumberPrefix(t *testing.T) {
	assert.Equal(t, 3, numberPrefix("1.5px"))
	assert.Equal(t, 4, numberPrefix("-1e2px"))
	assert.Equal(t, 1, numberPrefix("1em"))
}
