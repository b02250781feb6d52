package element

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSizes(t *testing.T) {
	cases := []struct {
		typ  Type
		size int
		tag  int32
		name string
	}{
		{Sphere, 4, 0, "sphere"},
		{BoxSimple, 4, 1, "box-simple"},
		{Box, 6, 2, "box"},
		{RoundBox, 5, 3, "round-box"},
		{Border, 5, 4, "border"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.True(t, c.typ.Valid())
			assert.Equal(t, c.size, c.typ.RecordSize())
			assert.Equal(t, c.size*4, c.typ.Slots())
			assert.Equal(t, c.tag, c.typ.Tag())
			assert.Equal(t, c.name, c.typ.String())

			parsed, err := ParseType(c.name)
			require.NoError(t, err)
			assert.Equal(t, c.typ, parsed)
		})
	}
	assert.Len(t, Types(), len(cases))
}

func TestUnknownType(t *testing.T) {
	bad := Type(9)
	assert.False(t, bad.Valid())
	assert.Zero(t, bad.RecordSize())
	assert.Equal(t, "Type(9)", bad.String())
	assert.False(t, Type(-1).Valid())

	_, err := ParseType("torus")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTailsFitRecords(t *testing.T) {
	params := []Params{
		SphereParams{Radius: 0.1},
		BoxSimpleParams{HalfWidth: 0.1, HalfHeight: 0.2, HalfDepth: 0.3},
		BoxParams{HalfWidth: 0.1, Radii: [4]float32{1, 2, 3, 4}, RadiusType: RadiusChamfer},
		RoundBoxParams{Radius: 0.05},
		BorderParams{Thickness: 0.01, Radius: 0.02},
	}
	for _, p := range params {
		tail := p.AppendTail(nil)
		// 12 basis scalars and the tag precede the tail.
		assert.LessOrEqual(t, 13+len(tail), p.Type().Slots(), p.Type().String())
	}
}

func TestBoxTailLayout(t *testing.T) {
	tail := BoxParams{
		HalfWidth: 0.5, HalfHeight: 0.25, HalfDepth: 0.125,
		Radii:      [4]float32{0.01, 0.02, 0.03, 0.04},
		RadiusType: RadiusRound,
	}.AppendTail(nil)

	require.Len(t, tail, 8)
	assert.Equal(t, float32(0.5), math.Float32frombits(tail[0]))
	assert.Equal(t, float32(0.04), math.Float32frombits(tail[6]))
	assert.Equal(t, uint32(RadiusRound), tail[7])
}

func TestParseRadiusType(t *testing.T) {
	rt, ok := ParseRadiusType("chamfer")
	assert.True(t, ok)
	assert.Equal(t, RadiusChamfer, rt)

	rt, ok = ParseRadiusType("wavy")
	assert.False(t, ok)
	assert.Equal(t, RadiusSharp, rt)
}
