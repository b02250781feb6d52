package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SingularEpsilon is the determinant magnitude below which a 4x4 matrix is treated as non-invertible.
// The bound is absolute, so uniform scales smaller than about 4.6e-4 count as singular.
const SingularEpsilon = 1e-10

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// WordsAsFloat32s reinterprets a slice of 32-bit words as float32 values without copying.
// Every bit pattern survives, including NaN payloads produced by integer tags.
// WARNING: The returned slice shares memory with the input.
//
// Parameters:
//   - words: source words
//
// Returns:
//   - []float32: float view of the same memory, or nil if words is empty
func WordsAsFloat32s(words []uint32) []float32 {
	if len(words) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&words[0])), len(words))
}

// FloatWord returns the IEEE-754 bit pattern of f.
func FloatWord(f float32) uint32 {
	return math.Float32bits(f)
}

// IntWord returns the two's complement bit pattern of i.
func IntWord(i int32) uint32 {
	return uint32(i)
}

// IntBitsToFloat reinterprets the bits of a signed 32-bit integer as a float32.
// The evaluator recovers the integer with floatBitsToInt.
func IntBitsToFloat(i int32) float32 {
	return math.Float32frombits(uint32(i))
}

// FloatBitsToInt is the inverse of IntBitsToFloat.
func FloatBitsToInt(f float32) int32 {
	return int32(math.Float32bits(f))
}

// Invert4 computes the inverse of a 4x4 column-major matrix with the cofactor (adjugate) method,
// sharing the twelve 2x2 sub-determinants b00..b11 between the determinant and the adjugate.
// The inputs are widened to float64 and the result is rounded back to float32.
//
// Parameters:
//   - m: source matrix (column-major)
//   - epsilon: determinant magnitude below which m is treated as singular
//
// Returns:
//   - mgl32.Mat4: the inverse, or the zero matrix if m is singular
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(m mgl32.Mat4, epsilon float64) (mgl32.Mat4, bool) {
	a00, a01, a02, a03 := float64(m[0]), float64(m[1]), float64(m[2]), float64(m[3])
	a10, a11, a12, a13 := float64(m[4]), float64(m[5]), float64(m[6]), float64(m[7])
	a20, a21, a22, a23 := float64(m[8]), float64(m[9]), float64(m[10]), float64(m[11])
	a30, a31, a32, a33 := float64(m[12]), float64(m[13]), float64(m[14]), float64(m[15])

	b00 := a00*a11 - a01*a10
	b01 := a00*a12 - a02*a10
	b02 := a00*a13 - a03*a10
	b03 := a01*a12 - a02*a11
	b04 := a01*a13 - a03*a11
	b05 := a02*a13 - a03*a12
	b06 := a20*a31 - a21*a30
	b07 := a20*a32 - a22*a30
	b08 := a20*a33 - a23*a30
	b09 := a21*a32 - a22*a31
	b10 := a21*a33 - a23*a31
	b11 := a22*a33 - a23*a32

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if math.Abs(det) < epsilon || math.IsNaN(det) {
		return mgl32.Mat4{}, false
	}
	inv := 1.0 / det

	return mgl32.Mat4{
		float32((a11*b11 - a12*b10 + a13*b09) * inv),
		float32((a02*b10 - a01*b11 - a03*b09) * inv),
		float32((a31*b05 - a32*b04 + a33*b03) * inv),
		float32((a22*b04 - a21*b05 - a23*b03) * inv),

		float32((a12*b08 - a10*b11 - a13*b07) * inv),
		float32((a00*b11 - a02*b08 + a03*b07) * inv),
		float32((a32*b02 - a30*b05 - a33*b01) * inv),
		float32((a20*b05 - a22*b02 + a23*b01) * inv),

		float32((a10*b10 - a11*b08 + a13*b06) * inv),
		float32((a01*b08 - a00*b10 - a03*b06) * inv),
		float32((a30*b04 - a31*b02 + a33*b00) * inv),
		float32((a21*b02 - a20*b04 - a23*b00) * inv),

		float32((a11*b07 - a10*b09 - a12*b06) * inv),
		float32((a00*b09 - a01*b07 + a02*b06) * inv),
		float32((a31*b01 - a30*b03 - a32*b00) * inv),
		float32((a20*b03 - a21*b01 + a22*b00) * inv),
	}, true
}
