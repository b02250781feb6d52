package packer

// PackerBuilderOption is a functional option for configuring a Packer.
// Use the With* functions to create options.
type PackerBuilderOption func(p *packer)

// WithCapacity sets the buffer capacity in vec4 record units. Values below 1 are ignored.
//
// Parameters:
//   - capacity: the capacity of both buffers
//
// Returns:
//   - PackerBuilderOption: option function to apply
func WithCapacity(capacity int) PackerBuilderOption {
	return func(p *packer) {
		if capacity > 0 {
			p.capacity = capacity
		}
	}
}

// WithFallbackColor sets the packed colour used when a colour value is malformed or missing.
//
// Parameters:
//   - word: the packed RGBA word
//
// Returns:
//   - PackerBuilderOption: option function to apply
func WithFallbackColor(word uint32) PackerBuilderOption {
	return func(p *packer) {
		p.fallback = word
	}
}

// WithMaterial sets the shading coefficients used when a shape does not set them.
//
// Parameters:
//   - m: the default material
//
// Returns:
//   - PackerBuilderOption: option function to apply
func WithMaterial(m Material) PackerBuilderOption {
	return func(p *packer) {
		p.material = m
	}
}

// WithSingularEpsilon sets the determinant magnitude below which a transform is treated as singular.
// Non-positive values are ignored.
//
// Parameters:
//   - epsilon: the singularity threshold
//
// Returns:
//   - PackerBuilderOption: option function to apply
func WithSingularEpsilon(epsilon float64) PackerBuilderOption {
	return func(p *packer) {
		if epsilon > 0 {
			p.epsilon = epsilon
		}
	}
}
