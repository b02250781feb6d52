package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBufferSize overrides the requested size of one binding's buffer.
//
// Parameters:
//   - binding: the binding index
//   - size: the buffer size in bytes
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer size for the binding
func WithBufferSize(binding int, size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.sizes[binding] = size
	}
}
