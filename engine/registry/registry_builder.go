package registry

// RegistryBuilderOption is a functional option for configuring a Registry.
// Use the With* functions to create options.
type RegistryBuilderOption func(r *registry)

// WithCapacity sets the buffer capacity in vec4 record units. Values below 1 are ignored.
//
// Parameters:
//   - capacity: the maximum summed record size
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithCapacity(capacity int) RegistryBuilderOption {
	return func(r *registry) {
		if capacity > 0 {
			r.capacity = capacity
		}
	}
}

// WithLayerCount sets the number of layers that layer indices are validated against. Values below 1 are ignored.
//
// Parameters:
//   - n: the layer count
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithLayerCount(n int) RegistryBuilderOption {
	return func(r *registry) {
		if n > 0 {
			r.layerCount = n
		}
	}
}

// WithChangeCallback registers a mutation listener at construction time.
//
// Parameters:
//   - cb: the callback to invoke after every mutation
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithChangeCallback(cb ChangeCallback) RegistryBuilderOption {
	return func(r *registry) {
		if cb != nil {
			r.callbacks = append(r.callbacks, cb)
		}
	}
}
