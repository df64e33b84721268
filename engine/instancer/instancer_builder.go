package instancer

// InstancerBuilderOption is a functional option for configuring an Instancer.
type InstancerBuilderOption func(*instancer)

// WithWorkers sets the maximum number of pool workers. Non-positive values keep the default of 4.
func WithWorkers(n int) InstancerBuilderOption {
	return func(in *instancer) {
		if n > 0 {
			in.workers = n
		}
	}
}

// WithChunkSize sets how many instances one pool task computes. Non-positive values keep the default of 256.
func WithChunkSize(n int) InstancerBuilderOption {
	return func(in *instancer) {
		if n > 0 {
			in.chunkSize = n
		}
	}
}

// WithAnimate sets the function applied to every instance on each Update.
//
// Parameters:
//   - fn: the animate function, called with the accumulated time in seconds
//
// Returns:
//   - InstancerBuilderOption: option function to apply
func WithAnimate(fn AnimateFunc) InstancerBuilderOption {
	return func(in *instancer) {
		in.animate = fn
	}
}
