package imgfilter

// Option configures a Convolve call.
// Use functional options to customize boundary handling and execution.
//
// Example:
//
//	// Default: reflect at the edges, single goroutine
//	out, err := imgfilter.Convolve(img, kernel)
//
//	// Zero padding, four row bands in parallel
//	out, err := imgfilter.Convolve(img, kernel,
//	    imgfilter.WithBoundary(imgfilter.BoundaryConstant),
//	    imgfilter.WithWorkers(4))
type Option func(*convolveOptions)

// convolveOptions holds optional configuration for Convolve.
type convolveOptions struct {
	boundary Boundary
	constant float64
	flip     bool
	workers  int
}

// defaultOptions returns the default convolution options.
func defaultOptions() convolveOptions {
	return convolveOptions{
		boundary: BoundaryReflect,
		constant: 0,
		flip:     false,
		workers:  1,
	}
}

// WithBoundary sets the policy for reads outside the image.
// The default is BoundaryReflect.
func WithBoundary(b Boundary) Option {
	return func(o *convolveOptions) {
		o.boundary = b
	}
}

// WithConstant sets the padding value used by BoundaryConstant.
// The default is 0.
func WithConstant(v float64) Option {
	return func(o *convolveOptions) {
		o.constant = v
	}
}

// WithFlip rotates the kernel by 180 degrees before applying it, turning the
// correlation-style sum into true convolution. Symmetric kernels (all kernels
// built by this package) give the same result either way.
func WithFlip() Option {
	return func(o *convolveOptions) {
		o.flip = true
	}
}

// WithWorkers splits output rows into bands processed by n goroutines.
// Values <= 1 run on the calling goroutine. The result is identical to
// serial execution.
func WithWorkers(n int) Option {
	return func(o *convolveOptions) {
		o.workers = n
	}
}
