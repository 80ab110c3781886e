// Package imgfilter provides spatial-domain filtering for single-channel images.
//
// # Overview
//
// imgfilter builds small square kernels and slides them over a grayscale
// image with discrete convolution. Images and kernels share one type, Grid,
// a rectangular array of float64 values stored row-major.
//
// # Quick Start
//
//	import "github.com/gogpu/imgfilter"
//
//	blur, _ := imgfilter.BlurKernel(3)
//	sharpen, _ := imgfilter.SharpenKernel(blur, 2)
//
//	out, err := imgfilter.Convolve(img, sharpen)
//	if err != nil {
//	    return err
//	}
//	out = out.Clip(0, 255) // for display
//
// # Kernels
//
//   - BlurKernel: size×size box filter, every element 1/size², sums to 1
//   - EdgeKernel: 3×3 Laplacian [[0,1,0],[1,-4,1],[0,1,0]], sums to 0
//   - SharpenKernel: unsharp mask I + f·(I − blur), sums to 1 for a normalized blur
//   - IdentityKernel: 1 at the center, 0 elsewhere
//
// # Convolution
//
// Convolve computes, for every output position (y, x),
//
//	O[y,x] = Σ K[i,j] · I[y+i−kh/2, x+j−kw/2]
//
// in a float64 accumulator. The output has the shape of the input and is not
// clamped. Kernel dimensions must be odd so a center cell exists.
//
// Reads that fall outside the image are resolved by a Boundary policy.
// The default, BoundaryReflect, repeats the edge sample (d c b a | a b c d),
// which is the convention of most image filter libraries.
//
// # Concurrency
//
// Every function in this package is pure: inputs are never modified and each
// call allocates a fresh result. Calls may run in parallel without locking.
// WithWorkers splits a single Convolve call across row bands.
//
// # Errors
//
// Invalid arguments are reported as errors wrapping ErrInvalidArgument.
// No partial result is ever returned.
package imgfilter

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
