package imgfilter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Defaults used by the pipeline and the command line tool.
const (
	// DefaultBlurSize is the side length of the default box blur kernel.
	DefaultBlurSize = 3

	// DefaultSharpness is the default unsharp mask factor.
	DefaultSharpness = 1.5
)

// BlurKernel generates a size×size box (averaging) kernel.
// All values are equal: 1/(size*size), so the kernel sums to 1.
//
// Even sizes are accepted. Such kernels have no single center cell, so they
// cannot be passed to Convolve or SharpenKernel.
func BlurKernel(size int) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: blur size %d, must be >= 1", ErrInvalidArgument, size)
	}

	kernel := newGrid(size, size)
	kernel.Fill(1.0 / float64(size*size))
	return kernel, nil
}

// EdgeKernel returns the 3×3 Laplacian stencil [[0,1,0],[1,-4,1],[0,1,0]].
// Its elements sum to exactly 0, so flat regions produce no response.
func EdgeKernel() *Grid {
	return &Grid{m: mat.NewDense(3, 3, []float64{
		0, 1, 0,
		1, -4, 1,
		0, 1, 0,
	})}
}

// IdentityKernel returns a size×size kernel with 1 at the center and 0
// elsewhere. Size must be odd and positive.
func IdentityKernel(size int) (*Grid, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("%w: identity size %d, must be odd and >= 1", ErrInvalidArgument, size)
	}

	kernel := newGrid(size, size)
	c := KernelCenter(size)
	kernel.Set(c, c, 1)
	return kernel, nil
}

// SharpenKernel builds an unsharp mask kernel from a blur kernel:
//
//	I + sharpness·(I − blur)
//
// where I is the identity kernel of the same shape. blur must be square with
// an odd side length, and sharpness must be a finite value >= 0.
//
// If blur sums to 1 the result also sums to 1, so mean brightness is
// preserved. That is not checked here.
func SharpenKernel(blur *Grid, sharpness float64) (*Grid, error) {
	if blur.IsEmpty() {
		return nil, fmt.Errorf("%w: sharpen: blur kernel is empty", ErrInvalidArgument)
	}
	h, w := blur.Shape()
	if h != w {
		return nil, fmt.Errorf("%w: sharpen: blur kernel is %dx%d, must be square", ErrInvalidArgument, h, w)
	}
	if math.IsNaN(sharpness) || math.IsInf(sharpness, 0) || sharpness < 0 {
		return nil, fmt.Errorf("%w: sharpen: sharpness %v, must be finite and >= 0", ErrInvalidArgument, sharpness)
	}

	id, err := IdentityKernel(w)
	if err != nil {
		return nil, fmt.Errorf("sharpen: %w", err)
	}

	var detail mat.Dense
	detail.Sub(id.m, blur.m)
	detail.Scale(sharpness, &detail)

	kernel := newGrid(h, w)
	kernel.m.Add(id.m, &detail)
	return kernel, nil
}

// KernelCenter returns the center index of a kernel of the given size.
func KernelCenter(kernelSize int) int {
	return kernelSize / 2
}
