package imgfilter

import (
	"fmt"

	"github.com/gogpu/imgfilter/internal/parallel"
)

// Convolve applies kernel to img and returns a new grid of the same shape.
//
// Each output element is the correlation-style sum
//
//	O[y,x] = Σ K[i,j] · I[y+i−kh/2, x+j−kw/2]
//
// accumulated in float64. Reads outside img follow the boundary policy
// (BoundaryReflect unless WithBoundary is given). The result is not clamped.
//
// Returns an error wrapping ErrInvalidArgument if img is nil or empty, if
// kernel is nil or empty, if either kernel dimension is even, or if the
// boundary mode is unknown. img and kernel are never modified.
func Convolve(img, kernel *Grid, opts ...Option) (*Grid, error) {
	if img.IsEmpty() {
		return nil, fmt.Errorf("%w: convolve: image is empty", ErrInvalidArgument)
	}
	if kernel.IsEmpty() {
		return nil, fmt.Errorf("%w: convolve: kernel is empty", ErrInvalidArgument)
	}
	kh, kw := kernel.Shape()
	if kh%2 == 0 || kw%2 == 0 {
		return nil, fmt.Errorf("%w: convolve: kernel is %dx%d, dimensions must be odd",
			ErrInvalidArgument, kh, kw)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.boundary.IsValid() {
		return nil, fmt.Errorf("%w: convolve: %v", ErrInvalidArgument, o.boundary)
	}

	k := kernel
	if o.flip {
		k = kernel.rotate180()
	}

	height, width := img.Shape()
	c := &convolver{
		src:      img,
		kernel:   k,
		dst:      newGrid(height, width),
		rows:     o.boundary.indexTable(height, kh),
		cols:     o.boundary.indexTable(width, kw),
		constant: o.constant,
	}

	if o.workers <= 1 || height < 2 {
		c.run(0, height)
		return c.dst, nil
	}

	bands := parallel.SplitRows(height, o.workers)
	pool := parallel.NewWorkerPool(len(bands))
	defer pool.Close()

	work := make([]func(), len(bands))
	for i, band := range bands {
		work[i] = func() { c.run(band.Y0, band.Y1) }
	}
	pool.ExecuteAll(work)

	return c.dst, nil
}

// convolver holds the precomputed state for one Convolve call.
// Row bands write disjoint parts of dst, so run may be called concurrently.
type convolver struct {
	src      *Grid
	kernel   *Grid
	dst      *Grid
	rows     []int // rows[y*kh+i]: source row for tap i at output row y, -1 = constant
	cols     []int // cols[x*kw+j]: source column for tap j at output column x, -1 = constant
	constant float64
}

// run computes output rows [y0, y1).
func (c *convolver) run(y0, y1 int) {
	kh, kw := c.kernel.Shape()

	for y := y0; y < y1; y++ {
		out := c.dst.Row(y)
		srcRows := c.rows[y*kh : (y+1)*kh]

		for x := range out {
			srcCols := c.cols[x*kw : (x+1)*kw]
			var sum float64

			for i, sy := range srcRows {
				taps := c.kernel.Row(i)

				if sy < 0 {
					for _, w := range taps {
						sum += w * c.constant
					}
					continue
				}

				src := c.src.Row(sy)
				for j, w := range taps {
					sx := srcCols[j]
					if sx < 0 {
						sum += w * c.constant
						continue
					}
					sum += w * src[sx]
				}
			}

			out[x] = sum
		}
	}
}
