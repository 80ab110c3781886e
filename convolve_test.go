package imgfilter

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const convTol = 1e-9

// constantGrid creates an h×w grid filled with v.
func constantGrid(t *testing.T, h, w int, v float64) *Grid {
	t.Helper()
	g, err := NewGrid(h, w)
	if err != nil {
		t.Fatal(err)
	}
	g.Fill(v)
	return g
}

// patternGrid creates a deterministic non-uniform test image.
func patternGrid(t *testing.T, h, w int) *Grid {
	t.Helper()
	g, err := NewGrid(h, w)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(y, x, 128+100*math.Sin(float64(3*x+7*y)*0.37))
		}
	}
	return g
}

func mustGrid(t *testing.T, rows [][]float64) *Grid {
	t.Helper()
	g, err := GridFromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestConvolveBlurOnConstantExample(t *testing.T) {
	img := mustGrid(t, [][]float64{{10, 10, 10}, {10, 10, 10}, {10, 10, 10}})
	blur, _ := BlurKernel(3)

	out, err := Convolve(img, blur)
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}

	want := [][]float64{{10, 10, 10}, {10, 10, 10}, {10, 10, 10}}
	if diff := cmp.Diff(want, out.Rows(), cmpopts.EquateApprox(0, convTol)); diff != "" {
		t.Errorf("Convolve(tens, blur3) mismatch (-want +got):\n%s", diff)
	}
}

func TestConvolveEdgeOnConstantIsZero(t *testing.T) {
	for _, mode := range Boundaries() {
		img := constantGrid(t, 6, 9, 173)
		out, err := Convolve(img, EdgeKernel(), WithBoundary(mode), WithConstant(173))
		if err != nil {
			t.Fatalf("Convolve(%v) error = %v", mode, err)
		}
		for y := 0; y < out.Height(); y++ {
			for x, v := range out.Row(y) {
				if v != 0 {
					t.Errorf("%v: edge response at (%d,%d) = %v, want 0", mode, y, x, v)
				}
			}
		}
	}
}

func TestConvolveUnitBlurIsIdentity(t *testing.T) {
	img := patternGrid(t, 7, 5)
	unit, _ := BlurKernel(1)

	out, err := Convolve(img, unit)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(img) {
		t.Error("Convolve(img, [[1]]) should return the image unchanged")
	}
	if out == img {
		t.Error("Convolve should return a new grid")
	}
}

func TestConvolvePreservesShape(t *testing.T) {
	blur9, _ := BlurKernel(9)
	rect := mustGrid(t, [][]float64{{1, 2, 1}})
	shapes := [][2]int{{1, 1}, {1, 7}, {7, 1}, {3, 3}, {4, 10}, {16, 9}}

	for _, shape := range shapes {
		img := patternGrid(t, shape[0], shape[1])
		for _, k := range []*Grid{blur9, EdgeKernel(), rect} {
			out, err := Convolve(img, k)
			if err != nil {
				t.Fatalf("Convolve(%v) error = %v", shape, err)
			}
			if !out.SameShape(img) {
				t.Errorf("Convolve(%dx%d, %dx%d kernel) shape = %dx%d",
					shape[0], shape[1], k.Height(), k.Width(), out.Height(), out.Width())
			}
		}
	}
}

func TestConvolveBrightnessPreservation(t *testing.T) {
	blur3, _ := BlurKernel(3)
	blur7, _ := BlurKernel(7)
	sharpen, _ := SharpenKernel(blur3, 8)
	kernels := map[string]*Grid{"blur3": blur3, "blur7": blur7, "sharpen8": sharpen}

	const value = 42.5
	for name, k := range kernels {
		for _, mode := range Boundaries() {
			// Kernel wider than the image exercises repeated boundary folding.
			img := constantGrid(t, 4, 3, value)
			out, err := Convolve(img, k, WithBoundary(mode), WithConstant(value))
			if err != nil {
				t.Fatal(err)
			}
			for y := 0; y < out.Height(); y++ {
				for x, v := range out.Row(y) {
					if math.Abs(v-value) > 1e-9 {
						t.Errorf("%s/%v: (%d,%d) = %v, want %v", name, mode, y, x, v, value)
					}
				}
			}
		}
	}
}

func TestConvolveBoundaryModes(t *testing.T) {
	img := mustGrid(t, [][]float64{{1, 2, 3, 4}})
	left := mustGrid(t, [][]float64{{1, 0, 0}})  // O[x] = I[x-1]
	right := mustGrid(t, [][]float64{{0, 0, 1}}) // O[x] = I[x+1]

	tests := []struct {
		mode      Boundary
		wantLeft  []float64
		wantRight []float64
	}{
		{BoundaryReflect, []float64{1, 1, 2, 3}, []float64{2, 3, 4, 4}},
		{BoundaryMirror, []float64{2, 1, 2, 3}, []float64{2, 3, 4, 3}},
		{BoundaryNearest, []float64{1, 1, 2, 3}, []float64{2, 3, 4, 4}},
		{BoundaryWrap, []float64{4, 1, 2, 3}, []float64{2, 3, 4, 1}},
		{BoundaryConstant, []float64{9, 1, 2, 3}, []float64{2, 3, 4, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			opts := []Option{WithBoundary(tt.mode), WithConstant(9)}

			out, err := Convolve(img, left, opts...)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.wantLeft, out.Row(0)); diff != "" {
				t.Errorf("shift right mismatch (-want +got):\n%s", diff)
			}

			out, err = Convolve(img, right, opts...)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.wantRight, out.Row(0)); diff != "" {
				t.Errorf("shift left mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvolveDefaultBoundaryIsReflect(t *testing.T) {
	img := patternGrid(t, 5, 6)
	blur, _ := BlurKernel(5)

	def, _ := Convolve(img, blur)
	reflect, _ := Convolve(img, blur, WithBoundary(BoundaryReflect))
	if !def.Equal(reflect) {
		t.Error("default boundary should be reflect")
	}
}

func TestConvolveLaplacianImpulse(t *testing.T) {
	img := constantGrid(t, 5, 5, 0)
	img.Set(2, 2, 1)

	out, err := Convolve(img, EdgeKernel(), WithBoundary(BoundaryConstant))
	if err != nil {
		t.Fatal(err)
	}

	want := [][]float64{
		{0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 1, -4, 1, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0},
	}
	if diff := cmp.Diff(want, out.Rows()); diff != "" {
		t.Errorf("Laplacian impulse response mismatch (-want +got):\n%s", diff)
	}
}

func TestConvolveCorrelationOrientation(t *testing.T) {
	// An asymmetric kernel distinguishes correlation from true convolution.
	img := constantGrid(t, 3, 3, 0)
	img.Set(1, 1, 1)
	k := mustGrid(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	corr, err := Convolve(img, k, WithBoundary(BoundaryConstant))
	if err != nil {
		t.Fatal(err)
	}
	// Correlating an impulse yields the kernel rotated by 180 degrees.
	if diff := cmp.Diff(k.rotate180().Rows(), corr.Rows()); diff != "" {
		t.Errorf("correlation impulse response mismatch (-want +got):\n%s", diff)
	}

	conv, err := Convolve(img, k, WithBoundary(BoundaryConstant), WithFlip())
	if err != nil {
		t.Fatal(err)
	}
	// True convolution of an impulse reproduces the kernel.
	if diff := cmp.Diff(k.Rows(), conv.Rows()); diff != "" {
		t.Errorf("convolution impulse response mismatch (-want +got):\n%s", diff)
	}
}

func TestConvolveFlipSymmetricKernels(t *testing.T) {
	img := patternGrid(t, 8, 11)
	blur, _ := BlurKernel(5)
	sharpen, _ := SharpenKernel(blur, 2)

	for _, k := range []*Grid{blur, EdgeKernel(), sharpen} {
		a, _ := Convolve(img, k)
		b, _ := Convolve(img, k, WithFlip())
		if !a.Equal(b) {
			t.Errorf("flip changed the result for a symmetric %dx%d kernel", k.Height(), k.Width())
		}
	}
}

func TestConvolveParallelMatchesSerial(t *testing.T) {
	img := patternGrid(t, 37, 23)
	blur, _ := BlurKernel(5)
	sharpen, _ := SharpenKernel(blur, 5)

	for _, k := range []*Grid{blur, EdgeKernel(), sharpen} {
		serial, err := Convolve(img, k)
		if err != nil {
			t.Fatal(err)
		}
		for _, workers := range []int{2, 3, 8, 64} {
			got, err := Convolve(img, k, WithWorkers(workers))
			if err != nil {
				t.Fatalf("Convolve(workers=%d) error = %v", workers, err)
			}
			if !got.Equal(serial) {
				t.Errorf("Convolve(workers=%d) differs from serial result", workers)
			}
		}
	}
}

func TestConvolveDoesNotModifyInputs(t *testing.T) {
	img := patternGrid(t, 6, 6)
	imgBefore := img.Clone()
	kernel := mustGrid(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	kernelBefore := kernel.Clone()

	if _, err := Convolve(img, kernel, WithFlip(), WithWorkers(3)); err != nil {
		t.Fatal(err)
	}
	if !img.Equal(imgBefore) {
		t.Error("Convolve modified the image")
	}
	if !kernel.Equal(kernelBefore) {
		t.Error("Convolve modified the kernel")
	}
}

func TestConvolveNoClamping(t *testing.T) {
	img := mustGrid(t, [][]float64{{0, 255, 0}})
	sharpen, _ := SharpenKernel(mustGrid(t, [][]float64{{0, 0, 0}, {1.0 / 3, 1.0 / 3, 1.0 / 3}, {0, 0, 0}}), 5)

	out, err := Convolve(img, sharpen, WithBoundary(BoundaryConstant))
	if err != nil {
		t.Fatal(err)
	}
	if out.At(0, 1) <= 255 {
		t.Errorf("center = %v, want overshoot above 255", out.At(0, 1))
	}
	if out.At(0, 0) >= 0 {
		t.Errorf("left = %v, want undershoot below 0", out.At(0, 0))
	}
}

func TestConvolveInvalidArguments(t *testing.T) {
	img := constantGrid(t, 3, 3, 1)
	blur3, _ := BlurKernel(3)
	blur4, _ := BlurKernel(4)
	tall := mustGrid(t, [][]float64{{1}, {1}})

	tests := []struct {
		name   string
		img    *Grid
		kernel *Grid
		opts   []Option
	}{
		{"nil image", nil, blur3, nil},
		{"empty image", &Grid{}, blur3, nil},
		{"nil kernel", img, nil, nil},
		{"empty kernel", img, &Grid{}, nil},
		{"even kernel", img, blur4, nil},
		{"even height", img, tall, nil},
		{"unknown boundary", img, blur3, []Option{WithBoundary(Boundary(99))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Convolve(tt.img, tt.kernel, tt.opts...)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Convolve() error = %v, want ErrInvalidArgument", err)
			}
			if out != nil {
				t.Error("Convolve() returned a partial result on error")
			}
		})
	}
}

func BenchmarkConvolve(b *testing.B) {
	img, _ := NewGrid(512, 512)
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			img.Set(y, x, float64((x*y)%256))
		}
	}
	blur, _ := BlurKernel(9)

	b.Run("serial", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_, _ = Convolve(img, blur)
		}
	})
	b.Run("parallel", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_, _ = Convolve(img, blur, WithWorkers(8))
		}
	})
}
