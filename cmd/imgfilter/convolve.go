package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/imgfilter"
	"github.com/gogpu/imgfilter/internal/imageio"
)

func newConvolveCmd() *cobra.Command {
	var (
		in        string
		out       string
		kernel    string
		size      int
		sharpness float64
		boundary  string
		cval      float64
		flip      bool
		workers   int
		maxSide   int
	)

	cmd := &cobra.Command{
		Use:   "convolve",
		Short: "Convolve one image with a kernel",
		Long: `Convolve a grayscale copy of --in with the selected kernel and write the
result to --out. Output values are clamped to 0..255; the format follows the
extension (.jpg/.jpeg for JPEG, PNG otherwise).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := buildKernel(kernel, size, sharpness)
			if err != nil {
				return err
			}
			mode, err := imgfilter.ParseBoundary(boundary)
			if err != nil {
				return err
			}

			img, err := imageio.LoadGray(cmd.Context(), &http.Client{Timeout: fetchTimeout}, in, maxSide)
			if err != nil {
				return err
			}

			opts := []imgfilter.Option{
				imgfilter.WithBoundary(mode),
				imgfilter.WithConstant(cval),
				imgfilter.WithWorkers(workers),
			}
			if flip {
				opts = append(opts, imgfilter.WithFlip())
			}

			start := time.Now()
			result, err := imgfilter.Convolve(img, k, opts...)
			if err != nil {
				return err
			}
			if err := imageio.SaveImage(out, imageio.ToImage(result)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d %s kernel, %s boundary, %s\n",
				out, result.Width(), result.Height(), kernel, mode, time.Since(start).Round(time.Microsecond))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in, "in", "i", "", "input image path or URL")
	f.StringVarP(&out, "out", "o", "", "output image path")
	f.StringVarP(&kernel, "kernel", "k", "blur", "kernel: blur, edge, sharpen, identity")
	f.IntVar(&size, "size", imgfilter.DefaultBlurSize, "kernel side length")
	f.Float64Var(&sharpness, "sharpness", imgfilter.DefaultSharpness, "sharpening factor")
	f.StringVar(&boundary, "boundary", "reflect", "boundary mode: reflect, mirror, nearest, wrap, constant")
	f.Float64Var(&cval, "cval", 0, "fill value for the constant boundary mode")
	f.BoolVar(&flip, "flip", false, "rotate the kernel 180 degrees (true convolution)")
	f.IntVarP(&workers, "workers", "w", 0, "row-band workers (0 or 1 runs serially)")
	f.IntVar(&maxSide, "max-side", 0, "downscale so neither side exceeds this (0 keeps full size)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
