package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/imgfilter"
)

// kernelNames lists the kernels buildKernel understands.
var kernelNames = []string{"blur", "edge", "sharpen", "identity"}

// buildKernel constructs a named kernel. size is ignored for edge.
func buildKernel(name string, size int, sharpness float64) (*imgfilter.Grid, error) {
	switch name {
	case "blur":
		return imgfilter.BlurKernel(size)
	case "edge":
		return imgfilter.EdgeKernel(), nil
	case "sharpen":
		blur, err := imgfilter.BlurKernel(size)
		if err != nil {
			return nil, err
		}
		return imgfilter.SharpenKernel(blur, sharpness)
	case "identity":
		return imgfilter.IdentityKernel(size)
	default:
		return nil, fmt.Errorf("unknown kernel %q (want one of %v)", name, kernelNames)
	}
}

func newKernelCmd() *cobra.Command {
	var (
		size      int
		sharpness float64
	)

	cmd := &cobra.Command{
		Use:       "kernel {blur|edge|sharpen|identity}",
		Short:     "Print a kernel",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kernelNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			kernel, err := buildKernel(args[0], size, sharpness)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (sum %.6g)\n%s\n", args[0], kernel.Sum(), kernel)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", imgfilter.DefaultBlurSize, "kernel side length")
	cmd.Flags().Float64Var(&sharpness, "sharpness", imgfilter.DefaultSharpness, "sharpening factor")
	return cmd
}
