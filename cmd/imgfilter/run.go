package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/imgfilter/montage"
	"github.com/gogpu/imgfilter/pipeline"
)

const fetchTimeout = time.Minute

func newRunCmd() *cobra.Command {
	var (
		configPath string
		source     string
		outDir     string
		boundary   string
		workers    int
		writeCfg   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the blur, edge detection and sharpening tasks",
		Long: `Load the source image as grayscale, run every enabled task and write
one montage PNG per task into the output directory.

Settings come from the YAML config file (defaults when it does not exist);
flags override individual fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := pipeline.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("source") {
				cfg.Source = source
			}
			if flags.Changed("out") {
				cfg.OutputDir = outDir
			}
			if flags.Changed("boundary") {
				cfg.Boundary = boundary
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}

			if writeCfg {
				if err := cfg.Save(configPath); err != nil {
					return err
				}
			}

			sink := &montage.FileSink{Dir: cfg.OutputDir, Options: cfg.Display.MontageOptions()}
			runner, err := pipeline.NewRunner(cfg, sink)
			if err != nil {
				return err
			}

			img, err := runner.Load(cmd.Context(), &http.Client{Timeout: fetchTimeout})
			if err != nil {
				return err
			}

			report, err := runner.Run(cmd.Context(), img)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s: %dx%d image, %d tasks in %s\n",
				report.RunID, report.Width, report.Height, len(report.Tasks), report.Duration.Round(time.Millisecond))
			for _, task := range report.Tasks {
				fmt.Fprintf(out, "  %-24s %s -> %s\n", task.Title, strings.Join(task.Labels, ", "), sink.Path(task.Title))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "imgfilter.yaml", "YAML config file")
	f.StringVarP(&source, "source", "s", pipeline.DefaultSource, "image URL or file path")
	f.StringVarP(&outDir, "out", "o", "out", "directory for montage PNGs")
	f.StringVar(&boundary, "boundary", "reflect", "boundary mode: reflect, mirror, nearest, wrap, constant")
	f.IntVarP(&workers, "workers", "w", 0, "row-band workers per convolution (0 or 1 runs serially)")
	f.BoolVar(&writeCfg, "write-config", false, "save the effective config to --config before running")
	return cmd
}
