// Package pipeline runs the three classic filtering tasks (box blur, Laplacian
// edge detection, unsharp-mask sharpening) over one grayscale image and hands
// each task's panels to a display sink.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/imgfilter"
	"github.com/gogpu/imgfilter/internal/imageio"
	"github.com/gogpu/imgfilter/montage"
)

// Task titles, also used by FileSink to name output files.
const (
	TitleOriginal = "Original Grayscale"
	TitleBlur     = "Task 1 - Blurring"
	TitleEdge     = "Task 2 - Edge Detection"
	TitleSharpen  = "Task 3 - Sharpening"
)

// LabelOriginal captions the unfiltered image in every task.
const LabelOriginal = "original"

// TaskResult summarizes one executed task.
type TaskResult struct {
	Title    string
	Labels   []string
	Duration time.Duration
}

// Report summarizes a pipeline run. Tasks appear in the order
// original, blur, edge, sharpen, skipping disabled ones.
type Report struct {
	RunID    string
	Height   int
	Width    int
	Tasks    []TaskResult
	Duration time.Duration
}

// Runner executes the configured tasks.
type Runner struct {
	cfg     Config
	sink    montage.Sink
	opts    []imgfilter.Option
	printer *message.Printer
}

// NewRunner validates cfg and returns a runner that sends panels to sink.
func NewRunner(cfg *Config, sink montage.Sink) (*Runner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if sink == nil {
		return nil, fmt.Errorf("pipeline: nil sink")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: invalid config: %w", err)
	}

	opts := []imgfilter.Option{imgfilter.WithBoundary(cfg.boundary())}
	if cfg.Workers > 1 {
		opts = append(opts, imgfilter.WithWorkers(cfg.Workers))
	}

	return &Runner{
		cfg:     *cfg,
		sink:    sink,
		opts:    opts,
		printer: message.NewPrinter(language.English),
	}, nil
}

// Load reads the configured source into a grayscale grid.
func (r *Runner) Load(ctx context.Context, client *http.Client) (*imgfilter.Grid, error) {
	img, err := imageio.LoadGray(ctx, client, r.cfg.Source, r.cfg.MaxSide)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load %s: %w", r.cfg.Source, err)
	}
	return img, nil
}

// task produces the panels for one title.
type task struct {
	title string
	run   func(ctx context.Context, img *imgfilter.Grid) ([]montage.Panel, error)
}

// Run executes every enabled task concurrently on img. The first failure
// cancels the remaining tasks and is returned.
func (r *Runner) Run(ctx context.Context, img *imgfilter.Grid) (*Report, error) {
	if img.IsEmpty() {
		return nil, fmt.Errorf("pipeline: %w: image is empty", imgfilter.ErrInvalidArgument)
	}

	runID := uuid.NewString()
	log := imgfilter.Logger().With("run_id", runID)
	start := time.Now()

	tasks := r.tasks()
	results := make([]TaskResult, len(tasks))

	log.Info("pipeline: run started",
		"height", img.Height(), "width", img.Width(),
		"tasks", len(tasks), "boundary", r.cfg.Boundary)

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		g.Go(func() error {
			taskStart := time.Now()

			panels, err := t.run(gctx, img)
			if err != nil {
				return fmt.Errorf("pipeline: %s: %w", t.title, err)
			}
			if err := r.sink.Show(gctx, t.title, panels); err != nil {
				return fmt.Errorf("pipeline: %s: display: %w", t.title, err)
			}

			labels := make([]string, len(panels))
			for j, p := range panels {
				labels[j] = p.Label
			}
			results[i] = TaskResult{Title: t.title, Labels: labels, Duration: time.Since(taskStart)}

			log.Debug("pipeline: task finished",
				"task", t.title, "panels", len(panels), "duration", results[i].Duration)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn("pipeline: run failed", "error", err)
		return nil, err
	}

	report := &Report{
		RunID:    runID,
		Height:   img.Height(),
		Width:    img.Width(),
		Tasks:    results,
		Duration: time.Since(start),
	}
	log.Info("pipeline: run finished", slog.Duration("duration", report.Duration))
	return report, nil
}

// tasks lists the enabled tasks in display order.
func (r *Runner) tasks() []task {
	tasks := []task{{title: TitleOriginal, run: r.original}}
	if r.cfg.Blur.Enabled {
		tasks = append(tasks, task{title: TitleBlur, run: r.blur})
	}
	if r.cfg.Edge.Enabled {
		tasks = append(tasks, task{title: TitleEdge, run: r.edge})
	}
	if r.cfg.Sharpen.Enabled {
		tasks = append(tasks, task{title: TitleSharpen, run: r.sharpen})
	}
	return tasks
}

func (r *Runner) original(_ context.Context, img *imgfilter.Grid) ([]montage.Panel, error) {
	return []montage.Panel{{Grid: img, Label: TitleOriginal}}, nil
}

func (r *Runner) blur(ctx context.Context, img *imgfilter.Grid) ([]montage.Panel, error) {
	panels := []montage.Panel{{Grid: img, Label: LabelOriginal}}
	for _, size := range r.cfg.Blur.Sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		kernel, err := imgfilter.BlurKernel(size)
		if err != nil {
			return nil, err
		}
		out, err := imgfilter.Convolve(img, kernel, r.opts...)
		if err != nil {
			return nil, err
		}
		panels = append(panels, montage.Panel{Grid: out, Label: r.BlurLabel(size)})
	}
	return panels, nil
}

func (r *Runner) edge(ctx context.Context, img *imgfilter.Grid) ([]montage.Panel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := EdgeDetect(img, r.opts...)
	if err != nil {
		return nil, err
	}
	return []montage.Panel{
		{Grid: img, Label: LabelOriginal},
		{Grid: out, Label: "Edge Detection"},
	}, nil
}

func (r *Runner) sharpen(ctx context.Context, img *imgfilter.Grid) ([]montage.Panel, error) {
	blur, err := imgfilter.BlurKernel(r.cfg.Sharpen.BlurSize)
	if err != nil {
		return nil, err
	}

	panels := []montage.Panel{{Grid: img, Label: LabelOriginal}}
	for _, factor := range r.cfg.Sharpen.Factors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		kernel, err := imgfilter.SharpenKernel(blur, factor)
		if err != nil {
			return nil, err
		}
		out, err := imgfilter.Convolve(img, kernel, r.opts...)
		if err != nil {
			return nil, err
		}
		if r.cfg.Sharpen.Clip {
			out = out.Clip(0, 255)
		}
		panels = append(panels, montage.Panel{Grid: out, Label: r.SharpenLabel(factor)})
	}
	return panels, nil
}

// BlurLabel captions a blurred panel, e.g. "3X3 Kernel".
func (r *Runner) BlurLabel(size int) string {
	return r.printer.Sprintf("%dX%d Kernel", size, size)
}

// SharpenLabel captions a sharpened panel, e.g. "Sharpened Image (Factor 2)".
func (r *Runner) SharpenLabel(factor float64) string {
	return r.printer.Sprintf("Sharpened Image (Factor %s)", strconv.FormatFloat(factor, 'g', -1, 64))
}

// EdgeDetect convolves img with the Laplacian edge kernel.
func EdgeDetect(img *imgfilter.Grid, opts ...imgfilter.Option) (*imgfilter.Grid, error) {
	return imgfilter.Convolve(img, imgfilter.EdgeKernel(), opts...)
}
