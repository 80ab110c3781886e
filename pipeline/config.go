package pipeline

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/imgfilter"
	"github.com/gogpu/imgfilter/montage"
)

// DefaultSource is the sample photograph used when no source is configured.
const DefaultSource = "https://user-images.githubusercontent.com/11435359/147738734-196fd92f-9260-48d5-ba7e-bf103d29364d.jpg"

// Config holds the pipeline configuration.
type Config struct {
	// Source is an image path or http(s) URL.
	Source string `yaml:"source"`

	// OutputDir receives one PNG per task.
	OutputDir string `yaml:"output_dir"`

	// Boundary is the convolution boundary mode: reflect, mirror, nearest, wrap or constant.
	Boundary string `yaml:"boundary"`

	// Workers is the number of row bands per convolution (0 or 1 = serial).
	Workers int `yaml:"workers"`

	// MaxSide downscales the input so its longer side fits (0 = keep size).
	MaxSide int `yaml:"max_side"`

	Blur    BlurConfig    `yaml:"blur"`
	Edge    EdgeConfig    `yaml:"edge"`
	Sharpen SharpenConfig `yaml:"sharpen"`
	Display DisplayConfig `yaml:"display"`
}

// BlurConfig configures the box blur task.
type BlurConfig struct {
	Enabled bool  `yaml:"enabled"`
	Sizes   []int `yaml:"sizes"` // odd kernel sizes
}

// EdgeConfig configures the Laplacian edge task.
type EdgeConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SharpenConfig configures the unsharp mask task.
type SharpenConfig struct {
	Enabled  bool      `yaml:"enabled"`
	BlurSize int       `yaml:"blur_size"`
	Factors  []float64 `yaml:"factors"`
	Clip     bool      `yaml:"clip"` // clamp results to [0, 255]
}

// DisplayConfig configures the panel montage.
type DisplayConfig struct {
	PanelHeight int     `yaml:"panel_height"`
	FontSize    float64 `yaml:"font_size"`
	Scaling     string  `yaml:"scaling"` // auto or clip
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source:    DefaultSource,
		OutputDir: "out",
		Boundary:  imgfilter.BoundaryReflect.String(),
		Workers:   0,
		MaxSide:   1024,
		Blur: BlurConfig{
			Enabled: true,
			Sizes:   []int{3, 5, 9},
		},
		Edge: EdgeConfig{
			Enabled: true,
		},
		Sharpen: SharpenConfig{
			Enabled:  true,
			BlurSize: imgfilter.DefaultBlurSize,
			Factors:  []float64{2, 5, 8},
			Clip:     true,
		},
		Display: DisplayConfig{
			PanelHeight: 0,
			FontSize:    14,
			Scaling:     "auto",
		},
	}
}

// Load loads configuration from a YAML file. Fields missing from the file
// keep their defaults; a missing file yields DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if _, err := imgfilter.ParseBoundary(c.Boundary); err != nil {
		errs = append(errs, fmt.Errorf("boundary: %w", err))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must be >= 0", c.Workers))
	}
	if c.MaxSide < 0 {
		errs = append(errs, fmt.Errorf("max_side %d must be >= 0", c.MaxSide))
	}

	if c.Blur.Enabled {
		if len(c.Blur.Sizes) == 0 {
			errs = append(errs, errors.New("blur.sizes is empty"))
		}
		for _, n := range c.Blur.Sizes {
			if n < 1 || n%2 == 0 {
				errs = append(errs, fmt.Errorf("blur.sizes: %d must be odd and >= 1", n))
			}
		}
	}

	if c.Sharpen.Enabled {
		if n := c.Sharpen.BlurSize; n < 1 || n%2 == 0 {
			errs = append(errs, fmt.Errorf("sharpen.blur_size %d must be odd and >= 1", n))
		}
		if len(c.Sharpen.Factors) == 0 {
			errs = append(errs, errors.New("sharpen.factors is empty"))
		}
		for _, f := range c.Sharpen.Factors {
			if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
				errs = append(errs, fmt.Errorf("sharpen.factors: %v must be finite and >= 0", f))
			}
		}
	}

	if _, err := c.Display.scaling(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// boundary returns the parsed boundary mode. Call after Validate.
func (c *Config) boundary() imgfilter.Boundary {
	b, _ := imgfilter.ParseBoundary(c.Boundary)
	return b
}

func (d DisplayConfig) scaling() (montage.Scaling, error) {
	switch d.Scaling {
	case "", "auto":
		return montage.ScaleAuto, nil
	case "clip":
		return montage.ScaleClip, nil
	default:
		return 0, fmt.Errorf("display.scaling %q must be auto or clip", d.Scaling)
	}
}

// MontageOptions converts the display settings to montage options.
func (d DisplayConfig) MontageOptions() montage.Options {
	opts := montage.DefaultOptions()
	opts.PanelHeight = d.PanelHeight
	if d.FontSize > 0 {
		opts.FontSize = d.FontSize
	}
	if s, err := d.scaling(); err == nil {
		opts.Scaling = s
	}
	return opts
}
